// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

// Package targetconfig loads the target configuration object spec.md
// §1 describes: the integer precision and dialect switches that decide
// how an #if expression is evaluated for a particular compilation
// target. Configuration files are JSONC (JSON with comments and
// trailing commas), matching the teacher's own config file format.
package targetconfig

import (
	"fmt"
	"io"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/tailscale/hujson"

	"github.com/ifpp/cppif/internal/ppeval"
)

// Config is the evaluator configuration spec.md §1 names, plus the
// JSON field names this package reads them under.
type Config struct {
	Precision   uint8 `json:"precision"`
	Pedantic    bool  `json:"pedantic"`
	C99         bool  `json:"c99"`
	Cplusplus   bool  `json:"cplusplus"`
	Traditional bool  `json:"traditional"`
	WarnUndef   bool  `json:"warnUndef"`
}

// ToEvalConfig converts c into the subset [ppeval.Evaluator] consults.
func (c Config) ToEvalConfig() ppeval.Config {
	return ppeval.Config{
		Precision:   c.Precision,
		Pedantic:    c.Pedantic,
		C99:         c.C99,
		Cplusplus:   c.Cplusplus,
		Traditional: c.Traditional,
		WarnUndef:   c.WarnUndef,
	}
}

// presets are the named target shorthands; a config document may set
// "target" to one of these instead of (or in addition to) spelling out
// "precision" explicitly.
var presets = map[string]uint8{
	"ilp32": 32, // int, long, pointer all 32-bit (e.g. i386, arm)
	"lp64":  64, // int 32-bit, long/pointer 64-bit (most Unix targets)
	"llp64": 64, // int/long 32-bit, long long/pointer 64-bit (Windows x64)
	"ilp64": 64, // int/long/pointer all 64-bit (rare; some historical Cray/HAL targets)
}

type document struct {
	Target      string `json:"target"`
	Precision   *uint8 `json:"precision"`
	Pedantic    bool   `json:"pedantic"`
	C99         bool   `json:"c99"`
	Cplusplus   bool   `json:"cplusplus"`
	Traditional bool   `json:"traditional"`
	WarnUndef   bool   `json:"warnUndef"`
}

// Load reads a JSONC configuration document from r. If the document
// names a "target" preset, its precision applies unless the document
// also sets "precision" explicitly. Every preset except "ilp32" (32
// bits) selects a 64-bit precision; 128-bit targets (DSPs, some embedded
// toolchains with extended-precision intmax_t) must set "precision"
// directly, since no preset names them.
func Load(r io.Reader) (Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("load target config: %w", err)
	}

	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return Config{}, fmt.Errorf("load target config: %w", err)
	}

	var doc document
	if err := jsonv2.Unmarshal(standardized, &doc, jsonv2.RejectUnknownMembers(true)); err != nil {
		return Config{}, fmt.Errorf("load target config: %w", err)
	}

	cfg := Config{
		Precision:   64,
		Pedantic:    doc.Pedantic,
		C99:         doc.C99,
		Cplusplus:   doc.Cplusplus,
		Traditional: doc.Traditional,
		WarnUndef:   doc.WarnUndef,
	}

	if doc.Target != "" {
		p, ok := presets[doc.Target]
		if !ok {
			return Config{}, fmt.Errorf("load target config: unknown target preset %q", doc.Target)
		}
		cfg.Precision = p
	}
	if doc.Precision != nil {
		cfg.Precision = *doc.Precision
	}
	if cfg.Precision == 0 || cfg.Precision > 128 {
		return Config{}, fmt.Errorf("load target config: precision %d out of range (1..128)", cfg.Precision)
	}

	return cfg, nil
}
