// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

// Package cppif evaluates the constant expression of a C/C++
// preprocessor #if or #elif directive to a boolean truth value,
// matching a configured target's intmax_t/uintmax_t arithmetic, and
// reports whether the expression has the shape of an include guard.
package cppif

import (
	"strings"

	"github.com/ifpp/cppif/internal/diag"
	"github.com/ifpp/cppif/internal/macrotable"
	"github.com/ifpp/cppif/internal/ppeval"
	"github.com/ifpp/cppif/internal/targetconfig"
	"github.com/ifpp/cppif/internal/tokensource"
)

// Config is the target configuration that decides precision and
// dialect for every expression an [Evaluator] evaluates.
type Config = targetconfig.Config

// Result is the outcome of evaluating one #if/#elif expression.
type Result struct {
	// Value is the expression's truth value.
	Value bool
	// ControllingMacro is the name of the macro an "#if !defined(NAME)"
	// shaped expression tests, set only when HasControllingMacro is
	// true.
	ControllingMacro string
	// HasControllingMacro reports whether the expression had the shape
	// GuardDetect looks for: exactly "! defined NAME" (optionally
	// parenthesized), with nothing else in the expression.
	HasControllingMacro bool
}

// Evaluator evaluates #if/#elif expressions against a shared macro
// table: defining or undefining a name persists across calls to
// Evaluate, the way a real preprocessing pass accumulates macro
// definitions while it scans a file.
type Evaluator struct {
	macros *macrotable.Table
	config Config
}

// New returns an Evaluator configured as cfg describes, with an empty
// macro table.
func New(cfg Config) *Evaluator {
	return &Evaluator{
		macros: new(macrotable.Table),
		config: cfg,
	}
}

// Define marks name as a defined object-like macro, so that
// "defined(name)" subsequently evaluates true.
func (e *Evaluator) Define(name string) {
	e.macros.Define(name)
}

// Undef marks name as no longer a defined macro.
func (e *Evaluator) Undef(name string) {
	e.macros.Undef(name)
}

// Defined reports whether name currently denotes a defined macro.
func (e *Evaluator) Defined(name string) bool {
	return e.macros.Defined(name)
}

// Evaluate parses and evaluates the text of a single #if/#elif
// expression. ok is false iff a hard error aborted evaluation; any
// diagnostics produced along the way (including warnings and pedantic
// warnings on expressions that still evaluated successfully) are
// reported to sink, which may be nil to discard them.
func (e *Evaluator) Evaluate(expr string, sink diag.Sink) (Result, bool) {
	scanner := tokensource.NewScanner(strings.NewReader(expr), e.macros)
	ev := ppeval.NewEvaluator(scanner, e.macros, sink, e.config.ToEvalConfig())

	value, ok := ev.Evaluate()
	if !ok {
		return Result{}, false
	}

	res := Result{Value: value}
	if m := ev.ControllingMacro(); m != nil {
		res.ControllingMacro = m.Name
		res.HasControllingMacro = true
	}
	return res, true
}
