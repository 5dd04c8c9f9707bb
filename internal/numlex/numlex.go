// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

// Package numlex converts the text of a preprocessing-number token into
// a [bigint.Int], matching the lexical rules C compilers apply inside
// #if expressions: optional 0x/0 base prefix, a closed set of
// u/l suffixes, and rejection of anything that looks like a
// floating-point constant.
package numlex

import (
	"fmt"

	"github.com/ifpp/cppif/internal/bigint"
	"github.com/ifpp/cppif/internal/diag"
)

// Options configures how a literal's text is interpreted; it mirrors
// the subset of the target configuration object that numeric literal
// lexing depends on.
type Options struct {
	Precision   uint8
	Pedantic    bool
	C99         bool
	Traditional bool
	// SysMacroP reports whether the literal's text originated from a
	// system-header macro, which exempts it from the traditional-C `U`
	// suffix warning.
	SysMacroP bool
}

var suffix1 = map[string]suffixInfo{
	"u": {unsigned: true}, "U": {unsigned: true},
	"l": {longCount: 1}, "L": {longCount: 1},
}

var suffix2 = map[string]suffixInfo{
	"ul": {unsigned: true, longCount: 1}, "UL": {unsigned: true, longCount: 1},
	"uL": {unsigned: true, longCount: 1}, "Ul": {unsigned: true, longCount: 1},
	"lu": {unsigned: true, longCount: 1}, "LU": {unsigned: true, longCount: 1},
	"Lu": {unsigned: true, longCount: 1}, "lU": {unsigned: true, longCount: 1},
	"ll": {longCount: 2}, "LL": {longCount: 2},
}

var suffix3 = map[string]suffixInfo{
	"ull": {unsigned: true, longCount: 2}, "ULL": {unsigned: true, longCount: 2},
	"uLL": {unsigned: true, longCount: 2}, "Ull": {unsigned: true, longCount: 2},
	"llu": {unsigned: true, longCount: 2}, "LLU": {unsigned: true, longCount: 2},
	"LLu": {unsigned: true, longCount: 2}, "llU": {unsigned: true, longCount: 2},
}

type suffixInfo struct {
	unsigned  bool
	longCount int
}

// Result is the outcome of parsing a numeric literal: the value (valid
// only if Diagnostics contains no error-or-worse entry) and every
// diagnostic the literal produced.
type Result struct {
	Value       bigint.Int
	Diagnostics []diag.Diagnostic
}

// Failed reports whether parsing hit a hard error (invalid suffix or a
// floating-point literal), as opposed to only pedantic warnings.
func (r Result) Failed() bool {
	for _, d := range r.Diagnostics {
		if d.Severity >= diag.Error {
			return true
		}
	}
	return false
}

func (r *Result) report(severity diag.Severity, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, diag.Diagnostic{
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
	})
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func hexValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

// Parse converts the text of a preprocessing-number token into a
// [bigint.Int], in the manner of GCC's interpret_number: it scans an
// optional base prefix, accumulates digits (diagnosing any digit at or
// above the base as "beyond the radix"), rejects floating-point shapes,
// and validates the trailing suffix.
func Parse(text string, opts Options) Result {
	var r Result
	value := bigint.Int{Precision: opts.Precision}

	if len(text) == 1 && isDigit(text[0]) {
		value.Low = uint64(text[0] - '0')
		r.Value = value
		return r
	}

	p := 0
	end := len(text)
	base := 10
	if end > 0 && text[0] == '0' {
		if end >= 3 && (text[1] == 'x' || text[1] == 'X') {
			p = 2
			base = 16
		} else {
			p = 1
			base = 8
		}
	}

	precision := uint(opts.Precision)
	max := ^uint64(0)
	if precision < 64 {
		max >>= 64 - precision
	}
	max = (max - 9) / uint64(base)
	max++

	overflow := false
	bigDigit := false
	var c byte
	for ; p < end; p++ {
		c = text[p]
		var digit int
		var ok bool
		if base == 16 {
			digit, ok = hexValue(c)
		} else if isDigit(c) {
			digit, ok = int(c-'0'), true
		}
		if !ok {
			break
		}
		if digit >= base {
			bigDigit = true
		}
		if value.Low < max {
			value.Low = value.Low*uint64(base) + uint64(digit)
		} else {
			value = appendDigit(value, digit, base, precision)
			overflow = overflow || value.Overflow
			max = 0
		}
	}

	if p < end {
		if isFloatShape(c, base, text, p, end) {
			r.report(diag.Error, "floating point numbers are not valid in #if")
			return r
		}

		suffix := text[p:end]
		var info suffixInfo
		var known bool
		switch len(suffix) {
		case 1:
			info, known = suffix1[suffix]
		case 2:
			info, known = suffix2[suffix]
		case 3:
			info, known = suffix3[suffix]
		}
		if !known {
			r.report(diag.Error, "invalid suffix %q on integer constant", suffix)
			return r
		}
		value.Unsigned = info.unsigned

		if opts.Traditional && info.unsigned && !opts.SysMacroP {
			r.report(diag.Warning, "traditional C rejects the `U' suffix")
		}
		if info.longCount == 2 && opts.Pedantic && !opts.C99 {
			r.report(diag.Pedwarn, "too many 'l' suffixes in integer constant")
		}
	}

	if bigDigit {
		r.report(diag.Pedwarn, "integer constant contains digits beyond the radix")
	}
	if overflow {
		r.report(diag.Pedwarn, "integer constant too large for its type")
	} else if !value.Unsigned && !bigint.Positive(value) {
		if base == 10 {
			r.report(diag.Warning, "integer constant is so large that it is unsigned")
		}
		value.Unsigned = true
	}

	r.Value = value
	return r
}

func isFloatShape(c byte, base int, text string, p, end int) bool {
	switch {
	case c == '.' || c == 'F' || c == 'f':
		return true
	case base == 10 && (c == 'E' || c == 'e') && p+1 < end && (text[p+1] == '+' || text[p+1] == '-'):
		return true
	case base == 16 && (c == 'P' || c == 'p') && p+1 < end && (text[p+1] == '+' || text[p+1] == '-'):
		return true
	default:
		return false
	}
}

// appendDigit multiplies num by base and adds digit, tracking overflow
// both at the full two-limb width and, via a trim-and-compare, at the
// target precision. Mirrors GCC's append_digit: multiplying by 8 or 16
// is a left shift; multiplying by 10 is expressed as (num<<3)+(num<<1).
func appendDigit(num bigint.Int, digit, base int, precision uint) bigint.Int {
	shift := uint(3)
	if base == 16 {
		shift = 4
	}

	overflow := num.High>>(64-shift) != 0
	result := bigint.Int{
		High: (num.High << shift) | (num.Low >> (64 - shift)),
		Low:  num.Low << shift,
	}

	var addHigh, addLow uint64
	if base == 10 {
		addLow = num.Low << 1
		addHigh = (num.High << 1) + (num.Low >> 63)
	}

	if addLow+uint64(digit) < addLow {
		addHigh++
	}
	addLow += uint64(digit)

	if result.Low+addLow < result.Low {
		addHigh++
	}
	if result.High+addHigh < result.High {
		overflow = true
	}
	result.Low += addLow
	result.High += addHigh

	untrimmed := result
	result.Precision = num.Precision
	trimmed := result.Trim()
	if trimmed.Low != untrimmed.Low || trimmed.High != untrimmed.High {
		overflow = true
	}

	trimmed.Unsigned = num.Unsigned
	trimmed.Overflow = overflow
	return trimmed
}
