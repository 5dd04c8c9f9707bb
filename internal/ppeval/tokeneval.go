// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

package ppeval

import (
	"github.com/ifpp/cppif/internal/bigint"
	"github.com/ifpp/cppif/internal/numlex"
)

// evalToken converts a single value-producing token (NUMBER, CHAR,
// WCHAR, NAME, or HASH) into its [bigint.Int] value. Grounded on
// cppexp.c's eval_token.
func (e *Evaluator) evalToken(tok Token) (bigint.Int, bool) {
	switch tok.Kind {
	case TokNumber:
		return e.evalNumber(tok)
	case TokChar, TokWChar:
		return e.evalChar(tok)
	case TokName:
		return e.evalName(tok)
	case TokHash:
		return e.evalAssertion()
	default:
		e.ice("eval_token: token %q is not a value", tokenText(tok))
		return bigint.Int{}, true
	}
}

func (e *Evaluator) evalNumber(tok Token) (bigint.Int, bool) {
	sysMacroP := false
	if e.SysMacroP != nil {
		sysMacroP = e.SysMacroP(tok.Text)
	}
	res := numlex.Parse(tok.Text, numlex.Options{
		Precision:   e.Config.Precision,
		Pedantic:    e.Config.Pedantic,
		C99:         e.Config.C99,
		Traditional: e.Config.Traditional,
		SysMacroP:   sysMacroP,
	})
	for _, d := range res.Diagnostics {
		if e.Sink != nil {
			e.Sink.Report(d)
		}
	}
	if res.Failed() {
		return bigint.Int{}, true
	}
	return res.Value, false
}

func (e *Evaluator) evalChar(tok Token) (bigint.Int, bool) {
	if e.CharConst == nil {
		e.ice("evalChar: no CharConst collaborator configured")
		return bigint.Int{}, true
	}
	value, _, unsigned, err := e.CharConst(tok.Text)
	if err != nil {
		e.errorf("%v", err)
		return bigint.Int{}, true
	}
	v := bigint.Int{Precision: e.Config.Precision, Unsigned: unsigned, Low: uint64(value)}
	if !unsigned && value < 0 {
		v.High = ^uint64(0)
	}
	return v.Trim(), false
}

// evalName resolves a NAME token: the "defined" operator, the C++
// true/false literals, or (failing both) a plain identifier, which
// #if treats as if it expanded to 0.
func (e *Evaluator) evalName(tok Token) (bigint.Int, bool) {
	if tok.Node == nil {
		e.ice("evalName: NAME token with no macro-table node")
		return bigint.Int{}, true
	}
	name := tok.Node.Name

	if name == "defined" {
		return e.parseDefined()
	}

	if e.Config.Cplusplus && (name == "true" || name == "false") {
		if e.Config.Pedantic && (e.Macros == nil || !e.Macros.Defined("__bool_true_false_are_defined")) {
			e.pedwarn("ISO C++ forbids the use of %q without '__bool_true_false_are_defined' defined", name)
		}
		return boolValue(name == "true", e.Config.Precision), false
	}

	if e.Config.WarnUndef && e.skipEval == 0 {
		e.warnf("%q is not defined, evaluates to 0", name)
	}
	return bigint.Int{Precision: e.Config.Precision}, false
}

func (e *Evaluator) evalAssertion() (bigint.Int, bool) {
	if e.TestAssertion == nil {
		return bigint.Int{Precision: e.Config.Precision}, false
	}
	ok, err := e.TestAssertion()
	if err != nil {
		e.errorf("%v", err)
		return bigint.Int{}, true
	}
	return boolValue(ok, e.Config.Precision), false
}
