// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

package ppeval

import (
	"github.com/ifpp/cppif/internal/bigint"
	"github.com/ifpp/cppif/internal/macrotable"
)

// expansionDepther is an optional capability a [TokenSource] can
// implement to report how many macro-expansion contexts deep the
// reader currently is. GuardDetect's "defined used inside a macro
// expansion" warning depends on this signal; a TokenSource that
// doesn't implement it is treated as never expanding macros, which is
// the correct behavior for the common case of evaluating literal
// #if text with no macro substitution performed upstream.
type expansionDepther interface {
	ExpansionDepth() int
}

func (e *Evaluator) expansionDepth() int {
	if d, ok := e.Tokens.(expansionDepther); ok {
		return d.ExpansionDepth()
	}
	return 0
}

// parseDefined implements the "defined NAME" / "defined ( NAME )"
// pseudo-operator. Grounded on cppexp.c's parse_defined: operand
// lexing happens with macro expansion suppressed (prevent_expansion),
// and if exactly one name is consumed with no surrounding expansion
// context change, it becomes the sole candidate GuardDetect will keep
// if the rest of the expression shape matches too.
func (e *Evaluator) parseDefined() (bigint.Int, bool) {
	e.preventExpansion++
	depthBefore := e.expansionDepth()

	tok, err := e.Tokens.Next()
	if err != nil {
		e.ice("error reading token after \"defined\": %v", err)
		e.preventExpansion--
		return bigint.Int{}, true
	}

	paren := tok.Kind == TokOperator && tok.Op == OpOpenParen
	if paren {
		tok, err = e.Tokens.Next()
		if err != nil {
			e.ice("error reading token after \"defined (\": %v", err)
			e.preventExpansion--
			return bigint.Int{}, true
		}
	}

	var node *macrotable.Node
	failed := false
	if tok.Kind == TokName && tok.Node != nil {
		node = tok.Node
	} else {
		e.errorf("operator \"defined\" requires an identifier")
		failed = true
	}

	if node != nil && paren {
		closeTok, err := e.Tokens.Next()
		if err != nil {
			e.ice("error reading token after \"defined ( NAME\": %v", err)
			e.preventExpansion--
			return bigint.Int{}, true
		}
		if !(closeTok.Kind == TokOperator && closeTok.Op == OpCloseParen) {
			e.errorf("missing ')' after \"defined\"")
			node = nil
			failed = true
		}
	}

	if node != nil {
		if e.expansionDepth() != depthBefore {
			e.warnf("this use of \"defined\" may not be portable")
		} else {
			e.controllingMacro = node
		}
	}

	e.preventExpansion--

	result := bigint.Int{Precision: e.Config.Precision}
	if node != nil && node.IsMacro() {
		result.Low = 1
	}
	return result, failed
}
