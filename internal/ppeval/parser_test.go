// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

package ppeval

import (
	"testing"

	"github.com/ifpp/cppif/internal/diag"
	"github.com/ifpp/cppif/internal/macrotable"
)

// sliceSource replays a fixed sequence of tokens, returning EOFToken
// forever once exhausted, as TokenSource requires.
type sliceSource struct {
	toks []Token
	pos  int
}

func (s *sliceSource) Next() (Token, error) {
	if s.pos >= len(s.toks) {
		return EOFToken(), nil
	}
	tok := s.toks[s.pos]
	s.pos++
	return tok, nil
}

func number(text string) Token { return Token{Kind: TokNumber, Text: text} }
func opTok(k OpKind) Token     { return Token{Kind: TokOperator, Op: k} }

func newTestEvaluator(toks []Token, sink diag.Sink) *Evaluator {
	return NewEvaluator(&sliceSource{toks: toks}, new(macrotable.Table), sink, Config{Precision: 32})
}

func TestEvaluateBasicArithmetic(t *testing.T) {
	// 2 + 3 * 4
	toks := []Token{number("2"), opTok(OpPlus), number("3"), opTok(OpMul), number("4")}
	sink := &diag.CollectingSink{}
	ev := newTestEvaluator(toks, sink)
	value, ok := ev.Evaluate()
	if !ok {
		t.Fatalf("Evaluate() failed: %v", sink.Diagnostics)
	}
	if !value {
		t.Error("Evaluate(2 + 3 * 4) = false (value 0); want true (value 14)")
	}
}

func TestEvaluateParenthesesOverridePrecedence(t *testing.T) {
	// (2 + 3) * 4 == 20
	toks := []Token{
		opTok(OpOpenParen), number("2"), opTok(OpPlus), number("3"), opTok(OpCloseParen),
		opTok(OpMul), number("4"), opTok(OpEqEq), number("20"),
	}
	sink := &diag.CollectingSink{}
	ev := newTestEvaluator(toks, sink)
	value, ok := ev.Evaluate()
	if !ok {
		t.Fatalf("Evaluate() failed: %v", sink.Diagnostics)
	}
	if !value {
		t.Error("Evaluate((2+3)*4 == 20) = false; want true")
	}
}

func TestEvaluateMissingCloseParenIsHardError(t *testing.T) {
	toks := []Token{opTok(OpOpenParen), number("1"), opTok(OpPlus), number("1")}
	sink := &diag.CollectingSink{}
	ev := newTestEvaluator(toks, sink)
	if _, ok := ev.Evaluate(); ok {
		t.Fatal("Evaluate(\"(1 + 1\") succeeded; want a missing ')' error")
	}
	if !sink.HasSeverity(diag.ICE) && !sink.HasSeverity(diag.Error) {
		t.Errorf("diagnostics = %v; want at least an error or ICE", sink.Diagnostics)
	}
}

func TestEvaluateInvalidOperatorToken(t *testing.T) {
	toks := []Token{number("1"), InvalidOperatorToken(), number("2")}
	sink := &diag.CollectingSink{}
	ev := newTestEvaluator(toks, sink)
	if _, ok := ev.Evaluate(); ok {
		t.Fatal("Evaluate with an invalid-operator token succeeded; want a hard error")
	}
}

func TestEvaluateMissingBinaryOperator(t *testing.T) {
	// "1 2" — two values with nothing between them.
	toks := []Token{number("1"), number("2")}
	sink := &diag.CollectingSink{}
	ev := newTestEvaluator(toks, sink)
	if _, ok := ev.Evaluate(); ok {
		t.Fatal("Evaluate(\"1 2\") succeeded; want a missing-binary-operator error")
	}
}

func TestEvaluateEmptyParensIsHardError(t *testing.T) {
	toks := []Token{opTok(OpOpenParen), opTok(OpCloseParen)}
	sink := &diag.CollectingSink{}
	ev := newTestEvaluator(toks, sink)
	if _, ok := ev.Evaluate(); ok {
		t.Fatal("Evaluate(\"()\") succeeded; want a void-expression error")
	}
}

func TestEvaluateOverflowPedwarn(t *testing.T) {
	// INT_MAX (at 8-bit precision, signed) + 1 overflows.
	toks := []Token{number("127"), opTok(OpPlus), number("1")}
	sink := &diag.CollectingSink{}
	ev := NewEvaluator(&sliceSource{toks: toks}, new(macrotable.Table), sink, Config{Precision: 8, Pedantic: true})
	if _, ok := ev.Evaluate(); !ok {
		t.Fatalf("Evaluate() failed: %v", sink.Diagnostics)
	}
	if !sink.HasSeverity(diag.Pedwarn) {
		t.Errorf("diagnostics = %v; want a pedantic overflow warning", sink.Diagnostics)
	}
}

func TestEvaluateUnaryMinus(t *testing.T) {
	toks := []Token{opTok(OpMinus), number("5"), opTok(OpEqEq), opTok(OpMinus), number("5")}
	sink := &diag.CollectingSink{}
	ev := newTestEvaluator(toks, sink)
	value, ok := ev.Evaluate()
	if !ok {
		t.Fatalf("Evaluate() failed: %v", sink.Diagnostics)
	}
	if !value {
		t.Error("Evaluate(-5 == -5) = false; want true")
	}
}

func TestEvaluateDanglingColon(t *testing.T) {
	toks := []Token{number("1"), opTok(OpColon), number("2")}
	sink := &diag.CollectingSink{}
	ev := newTestEvaluator(toks, sink)
	if _, ok := ev.Evaluate(); ok {
		t.Fatal("Evaluate(\"1 : 2\") succeeded; want a \"':' without preceding '?'\" error")
	}
}

func TestEvaluateDanglingQuery(t *testing.T) {
	toks := []Token{number("1"), opTok(OpQuery), number("2")}
	sink := &diag.CollectingSink{}
	ev := newTestEvaluator(toks, sink)
	if _, ok := ev.Evaluate(); ok {
		t.Fatal("Evaluate(\"1 ? 2\") succeeded; want a \"'?' without following ':'\" error")
	}
}
