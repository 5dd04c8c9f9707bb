// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

package ppeval

import "github.com/ifpp/cppif/internal/macrotable"

// OpKind is the closed set of operators (and non-operator punctuation)
// the parser's shift/reduce loop understands. Unlike the original
// cpplib, which reuses the CPP_COMMENT token kind as an error sentinel
// and synthesizes unary +/- as CPP_LAST_CPP_OP+1/+2, OpKind is a proper
// enumeration: see spec.md §9, "Replacing the token-type-abuse trick".
type OpKind int

const (
	opEOF OpKind = iota
	OpNot
	OpGreater
	OpLess
	OpPlus
	OpMinus
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpRShift
	OpLShift
	OpMin // GCC <? extension
	OpMax // GCC >? extension
	OpCompl
	OpAndAnd
	OpOrOr
	OpQuery
	OpColon
	OpComma
	OpOpenParen
	OpCloseParen
	OpEqEq
	OpNotEq
	OpGreaterEq
	OpLessEq
	opUnaryPlus
	opUnaryMinus
	opError
)

// TokenKind classifies a [Token].
type TokenKind int

const (
	// TokOperator covers every OpKind, including EOF and both
	// parentheses.
	TokOperator TokenKind = iota
	TokNumber
	TokChar
	TokWChar
	TokName
	// TokHash is the '#' of a "#ident ..." assertion-test expression.
	TokHash
	// TokOther is any byte that isn't valid in a #if expression at all.
	TokOther
)

// Token is a single preprocessing token as produced by a [TokenSource].
type Token struct {
	Kind TokenKind
	// Op is meaningful when Kind == TokOperator.
	Op OpKind
	// Text is the literal source text for TokNumber, TokChar, and
	// TokWChar tokens.
	Text string
	// Node is the macro-table entry for TokName tokens.
	Node *macrotable.Node
	// Byte is the raw byte value for TokOther tokens, for diagnostics.
	Byte byte
}

// TokenSource produces the lazy sequence of preprocessing tokens the
// parser consumes. It is one of spec.md's external collaborators;
// package tokensource provides a concrete implementation over a string
// of already-lexed expression text.
type TokenSource interface {
	// Next returns the next token. Once the logical end of the
	// directive is reached, Next must keep returning an EOF token.
	Next() (Token, error)
}

// EOFToken is the sentinel token signaling the logical end of the
// expression.
func EOFToken() Token {
	return Token{Kind: TokOperator, Op: opEOF}
}

// InvalidOperatorToken is what a [TokenSource] should return for
// punctuation that looks like an operator but isn't valid in a #if
// expression at all (a bare '=', compound assignments, and the like).
// The parser reports it with the same "token is not valid" diagnostic
// it uses for anything else opError reaches.
func InvalidOperatorToken() Token {
	return Token{Kind: TokOperator, Op: opError}
}
