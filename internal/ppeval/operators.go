// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

package ppeval

import "github.com/ifpp/cppif/internal/bigint"

// arity classifies how a reduction consumes the stack.
type arity int

const (
	// unary operators consume one value (the one already on top of the
	// stack) and produce a new value in the slot below.
	unary arity = iota
	// binary operators consume the value below the operator (the left
	// operand) and the one in the operator's own slot (the right
	// operand, shifted there during the next token's shift step).
	binary
	// other operators (||, &&, ?, :, (, )) have reduction semantics that
	// touch skip_eval bookkeeping and can't be expressed as a pure
	// bigint.Int function of two operands.
	other
)

// flags on an operator.
type opFlags uint8

const (
	noLOperand opFlags = 1 << iota
	leftAssoc
)

type binaryHandler func(lhs, rhs bigint.Int) bigint.Int
type unaryHandler func(v bigint.Int) bigint.Int

// operator is one row of the precedence table: priority, flags, arity,
// and (for UNARY/BINARY rows) the bigint operation the reducer invokes.
// Ported from cppexp.c's `optab`; see spec.md §4.4 for the priority
// table this must match.
type operator struct {
	prio   int
	flags  opFlags
	arity  arity
	unaryH unaryHandler
	binH   binaryHandler
}

func shiftLeftHandler(lhs, rhs bigint.Int) bigint.Int  { return bigint.Shift(true, lhs, rhs) }
func shiftRightHandler(lhs, rhs bigint.Int) bigint.Int { return bigint.Shift(false, lhs, rhs) }

func minMaxHandler(pickMin bool) binaryHandler {
	return func(lhs, rhs bigint.Int) bigint.Int {
		if pickMin {
			return bigint.Min(lhs, rhs)
		}
		return bigint.Max(lhs, rhs)
	}
}

var optab = map[OpKind]operator{
	opEOF:        {prio: 0},
	OpNot:        {prio: 16, flags: noLOperand, arity: unary, unaryH: bigint.Not},
	OpGreater:    {prio: 12, flags: leftAssoc, arity: binary, binH: bigint.Greater},
	OpLess:       {prio: 12, flags: leftAssoc, arity: binary, binH: bigint.Less},
	OpPlus:       {prio: 14, flags: leftAssoc, arity: binary, binH: bigint.Add},
	OpMinus:      {prio: 14, flags: leftAssoc, arity: binary, binH: bigint.Sub},
	OpMul:        {prio: 15, flags: leftAssoc, arity: binary, binH: bigint.Mul},
	OpDiv:        {prio: 15, flags: leftAssoc, arity: binary, binH: nil}, // handled specially: can error
	OpMod:        {prio: 15, flags: leftAssoc, arity: binary, binH: nil}, // handled specially: can error
	OpAnd:        {prio: 9, flags: leftAssoc, arity: binary, binH: bigint.BitAnd},
	OpOr:         {prio: 7, flags: leftAssoc, arity: binary, binH: bigint.BitOr},
	OpXor:        {prio: 8, flags: leftAssoc, arity: binary, binH: bigint.BitXor},
	OpRShift:     {prio: 13, flags: leftAssoc, arity: binary, binH: shiftRightHandler},
	OpLShift:     {prio: 13, flags: leftAssoc, arity: binary, binH: shiftLeftHandler},
	OpMin:        {prio: 10, flags: leftAssoc, arity: binary, binH: minMaxHandler(true)},
	OpMax:        {prio: 10, flags: leftAssoc, arity: binary, binH: minMaxHandler(false)},
	OpCompl:      {prio: 16, flags: noLOperand, arity: unary, unaryH: bigint.Compl},
	OpAndAnd:     {prio: 6, flags: leftAssoc, arity: other},
	OpOrOr:       {prio: 5, flags: leftAssoc, arity: other},
	OpQuery:      {prio: 3, arity: other},
	OpColon:      {prio: 4, flags: leftAssoc, arity: other},
	OpComma:      {prio: 2, flags: leftAssoc, arity: binary, binH: nil}, // handled specially: pedwarn
	OpOpenParen:  {prio: 1, flags: noLOperand, arity: other},
	OpCloseParen: {prio: 0},
	OpEqEq:       {prio: 11, flags: leftAssoc, arity: binary, binH: bigint.Equal},
	OpNotEq:      {prio: 11, flags: leftAssoc, arity: binary, binH: bigint.NotEqual},
	OpGreaterEq:  {prio: 12, flags: leftAssoc, arity: binary, binH: bigint.GreaterEqualOp},
	OpLessEq:     {prio: 12, flags: leftAssoc, arity: binary, binH: bigint.LessEqual},
	opUnaryPlus:  {prio: 16, flags: noLOperand, arity: unary, unaryH: nil}, // handled specially: traditional warning
	opUnaryMinus: {prio: 16, flags: noLOperand, arity: unary, unaryH: bigint.Negate},
}
