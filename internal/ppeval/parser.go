// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

// Package ppeval is the operator-precedence parser that drives a
// preprocessor #if / #elif expression to a boolean truth value. It is
// the direct port of cpplib's _cpp_parse_expr/reduce (see
// original_source/gcc/cppexp.c): a single combined value+operator
// stack, shift/reduce by priority comparison, short-circuit bookkeeping
// performed at shift time and undone at the matching reduction.
package ppeval

import (
	"fmt"

	"github.com/ifpp/cppif/internal/bigint"
	"github.com/ifpp/cppif/internal/charconst"
	"github.com/ifpp/cppif/internal/diag"
	"github.com/ifpp/cppif/internal/macrotable"
)

// Config is the subset of the target configuration object spec.md §1
// names that the parser and its collaborators consult.
type Config struct {
	Precision   uint8
	Pedantic    bool
	C99         bool
	Cplusplus   bool
	Traditional bool
	WarnUndef   bool
}

type stackSlot struct {
	Value bigint.Int
	Op    OpKind
}

// Evaluator holds the per-evaluation state spec.md §3 calls out:
// skip_eval, prevent_expansion, and the controlling-macro candidate, all
// threaded explicitly rather than living on process-global state (see
// spec.md §9, "Global mutable state").
type Evaluator struct {
	Tokens TokenSource
	Macros *macrotable.Table
	Sink   diag.Sink
	Config Config

	// CharConst interprets a CHAR/WCHAR token's text; defaults to
	// package charconst's Interpret.
	CharConst func(text string) (value int64, widthBits int, unsigned bool, err error)
	// TestAssertion evaluates a "#ident(...)" assertion-test expression
	// for a HASH token; defaults to reporting no assertions defined.
	TestAssertion func() (bool, error)
	// SysMacroP reports whether a numeric literal's text originated
	// from a system-header macro, exempting it from the traditional-C
	// `U` suffix warning. Defaults to always false.
	SysMacroP func(literalText string) bool

	stack            []stackSlot
	top              int
	skipEval         int
	preventExpansion int
	lexCount         int
	sawLeadingNot    bool
	controllingMacro *macrotable.Node
}

// NewEvaluator returns an Evaluator reading from tokens, consulting
// macros for "defined" queries, and reporting through sink.
func NewEvaluator(tokens TokenSource, macros *macrotable.Table, sink diag.Sink, config Config) *Evaluator {
	return &Evaluator{
		Tokens: tokens,
		Macros: macros,
		Sink:   sink,
		Config: config,
		CharConst: func(text string) (int64, int, bool, error) {
			r, err := charconst.Interpret(text)
			return r.Value, r.WidthBits, r.Unsigned, err
		},
		TestAssertion: func() (bool, error) { return false, nil },
		SysMacroP:     func(string) bool { return false },
	}
}

// ControllingMacro returns the include-guard candidate GuardDetect
// identified, or nil if the expression's shape didn't match
// "! defined IDENT" followed immediately by end of expression.
func (e *Evaluator) ControllingMacro() *macrotable.Node {
	return e.controllingMacro
}

func (e *Evaluator) growStack() {
	newSize := len(e.stack)*2 + 20
	grown := make([]stackSlot, newSize)
	copy(grown, e.stack)
	e.stack = grown
}

func (e *Evaluator) report(severity diag.Severity, format string, args ...any) {
	if e.Sink == nil {
		return
	}
	diag.Emit(e.Sink, severity, format, args...)
}

func (e *Evaluator) errorf(format string, args ...any)  { e.report(diag.Error, format, args...) }
func (e *Evaluator) warnf(format string, args ...any)   { e.report(diag.Warning, format, args...) }
func (e *Evaluator) pedwarn(format string, args ...any) { e.report(diag.Pedwarn, format, args...) }
func (e *Evaluator) ice(format string, args ...any)     { e.report(diag.ICE, format, args...) }

func boolValue(b bool, precision uint8) bigint.Int {
	v := bigint.Int{Precision: precision}
	if b {
		v.Low = 1
	}
	return v
}

// Evaluate parses and evaluates the expression read from e.Tokens,
// returning its truth value. ok is false iff a hard (syntactic,
// division-by-zero, or internal-consistency) error aborted evaluation;
// the original cpplib conflates this with a false expression value, but
// that conflation is exactly what spec.md §6's postcondition warns
// against reproducing silently, so the two are kept distinct here.
func (e *Evaluator) Evaluate() (result bool, ok bool) {
	e.stack = make([]stackSlot, 32)
	e.top = 0
	e.stack[0] = stackSlot{Op: opEOF, Value: bigint.Int{Precision: e.Config.Precision}}
	e.skipEval = 0
	e.preventExpansion = 0
	e.lexCount = 0
	e.sawLeadingNot = false
	e.controllingMacro = nil

	wantValue := true
	var prevToken, token Token

	for {
		prevToken = token
		tok, err := e.Tokens.Next()
		if err != nil {
			e.ice("error reading token: %v", err)
			return false, false
		}
		token = tok
		e.lexCount++

		var op OpKind
		switch token.Kind {
		case TokNumber, TokChar, TokWChar, TokName, TokHash:
			if !wantValue {
				e.errorf("missing binary operator before token %q", tokenText(token))
				return false, false
			}
			wantValue = false
			val, failed := e.evalToken(token)
			if failed {
				return false, false
			}
			e.stack[e.top].Value = val
			continue
		case TokOther:
			if isGraphic(token.Byte) {
				e.errorf("invalid character '%c' in #if", token.Byte)
			} else {
				e.errorf("invalid character '\\%03o' in #if", token.Byte)
			}
			return false, false
		default:
			op = token.Op
			switch op {
			case opError:
				e.errorf("token %q is not valid in #if expressions", tokenText(token))
				return false, false
			case OpNot:
				e.sawLeadingNot = e.lexCount == 1
			case OpPlus:
				if wantValue {
					op = opUnaryPlus
				}
			case OpMinus:
				if wantValue {
					op = opUnaryMinus
				}
			}
		}

		row, known := optab[op]
		if !known {
			e.errorf("token %q is not valid in #if expressions", tokenText(token))
			return false, false
		}

		if row.flags&noLOperand != 0 {
			if !wantValue {
				e.errorf("missing binary operator before token %q", tokenText(token))
				return false, false
			}
		} else if wantValue {
			// Ordering favors the missing-parenthesis diagnostic over
			// alternatives, matching the original's comment.
			if op == OpCloseParen {
				if e.stack[e.top].Op == OpOpenParen {
					e.errorf("void expression between '(' and ')'")
					return false, false
				}
			} else if e.stack[e.top].Op == opEOF {
				e.errorf("#if with no expression")
				return false, false
			}
			if e.stack[e.top].Op != opEOF && e.stack[e.top].Op != OpOpenParen {
				e.errorf("operator %q has no right operand", tokenText(prevToken))
				return false, false
			}
		}

		if failed := e.reduce(op); failed {
			return false, false
		}

		if op == opEOF {
			break
		}

		switch op {
		case OpCloseParen:
			continue
		case OpOrOr:
			if e.stack[e.top].Value.Bool() {
				e.skipEval++
			}
		case OpAndAnd, OpQuery:
			if !e.stack[e.top].Value.Bool() {
				e.skipEval++
			}
		case OpColon:
			if e.stack[e.top].Op != OpQuery {
				e.errorf("':' without preceding '?'")
				return false, false
			}
			if e.stack[e.top-1].Value.Bool() {
				e.skipEval++
			} else {
				e.skipEval--
			}
		}

		wantValue = true
		e.top++
		if e.top >= len(e.stack) {
			e.growStack()
		}
		e.stack[e.top] = stackSlot{Op: op}
	}

	if e.controllingMacro != nil && !(e.sawLeadingNot && e.lexCount == 3) {
		e.controllingMacro = nil
	}

	if e.top != 0 {
		e.ice("unbalanced stack in #if")
		return false, false
	}

	return e.stack[0].Value.Bool(), true
}

// reduce pops operators off the stack, applying each one, while the
// top binds at least as tightly as op (strictly more tightly when op is
// not left-associative), so that op can then be pushed. A '?' stops at a
// pending ':', so conditionals group right to left. Returns failed=true
// on a hard error (diagnostic already reported).
func (e *Evaluator) reduce(op OpKind) (failed bool) {
	if op == OpOpenParen {
		return false
	}

	prio := optab[op].prio
	if optab[op].flags&leftAssoc != 0 {
		prio--
	}

	for {
		topRow, known := optab[e.stack[e.top].Op]
		if !known {
			e.ice("impossible operator %v", e.stack[e.top].Op)
			return true
		}
		if prio >= topRow.prio {
			break
		}
		if op == OpQuery && e.stack[e.top].Op == OpColon {
			// The '?' opens a conditional nested in the pending else arm.
			break
		}

		switch topRow.arity {
		case unary:
			if e.skipEval == 0 {
				e.stack[e.top-1].Value = e.applyUnary(e.stack[e.top].Op, e.stack[e.top].Value)
			}
			e.top--
		case binary:
			if e.skipEval == 0 {
				val, hardErr := e.applyBinary(e.stack[e.top].Op, e.stack[e.top-1].Value, e.stack[e.top].Value)
				if hardErr {
					return true
				}
				e.stack[e.top-1].Value = val
			}
			e.top--
		default:
			opAtTop := e.stack[e.top].Op
			e.top--
			switch opAtTop {
			case OpOrOr:
				if e.stack[e.top].Value.Bool() {
					e.skipEval--
				}
				left := e.stack[e.top].Value.Bool()
				right := e.stack[e.top+1].Value.Bool()
				e.stack[e.top].Value = boolValue(left || right, e.Config.Precision)
			case OpAndAnd:
				if !e.stack[e.top].Value.Bool() {
					e.skipEval--
				}
				left := e.stack[e.top].Value.Bool()
				right := e.stack[e.top+1].Value.Bool()
				e.stack[e.top].Value = boolValue(left && right, e.Config.Precision)
			case OpOpenParen:
				if op != OpCloseParen {
					e.errorf("missing ')' in expression")
					return true
				}
				e.stack[e.top].Value = e.stack[e.top+1].Value
				return false
			case OpColon:
				e.top--
				if e.stack[e.top].Value.Bool() {
					e.skipEval--
					e.stack[e.top].Value = e.stack[e.top+1].Value
				} else {
					e.stack[e.top].Value = e.stack[e.top+2].Value
				}
				e.stack[e.top].Value.Unsigned = e.stack[e.top+1].Value.Unsigned || e.stack[e.top+2].Value.Unsigned
			case OpQuery:
				e.errorf("'?' without following ':'")
				return true
			default:
				e.ice("impossible operator %v", opAtTop)
				return true
			}
		}

		if e.stack[e.top].Value.Overflow && e.skipEval == 0 {
			e.pedwarn("integer overflow in preprocessor expression")
		}
	}

	if op == OpCloseParen {
		e.errorf("missing '(' in expression")
		return true
	}
	return false
}

func (e *Evaluator) applyUnary(op OpKind, v bigint.Int) bigint.Int {
	row := optab[op]
	if row.unaryH != nil {
		return row.unaryH(v)
	}
	switch op {
	case opUnaryPlus:
		if e.Config.Traditional {
			e.warnf("traditional C rejects the unary plus operator")
		}
		v.Overflow = false
		return v
	default:
		e.ice("applyUnary: no handler for operator %v", op)
		return v
	}
}

func (e *Evaluator) applyBinary(op OpKind, lhs, rhs bigint.Int) (bigint.Int, bool) {
	row := optab[op]
	if row.binH != nil {
		return row.binH(lhs, rhs), false
	}
	switch op {
	case OpDiv, OpMod:
		quot, rem, ok := bigint.QuotRem(lhs, rhs)
		if !ok {
			e.errorf("division by zero in #if")
			return bigint.Int{}, true
		}
		if op == OpDiv {
			return quot, false
		}
		return rem, false
	case OpComma:
		if e.Config.Pedantic {
			e.pedwarn("comma operator in operand of #if")
		}
		return rhs, false
	default:
		e.ice("applyBinary: no handler for operator %v", op)
		return bigint.Int{}, true
	}
}

func isGraphic(b byte) bool {
	return b > 0x20 && b < 0x7f
}

func tokenText(tok Token) string {
	switch tok.Kind {
	case TokNumber, TokChar, TokWChar:
		return tok.Text
	case TokName:
		if tok.Node != nil {
			return tok.Node.Name
		}
		return "<name>"
	case TokHash:
		return "#"
	case TokOther:
		return fmt.Sprintf("%c", tok.Byte)
	default:
		return opSymbol(tok.Op)
	}
}

func opSymbol(op OpKind) string {
	switch op {
	case opEOF:
		return "end of expression"
	case OpNot:
		return "!"
	case OpGreater:
		return ">"
	case OpLess:
		return "<"
	case OpPlus, opUnaryPlus:
		return "+"
	case OpMinus, opUnaryMinus:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpAnd:
		return "&"
	case OpOr:
		return "|"
	case OpXor:
		return "^"
	case OpRShift:
		return ">>"
	case OpLShift:
		return "<<"
	case OpMin:
		return "<?"
	case OpMax:
		return ">?"
	case OpCompl:
		return "~"
	case OpAndAnd:
		return "&&"
	case OpOrOr:
		return "||"
	case OpQuery:
		return "?"
	case OpColon:
		return ":"
	case OpComma:
		return ","
	case OpOpenParen:
		return "("
	case OpCloseParen:
		return ")"
	case OpEqEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpGreaterEq:
		return ">="
	case OpLessEq:
		return "<="
	default:
		return "?op?"
	}
}
