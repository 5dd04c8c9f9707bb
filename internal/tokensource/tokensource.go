// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

// Package tokensource provides a concrete [ppeval.TokenSource]: a
// scanner over the text of a single #if/#elif directive's expression,
// recognizing the fixed operator set spec.md §4.4 names plus numbers,
// character constants, names, and '#'.
package tokensource

import (
	"fmt"
	"io"
	"strings"

	"github.com/ifpp/cppif/internal/macrotable"
	"github.com/ifpp/cppif/internal/ppeval"
)

// Position is a 1-based line/column location in the scanned text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Scanner reads [ppeval.Token]s from a byte stream. Once the stream is
// exhausted, Next keeps returning an EOF token, as [ppeval.TokenSource]
// requires.
type Scanner struct {
	r      io.ByteScanner
	macros *macrotable.Table
	next   Position
	prev   Position
	atEOF  bool
}

// NewScanner returns a Scanner reading from r, interning any names it
// lexes into macros. NewScanner does not buffer r.
func NewScanner(r io.ByteScanner, macros *macrotable.Table) *Scanner {
	return &Scanner{
		r:      r,
		macros: macros,
		next:   Position{Line: 1, Column: 1},
	}
}

// Next implements [ppeval.TokenSource].
func (s *Scanner) Next() (ppeval.Token, error) {
	if s.atEOF {
		return ppeval.EOFToken(), nil
	}

	for {
		b, err := s.readByte()
		if err != nil {
			s.atEOF = true
			return ppeval.EOFToken(), nil
		}

		switch {
		case isSpace(b):
			continue
		case b == 'L' && s.peekIs('\''):
			s.readByte() // consume the quote
			return s.scanChar('\'', true)
		case isLetter(b) || b == '_':
			return s.scanName(b)
		case isDigit(b):
			return s.scanNumber(b)
		case b == '.':
			peek, err := s.readByte()
			if err == nil && isDigit(peek) {
				s.unreadByte()
				return s.scanNumber(b)
			}
			if err == nil {
				s.unreadByte()
			}
			return ppeval.Token{Kind: ppeval.TokOther, Byte: b}, nil
		case b == '\'':
			return s.scanChar(b, false)
		case b == '#':
			return ppeval.Token{Kind: ppeval.TokHash}, nil
		case b == '(':
			return op(ppeval.OpOpenParen), nil
		case b == ')':
			return op(ppeval.OpCloseParen), nil
		case b == '~':
			return op(ppeval.OpCompl), nil
		case b == ',':
			return op(ppeval.OpComma), nil
		case b == '?':
			return op(ppeval.OpQuery), nil
		case b == ':':
			return op(ppeval.OpColon), nil
		case b == '+':
			return op(ppeval.OpPlus), nil
		case b == '-':
			return op(ppeval.OpMinus), nil
		case b == '*':
			return op(ppeval.OpMul), nil
		case b == '/':
			return op(ppeval.OpDiv), nil
		case b == '%':
			return op(ppeval.OpMod), nil
		case b == '^':
			return op(ppeval.OpXor), nil
		case b == '!':
			return s.oneOrTwo('=', ppeval.OpNotEq, ppeval.OpNot)
		case b == '=':
			eq, err := s.readByte()
			if err == nil && eq == '=' {
				return op(ppeval.OpEqEq), nil
			}
			if err == nil {
				s.unreadByte()
			}
			return ppeval.InvalidOperatorToken(), nil
		case b == '&':
			return s.oneOrTwo('&', ppeval.OpAndAnd, ppeval.OpAnd)
		case b == '|':
			return s.oneOrTwo('|', ppeval.OpOrOr, ppeval.OpOr)
		case b == '<':
			return s.scanLess()
		case b == '>':
			return s.scanGreater()
		default:
			return ppeval.Token{Kind: ppeval.TokOther, Byte: b}, nil
		}
	}
}

func op(k ppeval.OpKind) ppeval.Token {
	return ppeval.Token{Kind: ppeval.TokOperator, Op: k}
}

// oneOrTwo scans a one- or two-character operator: if the next byte is
// second, the two-char operator wins; otherwise the one-char operator
// is returned and the lookahead byte is pushed back.
func (s *Scanner) oneOrTwo(second byte, twoChar, oneChar ppeval.OpKind) (ppeval.Token, error) {
	b, err := s.readByte()
	if err == nil && b == second {
		return op(twoChar), nil
	}
	if err == nil {
		s.unreadByte()
	}
	return op(oneChar), nil
}

func (s *Scanner) scanLess() (ppeval.Token, error) {
	b, err := s.readByte()
	if err != nil {
		return op(ppeval.OpLess), nil
	}
	switch b {
	case '<':
		return op(ppeval.OpLShift), nil
	case '=':
		return op(ppeval.OpLessEq), nil
	case '?':
		return op(ppeval.OpMin), nil
	default:
		s.unreadByte()
		return op(ppeval.OpLess), nil
	}
}

func (s *Scanner) scanGreater() (ppeval.Token, error) {
	b, err := s.readByte()
	if err != nil {
		return op(ppeval.OpGreater), nil
	}
	switch b {
	case '>':
		return op(ppeval.OpRShift), nil
	case '=':
		return op(ppeval.OpGreaterEq), nil
	case '?':
		return op(ppeval.OpMax), nil
	default:
		s.unreadByte()
		return op(ppeval.OpGreater), nil
	}
}

func (s *Scanner) scanName(first byte) (ppeval.Token, error) {
	sb := new(strings.Builder)
	sb.WriteByte(first)
	for {
		b, err := s.readByte()
		if err != nil {
			break
		}
		if b != '_' && !isLetter(b) && !isDigit(b) {
			s.unreadByte()
			break
		}
		sb.WriteByte(b)
	}
	node := s.macros.Lookup(sb.String())
	return ppeval.Token{Kind: ppeval.TokName, Node: node}, nil
}

func (s *Scanner) scanNumber(first byte) (ppeval.Token, error) {
	sb := new(strings.Builder)
	sb.WriteByte(first)
	for {
		b, err := s.readByte()
		if err != nil {
			break
		}
		if isDigit(b) || isLetter(b) || b == '_' || b == '.' {
			sb.WriteByte(b)
			continue
		}
		if (b == '+' || b == '-') && endsInExponent(sb.String()) {
			sb.WriteByte(b)
			continue
		}
		s.unreadByte()
		break
	}
	return ppeval.Token{Kind: ppeval.TokNumber, Text: sb.String()}, nil
}

func endsInExponent(s string) bool {
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	return c == 'e' || c == 'E' || c == 'p' || c == 'P'
}

func (s *Scanner) scanChar(quote byte, wide bool) (ppeval.Token, error) {
	sb := new(strings.Builder)
	if wide {
		sb.WriteByte('L')
	}
	sb.WriteByte(quote)
	start := s.prev
	for {
		b, err := s.readByte()
		if err != nil {
			return ppeval.Token{Kind: ppeval.TokOther, Byte: quote}, fmt.Errorf("%v: unterminated character constant", start)
		}
		sb.WriteByte(b)
		if b == '\\' {
			esc, err := s.readByte()
			if err != nil {
				return ppeval.Token{Kind: ppeval.TokOther, Byte: quote}, fmt.Errorf("%v: unterminated character constant", start)
			}
			sb.WriteByte(esc)
			continue
		}
		if b == quote {
			break
		}
	}
	kind := ppeval.TokChar
	if wide {
		kind = ppeval.TokWChar
	}
	return ppeval.Token{Kind: kind, Text: sb.String()}, nil
}

func (s *Scanner) peekIs(want byte) bool {
	b, err := s.readByte()
	if err != nil {
		return false
	}
	s.unreadByte()
	return b == want
}

func (s *Scanner) readByte() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return b, err
	}
	s.prev = s.next
	if b == '\n' {
		s.next.Line++
		s.next.Column = 1
	} else {
		s.next.Column++
	}
	return b, nil
}

func (s *Scanner) unreadByte() {
	s.r.UnreadByte()
	s.next = s.prev
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v' }
func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
func isDigit(c byte) bool { return '0' <= c && c <= '9' }
