// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

package tokensource

import (
	"strings"
	"testing"

	"github.com/ifpp/cppif/internal/macrotable"
	"github.com/ifpp/cppif/internal/ppeval"
)

func scanAll(t *testing.T, text string) []ppeval.Token {
	t.Helper()
	s := NewScanner(strings.NewReader(text), new(macrotable.Table))
	var toks []ppeval.Token
	for {
		tok, err := s.Next()
		if err != nil {
			t.Fatalf("Next(): %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == ppeval.TokOperator && tok == ppeval.EOFToken() {
			return toks
		}
		if len(toks) > 64 {
			t.Fatalf("Next() did not reach EOF within 64 tokens scanning %q", text)
		}
	}
}

func TestScanOperators(t *testing.T) {
	tests := []struct {
		text string
		want ppeval.OpKind
	}{
		{"<", ppeval.OpLess},
		{"<<", ppeval.OpLShift},
		{"<=", ppeval.OpLessEq},
		{"<?", ppeval.OpMin},
		{">", ppeval.OpGreater},
		{">>", ppeval.OpRShift},
		{">=", ppeval.OpGreaterEq},
		{">?", ppeval.OpMax},
		{"&", ppeval.OpAnd},
		{"&&", ppeval.OpAndAnd},
		{"|", ppeval.OpOr},
		{"||", ppeval.OpOrOr},
		{"!", ppeval.OpNot},
		{"!=", ppeval.OpNotEq},
		{"==", ppeval.OpEqEq},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			toks := scanAll(t, test.text)
			if len(toks) != 2 {
				t.Fatalf("scanAll(%q) produced %d tokens; want 1 operator + EOF", test.text, len(toks))
			}
			if toks[0].Kind != ppeval.TokOperator || toks[0].Op != test.want {
				t.Errorf("scanAll(%q)[0] = %+v; want Op %v", test.text, toks[0], test.want)
			}
		})
	}
}

func TestBareEqualsIsInvalidOperator(t *testing.T) {
	toks := scanAll(t, "=")
	if len(toks) != 2 || toks[0] != ppeval.InvalidOperatorToken() {
		t.Errorf("scanAll(\"=\") = %+v; want a single InvalidOperatorToken", toks)
	}
}

func TestScanNumber(t *testing.T) {
	tests := []string{"42", "0x2A", "052", "1ULL", "1e+5", "0x1p-3"}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			toks := scanAll(t, text)
			if len(toks) != 2 || toks[0].Kind != ppeval.TokNumber || toks[0].Text != text {
				t.Errorf("scanAll(%q)[0] = %+v; want a single TokNumber with Text %q", text, toks[0], text)
			}
		})
	}
}

func TestScanCharConstants(t *testing.T) {
	toks := scanAll(t, "'a'")
	if len(toks) != 2 || toks[0].Kind != ppeval.TokChar || toks[0].Text != "'a'" {
		t.Errorf("scanAll(\"'a'\")[0] = %+v; want TokChar 'a'", toks[0])
	}

	toks = scanAll(t, `L'a'`)
	if len(toks) != 2 || toks[0].Kind != ppeval.TokWChar || toks[0].Text != "L'a'" {
		t.Errorf("scanAll(\"L'a'\")[0] = %+v; want TokWChar L'a'", toks[0])
	}

	toks = scanAll(t, `'\n'`)
	if len(toks) != 2 || toks[0].Kind != ppeval.TokChar || toks[0].Text != `'\n'` {
		t.Errorf(`scanAll("'\n'")[0] = %+v; want TokChar '\n'`, toks[0])
	}
}

func TestScanNameInternsSameNode(t *testing.T) {
	macros := new(macrotable.Table)
	s := NewScanner(strings.NewReader("FOO FOO"), macros)

	first, err := s.Next()
	if err != nil {
		t.Fatalf("Next(): %v", err)
	}
	// Skip the space and scan the second FOO.
	second, err := s.Next()
	if err != nil {
		t.Fatalf("Next(): %v", err)
	}
	if first.Node != second.Node {
		t.Errorf("two scans of %q returned distinct nodes; want the same interned *macrotable.Node", "FOO")
	}
}

func TestScanUnterminatedCharConstant(t *testing.T) {
	s := NewScanner(strings.NewReader("'a"), new(macrotable.Table))
	_, err := s.Next()
	if err == nil {
		t.Fatal("Next() on an unterminated character constant returned nil error")
	}
	if !strings.Contains(err.Error(), "unterminated character constant") {
		t.Errorf("Next() error = %v; want it to mention an unterminated character constant", err)
	}
	if !strings.Contains(err.Error(), "1:1") {
		t.Errorf("Next() error = %v; want it to report the opening quote's position 1:1", err)
	}
}

func TestHashToken(t *testing.T) {
	toks := scanAll(t, "#")
	if len(toks) != 2 || toks[0].Kind != ppeval.TokHash {
		t.Errorf("scanAll(\"#\")[0] = %+v; want TokHash", toks[0])
	}
}
