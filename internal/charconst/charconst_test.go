// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

package charconst

import "testing"

func TestInterpret(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantValue int64
		wantWidth int
	}{
		{name: "Plain", text: `'a'`, wantValue: 'a', wantWidth: 8},
		{name: "Newline", text: `'\n'`, wantValue: '\n', wantWidth: 8},
		{name: "Tab", text: `'\t'`, wantValue: '\t', wantWidth: 8},
		{name: "Null", text: `'\0'`, wantValue: 0, wantWidth: 8},
		{name: "Hex", text: `'\x41'`, wantValue: 'A', wantWidth: 8},
		{name: "EscapedQuote", text: `'\''`, wantValue: '\'', wantWidth: 8},
		{name: "MultiChar", text: `'ab'`, wantValue: int64('a')<<8 | int64('b'), wantWidth: 8},
		{name: "Wide", text: `L'a'`, wantValue: 'a', wantWidth: 32},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Interpret(test.text)
			if err != nil {
				t.Fatalf("Interpret(%q): %v", test.text, err)
			}
			if got.Value != test.wantValue {
				t.Errorf("Interpret(%q).Value = %d; want %d", test.text, got.Value, test.wantValue)
			}
			if got.WidthBits != test.wantWidth {
				t.Errorf("Interpret(%q).WidthBits = %d; want %d", test.text, got.WidthBits, test.wantWidth)
			}
		})
	}
}

func TestInterpretErrors(t *testing.T) {
	tests := []string{"''", "'", `'\q'`, `L'ab'`, `'\x'`}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			if _, err := Interpret(text); err == nil {
				t.Errorf("Interpret(%q) succeeded; want an error", text)
			}
		})
	}
}
