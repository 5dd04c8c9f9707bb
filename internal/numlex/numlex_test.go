// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

package numlex

import (
	"testing"

	"github.com/ifpp/cppif/internal/diag"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		opts         Options
		wantLow      uint64
		wantUnsigned bool
		wantFailed   bool
	}{
		{name: "Decimal", text: "42", opts: Options{Precision: 32}, wantLow: 42},
		{name: "Hex", text: "0x2A", opts: Options{Precision: 32}, wantLow: 42},
		{name: "Octal", text: "052", opts: Options{Precision: 32}, wantLow: 42},
		{name: "SingleDigit", text: "7", opts: Options{Precision: 32}, wantLow: 7},
		{name: "UnsignedSuffix", text: "1u", opts: Options{Precision: 32}, wantLow: 1, wantUnsigned: true},
		{name: "LongLongSuffix", text: "1ll", opts: Options{Precision: 64}, wantLow: 1},
		{name: "CombinedSuffix", text: "1ULL", opts: Options{Precision: 64}, wantLow: 1, wantUnsigned: true},
		{name: "InvalidSuffix", text: "1q", opts: Options{Precision: 32}, wantFailed: true},
		{name: "FloatDotRejected", text: "1.5", opts: Options{Precision: 32}, wantFailed: true},
		{name: "FloatExponentRejected", text: "1e+5", opts: Options{Precision: 32}, wantFailed: true},
		{name: "HexExponentNotFloat", text: "0x1e5", opts: Options{Precision: 32}, wantLow: 0x1e5},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Parse(test.text, test.opts)
			if got.Failed() != test.wantFailed {
				t.Fatalf("Parse(%q).Failed() = %v; want %v (diagnostics: %v)", test.text, got.Failed(), test.wantFailed, got.Diagnostics)
			}
			if test.wantFailed {
				return
			}
			if got.Value.Low != test.wantLow {
				t.Errorf("Parse(%q).Value.Low = %#x; want %#x", test.text, got.Value.Low, test.wantLow)
			}
			if got.Value.Unsigned != test.wantUnsigned {
				t.Errorf("Parse(%q).Value.Unsigned = %v; want %v", test.text, got.Value.Unsigned, test.wantUnsigned)
			}
		})
	}
}

func TestParseOverflowBecomesUnsigned(t *testing.T) {
	got := Parse("4294967295", Options{Precision: 32})
	if got.Failed() {
		t.Fatalf("Parse(4294967295).Failed() = true; diagnostics: %v", got.Diagnostics)
	}
	if !got.Value.Unsigned {
		t.Error("Parse(4294967295) at 32 bits: Value.Unsigned = false; want true (too large to be signed int32)")
	}
	foundWarning := false
	for _, d := range got.Diagnostics {
		if d.Severity == diag.Warning {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Error("Parse(4294967295) produced no warning about becoming unsigned")
	}
}

func TestParseDigitBeyondRadix(t *testing.T) {
	got := Parse("08", Options{Precision: 32})
	if got.Failed() {
		t.Fatalf("Parse(08).Failed() = true; diagnostics: %v", got.Diagnostics)
	}
	found := false
	for _, d := range got.Diagnostics {
		if d.Severity == diag.Pedwarn {
			found = true
		}
	}
	if !found {
		t.Error("Parse(08) (digit 8 in an octal constant) produced no pedantic warning")
	}
}
