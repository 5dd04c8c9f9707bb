// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

package macrotable

import "testing"

func TestDefineUndef(t *testing.T) {
	var tbl Table
	if tbl.Defined("FOO") {
		t.Fatal("Defined(FOO) = true before Define")
	}

	tbl.Define("FOO")
	if !tbl.Defined("FOO") {
		t.Error("Defined(FOO) = false after Define(FOO)")
	}

	tbl.Undef("FOO")
	if tbl.Defined("FOO") {
		t.Error("Defined(FOO) = true after Undef(FOO)")
	}
}

func TestLookupInterns(t *testing.T) {
	var tbl Table
	a := tbl.Lookup("FOO")
	b := tbl.Lookup("FOO")
	if a != b {
		t.Error("Lookup(FOO) returned distinct nodes on successive calls; want the same *Node")
	}
}

func TestIsMacro(t *testing.T) {
	var tbl Table
	node := tbl.Lookup("FOO")
	if node.IsMacro() {
		t.Error("IsMacro() = true for a freshly looked-up name")
	}
	tbl.Define("FOO")
	if !node.IsMacro() {
		t.Error("IsMacro() = false after Define; want true (Lookup and Define share the same node)")
	}

	var nilNode *Node
	if nilNode.IsMacro() {
		t.Error("IsMacro() on a nil *Node = true; want false")
	}
}
