// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

// Package macrotable provides the "hash table of macro names" external
// collaborator spec.md describes: a lookup from identifier text to a
// node carrying whether the name is currently a defined macro, plus the
// node identity GuardDetect needs to name a possible include guard.
package macrotable

// NodeKind classifies what a name in the table currently denotes.
type NodeKind int

const (
	// NTVoid is an ordinary identifier that is not (currently) a macro.
	NTVoid NodeKind = iota
	// NTMacro is a defined object-like or function-like macro.
	NTMacro
)

// Node is the identity cpplib calls a "hashnode": a name plus what it
// currently denotes. GuardDetect records a *Node, not just a string, so
// that two distinct macros that happen to share spelling in different
// scopes would still be told apart — cppif's preprocessing model has a
// single flat namespace per Table, so in practice identical spellings
// share a Node, but the pointer identity is preserved for parity with
// the collaborator interface spec.md names.
type Node struct {
	Name string
	Type NodeKind
}

// IsMacro reports whether the node currently denotes a defined macro.
// This is the "defined" operator's entire semantics.
func (n *Node) IsMacro() bool {
	return n != nil && n.Type == NTMacro
}

// Table is a macro name table. The zero value is an empty table ready
// to use.
type Table struct {
	nodes map[string]*Node
}

// Lookup returns the table's node for name, creating an NTVoid node on
// first sight so that repeated lookups of the same spelling return the
// same *Node (matching the real preprocessor's hash-consing of
// identifiers, which GuardDetect's pointer-identity story depends on).
func (t *Table) Lookup(name string) *Node {
	if t.nodes == nil {
		t.nodes = make(map[string]*Node)
	}
	n, ok := t.nodes[name]
	if !ok {
		n = &Node{Name: name, Type: NTVoid}
		t.nodes[name] = n
	}
	return n
}

// Define marks name as a defined macro, returning its node.
func (t *Table) Define(name string) *Node {
	n := t.Lookup(name)
	n.Type = NTMacro
	return n
}

// Undef marks name as no longer a defined macro.
func (t *Table) Undef(name string) {
	if t.nodes == nil {
		return
	}
	if n, ok := t.nodes[name]; ok {
		n.Type = NTVoid
	}
}

// Defined reports whether name currently denotes a defined macro,
// without interning a node for it if it has never been seen.
func (t *Table) Defined(name string) bool {
	if t.nodes == nil {
		return false
	}
	n, ok := t.nodes[name]
	return ok && n.Type == NTMacro
}
