// Package tree contains the canonical forest data structure for syntax
// diagrams: labeled nodes, explicit root registration, typed change events
// with batch coalescing, and the derived movement-pair relation.
package tree

import "syntree/geometry"

// Category classifies a node by its syntactic role, derived from the label
// text unless forced at creation.
type Category int

const (
	Clause Category = iota
	Phrase
	PartOfSpeech
	Terminal
)

// String returns the string representation of a Category.
func (c Category) String() string {
	switch c {
	case Clause:
		return "Clause"
	case Phrase:
		return "Phrase"
	case PartOfSpeech:
		return "PartOfSpeech"
	case Terminal:
		return "Terminal"
	default:
		return "Unknown"
	}
}

// clauseLabels are the labels treated as clause-level categories.
var clauseLabels = map[string]bool{
	"S":    true,
	"S'":   true,
	"SBAR": true,
	"CP":   true,
	"TP":   true,
	"IP":   true,
}

// CategoryForLabel derives a category from label text: known clause labels
// are clauses, multi-character labels ending in 'P' are phrases, everything
// else is a part of speech. Terminal is never derived; it is set at creation.
func CategoryForLabel(label string) Category {
	if clauseLabels[label] {
		return Clause
	}
	if len(label) >= 2 && label[len(label)-1] == 'P' {
		return Phrase
	}
	return PartOfSpeech
}

// Node is a single labeled node in the forest.
//
// Children order is the authoritative left-to-right surface order. The
// parent back-reference is maintained exclusively by Forest.Connect and
// Forest.Disconnect; nothing else may write it.
type Node struct {
	ID       int
	Label    string
	Category Category

	Parent   *Node
	Children []*Node

	// X, Y is the node's center in diagram space. Advisory: written only
	// by the layout engine and by drag interaction.
	X, Y float64

	// MovementLabel marks this node as a moved head; MovementTrace marks a
	// terminal as the gap left behind. A pair exists when the values match.
	MovementLabel string
	MovementTrace string

	// Starred requests collapsed/triangle rendering.
	Starred bool
}

// IsTerminal reports whether the node is a terminal (word/token) node.
func (n *Node) IsTerminal() bool {
	return n.Category == Terminal
}

// Center returns the node's current position as a point.
func (n *Node) Center() geometry.Point {
	return geometry.Point{X: n.X, Y: n.Y}
}

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.Parent; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Descendants returns n and every node below it in depth-first order.
func (n *Node) Descendants() []*Node {
	result := []*Node{n}
	for _, child := range n.Children {
		result = append(result, child.Descendants()...)
	}
	return result
}

// Leaves returns the leaf nodes of n's subtree in left-to-right order.
// A node with no children is its own leaf.
func (n *Node) Leaves() []*Node {
	if len(n.Children) == 0 {
		return []*Node{n}
	}
	var leaves []*Node
	for _, child := range n.Children {
		leaves = append(leaves, child.Leaves()...)
	}
	return leaves
}

// Root returns the top of n's parent chain (n itself when detached).
func (n *Node) Root() *Node {
	r := n
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// Depth returns the number of edges between n and its root.
func (n *Node) Depth() int {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}
