// Package layout computes target positions for syntax forests: all leaves
// on one evenly spaced row, every parent centered over the midpoint of its
// extreme children, depth mapped to fixed vertical levels.
package layout

import (
	"sort"

	"syntree/geometry"
	"syntree/tree"
)

// Engine computes per-node target coordinates. The result is a pure
// function of forest structure, except that the existing left-to-right
// order of independent root trees is preserved and the first root keeps its
// prior horizontal center, so the diagram does not jump during edits.
type Engine struct {
	LeafSpacing float64 // horizontal unit between adjacent leaf centers
	LevelHeight float64 // vertical distance between depth levels
	TopMargin   float64 // y of depth-0 nodes
}

// NewEngine creates an engine with default spacing.
func NewEngine() *Engine {
	return &Engine{
		LeafSpacing: 100,
		LevelHeight: 70,
		TopMargin:   40,
	}
}

// Compute returns target center positions keyed by node id. Node positions
// are not written; use Apply or an Animator for that. Recomputation on an
// unchanged forest yields identical targets.
func (e *Engine) Compute(f *tree.Forest) map[int]geometry.Point {
	targets := make(map[int]geometry.Point)
	roots := f.Roots()
	if len(roots) == 0 {
		return targets
	}

	// Keep independent trees in their current left-to-right order.
	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].X < roots[j].X
	})

	// All leaves across the forest share one row, one unit apart.
	var leaves []*tree.Node
	for _, root := range roots {
		leaves = append(leaves, root.Leaves()...)
	}
	for i, leaf := range leaves {
		targets[leaf.ID] = geometry.Point{X: float64(i) * e.LeafSpacing}
	}

	// Parents bottom-up: midpoint of the leftmost and rightmost child's
	// center, not the mean of all children.
	for _, root := range roots {
		e.centerAncestors(root, targets)
	}

	// Vertical position from each node's depth within its own root.
	for _, root := range roots {
		e.assignLevels(root, 0, targets)
	}

	// Anchor: shift so the first root's center matches its prior center.
	// A never-positioned forest stays where the row landed.
	first := roots[0]
	if first.X != 0 || first.Y != 0 {
		shift := first.X - targets[first.ID].X
		for id, p := range targets {
			targets[id] = geometry.Point{X: p.X + shift, Y: p.Y}
		}
	}

	return targets
}

func (e *Engine) centerAncestors(n *tree.Node, targets map[int]geometry.Point) float64 {
	if len(n.Children) == 0 {
		return targets[n.ID].X
	}
	first := e.centerAncestors(n.Children[0], targets)
	last := first
	for _, child := range n.Children[1:] {
		last = e.centerAncestors(child, targets)
	}
	x := (first + last) / 2
	targets[n.ID] = geometry.Point{X: x}
	return x
}

func (e *Engine) assignLevels(n *tree.Node, depth int, targets map[int]geometry.Point) {
	p := targets[n.ID]
	p.Y = e.TopMargin + float64(depth)*e.LevelHeight
	targets[n.ID] = p
	for _, child := range n.Children {
		e.assignLevels(child, depth+1, targets)
	}
}

// Apply writes target positions onto the nodes immediately.
func Apply(f *tree.Forest, targets map[int]geometry.Point) {
	for id, p := range targets {
		if n := f.FindByID(id); n != nil {
			n.X = p.X
			n.Y = p.Y
		}
	}
}
