// Package connect decides where a dragged node attaches: splicing into an
// existing edge, reparenting to a nearby node, or disconnecting once it is
// pulled far enough away. The same decision function serves live preview
// and commit, so the preview never promises an action the drop won't take.
package connect

import (
	"syntree/geometry"
	"syntree/tree"
)

// Thresholds are the resolver's tuning constants.
type Thresholds struct {
	// InsertionDistance is the maximum perpendicular distance from an edge
	// at which the moving node splices into it.
	InsertionDistance float64
	// EndpointMargin excludes the fraction of the edge nearest each
	// endpoint from insertion matches.
	EndpointMargin float64
	// MinVerticalGap is the minimum vertical separation required from each
	// edge endpoint, and from a reparent candidate above the moving node.
	MinVerticalGap float64
	// ReparentDistance is the maximum Euclidean distance to a reparent
	// candidate.
	ReparentDistance float64
	// DisconnectDistance is the distance from the current parent beyond
	// which a connected node detaches. Strictly larger than
	// ReparentDistance: the band between them is hysteresis that keeps a
	// node from flickering on and off its parent near the boundary.
	DisconnectDistance float64
	// HorizontalWeight multiplies horizontal distance in reparent scoring
	// (> 1), biasing toward candidates directly above the moving node.
	HorizontalWeight float64
}

// DefaultThresholds returns the standard tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		InsertionDistance:  40,
		EndpointMargin:     0.15,
		MinVerticalGap:     15,
		ReparentDistance:   160,
		DisconnectDistance: 240,
		HorizontalWeight:   2.5,
	}
}

// DecisionKind is the action the resolver chose.
type DecisionKind int

const (
	NoChange DecisionKind = iota
	Insert               // splice into the Parent→Child edge
	Reparent             // become a child of Parent
	Disconnect           // detach from the current parent
)

// String returns the string representation of a DecisionKind.
func (k DecisionKind) String() string {
	switch k {
	case NoChange:
		return "no-change"
	case Insert:
		return "insert"
	case Reparent:
		return "reparent"
	case Disconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// Decision is the resolver's answer for one query point. For Insert, Parent
// and Child name the edge being spliced; for Reparent, Parent is the new
// parent.
type Decision struct {
	Kind   DecisionKind
	Parent *tree.Node
	Child  *tree.Node
}

// Resolver is a stateless query over the forest's current positions.
type Resolver struct {
	T Thresholds
}

// NewResolver creates a resolver with default thresholds.
func NewResolver() *Resolver {
	return &Resolver{T: DefaultThresholds()}
}

// Resolve decides what dropping the moving node at the given point would
// do. Edge insertion outranks reparenting; candidates inside the moving
// node's own subtree are never considered, which is what keeps the forest
// acyclic (the tree model itself does not check).
//
// Ties are broken deterministically toward the lowest node id.
func (r *Resolver) Resolve(f *tree.Forest, moving *tree.Node, at geometry.Point) Decision {
	if moving == nil {
		return Decision{}
	}
	excluded := make(map[int]bool)
	for _, n := range moving.Descendants() {
		excluded[n.ID] = true
	}

	if d, ok := r.findInsertion(f, excluded, at); ok {
		return d
	}
	if d, ok := r.findReparent(f, moving, excluded, at); ok {
		return d
	}

	if p := moving.Parent; p != nil {
		if geometry.Distance(at, p.Center()) > r.T.DisconnectDistance {
			return Decision{Kind: Disconnect}
		}
	}
	return Decision{}
}

// findInsertion scans every parent→child edge not touching the moving
// subtree for the closest edge the point can splice into.
func (r *Resolver) findInsertion(f *tree.Forest, excluded map[int]bool, at geometry.Point) (Decision, bool) {
	best := Decision{}
	bestDist := r.T.InsertionDistance

	parents := f.FindAll(func(n *tree.Node) bool {
		return !excluded[n.ID] && len(n.Children) > 0
	})
	for _, parent := range parents {
		for _, child := range parent.Children {
			if excluded[child.ID] {
				continue
			}
			seg := geometry.Segment{A: parent.Center(), B: child.Center()}

			dist := seg.DistanceTo(at)
			if dist >= bestDist {
				continue
			}
			// Projection must fall in the segment interior, away from
			// both endpoints.
			t := seg.Project(at)
			if t <= r.T.EndpointMargin || t >= 1-r.T.EndpointMargin {
				continue
			}
			// And the point must sit vertically between the endpoints
			// with a minimum gap from each.
			top := parent.Y
			bottom := child.Y
			if top > bottom {
				top, bottom = bottom, top
			}
			if at.Y < top+r.T.MinVerticalGap || at.Y > bottom-r.T.MinVerticalGap {
				continue
			}

			best = Decision{Kind: Insert, Parent: parent, Child: child}
			bestDist = dist
		}
	}
	return best, best.Kind == Insert
}

// findReparent scores every non-terminal candidate above the point, within
// range, weighting horizontal distance so candidates directly overhead win.
func (r *Resolver) findReparent(f *tree.Forest, moving *tree.Node, excluded map[int]bool, at geometry.Point) (Decision, bool) {
	var winner *tree.Node
	bestScore := 0.0

	candidates := f.FindAll(func(n *tree.Node) bool {
		return !excluded[n.ID] && !n.IsTerminal()
	})
	for _, cand := range candidates {
		c := cand.Center()
		if c.Y > at.Y-r.T.MinVerticalGap {
			continue // not far enough above
		}
		if geometry.Distance(at, c) > r.T.ReparentDistance {
			continue
		}
		score := geometry.Abs(at.X-c.X)*r.T.HorizontalWeight + geometry.Abs(at.Y-c.Y)
		if winner == nil || score < bestScore {
			winner = cand
			bestScore = score
		}
	}
	if winner == nil {
		return Decision{}, false
	}
	if winner == moving.Parent {
		// Already attached there; nothing to do.
		return Decision{}, true
	}
	return Decision{Kind: Reparent, Parent: winner}, true
}
