package connect

import (
	"testing"

	"syntree/geometry"
	"syntree/tree"
)

// edgeForest builds S at (100,40) with child NP at (100,180), plus a
// detached root M to drag around.
func edgeForest() (f *tree.Forest, s, np, m *tree.Node) {
	f = tree.NewForest()
	s = f.CreateNode("S")
	np = f.CreateNode("NP")
	m = f.CreateNode("VP")
	f.AddRoot(s)
	f.Connect(s, np)
	f.AddRoot(m)
	s.X, s.Y = 100, 40
	np.X, np.Y = 100, 180
	m.X, m.Y = 500, 400
	return f, s, np, m
}

func TestResolveEdgeInsertion(t *testing.T) {
	f, s, np, m := edgeForest()
	r := NewResolver()

	d := r.Resolve(f, m, geometry.Point{X: 105, Y: 110})
	if d.Kind != Insert {
		t.Fatalf("decision = %v, want insert", d.Kind)
	}
	if d.Parent != s || d.Child != np {
		t.Errorf("insert edge = %v→%v, want S→NP", d.Parent, d.Child)
	}
}

func TestInsertionRejectsEndpointNeighborhood(t *testing.T) {
	f, _, _, m := edgeForest()
	r := NewResolver()

	// Right next to the parent endpoint: projection t is inside the
	// excluded margin, so no insertion.
	d := r.Resolve(f, m, geometry.Point{X: 100, Y: 48})
	if d.Kind == Insert {
		t.Error("insertion matched inside the endpoint margin")
	}
}

func TestInsertionRequiresVerticalInteriority(t *testing.T) {
	f, s, np, m := edgeForest()
	r := NewResolver()

	// Make the edge horizontal: same y for both endpoints. No point can
	// then be vertically between them with the required gap.
	np.Y = s.Y
	d := r.Resolve(f, m, geometry.Point{X: 100, Y: 45})
	if d.Kind == Insert {
		t.Error("insertion matched on a horizontal edge")
	}
}

func TestInsertionIgnoresMovingSubtreeEdges(t *testing.T) {
	f := tree.NewForest()
	m := f.CreateNode("VP")
	child := f.CreateNode("V")
	f.AddRoot(m)
	f.Connect(m, child)
	m.X, m.Y = 100, 40
	child.X, child.Y = 100, 180

	r := NewResolver()
	// The only edge is inside the moving subtree; dropping onto it must
	// not splice.
	d := r.Resolve(f, m, geometry.Point{X: 102, Y: 110})
	if d.Kind == Insert {
		t.Error("spliced into an edge of the moving subtree")
	}
}

func TestResolveReparent(t *testing.T) {
	f, _, np, m := edgeForest()
	r := NewResolver()

	// Below NP, outside the edge's vertical span: NP is the only
	// candidate above within range.
	d := r.Resolve(f, m, geometry.Point{X: 120, Y: 250})
	if d.Kind != Reparent {
		t.Fatalf("decision = %v, want reparent", d.Kind)
	}
	if d.Parent != np {
		t.Errorf("reparent target = %v, want NP", d.Parent)
	}
}

func TestReparentWeightsHorizontalDistance(t *testing.T) {
	f := tree.NewForest()
	wide := f.CreateNode("AP")
	tall := f.CreateNode("BP")
	m := f.CreateNode("VP")
	f.AddRoot(wide)
	f.AddRoot(tall)
	f.AddRoot(m)

	at := geometry.Point{X: 200, Y: 300}
	// wide: closer by straight-line distance but 50 units off to the side.
	wide.X, wide.Y = at.X-50, at.Y-60 // score 50*2.5 + 60 = 185
	// tall: further away but nearly overhead.
	tall.X, tall.Y = at.X-10, at.Y-100 // score 10*2.5 + 100 = 125

	r := NewResolver()
	d := r.Resolve(f, m, at)
	if d.Kind != Reparent || d.Parent != tall {
		t.Errorf("decision = %+v, want reparent onto the overhead candidate", d)
	}
}

func TestReparentSkipsTerminalsAndRequiresGapAbove(t *testing.T) {
	f := tree.NewForest()
	term := f.CreateTerminal("dog")
	level := f.CreateNode("NP")
	m := f.CreateNode("VP")
	f.AddRoot(term)
	f.AddRoot(level)
	f.AddRoot(m)

	at := geometry.Point{X: 0, Y: 100}
	term.X, term.Y = 0, 40    // above, but a terminal
	level.X, level.Y = 10, 95 // non-terminal, but not far enough above

	r := NewResolver()
	if d := r.Resolve(f, m, at); d.Kind != NoChange {
		t.Errorf("decision = %+v, want no change", d)
	}
}

func TestCyclePrevention(t *testing.T) {
	f := tree.NewForest()
	a := f.CreateNode("AP")
	b := f.CreateNode("BP")
	f.AddRoot(a)
	f.Connect(a, b)
	a.X, a.Y = 100, 40
	b.X, b.Y = 100, 180

	r := NewResolver()
	// Drop A right below B: B would win reparenting were it not A's own
	// descendant. The decision must not create a cycle.
	d := r.Resolve(f, a, geometry.Point{X: 100, Y: 250})
	if d.Kind == Reparent && d.Parent == b {
		t.Fatal("resolver offered a cycle-creating reparent")
	}

	// Forest unchanged either way.
	if b.Parent != a || len(a.Children) != 1 {
		t.Error("forest structure changed by a read-only resolve")
	}
}

func TestHysteresisBand(t *testing.T) {
	f := tree.NewForest()
	p := f.CreateNode("S")
	child := f.CreateNode("NP")
	f.AddRoot(p)
	f.Connect(p, child)
	p.X, p.Y = 0, 0

	r := NewResolver()
	between := (r.T.ReparentDistance + r.T.DisconnectDistance) / 2

	// Inside the hysteresis band: too far to re-score the parent, not far
	// enough to detach.
	d := r.Resolve(f, child, geometry.Point{X: 0, Y: between})
	if d.Kind != NoChange {
		t.Errorf("inside band: decision = %v, want no change", d.Kind)
	}

	// Beyond the disconnect threshold: detach.
	d = r.Resolve(f, child, geometry.Point{X: 0, Y: r.T.DisconnectDistance + 10})
	if d.Kind != Disconnect {
		t.Errorf("beyond band: decision = %v, want disconnect", d.Kind)
	}
}

func TestStayingNearParentIsStable(t *testing.T) {
	f := tree.NewForest()
	p := f.CreateNode("S")
	child := f.CreateNode("NP")
	f.AddRoot(p)
	f.Connect(p, child)
	p.X, p.Y = 0, 0

	r := NewResolver()
	// Well within reparent range of its own parent: no churn.
	d := r.Resolve(f, child, geometry.Point{X: 5, Y: 100})
	if d.Kind != NoChange {
		t.Errorf("decision = %v, want no change near own parent", d.Kind)
	}
}

func TestLowestIDTieBreak(t *testing.T) {
	f := tree.NewForest()
	first := f.CreateNode("AP")
	second := f.CreateNode("BP")
	m := f.CreateNode("VP")
	f.AddRoot(first)
	f.AddRoot(second)
	f.AddRoot(m)

	at := geometry.Point{X: 0, Y: 100}
	// Identical geometry: identical scores.
	first.X, first.Y = 20, 30
	second.X, second.Y = -20, 30

	r := NewResolver()
	d := r.Resolve(f, m, at)
	if d.Kind != Reparent || d.Parent != first {
		t.Errorf("tie should go to the lowest id; got %+v", d)
	}
}
