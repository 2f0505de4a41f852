package connect

import (
	"syntree/geometry"
	"syntree/tree"
)

// DragState is the phase of a drag interaction.
type DragState int

const (
	Idle DragState = iota
	Dragging
	PreviewingInsertion
	PreviewingReparent
)

// String returns the string representation of a DragState.
func (s DragState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case PreviewingInsertion:
		return "previewing-insertion"
	case PreviewingReparent:
		return "previewing-reparent"
	default:
		return "unknown"
	}
}

// Controller runs the drag interaction as an explicit state machine driven
// by discrete begin/move/end events, decoupled from any UI toolkit. Preview
// and commit go through the same resolver decision, never diverging.
type Controller struct {
	forest   *tree.Forest
	resolver *Resolver

	state  DragState
	moving *tree.Node
}

// NewController creates a drag controller over the forest.
func NewController(f *tree.Forest, r *Resolver) *Controller {
	return &Controller{forest: f, resolver: r}
}

// State returns the current drag phase.
func (c *Controller) State() DragState {
	return c.state
}

// Moving returns the node being dragged, or nil when idle.
func (c *Controller) Moving() *tree.Node {
	return c.moving
}

// Begin starts dragging the node with the given id. Returns false if the
// node does not exist or a drag is already in progress.
func (c *Controller) Begin(nodeID int) bool {
	if c.state != Idle {
		return false
	}
	n := c.forest.FindByID(nodeID)
	if n == nil {
		return false
	}
	c.moving = n
	c.state = Dragging
	return true
}

// Move updates the dragged node's position and returns the decision the
// drop would currently take, for preview decoration.
func (c *Controller) Move(at geometry.Point) Decision {
	if c.state == Idle {
		return Decision{}
	}
	c.moving.X = at.X
	c.moving.Y = at.Y

	d := c.resolver.Resolve(c.forest, c.moving, at)
	switch d.Kind {
	case Insert:
		c.state = PreviewingInsertion
	case Reparent:
		c.state = PreviewingReparent
	default:
		c.state = Dragging
	}
	return d
}

// End drops the node at the given point, committing whatever the resolver
// decides there, and returns the committed decision.
func (c *Controller) End(at geometry.Point) Decision {
	if c.state == Idle {
		return Decision{}
	}
	moving := c.moving
	moving.X = at.X
	moving.Y = at.Y
	c.moving = nil
	c.state = Idle

	d := c.resolver.Resolve(c.forest, moving, at)
	switch d.Kind {
	case Insert:
		c.commitInsertion(moving, d)
	case Reparent:
		c.commitReparent(moving, d, at)
	case Disconnect:
		c.forest.Disconnect(moving)
	}
	return d
}

// commitInsertion splices the moving node into the Parent→Child edge: it
// takes the child's place under the parent and adopts the child.
func (c *Controller) commitInsertion(moving *tree.Node, d Decision) {
	idx := childIndex(d.Parent, d.Child)
	c.forest.Connect(moving, d.Child)
	c.forest.ConnectAt(d.Parent, moving, idx)
}

// commitReparent attaches the moving node under its new parent at the
// sibling position matching its horizontal drop point, keeping surface
// order meaningful.
func (c *Controller) commitReparent(moving *tree.Node, d Decision, at geometry.Point) {
	idx := len(d.Parent.Children)
	for i, sibling := range d.Parent.Children {
		if at.X < sibling.X {
			idx = i
			break
		}
	}
	c.forest.ConnectAt(d.Parent, moving, idx)
}

func childIndex(parent, child *tree.Node) int {
	for i, c := range parent.Children {
		if c == child {
			return i
		}
	}
	return len(parent.Children)
}
