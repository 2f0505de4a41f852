package engine

import (
	"syntree/connect"
	"syntree/geometry"
)

// Status is the user-visible synchronization state, driven onto a status
// indicator by the engine. There is no blocking failure mode.
type Status int

const (
	StatusReady Status = iota
	StatusEditing
	StatusSynced
	StatusWarning
	StatusError
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusEditing:
		return "editing"
	case StatusSynced:
		return "synced"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// VisualHost is the narrow contract the engine drives the rendering layer
// through. The core never draws pixels: it tells the host what exists,
// where it belongs, and what to decorate.
type VisualHost interface {
	// CreateNodeElement makes a visual element for a node id. Creating an
	// element for an id that already has one is an upsert.
	CreateNodeElement(id int, label string)

	// RemoveNodeElement removes the element for a node id.
	RemoveNodeElement(id int)

	// UpdateNodeLabel changes the displayed label of one element.
	UpdateNodeLabel(id int, label string)

	// RefreshConnectors rebuilds the connector lines from the current
	// parent/child structure.
	RefreshConnectors()

	// NodeScreenCenter reports an element's current on-screen center.
	NodeScreenCenter(id int) (geometry.Point, bool)

	// SetNodePosition applies a position to an element immediately.
	// Animated application is handled by the engine, which calls this
	// once per frame with interpolated positions.
	SetNodePosition(id int, p geometry.Point)

	// ShowPreview decorates the pending drop decision during a drag;
	// ClearPreview removes the decoration. Previews are separate from
	// committed state.
	ShowPreview(d connect.Decision)
	ClearPreview()

	// SetText replaces the text view's content after a tree→text sync.
	SetText(text string)

	// SetStatus updates the status indicator.
	SetStatus(s Status)
}
