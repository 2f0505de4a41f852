// Package engine keeps the bracket-text view and the positioned-diagram
// view of one forest continuously consistent. It owns the keystroke
// debounce, the re-entrancy guard that stops feedback loops between the two
// directions, and the dispatch table mapping tree events to host actions.
package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"syntree/bracket"
	"syntree/connect"
	"syntree/geometry"
	"syntree/layout"
	"syntree/tree"
)

// DefaultDebounce is the delay between the last keystroke and the
// text→tree parse it triggers.
const DefaultDebounce = 500 * time.Millisecond

// Engine orchestrates the forest, the parser/serializer pair, the layout
// engine, the connection resolver and the visual host.
type Engine struct {
	forest   *tree.Forest
	layout   *layout.Engine
	animator *layout.Animator
	drag     *connect.Controller
	host     VisualHost
	sched    *Scheduler
	log      *zap.Logger

	// Synchronization flags. isSyncing brackets every engine-initiated
	// mutation-then-sync sequence so a change from one direction cannot
	// re-trigger synchronization in the same direction.
	autoSync        bool
	isSyncing       bool
	textIsFocused   bool
	pendingTextSync bool

	DebounceDelay time.Duration
	debounce      *Task

	text      string
	positions map[int]bracket.Span
	status    Status
}

// New creates an engine bound to a forest and a visual host. The logger
// may be zap.NewNop(); it must not be nil.
func New(forest *tree.Forest, host VisualHost, logger *zap.Logger) *Engine {
	e := &Engine{
		forest:        forest,
		layout:        layout.NewEngine(),
		animator:      layout.NewAnimator(),
		host:          host,
		sched:         NewScheduler(),
		log:           logger,
		autoSync:      true,
		DebounceDelay: DefaultDebounce,
		status:        StatusReady,
	}
	e.drag = connect.NewController(forest, connect.NewResolver())
	forest.Subscribe(e.handleTreeEvent)
	host.SetStatus(StatusReady)
	return e
}

// Scheduler exposes the engine's cooperative scheduler so the host can
// pump it; tests replace its clock.
func (e *Engine) Scheduler() *Scheduler {
	return e.sched
}

// Forest returns the canonical forest.
func (e *Engine) Forest() *tree.Forest {
	return e.forest
}

// Layout returns the layout engine, for hosts that need its spacing.
func (e *Engine) Layout() *layout.Engine {
	return e.layout
}

// Status returns the current user-visible synchronization state.
func (e *Engine) Status() Status {
	return e.status
}

// Text returns the engine's current text buffer content.
func (e *Engine) Text() string {
	return e.text
}

// SetAutoSync toggles automatic synchronization in both directions.
func (e *Engine) SetAutoSync(on bool) {
	e.autoSync = on
}

func (e *Engine) setStatus(s Status) {
	e.status = s
	e.host.SetStatus(s)
}

// ---- text → tree ----

// OnTextChanged records a keystroke's new buffer content. Validation runs
// immediately, purely for the status indicator; the parse itself is
// debounced so live typing does not thrash the diagram.
func (e *Engine) OnTextChanged(text string) {
	e.text = text
	if res := bracket.Validate(text); !res.Valid {
		e.setStatus(StatusWarning)
	} else {
		e.setStatus(StatusEditing)
	}
	if !e.autoSync {
		return
	}
	if e.debounce != nil {
		e.debounce.Cancel()
	}
	e.debounce = e.sched.After(e.DebounceDelay, e.syncFromText)
}

// OnTextEnter forces the pending parse immediately (Enter without a
// modifier in the text view).
func (e *Engine) OnTextEnter() {
	if e.debounce != nil {
		e.debounce.Cancel()
		e.debounce = nil
	}
	e.syncFromText()
}

// OnTextFocus marks the text view focused: tree→text refreshes are
// deferred while the user is typing there.
func (e *Engine) OnTextFocus() {
	e.textIsFocused = true
}

// OnTextBlur clears the focus flag and flushes any deferred refresh.
func (e *Engine) OnTextBlur() {
	e.textIsFocused = false
	if e.pendingTextSync {
		e.pendingTextSync = false
		e.refreshText()
	}
}

// syncFromText rebuilds the forest from the text buffer. The guard keeps
// the resulting tree events from re-serializing back into the text view
// mid-parse.
func (e *Engine) syncFromText() {
	if e.isSyncing {
		return
	}
	e.isSyncing = true
	defer func() { e.isSyncing = false }()

	bracket.ParseInto(e.forest, e.text)
	e.positions = nil

	if res := bracket.Validate(e.text); !res.Valid {
		e.log.Debug("parsed with repair", zap.String("complaint", res.Error))
		e.setStatus(StatusWarning)
	} else {
		e.setStatus(StatusSynced)
	}
}

// ---- tree → text ----

// refreshText re-serializes the whole forest into the text view. Failures
// are logged and leave the existing buffer untouched.
func (e *Engine) refreshText() {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("serialization failed", zap.Any("panic", r))
			e.setStatus(StatusError)
		}
	}()

	text, positions := bracket.SerializeWithPositions(e.forest)
	e.text = text
	e.positions = positions
	e.host.SetText(text)
	e.setStatus(StatusSynced)
}

// scheduleTextRefresh runs a tree→text refresh now, or defers it while the
// text view has focus.
func (e *Engine) scheduleTextRefresh() {
	if e.textIsFocused {
		e.pendingTextSync = true
		return
	}
	e.refreshText()
}

// ---- event dispatch ----

// handleTreeEvent maps each tree event kind onto host actions, then
// refreshes the text view unless the event originated from a text sync.
func (e *Engine) handleTreeEvent(ev tree.Event) {
	if !e.autoSync {
		return
	}
	switch ev.Kind {
	case tree.EventNodeCreated:
		e.host.CreateNodeElement(ev.Node.ID, bracket.DisplayLabel(ev.Node))
	case tree.EventConnected, tree.EventDisconnected,
		tree.EventRootAdded, tree.EventRootRemoved:
		e.host.RefreshConnectors()
		e.Relayout()
	case tree.EventNodeDeleted:
		for _, id := range ev.DeletedIDs {
			e.host.RemoveNodeElement(id)
		}
		e.host.RefreshConnectors()
		e.Relayout()
	case tree.EventLabelUpdated:
		e.host.UpdateNodeLabel(ev.Node.ID, bracket.DisplayLabel(ev.Node))
	case tree.EventTreeChanged, tree.EventTreeCleared:
		e.rebuildVisuals()
		e.Relayout()
	}

	if !e.isSyncing {
		e.scheduleTextRefresh()
	}
}

// rebuildVisuals tears down and recreates every element and connector, for
// coalesced changes where incremental updates are not worth tracking.
func (e *Engine) rebuildVisuals() {
	seen := make(map[int]bool)
	for _, root := range e.forest.Roots() {
		for _, n := range root.Descendants() {
			seen[n.ID] = true
			e.host.CreateNodeElement(n.ID, bracket.DisplayLabel(n))
		}
	}
	for _, n := range e.forest.FindAll(func(*tree.Node) bool { return true }) {
		if !seen[n.ID] {
			e.host.RemoveNodeElement(n.ID)
		}
	}
	e.host.RefreshConnectors()
}

// ---- layout ----

// Relayout computes fresh targets and starts animating nodes toward them.
// Any in-flight animation for the same nodes is cancelled first.
func (e *Engine) Relayout() {
	targets := e.layout.Compute(e.forest)
	e.animator.Start(e.forest, targets, e.sched.Now())
}

// RelayoutNow computes targets and applies them without animation.
func (e *Engine) RelayoutNow() {
	e.animator.Cancel()
	targets := e.layout.Compute(e.forest)
	layout.Apply(e.forest, targets)
	e.pushPositions()
}

// Tick advances the scheduler and any running animation. Hosts call it
// once per frame; it reports whether another frame is needed.
func (e *Engine) Tick(now time.Time) bool {
	e.sched.Advance(now)
	active := e.animator.Step(now)
	e.pushPositions()
	return active
}

func (e *Engine) pushPositions() {
	for _, root := range e.forest.Roots() {
		for _, n := range root.Descendants() {
			e.host.SetNodePosition(n.ID, n.Center())
		}
	}
}

// ---- cursor mapping ----

// NodeAt maps a text offset to the innermost node occupying it, using the
// serializer's position map. Returns nil when the offset is outside every
// node's span.
func (e *Engine) NodeAt(offset int) *tree.Node {
	if e.positions == nil {
		_, e.positions = bracket.SerializeWithPositions(e.forest)
	}
	id := bracket.FindNodeAtPosition(offset, e.positions)
	return e.forest.FindByID(id)
}

// ---- drag ----

// DragBegin starts dragging a node. Returns false for unknown ids or when
// a drag is already active.
func (e *Engine) DragBegin(nodeID int) bool {
	return e.drag.Begin(nodeID)
}

// DragState returns the drag state machine's current phase.
func (e *Engine) DragState() connect.DragState {
	return e.drag.State()
}

// DragMove moves the dragged node and pushes a preview decoration for the
// decision the drop would take.
func (e *Engine) DragMove(at geometry.Point) connect.Decision {
	d := e.drag.Move(at)
	if moving := e.drag.Moving(); moving != nil {
		e.host.SetNodePosition(moving.ID, moving.Center())
	}
	if d.Kind == connect.NoChange {
		e.host.ClearPreview()
	} else {
		e.host.ShowPreview(d)
	}
	return d
}

// DragEnd commits the drop. The resulting tree events flow back through
// the dispatch table, so the diagram relayouts and the text view refreshes
// without further engine involvement.
func (e *Engine) DragEnd(at geometry.Point) connect.Decision {
	d := e.drag.End(at)
	e.host.ClearPreview()
	if d.Kind == connect.NoChange {
		// No structural change, but the node was still repositioned by
		// hand; settle the diagram back onto its grid.
		e.Relayout()
	}
	return d
}

// ---- loading ----

// LoadText force-parses text into the forest, as when a shared link or
// file populates the editor. The text view is updated to the input.
func (e *Engine) LoadText(text string) {
	e.text = text
	e.host.SetText(text)
	e.syncFromText()
	e.RelayoutNow()
}

// String describes the engine state for debugging.
func (e *Engine) String() string {
	return fmt.Sprintf("engine{status=%v nodes=%d focused=%v}",
		e.status, e.forest.NodeCount(), e.textIsFocused)
}
