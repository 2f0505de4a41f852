// Package term is the terminal visual host: it renders the diagram with
// tcell, forwards keystrokes to the engine's text entry points, and turns
// mouse input into drag lifecycle events.
package term

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"syntree/bracket"
	"syntree/connect"
	"syntree/engine"
	"syntree/geometry"
)

// Host implements engine.VisualHost on a tcell screen.
type Host struct {
	screen tcell.Screen
	eng    *engine.Engine

	labels    map[int]string
	positions map[int]geometry.Point
	starred   map[int]bool
	preview   *connect.Decision
	status    engine.Status

	// Text input line state.
	text    []rune
	cursor  int
	focused bool

	// World-to-cell projection.
	cellWidth  float64
	cellHeight float64
	originX    int
	originY    int

	dragging bool
	quit     bool
}

// NewHost creates a host on the given screen. Bind the engine with
// SetEngine before running the loop.
func NewHost(screen tcell.Screen) *Host {
	return &Host{
		screen:     screen,
		labels:     make(map[int]string),
		positions:  make(map[int]geometry.Point),
		starred:    make(map[int]bool),
		cellWidth:  10,
		cellHeight: 35,
		originX:    2,
		originY:    1,
	}
}

// SetEngine binds the engine the host forwards input to.
func (h *Host) SetEngine(e *engine.Engine) {
	h.eng = e
}

// ---- engine.VisualHost ----

// CreateNodeElement registers a visual element; ids are upserted.
func (h *Host) CreateNodeElement(id int, label string) {
	h.labels[id] = label
	if h.eng != nil {
		if n := h.eng.Forest().FindByID(id); n != nil {
			h.starred[id] = n.Starred
		}
	}
}

// RemoveNodeElement drops the element for a node id.
func (h *Host) RemoveNodeElement(id int) {
	delete(h.labels, id)
	delete(h.positions, id)
	delete(h.starred, id)
}

// UpdateNodeLabel changes one element's displayed label.
func (h *Host) UpdateNodeLabel(id int, label string) {
	h.labels[id] = label
}

// RefreshConnectors is a no-op here: connectors are derived from the
// forest's parent/child structure on every draw.
func (h *Host) RefreshConnectors() {}

// NodeScreenCenter reports an element's current cell coordinates.
func (h *Host) NodeScreenCenter(id int) (geometry.Point, bool) {
	p, ok := h.positions[id]
	if !ok {
		return geometry.Point{}, false
	}
	cx, cy := h.toCell(p)
	return geometry.Point{X: float64(cx), Y: float64(cy)}, true
}

// SetNodePosition applies a world position to an element.
func (h *Host) SetNodePosition(id int, p geometry.Point) {
	h.positions[id] = p
}

// ShowPreview decorates the pending drop decision.
func (h *Host) ShowPreview(d connect.Decision) {
	h.preview = &d
}

// ClearPreview removes the drop decoration.
func (h *Host) ClearPreview() {
	h.preview = nil
}

// SetText replaces the input line's content.
func (h *Host) SetText(text string) {
	h.text = []rune(text)
	if h.cursor > len(h.text) {
		h.cursor = len(h.text)
	}
}

// SetStatus updates the status indicator.
func (h *Host) SetStatus(s engine.Status) {
	h.status = s
}

// ---- projection ----

func (h *Host) toCell(p geometry.Point) (int, int) {
	return h.originX + int(p.X/h.cellWidth+0.5), h.originY + int(p.Y/h.cellHeight+0.5)
}

func (h *Host) toWorld(cx, cy int) geometry.Point {
	return geometry.Point{
		X: float64(cx-h.originX) * h.cellWidth,
		Y: float64(cy-h.originY) * h.cellHeight,
	}
}

// hitTest returns the id of the element whose label covers the cell, or 0.
func (h *Host) hitTest(cx, cy int) int {
	best := 0
	for id := range h.labels {
		x, y := h.toCell(h.positions[id])
		w := len([]rune(h.labels[id]))
		if cy == y && cx >= x-w/2-1 && cx <= x+w/2+1 {
			if best == 0 || id < best {
				best = id
			}
		}
	}
	return best
}

// ---- event loop ----

// Run drives the interactive session until the user quits.
func (h *Host) Run() error {
	if err := h.screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer h.screen.Fini()
	h.screen.EnableMouse()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	frame := time.NewTicker(33 * time.Millisecond)
	defer frame.Stop()

	h.draw()
	for !h.quit {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			h.handleEvent(ev)
		case now := <-frame.C:
			h.eng.Tick(now)
		}
		h.draw()
	}
	return nil
}

func (h *Host) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
	case *tcell.EventKey:
		h.handleKey(ev)
	case *tcell.EventMouse:
		h.handleMouse(ev)
	}
}

func (h *Host) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC {
		h.quit = true
		return
	}
	if h.focused {
		h.handleTextKey(ev)
		return
	}
	switch ev.Key() {
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			h.quit = true
		case 'e', '/':
			h.focused = true
			h.eng.OnTextFocus()
		}
	}
}

func (h *Host) handleTextKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyTab:
		h.focused = false
		h.eng.OnTextBlur()
	case tcell.KeyEnter:
		h.eng.OnTextEnter()
	case tcell.KeyLeft:
		if h.cursor > 0 {
			h.cursor--
		}
	case tcell.KeyRight:
		if h.cursor < len(h.text) {
			h.cursor++
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if h.cursor > 0 {
			h.text = append(h.text[:h.cursor-1], h.text[h.cursor:]...)
			h.cursor--
			h.eng.OnTextChanged(string(h.text))
		}
	case tcell.KeyRune:
		h.text = append(h.text[:h.cursor], append([]rune{ev.Rune()}, h.text[h.cursor:]...)...)
		h.cursor++
		h.eng.OnTextChanged(string(h.text))
	}
}

func (h *Host) handleMouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	_, height := h.screen.Size()

	switch {
	case ev.Buttons()&tcell.Button1 != 0 && !h.dragging:
		if cy >= height-2 {
			// Clicking the input line focuses it.
			if !h.focused {
				h.focused = true
				h.eng.OnTextFocus()
			}
			return
		}
		if h.focused {
			h.focused = false
			h.eng.OnTextBlur()
		}
		if id := h.hitTest(cx, cy); id != 0 {
			if h.eng.DragBegin(id) {
				h.dragging = true
			}
		}
	case ev.Buttons()&tcell.Button1 != 0 && h.dragging:
		h.eng.DragMove(h.toWorld(cx, cy))
	case ev.Buttons() == tcell.ButtonNone && h.dragging:
		h.dragging = false
		h.eng.DragEnd(h.toWorld(cx, cy))
	}
}

// ---- drawing ----

var (
	styleDefault = tcell.StyleDefault
	styleNode    = tcell.StyleDefault.Bold(true)
	stylePreview = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleLine    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus  = map[engine.Status]tcell.Style{
		engine.StatusReady:   tcell.StyleDefault,
		engine.StatusEditing: tcell.StyleDefault.Foreground(tcell.ColorYellow),
		engine.StatusSynced:  tcell.StyleDefault.Foreground(tcell.ColorGreen),
		engine.StatusWarning: tcell.StyleDefault.Foreground(tcell.ColorOrange),
		engine.StatusError:   tcell.StyleDefault.Foreground(tcell.ColorRed),
	}
)

func (h *Host) draw() {
	h.screen.Clear()
	h.drawConnectors()
	h.drawNodes()
	h.drawMovementArcs()
	h.drawInputLine()
	h.screen.Show()
}

func (h *Host) drawConnectors() {
	f := h.eng.Forest()
	for _, root := range f.Roots() {
		for _, n := range root.Descendants() {
			for _, child := range n.Children {
				style := styleLine
				if h.previewTouches(n.ID, child.ID) {
					style = stylePreview
				}
				h.drawLine(h.positions[n.ID], h.positions[child.ID], style)
			}
		}
	}
}

// drawLine draws a dotted segment between two world points.
func (h *Host) drawLine(a, b geometry.Point, style tcell.Style) {
	ax, ay := h.toCell(a)
	bx, by := h.toCell(b)
	steps := max(abs(bx-ax), abs(by-ay))
	if steps == 0 {
		return
	}
	for i := 1; i < steps; i++ {
		x := ax + (bx-ax)*i/steps
		y := ay + (by-ay)*i/steps
		h.screen.SetContent(x, y, '·', nil, style)
	}
}

func (h *Host) previewTouches(parentID, childID int) bool {
	if h.preview == nil || h.preview.Kind != connect.Insert {
		return false
	}
	return h.preview.Parent.ID == parentID && h.preview.Child.ID == childID
}

func (h *Host) drawNodes() {
	for id, label := range h.labels {
		x, y := h.toCell(h.positions[id])
		style := styleNode
		if h.preview != nil && h.preview.Kind == connect.Reparent && h.preview.Parent.ID == id {
			style = stylePreview
		}
		runes := []rune(label)
		start := x - len(runes)/2
		for i, r := range runes {
			h.screen.SetContent(start+i, y, r, nil, style)
		}
		if h.starred[id] {
			h.screen.SetContent(x, y+1, '▲', nil, styleLine)
		}
	}
}

// drawMovementArcs marks movement pairs with matching markers under the
// head and the trace.
func (h *Host) drawMovementArcs() {
	for _, pair := range h.eng.Forest().FindMovementPairs() {
		hx, hy := h.toCell(h.positions[pair.Head.ID])
		tx, ty := h.toCell(h.positions[pair.Trace.ID])
		h.screen.SetContent(hx, hy-1, '◜', nil, styleLine)
		h.screen.SetContent(tx, ty-1, '◝', nil, styleLine)
	}
}

func (h *Host) drawInputLine() {
	width, height := h.screen.Size()
	y := height - 1

	marker := '○'
	switch h.status {
	case engine.StatusSynced:
		marker = '●'
	case engine.StatusWarning, engine.StatusError:
		marker = '!'
	case engine.StatusEditing:
		marker = '…'
	}
	h.screen.SetContent(0, y, marker, nil, styleStatus[h.status])
	h.screen.SetContent(1, y, ' ', nil, styleDefault)

	for i, r := range h.text {
		if 2+i >= width {
			break
		}
		h.screen.SetContent(2+i, y, r, nil, styleDefault)
	}
	if h.focused {
		h.screen.ShowCursor(2+h.cursor, y)
		// Highlight the node under the cursor by name in the corner.
		if n := h.eng.NodeAt(h.cursor); n != nil {
			hint := bracket.DisplayLabel(n)
			for i, r := range hint {
				h.screen.SetContent(width-len(hint)+i, 0, r, nil, styleLine)
			}
		}
	} else {
		h.screen.HideCursor()
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
