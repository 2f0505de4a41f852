package bracket

import (
	"strings"

	"syntree/tree"
)

// Options controls serialization output.
type Options struct {
	PrettyPrint     bool
	IndentSize      int
	IncludeMovement bool
}

// DefaultOptions returns the standard serialization settings: compact, with
// movement annotations included.
func DefaultOptions() Options {
	return Options{IndentSize: 2, IncludeMovement: true}
}

// Span is a [Start, End) rune-offset range in serialized text.
type Span struct {
	Start, End int
}

// Width returns the number of runes the span covers.
func (s Span) Width() int {
	return s.End - s.Start
}

// Contains reports whether the offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Serialize renders the forest as bracket notation. Round-trip stability is
// guaranteed for forests produced by the parser; hand-built forests with
// irregular shapes serialize best-effort without normalization.
func Serialize(f *tree.Forest, opts Options) string {
	w := &writer{opts: opts}
	w.writeForest(f)
	return w.sb.String()
}

// SerializeWithPositions renders the forest compactly and returns, for each
// node id, the offset range that node occupies in the text. The map is
// built during the same traversal that builds the text.
func SerializeWithPositions(f *tree.Forest) (string, map[int]Span) {
	w := &writer{opts: DefaultOptions(), positions: make(map[int]Span)}
	w.writeForest(f)
	return w.sb.String(), w.positions
}

// FindNodeAtPosition returns the id of the innermost node whose span
// contains the offset: the containing span with the smallest width wins,
// ties broken toward the lowest id. Returns 0 when no span contains it.
func FindNodeAtPosition(offset int, positions map[int]Span) int {
	best := 0
	bestWidth := -1
	for id, span := range positions {
		if !span.Contains(offset) {
			continue
		}
		w := span.Width()
		if bestWidth < 0 || w < bestWidth || (w == bestWidth && id < best) {
			best = id
			bestWidth = w
		}
	}
	return best
}

type writer struct {
	sb        strings.Builder
	opts      Options
	positions map[int]Span // nil unless position tracking is on
	length    int          // rune length written so far
}

func (w *writer) emit(s string) {
	w.sb.WriteString(s)
	w.length += len([]rune(s))
}

func (w *writer) writeForest(f *tree.Forest) {
	sep := " "
	if w.opts.PrettyPrint {
		sep = "\n"
	}
	for i, root := range f.Roots() {
		if i > 0 {
			w.emit(sep)
		}
		w.writeNode(root, 0)
	}
}

func (w *writer) writeNode(n *tree.Node, depth int) {
	start := w.length
	if n.IsTerminal() {
		w.emit(w.terminalToken(n))
	} else if w.opts.PrettyPrint {
		w.writePretty(n, depth)
	} else {
		w.writeCompact(n)
	}
	if w.positions != nil {
		w.positions[n.ID] = Span{Start: start, End: w.length}
	}
}

func (w *writer) writeCompact(n *tree.Node) {
	w.emit("[")
	w.emit(w.labelToken(n))
	for _, child := range n.Children {
		w.emit(" ")
		w.writeNode(child, 0)
	}
	w.emit("]")
}

func (w *writer) writePretty(n *tree.Node, depth int) {
	// Nodes whose children are all terminals stay on one line; anything
	// deeper puts each child on its own indented line.
	allTerminal := true
	for _, child := range n.Children {
		if !child.IsTerminal() {
			allTerminal = false
			break
		}
	}
	if allTerminal {
		w.writeCompact(n)
		return
	}

	indent := strings.Repeat(" ", w.opts.IndentSize)
	w.emit("[")
	w.emit(w.labelToken(n))
	for _, child := range n.Children {
		w.emit("\n")
		w.emit(strings.Repeat(indent, depth+1))
		w.writeNode(child, depth+1)
	}
	w.emit("\n")
	w.emit(strings.Repeat(indent, depth))
	w.emit("]")
}

// labelToken reapplies the label suffixes the parser strips, in the
// mirrored order: movement label first, star last.
func (w *writer) labelToken(n *tree.Node) string {
	token := n.Label
	if w.opts.IncludeMovement && n.MovementLabel != "" {
		token += "_" + n.MovementLabel
	}
	if n.Starred {
		token += "^"
	}
	return token
}

func (w *writer) terminalToken(n *tree.Node) string {
	token := n.Label
	if w.opts.IncludeMovement && n.MovementTrace != "" {
		token += "<" + n.MovementTrace + ">"
	}
	return token
}
