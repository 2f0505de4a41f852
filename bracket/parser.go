// Package bracket implements the textual representation of syntax forests:
// a tolerant bracket-notation parser, a non-blocking validator for status
// display, and a serializer with per-node offset positions.
//
// The grammar is [LABEL child*] where a child is either a nested bracket
// group or a maximal run of bracket-free text, which becomes one terminal.
// Label suffixes: a trailing ^ stars the node, a trailing _TOKEN sets its
// movement label. Terminal text containing <TOKEN> sets a movement trace.
package bracket

import (
	"strings"

	"syntree/tree"
)

// Parse builds a fresh forest from bracket notation. It never fails: input
// is balanced first, so partial in-progress text still yields a renderable
// forest. Use Validate to surface complaints about malformed input.
func Parse(text string) *tree.Forest {
	f := tree.NewForest()
	buildForest(f, text)
	return f
}

// ParseInto rebuilds an existing forest from bracket notation inside a
// batch, so subscribers see a single coalesced tree-changed event.
func ParseInto(f *tree.Forest, text string) {
	f.BeginBatch()
	f.Clear()
	buildForest(f, text)
	f.EndBatch()
}

func buildForest(f *tree.Forest, text string) {
	p := &parser{src: []rune(Balance(text)), forest: f}
	for {
		p.skipSpace()
		if p.eof() {
			return
		}
		if p.peek() == '[' {
			if n := p.parseGroup(); n != nil {
				f.AddRoot(n)
			}
			continue
		}
		// Bare top-level text becomes a terminal root.
		if term := p.parseTerminal(); term != nil {
			f.AddRoot(term)
		}
	}
}

// Balance repairs unmatched brackets so the input always parses: trailing
// unmatched opens get closing brackets appended, leading unmatched closes
// get opening brackets prepended.
func Balance(text string) string {
	depth := 0
	unmatchedClose := 0
	for _, r := range text {
		switch r {
		case '[':
			depth++
		case ']':
			if depth == 0 {
				unmatchedClose++
			} else {
				depth--
			}
		}
	}
	if unmatchedClose > 0 {
		text = strings.Repeat("[", unmatchedClose) + text
	}
	if depth > 0 {
		text = text + strings.Repeat("]", depth)
	}
	return text
}

type parser struct {
	src    []rune
	pos    int
	forest *tree.Forest
}

func (p *parser) eof() bool  { return p.pos >= len(p.src) }
func (p *parser) peek() rune { return p.src[p.pos] }
func (p *parser) advance()   { p.pos++ }

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(p.peek()) {
		p.advance()
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// parseGroup parses one [LABEL child*] group. The opening bracket is at the
// current position.
func (p *parser) parseGroup() *tree.Node {
	p.advance() // consume '['
	p.skipSpace()

	// Label runs to whitespace or a bracket.
	start := p.pos
	for !p.eof() && !isSpace(p.peek()) && p.peek() != '[' && p.peek() != ']' {
		p.advance()
	}
	label, starred, movement := splitLabel(string(p.src[start:p.pos]))

	node := p.forest.CreateNode(label)
	node.Starred = starred
	node.MovementLabel = movement

	for {
		p.skipSpace()
		if p.eof() {
			return node
		}
		switch p.peek() {
		case ']':
			p.advance()
			return node
		case '[':
			if child := p.parseGroup(); child != nil {
				p.forest.Connect(node, child)
			}
		default:
			if term := p.parseTerminal(); term != nil {
				p.forest.Connect(node, term)
			}
		}
	}
}

// parseTerminal consumes a maximal run of bracket-free text and creates one
// terminal from it. Words are deliberately not split.
func (p *parser) parseTerminal() *tree.Node {
	start := p.pos
	for !p.eof() && p.peek() != '[' && p.peek() != ']' {
		p.advance()
	}
	text := strings.TrimSpace(string(p.src[start:p.pos]))
	if text == "" {
		return nil
	}
	text, trace := splitTrace(text)
	term := p.forest.CreateTerminal(text)
	term.MovementTrace = trace
	return term
}

// splitLabel strips label suffixes: a trailing ^ (starred) first, then a
// trailing _TOKEN (movement label). The serializer emits them in the
// mirrored order so round-trips are stable.
func splitLabel(token string) (label string, starred bool, movement string) {
	label = token
	if strings.HasSuffix(label, "^") {
		starred = true
		label = strings.TrimSuffix(label, "^")
	}
	if i := strings.LastIndex(label, "_"); i > 0 && i < len(label)-1 {
		movement = label[i+1:]
		label = label[:i]
	}
	return label, starred, movement
}

// splitTrace extracts a <TOKEN> movement-trace marker from terminal text,
// returning the display text with the marker removed.
func splitTrace(text string) (display, trace string) {
	open := strings.Index(text, "<")
	if open < 0 {
		return text, ""
	}
	close := strings.Index(text[open:], ">")
	if close < 0 {
		return text, ""
	}
	close += open
	trace = text[open+1 : close]
	display = strings.TrimSpace(text[:open] + text[close+1:])
	return display, trace
}
