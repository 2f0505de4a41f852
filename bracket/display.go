package bracket

import "syntree/tree"

// subscriptDigits maps '0'-'9' onto the Unicode subscript block.
var subscriptDigits = [10]rune{'₀', '₁', '₂', '₃', '₄', '₅', '₆', '₇', '₈', '₉'}

// DisplayLabel renders a node's label for on-screen display. A purely
// numeric movement label or trace becomes Unicode subscript digits; any
// other annotation is appended literally as _label.
func DisplayLabel(n *tree.Node) string {
	annotation := n.MovementLabel
	if annotation == "" {
		annotation = n.MovementTrace
	}
	if annotation == "" {
		return n.Label
	}
	if sub, ok := toSubscript(annotation); ok {
		return n.Label + sub
	}
	return n.Label + "_" + annotation
}

func toSubscript(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
		out = append(out, subscriptDigits[r-'0'])
	}
	return string(out), true
}
