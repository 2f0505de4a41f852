package bracket

import "fmt"

// Result reports the outcome of validating bracket text. Position is the
// rune offset the complaint refers to; for missing closing brackets it is
// the end of the input.
type Result struct {
	Valid    bool
	Error    string
	Position int
}

// Validate checks bracket text for structural complaints without parsing or
// mutating anything. It exists purely to drive a status indicator: the
// parser accepts everything Validate rejects, after auto-balancing.
func Validate(text string) Result {
	runes := []rune(text)
	depth := 0
	for i, r := range runes {
		switch r {
		case '[':
			// An opening bracket must be followed by a label token.
			j := i + 1
			for j < len(runes) && isSpace(runes[j]) {
				j++
			}
			if j < len(runes) && (runes[j] == '[' || runes[j] == ']') {
				return Result{Error: "Empty label", Position: i}
			}
			depth++
		case ']':
			if depth == 0 {
				return Result{Error: "Unexpected closing bracket", Position: i}
			}
			depth--
		}
	}
	if depth > 0 {
		plural := "s"
		if depth == 1 {
			plural = ""
		}
		return Result{
			Error:    fmt.Sprintf("Missing %d closing bracket%s", depth, plural),
			Position: len(runes),
		}
	}
	return Result{Valid: true}
}
