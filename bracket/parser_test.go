package bracket

import (
	"testing"

	"syntree/tree"
)

func TestParseSimpleSentence(t *testing.T) {
	f := Parse("[NP [DET the] [NOUN cat]]")
	roots := f.Roots()
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	np := roots[0]
	if np.Label != "NP" || np.Category != tree.Phrase {
		t.Errorf("root = %s (%v), want NP (Phrase)", np.Label, np.Category)
	}
	if len(np.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(np.Children))
	}

	det := np.Children[0]
	if det.Label != "DET" || det.Category != tree.PartOfSpeech {
		t.Errorf("first child = %s (%v)", det.Label, det.Category)
	}
	if len(det.Children) != 1 || det.Children[0].Label != "the" ||
		!det.Children[0].IsTerminal() {
		t.Error("DET should have one terminal child \"the\"")
	}

	noun := np.Children[1]
	if len(noun.Children) != 1 || noun.Children[0].Label != "cat" {
		t.Error("NOUN should have one terminal child \"cat\"")
	}
}

func TestParseKeepsTextRunsWhole(t *testing.T) {
	f := Parse("[NP the big dog]")
	np := f.Roots()[0]
	if len(np.Children) != 1 {
		t.Fatalf("expected one terminal for the whole run, got %d children", len(np.Children))
	}
	if np.Children[0].Label != "the big dog" {
		t.Errorf("terminal = %q", np.Children[0].Label)
	}
}

func TestParseMultipleRoots(t *testing.T) {
	f := Parse("[NP dog] [VP runs]")
	if len(f.Roots()) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(f.Roots()))
	}
}

func TestParseBareTextRoot(t *testing.T) {
	f := Parse("hello world")
	roots := f.Roots()
	if len(roots) != 1 || !roots[0].IsTerminal() || roots[0].Label != "hello world" {
		t.Fatalf("bare text should become one terminal root, got %v", roots)
	}
}

func TestBalance(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"[S [NP the]", "[S [NP the]]"},
		{"[S [NP", "[S [NP]]"},
		{"NP the]]", "[[NP the]]"},
		{"[S ok]", "[S ok]"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Balance(tt.in); got != tt.want {
			t.Errorf("Balance(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAutoBalancedParseMatchesBalancedInput(t *testing.T) {
	opts := DefaultOptions()
	broken := Serialize(Parse("[S [NP the]"), opts)
	fixed := Serialize(Parse("[S [NP the]]"), opts)
	if broken != fixed {
		t.Errorf("auto-balanced parse diverged: %q vs %q", broken, fixed)
	}
}

func TestLabelSuffixes(t *testing.T) {
	f := Parse("[NP^ dogs]")
	np := f.Roots()[0]
	if !np.Starred {
		t.Error("trailing ^ should star the node")
	}
	if np.Label != "NP" {
		t.Errorf("star not stripped: %q", np.Label)
	}

	f = Parse("[NP_1 dogs]")
	np = f.Roots()[0]
	if np.MovementLabel != "1" || np.Label != "NP" {
		t.Errorf("movement suffix: label=%q movement=%q", np.Label, np.MovementLabel)
	}

	f = Parse("[NP_1^ dogs]")
	np = f.Roots()[0]
	if !np.Starred || np.MovementLabel != "1" || np.Label != "NP" {
		t.Errorf("combined suffixes: label=%q movement=%q starred=%v",
			np.Label, np.MovementLabel, np.Starred)
	}
}

func TestMovementTrace(t *testing.T) {
	f := Parse("[S [NP_1 what] [V is] [N t<1>]]")
	var trace *tree.Node
	for _, n := range f.FindAll(func(n *tree.Node) bool { return n.MovementTrace != "" }) {
		trace = n
	}
	if trace == nil {
		t.Fatal("no trace terminal parsed")
	}
	if trace.Label != "t" || trace.MovementTrace != "1" {
		t.Errorf("trace terminal: label=%q trace=%q", trace.Label, trace.MovementTrace)
	}

	pairs := f.FindMovementPairs()
	if len(pairs) != 1 {
		t.Fatalf("expected 1 movement pair, got %d", len(pairs))
	}
	if pairs[0].Head.Label != "NP" || pairs[0].Trace != trace {
		t.Error("movement pair members wrong")
	}
}

func TestParseIntoCoalescesEvents(t *testing.T) {
	f := tree.NewForest()
	var kinds []tree.EventKind
	f.Subscribe(func(e tree.Event) { kinds = append(kinds, e.Kind) })

	ParseInto(f, "[S [NP the dog] [VP runs]]")
	if len(kinds) != 1 || kinds[0] != tree.EventTreeChanged {
		t.Fatalf("expected one coalesced event, got %v", kinds)
	}
	if len(f.Roots()) != 1 {
		t.Fatalf("rebuild produced %d roots", len(f.Roots()))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		valid    bool
		errMsg   string
		position int
	}{
		{"balanced", "[S [NP the]]", true, "", 0},
		{"two missing", "[S [NP", false, "Missing 2 closing brackets", 6},
		{"one missing", "[S ok", false, "Missing 1 closing bracket", 5},
		{"unexpected close", "ok]", false, "Unexpected closing bracket", 2},
		{"empty label", "[[NP x]]", false, "Empty label", 0},
		{"empty", "", true, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.text)
			if got.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (%+v)", got.Valid, tt.valid, got)
			}
			if !tt.valid {
				if got.Error != tt.errMsg {
					t.Errorf("Error = %q, want %q", got.Error, tt.errMsg)
				}
				if got.Position != tt.position {
					t.Errorf("Position = %d, want %d", got.Position, tt.position)
				}
			}
		})
	}
}

func TestValidateNeverBlocksParse(t *testing.T) {
	text := "[S [NP"
	if Validate(text).Valid {
		t.Fatal("precondition: text should be invalid")
	}
	f := Parse(text)
	if len(f.Roots()) == 0 {
		t.Error("invalid text still must parse to a forest")
	}
}

func TestDisplayLabel(t *testing.T) {
	f := tree.NewForest()

	plain := f.CreateNode("NP")
	if got := DisplayLabel(plain); got != "NP" {
		t.Errorf("plain label = %q", got)
	}

	numeric := f.CreateNode("NP")
	numeric.MovementLabel = "12"
	if got := DisplayLabel(numeric); got != "NP₁₂" {
		t.Errorf("numeric movement label = %q, want NP₁₂", got)
	}

	textual := f.CreateNode("NP")
	textual.MovementLabel = "wh"
	if got := DisplayLabel(textual); got != "NP_wh" {
		t.Errorf("textual movement label = %q, want NP_wh", got)
	}
}
