package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"syntree/bracket"
	"syntree/engine"
	"syntree/share"
	"syntree/term"
	"syntree/tree"
)

func main() {
	var (
		inputFile = flag.String("i", "", "Read bracket notation from a file")
		link      = flag.String("link", "", "Load a diagram from a share link (or bare query string)")
		compact   = flag.Bool("compact", false, "Print the compact serialization and exit")
		pretty    = flag.Bool("pretty", false, "Print the indented serialization and exit")
		shareOut  = flag.String("share", "", "Print a share link against the given base URL and exit")
		debug     = flag.Bool("debug", false, "Verbose engine logging to stderr")
		help      = flag.Bool("help", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] ['[S [NP ...]]']\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Interactive syntax-tree diagrams from bracket notation.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                # Start with an empty diagram\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s '[S [NP the dog] [VP runs]]'   # Start from bracket text\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i sentence.txt                # Load notation from a file\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -link 'i=%%5BS%%20hi%%5D'        # Load from a share link\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -pretty '[S [NP the dog]]'     # Reformat to stdout, no TUI\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -share https://example.com/ -i sentence.txt\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nInteractive keys:\n")
		fmt.Fprintf(os.Stderr, "  e or /      Focus the notation line (Esc/Tab to leave, Enter to apply)\n")
		fmt.Fprintf(os.Stderr, "  mouse drag  Move a node; drop on an edge to splice, near a node to attach\n")
		fmt.Fprintf(os.Stderr, "  q, Ctrl-C   Quit\n")
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	text, err := resolveInput(*inputFile, *link, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Non-interactive conversion modes.
	if *compact || *pretty || *shareOut != "" {
		if err := convert(text, *compact, *pretty, *shareOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger := zap.NewNop()
	if *debug {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	defer logger.Sync()

	if err := runTUI(text, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveInput picks the starting notation from -i, -link, or a positional
// argument, in that order of preference.
func resolveInput(file, link string, args []string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if link != "" {
		text, ok := share.Decode(link)
		if !ok {
			return "", fmt.Errorf("no diagram parameter in %q", link)
		}
		return text, nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	return "", nil
}

// convert parses the notation once and prints the requested renditions.
func convert(text string, compact, pretty bool, shareBase string) error {
	if text == "" {
		return fmt.Errorf("nothing to convert: provide notation via -i, -link, or an argument")
	}
	if res := bracket.Validate(text); !res.Valid {
		fmt.Fprintf(os.Stderr, "Warning: %s (position %d); auto-balancing\n", res.Error, res.Position)
	}
	f := bracket.Parse(text)

	if compact {
		fmt.Println(bracket.Serialize(f, bracket.DefaultOptions()))
	}
	if pretty {
		opts := bracket.DefaultOptions()
		opts.PrettyPrint = true
		fmt.Println(bracket.Serialize(f, opts))
	}
	if shareBase != "" {
		link, err := share.EncodeURL(shareBase, f)
		if err != nil {
			return err
		}
		fmt.Println(link)
	}
	return nil
}

func runTUI(text string, logger *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}

	host := term.NewHost(screen)
	eng := engine.New(tree.NewForest(), host, logger)
	host.SetEngine(eng)

	if text != "" {
		eng.LoadText(text)
	}
	return host.Run()
}
