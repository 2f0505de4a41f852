package tree

// MovementPair links a moved head to the terminal marking its trace. The
// relation is derived, not stored: a pair exists whenever a node's
// MovementLabel equals a terminal's MovementTrace.
type MovementPair struct {
	Head  *Node // carries MovementLabel
	Trace *Node // terminal carrying the matching MovementTrace
}

// FindMovementPairs returns the movement pairs in the forest. Matching is
// first-match with a deterministic order: heads in ascending id order, each
// paired with the lowest-id unclaimed terminal whose trace matches.
func (f *Forest) FindMovementPairs() []MovementPair {
	heads := f.FindAll(func(n *Node) bool { return n.MovementLabel != "" })
	traces := f.FindAll(func(n *Node) bool {
		return n.Category == Terminal && n.MovementTrace != ""
	})

	claimed := make(map[int]bool)
	var pairs []MovementPair
	for _, head := range heads {
		for _, trace := range traces {
			if claimed[trace.ID] || trace.MovementTrace != head.MovementLabel {
				continue
			}
			claimed[trace.ID] = true
			pairs = append(pairs, MovementPair{Head: head, Trace: trace})
			break
		}
	}
	return pairs
}
