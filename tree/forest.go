package tree

import "sort"

// Forest is an ordered collection of root trees sharing one id space and
// one event bus. A node is a root iff it has been explicitly registered
// with AddRoot; merely having no parent does not make it one.
//
// The forest performs no cycle checking: Connect trusts its caller (the
// connection resolver) to have rejected reparents that would create a cycle.
type Forest struct {
	roots  []*Node
	nodes  map[int]*Node
	nextID int

	events   bus
	batching bool
	pending  []Event
}

// NewForest creates an empty forest.
func NewForest() *Forest {
	return &Forest{
		nodes:  make(map[int]*Node),
		nextID: 1,
	}
}

// Subscribe registers a listener for forest events and returns a function
// that removes it.
func (f *Forest) Subscribe(fn Listener) (unsubscribe func()) {
	return f.events.subscribe(fn)
}

// emit delivers an event immediately, or queues it while a batch is open.
func (f *Forest) emit(e Event) {
	if f.batching {
		f.pending = append(f.pending, e)
		return
	}
	f.events.publish(e)
}

// BeginBatch suppresses per-operation events until EndBatch, which fires a
// single coalesced tree-changed event instead. Mutations still apply
// immediately; only notification is deferred.
//
// Batches must not be nested: an inner EndBatch flushes the queue and the
// outer EndBatch will find it empty. This is a caller contract.
func (f *Forest) BeginBatch() {
	f.batching = true
	f.pending = f.pending[:0]
}

// EndBatch closes the batch and, if any events accumulated, publishes one
// coalesced tree-changed event.
func (f *Forest) EndBatch() {
	f.batching = false
	if len(f.pending) == 0 {
		return
	}
	f.pending = f.pending[:0]
	f.events.publish(Event{Kind: EventTreeChanged})
}

// CreateNode creates and registers a node whose category is derived from
// the label text. The node starts detached: not a root, not a child.
func (f *Forest) CreateNode(label string) *Node {
	return f.create(label, CategoryForLabel(label))
}

// CreateNodeAs creates a node with a forced category, bypassing label
// derivation. A node created as Terminal stays Terminal forever.
func (f *Forest) CreateNodeAs(label string, category Category) *Node {
	return f.create(label, category)
}

// CreateTerminal creates a terminal (word/token) node.
func (f *Forest) CreateTerminal(text string) *Node {
	return f.create(text, Terminal)
}

func (f *Forest) create(label string, category Category) *Node {
	n := &Node{
		ID:       f.nextID,
		Label:    label,
		Category: category,
	}
	f.nextID++
	f.nodes[n.ID] = n
	f.emit(Event{Kind: EventNodeCreated, Node: n})
	return n
}

// AddRoot registers n as a root tree. Registering a node that is already a
// root is a no-op.
func (f *Forest) AddRoot(n *Node) {
	if n == nil || f.isRoot(n) {
		return
	}
	f.roots = append(f.roots, n)
	f.emit(Event{Kind: EventRootAdded, Node: n})
}

// RemoveRoot de-registers n as a root. The node itself is untouched.
func (f *Forest) RemoveRoot(n *Node) {
	for i, r := range f.roots {
		if r == n {
			f.roots = append(f.roots[:i], f.roots[i+1:]...)
			f.emit(Event{Kind: EventRootRemoved, Node: n})
			return
		}
	}
}

func (f *Forest) isRoot(n *Node) bool {
	for _, r := range f.roots {
		if r == n {
			return true
		}
	}
	return false
}

// Connect makes child the last child of parent. The child is first detached
// from any prior parent and de-registered as a root, so parent/child links
// stay mutually consistent. This is the only reparenting primitive.
func (f *Forest) Connect(parent, child *Node) {
	if parent == nil || child == nil || parent == child {
		return
	}
	f.detach(child)
	child.Parent = parent
	parent.Children = append(parent.Children, child)
	f.emit(Event{Kind: EventConnected, Node: child, Parent: parent})
}

// ConnectAt makes child the i-th child of parent, preserving surface order
// around an insertion. An out-of-range index appends.
func (f *Forest) ConnectAt(parent, child *Node, i int) {
	if parent == nil || child == nil || parent == child {
		return
	}
	f.detach(child)
	child.Parent = parent
	if i < 0 || i >= len(parent.Children) {
		parent.Children = append(parent.Children, child)
	} else {
		parent.Children = append(parent.Children, nil)
		copy(parent.Children[i+1:], parent.Children[i:])
		parent.Children[i] = child
	}
	f.emit(Event{Kind: EventConnected, Node: child, Parent: parent})
}

// Disconnect detaches child from its parent and re-registers it as a root,
// so it remains reachable and renderable.
func (f *Forest) Disconnect(child *Node) {
	if child == nil || child.Parent == nil {
		return
	}
	f.detach(child)
	f.roots = append(f.roots, child)
	f.emit(Event{Kind: EventDisconnected, Node: child})
}

// detach silently removes the node from its parent's child list or from the
// root registry, whichever holds it.
func (f *Forest) detach(n *Node) {
	if p := n.Parent; p != nil {
		for i, c := range p.Children {
			if c == n {
				p.Children = append(p.Children[:i], p.Children[i+1:]...)
				break
			}
		}
		n.Parent = nil
		return
	}
	for i, r := range f.roots {
		if r == n {
			f.roots = append(f.roots[:i], f.roots[i+1:]...)
			return
		}
	}
}

// DeleteNode removes n and its whole subtree from the forest and returns
// the ids of every deleted node.
func (f *Forest) DeleteNode(n *Node) []int {
	if n == nil || f.nodes[n.ID] == nil {
		return nil
	}
	f.detach(n)
	doomed := n.Descendants()
	ids := make([]int, 0, len(doomed))
	for _, d := range doomed {
		delete(f.nodes, d.ID)
		ids = append(ids, d.ID)
	}
	f.emit(Event{Kind: EventNodeDeleted, Node: n, DeletedIDs: ids})
	return ids
}

// UpdateLabel changes a node's label, re-deriving its category unless the
// node is a terminal (Terminal is immutable once set).
func (f *Forest) UpdateLabel(n *Node, label string) {
	if n == nil {
		return
	}
	n.Label = label
	if n.Category != Terminal {
		n.Category = CategoryForLabel(label)
	}
	f.emit(Event{Kind: EventLabelUpdated, Node: n})
}

// FindByID returns the node with the given id, or nil.
func (f *Forest) FindByID(id int) *Node {
	return f.nodes[id]
}

// FindAll returns every registered node matching the predicate, in
// ascending id order so results are deterministic.
func (f *Forest) FindAll(pred func(*Node) bool) []*Node {
	ids := make([]int, 0, len(f.nodes))
	for id := range f.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	var result []*Node
	for _, id := range ids {
		if n := f.nodes[id]; pred(n) {
			result = append(result, n)
		}
	}
	return result
}

// Roots returns the root nodes in registration order. The slice is a copy.
func (f *Forest) Roots() []*Node {
	roots := make([]*Node, len(f.roots))
	copy(roots, f.roots)
	return roots
}

// NodeCount returns the number of registered nodes.
func (f *Forest) NodeCount() int {
	return len(f.nodes)
}

// Clear removes every node and root. Ids are not recycled: the next created
// node continues the sequence.
func (f *Forest) Clear() {
	f.roots = nil
	f.nodes = make(map[int]*Node)
	f.emit(Event{Kind: EventTreeCleared})
}
