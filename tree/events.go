package tree

// EventKind identifies the structural change an Event describes.
type EventKind int

const (
	EventNodeCreated EventKind = iota
	EventRootAdded
	EventRootRemoved
	EventConnected
	EventDisconnected
	EventNodeDeleted
	EventLabelUpdated
	EventTreeChanged // coalesced batch notification
	EventTreeCleared
)

// String returns the string representation of an EventKind.
func (k EventKind) String() string {
	switch k {
	case EventNodeCreated:
		return "node-created"
	case EventRootAdded:
		return "root-added"
	case EventRootRemoved:
		return "root-removed"
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventNodeDeleted:
		return "node-deleted"
	case EventLabelUpdated:
		return "label-updated"
	case EventTreeChanged:
		return "tree-changed"
	case EventTreeCleared:
		return "tree-cleared"
	default:
		return "unknown"
	}
}

// Event is a typed notification of a single forest mutation. Node is the
// subject of the change; Parent is set for EventConnected; DeletedIDs is set
// for EventNodeDeleted and covers the whole cascaded subtree.
type Event struct {
	Kind       EventKind
	Node       *Node
	Parent     *Node
	DeletedIDs []int
}

// Listener receives forest events. Dispatch is synchronous: by the time a
// listener runs, the mutation is fully applied.
type Listener func(Event)

type subscriber struct {
	id int
	fn Listener
}

// bus is a minimal typed publish/subscribe channel. Single-threaded by
// design; no locking.
type bus struct {
	subs   []subscriber
	nextID int
}

func (b *bus) subscribe(fn Listener) (unsubscribe func()) {
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *bus) publish(e Event) {
	// Copy so a listener unsubscribing mid-dispatch cannot skip anyone.
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	for _, s := range subs {
		s.fn(e)
	}
}
