package nodelist

import (
	"sync"

	"github.com/google/uuid"

	"github.com/linchenxuan/voxnet/log"
)

// Pinger fires the ping used to activate a node's socket. Implementations
// must not block; the default sender enqueues a ping datagram.
type Pinger func(*Node)

// List is the concurrency-safe membership registry. Senders call Snapshot and
// iterate the returned slice; the slice is theirs, the nodes are shared.
type List struct {
	mu     sync.RWMutex
	nodes  map[uuid.UUID]*Node
	pinger Pinger
}

// NewList returns an empty registry. pinger may be nil when socket activation
// is driven externally.
func NewList(pinger Pinger) *List {
	return &List{nodes: make(map[uuid.UUID]*Node), pinger: pinger}
}

// Add inserts or replaces a node.
func (l *List) Add(n *Node) {
	l.mu.Lock()
	l.nodes[n.UUID()] = n
	l.mu.Unlock()
	log.Debug().Str("node", n.UUID().String()).Str("type", n.Type().String()).Msg("node added")
}

// Remove forgets a node, typically on domain-server kill or silence timeout.
func (l *List) Remove(id uuid.UUID) {
	l.mu.Lock()
	delete(l.nodes, id)
	l.mu.Unlock()
}

// Get returns the node with the given identity, or nil.
func (l *List) Get(id uuid.UUID) *Node {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.nodes[id]
}

// Snapshot returns the current membership as a fresh slice. Iterating it is
// safe against concurrent Add/Remove.
func (l *List) Snapshot() []*Node {
	l.mu.RLock()
	out := make([]*Node, 0, len(l.nodes))
	for _, n := range l.nodes {
		out = append(out, n)
	}
	l.mu.RUnlock()
	return out
}

// CountOfType returns how many members currently hold the given role.
func (l *List) CountOfType(t NodeType) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	count := 0
	for _, n := range l.nodes {
		if n.Type() == t {
			count++
		}
	}
	return count
}

// ActiveSocketOrPing reports whether n has a usable socket. When it does not,
// the registry's pinger is fired as a side effect so a later call can succeed.
func (l *List) ActiveSocketOrPing(n *Node) bool {
	if n.ActiveSocket() != nil {
		return true
	}
	if l.pinger != nil {
		l.pinger(n)
	}
	return false
}
