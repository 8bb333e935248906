// Package nodelist tracks the fleet membership the senders route against:
// which nodes exist, what kind they are, and which socket currently reaches
// them. Callers iterate snapshots; membership may change between calls but
// never underneath one.
package nodelist

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NodeType identifies a node's role in the fleet. Values are the single bytes
// used on the wire during assignment.
type NodeType byte

// Fleet roles referenced by the edit core.
const (
	NodeTypeVoxelServer NodeType = 'V'
	NodeTypeAgent       NodeType = 'I'
	NodeTypeDomain      NodeType = 'D'
)

// String returns the role name for logs.
func (t NodeType) String() string {
	switch t {
	case NodeTypeVoxelServer:
		return "voxel-server"
	case NodeTypeAgent:
		return "agent"
	case NodeTypeDomain:
		return "domain"
	default:
		return "unknown"
	}
}

// Node is one member of the fleet. The active socket starts nil and is set
// once a ping exchange proves the address usable.
type Node struct {
	mu           sync.RWMutex
	id           uuid.UUID
	nodeType     NodeType
	publicSocket *net.UDPAddr
	activeSocket *net.UDPAddr
	lastHeard    time.Time
}

// NewNode builds a node with no active socket yet.
func NewNode(id uuid.UUID, t NodeType, publicSocket *net.UDPAddr) *Node {
	return &Node{id: id, nodeType: t, publicSocket: publicSocket}
}

// UUID returns the node's identity.
func (n *Node) UUID() uuid.UUID {
	return n.id
}

// Type returns the node's fleet role.
func (n *Node) Type() NodeType {
	return n.nodeType
}

// PublicSocket returns the advertised address used for pings.
func (n *Node) PublicSocket() *net.UDPAddr {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.publicSocket
}

// ActiveSocket returns the proven-reachable address, or nil while none is.
func (n *Node) ActiveSocket() *net.UDPAddr {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.activeSocket
}

// Activate marks addr as the node's reachable socket.
func (n *Node) Activate(addr *net.UDPAddr) {
	n.mu.Lock()
	n.activeSocket = addr
	n.lastHeard = time.Now()
	n.mu.Unlock()
}

// Touch records traffic from the node, used by reapers to expire silence.
func (n *Node) Touch() {
	n.mu.Lock()
	n.lastHeard = time.Now()
	n.mu.Unlock()
}

// LastHeard returns the time of the most recent traffic from the node.
func (n *Node) LastHeard() time.Time {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.lastHeard
}
