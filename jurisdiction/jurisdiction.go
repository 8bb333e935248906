// Package jurisdiction describes which part of the octree a voxel server is
// authoritative for: a root octal code plus a set of end-node codes carving
// out the subtrees delegated elsewhere. Maps are immutable values; owners
// publish updates by swapping whole maps in a Store, so a classify call always
// sees one consistent snapshot.
package jurisdiction

import (
	"strings"

	"github.com/linchenxuan/voxnet/octal"
)

// Area classifies a queried code against a server's jurisdiction.
type Area int

const (
	// NotMine means the code is unrelated to this server's subtree.
	NotMine Area = iota
	// Within means this server is authoritative for the code.
	Within
	// Above means the code covers more of the tree than this server owns.
	Above
	// Below means the code lies inside a subtree delegated to another server.
	Below
)

// String returns the classification name for logs.
func (a Area) String() string {
	switch a {
	case Within:
		return "WITHIN"
	case Above:
		return "ABOVE"
	case Below:
		return "BELOW"
	default:
		return "NOT_MINE"
	}
}

// Map is one server's jurisdiction. It is immutable after construction.
type Map struct {
	root     octal.Code
	endNodes []octal.Code
}

// NewMap builds a jurisdiction map from a root code and the end-node codes.
// The codes are copied; the caller keeps ownership of its slices. A nil root
// is the whole tree.
func NewMap(root octal.Code, endNodes []octal.Code) *Map {
	m := &Map{root: cloneCode(root)}
	if m.root == nil {
		m.root = octal.Root()
	}
	for _, end := range endNodes {
		if end != nil {
			m.endNodes = append(m.endNodes, cloneCode(end))
		}
	}
	return m
}

// NewMapFromHex builds a map from hex-encoded codes, the form used by debug
// tooling and config files. It returns nil if any code fails to parse.
func NewMapFromHex(rootHex string, endNodesHex []string) *Map {
	root := octal.FromHex(rootHex)
	if root == nil {
		return nil
	}
	endNodes := make([]octal.Code, 0, len(endNodesHex))
	for _, h := range endNodesHex {
		end := octal.FromHex(h)
		if end == nil {
			return nil
		}
		endNodes = append(endNodes, end)
	}
	return NewMap(root, endNodes)
}

// Root returns the map's root code. The returned slice must not be modified.
func (m *Map) Root() octal.Code {
	return m.root
}

// EndNodeCount returns the number of carved-out end nodes.
func (m *Map) EndNodeCount() int {
	return len(m.endNodes)
}

// Classify resolves where code falls relative to this jurisdiction. When
// trailingChild is not octal.CheckNodeOnly the query is extended by one
// section, probing a prospective child without allocating its code.
//
// The four outcomes are kept distinct: a root end node itself is Within, only
// its strict descendants are Below.
func (m *Map) Classify(code octal.Code, trailingChild int) Area {
	rootIsAncestor := octal.IsAncestorOf(m.root, code, trailingChild)
	codeIsAncestorOfRoot := octal.IsAncestorOf(code, m.root, octal.CheckNodeOnly)

	if !rootIsAncestor && !codeIsAncestorOfRoot {
		return NotMine
	}
	if !rootIsAncestor {
		// code sits strictly above our root
		return Above
	}

	effectiveLength := octal.NumSections(code)
	if trailingChild != octal.CheckNodeOnly {
		effectiveLength++
	}
	for _, end := range m.endNodes {
		if octal.NumSections(end) < effectiveLength && octal.IsAncestorOf(end, code, trailingChild) {
			return Below
		}
	}
	return Within
}

// String renders the map with hex codes for debug output.
func (m *Map) String() string {
	var b strings.Builder
	b.WriteString("root=")
	b.WriteString(octal.ToHex(m.root))
	b.WriteString(" endNodes=[")
	for i, end := range m.endNodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(octal.ToHex(end))
	}
	b.WriteByte(']')
	return b.String()
}

func cloneCode(code octal.Code) octal.Code {
	if code == nil {
		return nil
	}
	out := make(octal.Code, len(code))
	copy(out, code)
	return out
}
