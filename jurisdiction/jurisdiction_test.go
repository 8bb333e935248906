package jurisdiction

import (
	"bytes"
	"testing"

	"github.com/google/uuid"

	"github.com/linchenxuan/voxnet/octal"
)

func TestClassifyAgainstRootJurisdiction(t *testing.T) {
	// A map rooted at the octree root with no end nodes owns everything.
	m := NewMap(octal.Root(), nil)
	codes := []octal.Code{
		octal.Root(),
		octal.ChildCode(nil, 0),
		octal.ChildCode(octal.ChildCode(nil, 7), 3),
	}
	for _, code := range codes {
		if got := m.Classify(code, octal.CheckNodeOnly); got != Within {
			t.Errorf("Classify(%X) = %v, want Within", code, got)
		}
	}
}

func TestClassifyWithin(t *testing.T) {
	// Spec scenario: root [0x01 0x00], no end nodes, query [0x02 0x00].
	m := NewMap(octal.Code{0x01, 0x00}, nil)
	if got := m.Classify(octal.Code{0x02, 0x00}, octal.CheckNodeOnly); got != Within {
		t.Errorf("Classify = %v, want Within", got)
	}
}

func TestClassifyOutcomes(t *testing.T) {
	root := octal.ChildCode(nil, 1)          // server owns subtree 1
	endNode := octal.ChildCode(root, 4)      // ...except subtree 1/4
	other := octal.ChildCode(nil, 2)         // unrelated subtree
	carved := octal.ChildCode(endNode, 0)    // inside the carved-out subtree
	owned := octal.ChildCode(root, 5)        // a child the server owns
	m := NewMap(root, []octal.Code{endNode})

	tests := []struct {
		name  string
		code  octal.Code
		child int
		want  Area
	}{
		{"own root is within", root, octal.CheckNodeOnly, Within},
		{"child within", owned, octal.CheckNodeOnly, Within},
		{"octree root is above", octal.Root(), octal.CheckNodeOnly, Above},
		{"unrelated is not mine", other, octal.CheckNodeOnly, NotMine},
		{"end node itself is within", endNode, octal.CheckNodeOnly, Within},
		{"below end node", carved, octal.CheckNodeOnly, Below},
		{"probe child within", root, 5, Within},
		{"probe child below end node", endNode, 0, Below},
		{"probe child of unrelated", other, 3, NotMine},
	}
	for _, tt := range tests {
		if got := m.Classify(tt.code, tt.child); got != tt.want {
			t.Errorf("%s: Classify = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWireRoundTrip(t *testing.T) {
	root := octal.ChildCode(octal.ChildCode(nil, 3), 6)
	ends := []octal.Code{
		octal.ChildCode(root, 0),
		octal.ChildCode(root, 7),
	}
	m := NewMap(root, ends)

	decoded, err := Decode(m.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded.Root(), root) {
		t.Errorf("root = %X, want %X", decoded.Root(), root)
	}
	if decoded.EndNodeCount() != len(ends) {
		t.Errorf("end nodes = %d, want %d", decoded.EndNodeCount(), len(ends))
	}
	// Classification behaviour survives the round trip.
	if got := decoded.Classify(octal.ChildCode(ends[0], 2), octal.CheckNodeOnly); got != Below {
		t.Errorf("Classify after round trip = %v, want Below", got)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated root", []byte{0x05}},
		{"missing count", []byte{0x01, 0x00}},
		{"truncated end node", []byte{0x01, 0x00, 0x01, 0x00, 0x03}},
		{"count larger than payload", []byte{0x00, 0x05, 0x00}},
	}
	for _, tt := range tests {
		if m, err := Decode(tt.data); err == nil {
			t.Errorf("%s: Decode accepted malformed payload, map %v", tt.name, m)
		}
	}
}

func TestStoreSwap(t *testing.T) {
	store := NewStore()
	id := uuid.New()

	if store.Get(id) != nil {
		t.Fatal("unknown server should have no map")
	}

	first := NewMap(octal.ChildCode(nil, 1), nil)
	store.Set(id, first)
	if store.Get(id) != first {
		t.Error("Get did not return the published map")
	}

	second := NewMap(octal.ChildCode(nil, 2), nil)
	store.Set(id, second)
	if store.Get(id) != second {
		t.Error("Set did not swap the map")
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}

	store.Remove(id)
	if store.Get(id) != nil || store.Len() != 0 {
		t.Error("Remove did not clear the entry")
	}
}

func TestStoreRejectsMalformedWire(t *testing.T) {
	store := NewStore()
	id := uuid.New()

	good := NewMap(octal.ChildCode(nil, 1), nil)
	store.Set(id, good)

	if err := store.SetFromWire(id, []byte{0x09}); err == nil {
		t.Fatal("SetFromWire accepted a truncated payload")
	}
	if store.Get(id) != good {
		t.Error("malformed broadcast displaced the previous map")
	}
}

func TestNewMapFromHex(t *testing.T) {
	m := NewMapFromHex("0100", []string{"0200"})
	if m == nil {
		t.Fatal("NewMapFromHex returned nil for valid input")
	}
	if got := m.Classify(octal.Code{0x02, 0x00}, octal.CheckNodeOnly); got != Within {
		t.Errorf("Classify = %v, want Within", got)
	}
	if NewMapFromHex("zz", nil) != nil {
		t.Error("NewMapFromHex accepted junk root")
	}
	if NewMapFromHex("0100", []string{"nope"}) != nil {
		t.Error("NewMapFromHex accepted junk end node")
	}
}
