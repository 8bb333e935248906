package octal

import (
	"bytes"
	"testing"
)

func TestNumSections(t *testing.T) {
	tests := []struct {
		name string
		code Code
		want int
	}{
		{"nil is root", nil, 0},
		{"root", Root(), 0},
		{"one section", Code{0x01, 0x60}, 1},
		{"two sections", Code{0x02, 0xA8}, 2},
		{"extension", Code{0xFF, 0x02, 0x00}, 257},
	}
	for _, tt := range tests {
		if got := NumSections(tt.code); got != tt.want {
			t.Errorf("%s: NumSections = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestNumSectionsSafeOverflow(t *testing.T) {
	// The sentinel propagates unchanged.
	if got := NumSectionsSafe(Code{0x05}, OverflowedBuffer); got != OverflowedBuffer {
		t.Errorf("sentinel input: got %d, want OverflowedBuffer", got)
	}
	// Chained extension bytes exhaust a one-byte budget.
	if got := NumSectionsSafe(Code{0xFF, 0xFF, 0x01}, 1); got != OverflowedBuffer {
		t.Errorf("chained extensions: got %d, want OverflowedBuffer", got)
	}
	// A single extension within budget decodes.
	if got := NumSectionsSafe(Code{0xFF, 0x02, 0x00}, 2); got != 257 {
		t.Errorf("extension in budget: got %d, want 257", got)
	}
}

func TestBytesRequired(t *testing.T) {
	tests := []struct {
		sections int
		want     int
	}{
		{0, 1},
		{1, 2},
		{2, 2},
		{3, 3},
		{8, 4},
		{16, 7},
	}
	for _, tt := range tests {
		if got := BytesRequired(tt.sections); got != tt.want {
			t.Errorf("BytesRequired(%d) = %d, want %d", tt.sections, got, tt.want)
		}
	}
}

func TestChildCodeRoot(t *testing.T) {
	// The scenario that locks the bit packing for the fleet: child 3 of the
	// root is 0b011 in the top bits of the first section byte.
	got := ChildCode(nil, 3)
	want := Code{0x01, 0x60}
	if !bytes.Equal(got, want) {
		t.Fatalf("ChildCode(nil, 3) = %X, want %X", got, want)
	}
}

func TestChildCodeAllChildren(t *testing.T) {
	for parentDepth := 0; parentDepth < 12; parentDepth++ {
		parent := Root()
		for i := 0; i < parentDepth; i++ {
			parent = ChildCode(parent, uint8(i%8))
		}
		for child := uint8(0); child < 8; child++ {
			code := ChildCode(parent, child)
			if got := NumSections(code); got != parentDepth+1 {
				t.Fatalf("depth %d child %d: NumSections = %d, want %d", parentDepth, child, got, parentDepth+1)
			}
			if got := SectionValue(code, parentDepth); got != child {
				t.Fatalf("depth %d: SectionValue(code, %d) = %d, want %d", parentDepth, parentDepth, got, child)
			}
			// The parent's sections are untouched.
			for i := 0; i < parentDepth; i++ {
				if SectionValue(code, i) != SectionValue(parent, i) {
					t.Fatalf("depth %d child %d: section %d changed", parentDepth, child, i)
				}
			}
		}
	}
}

func TestSetSectionValue(t *testing.T) {
	// Cover every start-bit alignment, including the two straddling cases
	// (sections starting at bit 6 and bit 7 of a byte).
	const depth = 16
	code := make(Code, BytesRequired(depth))
	code[0] = depth
	values := []uint8{5, 2, 7, 0, 1, 6, 3, 4, 7, 7, 0, 5, 2, 1, 6, 4}
	for i, v := range values {
		SetSectionValue(code, i, v)
	}
	for i, v := range values {
		if got := SectionValue(code, i); got != v {
			t.Errorf("section %d: got %d, want %d", i, got, v)
		}
	}

	// Rewriting one section leaves its neighbours alone.
	SetSectionValue(code, 2, 1)
	for i, v := range values {
		want := v
		if i == 2 {
			want = 1
		}
		if got := SectionValue(code, i); got != want {
			t.Errorf("after rewrite, section %d: got %d, want %d", i, got, want)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	if got := ToHex(Code{0x02, 0xA8}); got != "02A8" {
		t.Errorf("ToHex = %q, want %q", got, "02A8")
	}
	if got := FromHex("02A8"); !bytes.Equal(got, Code{0x02, 0xA8}) {
		t.Errorf("FromHex = %X, want 02A8", got)
	}
	if got := ToHex(nil); got != "00" {
		t.Errorf("ToHex(nil) = %q, want %q", got, "00")
	}
	if got := FromHex("0 invalid"); got != nil {
		t.Errorf("FromHex on junk = %X, want nil", got)
	}

	codes := []Code{
		Root(),
		ChildCode(nil, 0),
		ChildCode(nil, 7),
		ChildCode(ChildCode(ChildCode(nil, 1), 2), 3),
	}
	for _, code := range codes {
		if got := FromHex(ToHex(code)); !bytes.Equal(got, code) {
			t.Errorf("round trip of %X gave %X", code, got)
		}
	}
}

func TestCompare(t *testing.T) {
	root := Root()
	child0 := ChildCode(nil, 0)
	child3 := ChildCode(nil, 3)
	grandchild := ChildCode(child0, 0)

	tests := []struct {
		name string
		a, b Code
		want Comparison
	}{
		{"nil a", nil, root, Illegal},
		{"nil b", root, nil, Illegal},
		{"equal root", root, root, Equal},
		{"equal deep", grandchild, ChildCode(child0, 0), Equal},
		{"ancestor sorts first", child0, grandchild, Less},
		{"descendant sorts last", grandchild, child0, Greater},
		{"sibling order", child0, child3, Less},
		{"root before child", root, child3, Less},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Compare = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCompareAntisymmetry(t *testing.T) {
	opposite := map[Comparison]Comparison{Less: Greater, Equal: Equal, Greater: Less}
	codes := []Code{
		Root(),
		ChildCode(nil, 0),
		ChildCode(nil, 5),
		ChildCode(ChildCode(nil, 5), 1),
		ChildCode(ChildCode(ChildCode(nil, 2), 6), 7),
	}
	for _, a := range codes {
		for _, b := range codes {
			ab := Compare(a, b)
			ba := Compare(b, a)
			if ba != opposite[ab] {
				t.Errorf("Compare(%X,%X)=%v but Compare(%X,%X)=%v", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestIsAncestorOf(t *testing.T) {
	root := Root()
	child0 := Code{0x01, 0x00}
	grandchild0 := Code{0x02, 0x00}
	child3 := ChildCode(nil, 3)

	tests := []struct {
		name       string
		ancestor   Code
		descendant Code
		child      int
		want       bool
	}{
		{"zero-child ancestry", child0, grandchild0, CheckNodeOnly, true},
		{"reversed", grandchild0, child0, CheckNodeOnly, false},
		{"root of everything", root, grandchild0, CheckNodeOnly, true},
		{"self", child3, child3, CheckNodeOnly, true},
		{"siblings", child0, child3, CheckNodeOnly, false},
		{"nil ancestor", nil, child0, CheckNodeOnly, false},
		{"nil descendant", child0, nil, CheckNodeOnly, false},
		{"trailing child extends", child3, child3, 5, true},
		{"trailing child mismatch", ChildCode(child3, 5), child3, 4, false},
		{"trailing child match", ChildCode(child3, 5), child3, 5, true},
	}
	for _, tt := range tests {
		if got := IsAncestorOf(tt.ancestor, tt.descendant, tt.child); got != tt.want {
			t.Errorf("%s: IsAncestorOf = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAncestryTransitive(t *testing.T) {
	a := ChildCode(nil, 1)
	b := ChildCode(a, 4)
	c := ChildCode(b, 7)
	if !IsAncestorOf(a, b, CheckNodeOnly) || !IsAncestorOf(b, c, CheckNodeOnly) {
		t.Fatal("chain links broken")
	}
	if !IsAncestorOf(a, c, CheckNodeOnly) {
		t.Error("ancestry is not transitive")
	}
}

func TestBranchIndex(t *testing.T) {
	parent := ChildCode(nil, 2)
	child := ChildCode(parent, 6)
	if got := BranchIndex(parent, child); got != 6 {
		t.Errorf("BranchIndex = %d, want 6", got)
	}
	if got := BranchIndex(Root(), parent); got != 2 {
		t.Errorf("BranchIndex from root = %d, want 2", got)
	}
}

func TestChop(t *testing.T) {
	code := ChildCode(ChildCode(ChildCode(nil, 5), 2), 7)

	chopped := Chop(code, 1)
	if got := NumSections(chopped); got != 2 {
		t.Fatalf("NumSections after chop = %d, want 2", got)
	}
	if SectionValue(chopped, 0) != 2 || SectionValue(chopped, 1) != 7 {
		t.Errorf("chopped sections = %d,%d, want 2,7", SectionValue(chopped, 0), SectionValue(chopped, 1))
	}

	if got := Chop(code, 3); got != nil {
		t.Errorf("chopping all levels: got %X, want nil", got)
	}
	if got := Chop(code, 5); got != nil {
		t.Errorf("chopping past the end: got %X, want nil", got)
	}
}

func TestRebase(t *testing.T) {
	code := ChildCode(ChildCode(nil, 2), 0)
	parent := ChildCode(nil, 3)

	rebased := Rebase(code, parent, false)
	if got, want := NumSections(rebased), NumSections(code)+NumSections(parent); got != want {
		t.Fatalf("NumSections after rebase = %d, want %d", got, want)
	}
	for i := 0; i < NumSections(parent); i++ {
		if SectionValue(rebased, i) != SectionValue(parent, i) {
			t.Errorf("parent section %d not preserved", i)
		}
	}
	for i := 0; i < NumSections(code); i++ {
		if SectionValue(rebased, NumSections(parent)+i) != SectionValue(code, i) {
			t.Errorf("original section %d not preserved", i)
		}
	}

	withColor := Rebase(code, parent, true)
	if got, want := len(withColor), BytesRequired(3)+ColorTrailerSize; got != want {
		t.Errorf("color trailer allocation = %d bytes, want %d", got, want)
	}
}
