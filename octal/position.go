package octal

// Position is the placement of a voxel in the unit cube: the first vertex and
// the edge length. Each section of a code halves the scale; within a section,
// bit 2 (value 4) selects the +x half, bit 1 the +y half and bit 0 the +z
// half.
type Position struct {
	X, Y, Z float32
	S       float32
}

// VoxelDetails returns the position and size of the voxel named by code. The
// root is the whole unit cube.
func VoxelDetails(code Code) Position {
	pos := Position{S: 1.0}
	for i := 0; i < NumSections(code); i++ {
		pos.S *= 0.5
		section := SectionValue(code, i)
		if section&4 != 0 {
			pos.X += pos.S
		}
		if section&2 != 0 {
			pos.Y += pos.S
		}
		if section&1 != 0 {
			pos.Z += pos.S
		}
	}
	return pos
}

// FirstVertex returns only the first vertex of the voxel named by code.
func FirstVertex(code Code) (x, y, z float32) {
	pos := VoxelDetails(code)
	return pos.X, pos.Y, pos.Z
}

// maxSections bounds the depth produced by CodeForPosition; 64 levels is far
// below float32 resolution already.
const maxSections = 64

// CodeForPosition is the inverse of VoxelDetails: it returns the code of the
// voxel of scale s whose cell contains (x, y, z). Coordinates are clamped to
// the unit cube. A scale of 1 or more names the root; a non-positive scale is
// rejected with nil.
func CodeForPosition(x, y, z, s float32) Code {
	if s <= 0 {
		return nil
	}
	if s >= 1.0 {
		return Root()
	}

	sections := 0
	for scale := float32(0.5); scale > s && sections < maxSections-1; scale *= 0.5 {
		sections++
	}
	sections++

	code := make(Code, BytesRequired(sections))
	code[0] = byte(sections)

	var cellX, cellY, cellZ float32
	scale := float32(1.0)
	for i := 0; i < sections; i++ {
		scale *= 0.5
		var section uint8
		if x >= cellX+scale {
			section |= 4
			cellX += scale
		}
		if y >= cellY+scale {
			section |= 2
			cellY += scale
		}
		if z >= cellZ+scale {
			section |= 1
			cellZ += scale
		}
		SetSectionValue(code, i, section)
	}
	return code
}
