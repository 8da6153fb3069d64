package mover

// LineTable is the process-wide, immutable-after-init precomputed DDA
// described in §3: a 2-D table indexed by a pair of offsets in
// [-L/2, +L/2], each cell holding the ordered list of integer (x,z) grid
// offsets sampled along the straight line from the table's center cell to
// the target cell. It lets the Path Follower's square-rectangle scan
// (§4.1 item 4) walk a short segment without re-running a line algorithm
// every tick.
//
// The sampling itself is a standard integer Bresenham walk (grounded on
// the teacher's ray-vs-AABB line intersection tests, generalized here from
// a continuous ray test to an integer grid walk), precomputed once per
// offset pair rather than recomputed per query.
type LineTable struct {
	half  int
	cells map[[2]int][]GridOffset
}

// GridOffset is one (x,z) grid-cell offset along a sampled line.
type GridOffset struct {
	DX, DZ int
}

// NewLineTable builds a table covering offsets in [-half, +half] along each
// axis from the center cell.
func NewLineTable(half int) *LineTable {
	if half < 0 {
		half = 0
	}
	lt := &LineTable{half: half, cells: make(map[[2]int][]GridOffset)}
	for dz := -half; dz <= half; dz++ {
		for dx := -half; dx <= half; dx++ {
			lt.cells[[2]int{dx, dz}] = bresenham(dx, dz)
		}
	}
	return lt
}

// Sample returns the precomputed offsets along the line from (fx,fz) to
// (tx,tz). Deltas outside the table's half-range fall back to a direct
// on-demand Bresenham walk so callers never see a truncated scan.
func (lt *LineTable) Sample(fx, fz, tx, tz int) []GridOffset {
	dx, dz := tx-fx, tz-fz
	if lt != nil && abs(dx) <= lt.half && abs(dz) <= lt.half {
		if cached, ok := lt.cells[[2]int{dx, dz}]; ok {
			return cached
		}
	}
	return bresenham(dx, dz)
}

// bresenham walks the integer line from (0,0) to (dx,dz), inclusive of the
// endpoint, exclusive of the origin (the unit's own cell is never a
// candidate obstacle).
func bresenham(dx, dz int) []GridOffset {
	if dx == 0 && dz == 0 {
		return nil
	}
	x, z := 0, 0
	adx, adz := abs(dx), abs(dz)
	sx, sz := sgn(dx), sgn(dz)

	var out []GridOffset
	if adx >= adz {
		d := 2*adz - adx
		for i := 0; i < adx; i++ {
			x += sx
			if d >= 0 {
				z += sz
				d -= 2 * adx
			}
			d += 2 * adz
			out = append(out, GridOffset{DX: x, DZ: z})
		}
	} else {
		d := 2*adx - adz
		for i := 0; i < adz; i++ {
			z += sz
			if d >= 0 {
				x += sx
				d -= 2 * adz
			}
			d += 2 * adx
			out = append(out, GridOffset{DX: x, DZ: z})
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sgn(v int) int {
	if v < 0 {
		return -1
	}
	if v > 0 {
		return 1
	}
	return 0
}
