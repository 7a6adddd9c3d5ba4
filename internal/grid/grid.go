// Package grid checks rectangular field placements on a step's column grid
// for overlapping cells.
//
// Coordinates are 1-based. Columns are bounded by the grid's column count;
// rows are unbounded. Every function here is pure and safe for concurrent use.
package grid

import "sort"

// Placement is a rectangular occupancy claim owned by a single field.
type Placement struct {
	ID      string `json:"id"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	RowSpan int    `json:"row_span"`
	ColSpan int    `json:"col_span"`
}

// Collision is an unordered pair of ids whose placements share a cell.
// A is the id that held the cell first in input order.
type Collision struct {
	A string `json:"field_id_a"`
	B string `json:"field_id_b"`
}

// Involves reports whether id is one side of the pair.
func (c Collision) Involves(id string) bool {
	return c.A == id || c.B == id
}

type cell struct{ row, col int }

// bounds returns the placement's clamped rectangle, inclusive on both ends.
// Spans and rows below 1 are raised to 1; the column range is shrunk to fit
// inside [1, columns] and never expanded.
func (p Placement) bounds(columns int) (r0, r1, c0, c1 int) {
	r0 = max(1, p.Row)
	r1 = r0 + max(1, p.RowSpan) - 1
	c0 = clamp(p.Col, 1, columns)
	c1 = clamp(c0+max(1, p.ColSpan)-1, 1, columns)
	return r0, r1, c0, c1
}

// Normalize returns the placement with the same clamping DetectCollisions
// applies, so callers can persist what will actually be occupied.
func (p Placement) Normalize(columns int) Placement {
	r0, r1, c0, c1 := p.bounds(columns)
	return Placement{ID: p.ID, Row: r0, Col: c0, RowSpan: r1 - r0 + 1, ColSpan: c1 - c0 + 1}
}

// DetectCollisions reports every pair of distinct ids whose clamped
// rectangles share at least one cell. Placements are rasterized in input
// order and a cell keeps every id recorded on it, first holder first, so a
// later placement is paired with each earlier occupant. Each unordered pair
// is reported once, oriented as {earlier, later}.
func DetectCollisions(placements []Placement, columns int) []Collision {
	columns = max(1, columns)
	occupied := make(map[cell][]string)
	seen := make(map[[2]string]struct{})
	var out []Collision

	for _, p := range placements {
		r0, r1, c0, c1 := p.bounds(columns)
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				k := cell{r, c}
				holders := occupied[k]
				own := false
				for _, holder := range holders {
					if holder == p.ID {
						own = true
						continue
					}
					key := pairKey(holder, p.ID)
					if _, dup := seen[key]; dup {
						continue
					}
					seen[key] = struct{}{}
					out = append(out, Collision{A: holder, B: p.ID})
				}
				if !own {
					occupied[k] = append(holders, p.ID)
				}
			}
		}
	}
	return out
}

// WouldCollide reports whether committing candidate would overlap any other
// placement. The entry in existing with the candidate's id is replaced by
// the candidate; if there is none the candidate is added.
func WouldCollide(existing []Placement, candidate Placement, columns int) bool {
	return len(Conflicts(existing, candidate, columns)) > 0
}

// Conflicts returns the collisions that involve candidate once it is
// substituted into existing. Collisions among the other placements are
// ignored: they are pre-existing and not caused by this change.
func Conflicts(existing []Placement, candidate Placement, columns int) []Collision {
	var out []Collision
	for _, c := range DetectCollisions(substitute(existing, candidate), columns) {
		if c.Involves(candidate.ID) {
			out = append(out, c)
		}
	}
	return out
}

// FirstFreeCell scans rows top to bottom, columns left to right, for the
// first origin where a rowSpan x colSpan rectangle fits without overlapping
// any placement. maxRows bounds the origin rows searched; maxRows <= 0 means
// no bound, in which case a cell is always found.
func FirstFreeCell(placements []Placement, rowSpan, colSpan, columns, maxRows int) (row, col int, ok bool) {
	columns = max(1, columns)
	rowSpan = max(1, rowSpan)
	colSpan = clamp(colSpan, 1, columns)

	occupied := make(map[cell]struct{})
	lastRow := 0
	for _, p := range placements {
		r0, r1, c0, c1 := p.bounds(columns)
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				occupied[cell{r, c}] = struct{}{}
			}
		}
		lastRow = max(lastRow, r1)
	}

	// The row after lastRow is always free, so the scan never goes past it.
	limit := lastRow + 1
	if maxRows > 0 && maxRows < limit {
		limit = maxRows
	}

	fits := func(r, c int) bool {
		for dr := 0; dr < rowSpan; dr++ {
			for dc := 0; dc < colSpan; dc++ {
				if _, taken := occupied[cell{r + dr, c + dc}]; taken {
					return false
				}
			}
		}
		return true
	}

	for r := 1; r <= limit; r++ {
		for c := 1; c+colSpan-1 <= columns; c++ {
			if fits(r, c) {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// SortCollisions orders pairs so results can be compared or rendered stably.
func SortCollisions(cs []Collision) {
	sort.Slice(cs, func(i, j int) bool {
		ki, kj := pairKey(cs[i].A, cs[i].B), pairKey(cs[j].A, cs[j].B)
		if ki[0] != kj[0] {
			return ki[0] < kj[0]
		}
		return ki[1] < kj[1]
	})
}

func substitute(existing []Placement, candidate Placement) []Placement {
	out := make([]Placement, 0, len(existing)+1)
	replaced := false
	for _, p := range existing {
		if p.ID == candidate.ID {
			if !replaced {
				out = append(out, candidate)
				replaced = true
			}
			continue
		}
		out = append(out, p)
	}
	if !replaced {
		out = append(out, candidate)
	}
	return out
}

func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
