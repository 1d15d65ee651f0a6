package game

import "github.com/zyedidia/generic/mapset"

// Override substitutes the code of a single cell for the duration of one
// neighbour query. Used for no-backtrack masking; the grid is untouched.
type Override struct {
	Cell Cell
	Code CellCode
}

// Forbid builds a forbidden-code set.
func Forbid(codes ...CellCode) mapset.Set[CellCode] {
	return mapset.Of(codes...)
}

// WallsOnly is the default forbidden set for agent search.
func WallsOnly() mapset.Set[CellCode] {
	return Forbid(CellWall)
}

// codeWithOverride reads the terrain code at c, honouring ov.
func (g *Grid) codeWithOverride(c Cell, ov *Override) CellCode {
	if ov != nil && ov.Cell == c {
		return ov.Code
	}
	return g.CellCode(c.X, c.Y)
}

// Neighbors returns the orthogonal neighbours of c, in left, up, right, down
// order, whose code is not forbidden. Out-of-bounds cells are skipped without
// error; the tunnel sentinels count as in bounds.
func (g *Grid) Neighbors(c Cell, forbidden mapset.Set[CellCode], ov *Override) []Cell {
	out := make([]Cell, 0, 4)
	for _, d := range Directions {
		n := c.Add(d, 1)
		code := g.codeWithOverride(n, ov)
		if code == CellBlocked {
			continue
		}
		if forbidden.Has(code) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// WallProbe reports, per direction, whether the adjacent cell is a wall.
type WallProbe map[Direction]bool

// NeighborWalls probes the four orthogonal neighbours of c. Out-of-bounds
// neighbours report as walls.
func (g *Grid) NeighborWalls(c Cell) WallProbe {
	probe := make(WallProbe, 4)
	for _, d := range Directions {
		n := c.Add(d, 1)
		probe[d] = g.IsWall(n.X, n.Y)
	}
	return probe
}

// Exits counts the non-wall neighbours of c.
func (g *Grid) Exits(c Cell) int {
	n := 0
	for _, wall := range g.NeighborWalls(c) {
		if !wall {
			n++
		}
	}
	return n
}

// MarkIntersections flags every open cell with three or more exits as
// CellIntersection. Useful for maps authored without explicit markers.
func (g *Grid) MarkIntersections() int {
	marked := 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.CellCode(x, y) != CellOpen {
				continue
			}
			if g.Exits(Cell{X: x, Y: y}) >= 3 {
				g.SetCell(x, y, CellIntersection)
				marked++
			}
		}
	}
	return marked
}
