package game

import "fmt"

// CellCode classifies one maze cell.
type CellCode int

const (
	CellBlocked          CellCode = -1 // out of bounds (never stored)
	CellOpen             CellCode = 0  // navigable corridor
	CellWall             CellCode = 1  // impassable
	CellIntersection     CellCode = 2  // navigable, more than two exits
	CellCollectible      CellCode = 3  // item layer: normal collectible
	CellPowerCollectible CellCode = 4  // item layer: toggles chase mode
)

func (c CellCode) String() string {
	switch c {
	case CellBlocked:
		return "blocked"
	case CellOpen:
		return "open"
	case CellWall:
		return "wall"
	case CellIntersection:
		return "intersection"
	case CellCollectible:
		return "collectible"
	case CellPowerCollectible:
		return "power"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// NoTunnel disables the wrap corridor.
const NoTunnel = -1

// Cell is a discrete grid coordinate.
type Cell struct {
	X, Y int
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Add returns c offset by d scaled by n steps.
func (c Cell) Add(d Direction, n int) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx*n, Y: c.Y + dy*n}
}

// Grid is the maze: a terrain layer and a collectible layer, both row-major
// (index = y*Width + x).
type Grid struct {
	Width     int
	Height    int
	TunnelRow int // NoTunnel when the maze has no wrap corridor

	terrain   []CellCode
	items     []CellCode
	remaining int
}

// Collectibles is the consume interface the controlled agent uses to clear
// the item under it.
type Collectibles interface {
	ItemAt(x, y int) CellCode
	RemoveCollectible(x, y int) (CellCode, bool)
	Remaining() int
}

// NewGrid creates an all-open grid with no collectibles and no tunnel.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:     width,
		Height:    height,
		TunnelRow: NoTunnel,
		terrain:   make([]CellCode, width*height),
		items:     make([]CellCode, width*height),
	}
}

// NewGridFromRows builds a grid from terrain codes indexed [y][x]. Rows must
// share one length.
func NewGridFromRows(rows [][]CellCode) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("grid: empty rows")
	}
	g := NewGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != g.Width {
			return nil, fmt.Errorf("grid: row %d has %d cells, want %d", y, len(row), g.Width)
		}
		for x, code := range row {
			if code != CellOpen && code != CellWall && code != CellIntersection {
				return nil, fmt.Errorf("grid: cell (%d,%d): %s is not a terrain code", x, y, code)
			}
			g.terrain[y*g.Width+x] = code
		}
	}
	return g, nil
}

// inBounds returns true if (x, y) is inside the stored array.
func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// SetTunnelRow makes row y the wrap corridor, or disables it for NoTunnel.
// Both edge cells of the row must be open.
func (g *Grid) SetTunnelRow(y int) error {
	if y == NoTunnel {
		g.TunnelRow = NoTunnel
		return nil
	}
	if y < 0 || y >= g.Height {
		return fmt.Errorf("tunnel row %d outside 0..%d", y, g.Height-1)
	}
	if g.IsWall(0, y) || g.IsWall(g.Width-1, y) {
		return fmt.Errorf("tunnel row %d is walled at the edge", y)
	}
	g.TunnelRow = y
	return nil
}

// IsTunnelExit reports whether (x, y) is one of the two wrap sentinels one
// past each horizontal edge of the tunnel row.
func (g *Grid) IsTunnelExit(x, y int) bool {
	return g.TunnelRow != NoTunnel && y == g.TunnelRow && (x == -1 || x == g.Width)
}

// CellCode returns the terrain code at (x, y). Coordinates outside the array
// read as CellBlocked, except the tunnel sentinels which read as CellOpen.
func (g *Grid) CellCode(x, y int) CellCode {
	if g.inBounds(x, y) {
		return g.terrain[y*g.Width+x]
	}
	if g.IsTunnelExit(x, y) {
		return CellOpen
	}
	return CellBlocked
}

// IsWall returns true for walls and for anything out of bounds.
func (g *Grid) IsWall(x, y int) bool {
	c := g.CellCode(x, y)
	return c == CellWall || c == CellBlocked
}

// IsIntersection returns true if (x, y) is flagged as a decision cell.
func (g *Grid) IsIntersection(x, y int) bool {
	return g.CellCode(x, y) == CellIntersection
}

// SetCell sets the terrain code of an in-bounds cell.
func (g *Grid) SetCell(x, y int, code CellCode) {
	if !g.inBounds(x, y) {
		return
	}
	g.terrain[y*g.Width+x] = code
}

// ItemAt returns CellCollectible, CellPowerCollectible or CellOpen.
func (g *Grid) ItemAt(x, y int) CellCode {
	if !g.inBounds(x, y) {
		return CellOpen
	}
	return g.items[y*g.Width+x]
}

// PlaceCollectible puts an item on a navigable cell.
func (g *Grid) PlaceCollectible(x, y int, item CellCode) {
	if !g.inBounds(x, y) || g.IsWall(x, y) {
		return
	}
	if item != CellCollectible && item != CellPowerCollectible {
		return
	}
	idx := y*g.Width + x
	if g.items[idx] == CellOpen {
		g.remaining++
	}
	g.items[idx] = item
}

// RemoveCollectible clears the item at (x, y) and returns what was there.
func (g *Grid) RemoveCollectible(x, y int) (CellCode, bool) {
	if !g.inBounds(x, y) {
		return CellOpen, false
	}
	idx := y*g.Width + x
	item := g.items[idx]
	if item == CellOpen {
		return CellOpen, false
	}
	g.items[idx] = CellOpen
	g.remaining--
	return item, true
}

// Remaining returns how many collectibles are still on the grid.
func (g *Grid) Remaining() int {
	return g.remaining
}

// Corner returns the cell of a named corner of the grid.
func (g *Grid) Corner(c Corner) Cell {
	switch c {
	case CornerUpRight:
		return Cell{X: g.Width - 1, Y: 0}
	case CornerDownLeft:
		return Cell{X: 0, Y: g.Height - 1}
	case CornerDownRight:
		return Cell{X: g.Width - 1, Y: g.Height - 1}
	default:
		return Cell{X: 0, Y: 0}
	}
}

// Corner names one of the four scatter homes.
type Corner uint8

const (
	CornerUpLeft Corner = iota
	CornerUpRight
	CornerDownLeft
	CornerDownRight
)

func (c Corner) String() string {
	switch c {
	case CornerUpRight:
		return "up-right"
	case CornerDownLeft:
		return "down-left"
	case CornerDownRight:
		return "down-right"
	default:
		return "up-left"
	}
}

// ParseCorner maps "up-left", "up-right", "down-left", "down-right" to a
// Corner. Unknown names fall back to up-left.
func ParseCorner(s string) Corner {
	switch s {
	case "up-right":
		return CornerUpRight
	case "down-left":
		return CornerDownLeft
	case "down-right":
		return CornerDownRight
	default:
		return CornerUpLeft
	}
}
