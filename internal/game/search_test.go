package game

import (
	"errors"
	"testing"

	"github.com/zyedidia/generic/mapset"
)

// twoWalls is a 5×5 grid with two interior walls.
func twoWalls(t *testing.T) *Grid {
	return mustGrid(t,
		"_____",
		"_#___",
		"_____",
		"___#_",
		"_____",
	)
}

func allOpenCells(g *Grid) []Cell {
	var out []Cell
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !g.IsWall(x, y) {
				out = append(out, Cell{x, y})
			}
		}
	}
	return out
}

func TestNeighbors_FixedOrderAndBounds(t *testing.T) {
	g := NewGrid(3, 3)
	got := g.Neighbors(Cell{1, 1}, WallsOnly(), nil)
	want := []Cell{{0, 1}, {1, 0}, {2, 1}, {1, 2}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("neighbour %d = %v, want %v (order left, up, right, down)", i, got[i], want[i])
		}
	}
	corner := g.Neighbors(Cell{0, 0}, WallsOnly(), nil)
	if len(corner) != 2 {
		t.Fatalf("corner neighbours = %v, want 2 in-bounds cells", corner)
	}
}

func TestNeighbors_OverrideDoesNotMutateGrid(t *testing.T) {
	g := NewGrid(3, 3)
	ov := &Override{Cell: Cell{0, 1}, Code: CellWall}
	got := g.Neighbors(Cell{1, 1}, WallsOnly(), ov)
	for _, c := range got {
		if c == ov.Cell {
			t.Fatal("override cell returned as neighbour")
		}
	}
	if len(got) != 3 {
		t.Fatalf("got %d neighbours, want 3", len(got))
	}
	if g.CellCode(0, 1) != CellOpen {
		t.Fatal("override leaked into the grid")
	}
}

func TestNeighbors_TunnelRow(t *testing.T) {
	g := NewGrid(4, 3)
	g.TunnelRow = 1
	got := g.Neighbors(Cell{0, 1}, WallsOnly(), nil)
	if got[0] != (Cell{-1, 1}) {
		t.Fatalf("first neighbour of (0,1) = %v, want tunnel sentinel (-1,1)", got[0])
	}
	if n := g.Neighbors(Cell{-1, 1}, WallsOnly(), nil); len(n) != 1 || n[0] != (Cell{0, 1}) {
		t.Fatalf("sentinel neighbours = %v, want only (0,1)", n)
	}
}

func TestNeighborWalls(t *testing.T) {
	g := mustGrid(t,
		"###",
		"#__",
		"#_#",
	)
	probe := g.NeighborWalls(Cell{1, 1})
	if !probe[Left] || !probe[Up] || probe[Right] || probe[Down] {
		t.Fatalf("probe = %v", probe)
	}
	if g.Exits(Cell{1, 1}) != 2 {
		t.Fatalf("exits = %d, want 2", g.Exits(Cell{1, 1}))
	}
}

func TestShortestPath_StartEqualsGoal(t *testing.T) {
	g := twoWalls(t)
	for _, c := range allOpenCells(g) {
		path, err := ShortestPath(g, c, c, WallsOnly(), nil)
		if err != nil {
			t.Fatalf("ShortestPath(%v,%v): %v", c, c, err)
		}
		if len(path) != 1 || path[0] != c {
			t.Fatalf("ShortestPath(%v,%v) = %v, want [%v]", c, c, path, c)
		}
	}
}

func TestShortestPath_MatchesBFS(t *testing.T) {
	g := twoWalls(t)
	cells := allOpenCells(g)
	for _, s := range cells {
		for _, e := range cells {
			want := BFSDistance(g, s, e, WallsOnly())
			path, err := ShortestPath(g, s, e, WallsOnly(), nil)
			if want < 0 {
				if !errors.Is(err, ErrNoPathFound) {
					t.Fatalf("%v→%v unreachable, got err %v", s, e, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("%v→%v: %v", s, e, err)
			}
			if path[0] != s || path[len(path)-1] != e {
				t.Fatalf("%v→%v endpoints wrong: %v", s, e, path)
			}
			if len(path)-1 != want {
				t.Fatalf("%v→%v length %d, BFS says %d", s, e, len(path)-1, want)
			}
			for i := 1; i < len(path); i++ {
				if Manhattan(path[i-1], path[i]) != 1 {
					t.Fatalf("%v→%v has a jump %v→%v", s, e, path[i-1], path[i])
				}
				if g.IsWall(path[i].X, path[i].Y) {
					t.Fatalf("%v→%v walks through wall %v", s, e, path[i])
				}
			}
		}
	}
}

func TestShortestPath_NoPath(t *testing.T) {
	g := mustGrid(t,
		"__#__",
		"__#__",
		"__#__",
	)
	_, err := ShortestPath(g, Cell{0, 0}, Cell{4, 2}, WallsOnly(), nil)
	if !errors.Is(err, ErrNoPathFound) {
		t.Fatalf("err = %v, want ErrNoPathFound", err)
	}
	// Goal inside a wall is also unreachable.
	_, err = ShortestPath(g, Cell{0, 0}, Cell{2, 1}, WallsOnly(), nil)
	if !errors.Is(err, ErrNoPathFound) {
		t.Fatalf("err = %v, want ErrNoPathFound", err)
	}
}

func TestShortestPath_MaskForcesDetour(t *testing.T) {
	g := NewGrid(5, 5)
	mask := &Override{Cell: Cell{1, 2}, Code: CellWall}
	path, err := ShortestPath(g, Cell{2, 2}, Cell{0, 2}, WallsOnly(), mask)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range path {
		if c == mask.Cell {
			t.Fatalf("path %v crosses masked cell", path)
		}
	}
	if len(path)-1 != 4 {
		t.Fatalf("detour length = %d, want 4", len(path)-1)
	}
}

func TestShortestPath_Deterministic(t *testing.T) {
	g := NewGrid(9, 9)
	p1, _ := ShortestPath(g, Cell{0, 0}, Cell{8, 8}, WallsOnly(), nil)
	for i := 0; i < 20; i++ {
		p2, _ := ShortestPath(g, Cell{0, 0}, Cell{8, 8}, WallsOnly(), nil)
		if len(p1) != len(p2) {
			t.Fatalf("path lengths differ between identical calls: %d vs %d", len(p1), len(p2))
		}
		for j := range p1 {
			if p1[j] != p2[j] {
				t.Fatalf("paths diverge at %d: %v vs %v", j, p1[j], p2[j])
			}
		}
	}
}

func TestNextStepGreedy_TieBreakRightBeforeDown(t *testing.T) {
	g := NewGrid(5, 5)
	got, err := NextStepGreedy(g, Cell{0, 0}, Cell{4, 4}, WallsOnly(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != (Cell{1, 0}) {
		t.Fatalf("first step = %v, want (1,0)", got)
	}
}

func TestNextStepGreedy_NeverReturnsMaskedCell(t *testing.T) {
	g := twoWalls(t)
	for _, c := range allOpenCells(g) {
		for _, d := range Directions {
			behind := c.Add(d.Opposite(), 1)
			mask := &Override{Cell: behind, Code: CellWall}
			if len(g.Neighbors(c, WallsOnly(), mask)) == 0 {
				continue
			}
			// Aim straight at the masked cell; it would win without the mask.
			got, err := NextStepGreedy(g, c, behind, WallsOnly(), mask)
			if err != nil {
				t.Fatalf("%v: %v", c, err)
			}
			if got == behind {
				t.Fatalf("at %v heading %s returned the masked cell %v", c, d, behind)
			}
		}
	}
}

func TestNextStepGreedy_NoNeighbors(t *testing.T) {
	g := mustGrid(t,
		"###",
		"#_#",
		"###",
	)
	_, err := NextStepGreedy(g, Cell{1, 1}, Cell{0, 0}, WallsOnly(), nil)
	if !errors.Is(err, ErrNoNeighbors) {
		t.Fatalf("err = %v, want ErrNoNeighbors", err)
	}
}

func TestReachable(t *testing.T) {
	g := mustGrid(t,
		"__#__",
		"__#__",
	)
	got := Reachable(g, Cell{0, 0}, WallsOnly())
	if got.Size() != 4 {
		t.Fatalf("reachable = %d cells, want 4", got.Size())
	}
	if got.Has(Cell{3, 0}) {
		t.Fatal("cell across the wall should be unreachable")
	}
	if Reachable(g, Cell{2, 0}, WallsOnly()).Size() != 0 {
		t.Fatal("flood fill from a wall should be empty")
	}
	none := mapset.New[CellCode]()
	if Reachable(g, Cell{2, 0}, none).Size() != 10 {
		t.Fatal("with nothing forbidden every cell is reachable")
	}
}
