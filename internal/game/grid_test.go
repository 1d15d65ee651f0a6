package game

import "testing"

func TestGrid_OutOfBoundsIsBlocked(t *testing.T) {
	g := NewGrid(5, 5)
	for _, c := range []Cell{{-1, 0}, {0, -1}, {5, 0}, {0, 5}, {-3, -3}} {
		if got := g.CellCode(c.X, c.Y); got != CellBlocked {
			t.Fatalf("CellCode%v = %s, want blocked", c, got)
		}
		if !g.IsWall(c.X, c.Y) {
			t.Fatalf("out-of-bounds %v should read as wall", c)
		}
	}
}

func TestGrid_TunnelSentinelsAreOpen(t *testing.T) {
	g := NewGrid(6, 5)
	g.TunnelRow = 2
	if got := g.CellCode(-1, 2); got != CellOpen {
		t.Fatalf("left sentinel = %s, want open", got)
	}
	if got := g.CellCode(6, 2); got != CellOpen {
		t.Fatalf("right sentinel = %s, want open", got)
	}
	if got := g.CellCode(-1, 1); got != CellBlocked {
		t.Fatalf("off-row sentinel = %s, want blocked", got)
	}
	if got := g.CellCode(7, 2); got != CellBlocked {
		t.Fatalf("two past the edge = %s, want blocked", got)
	}
	if !g.IsTunnelExit(-1, 2) || g.IsTunnelExit(0, 2) {
		t.Fatal("IsTunnelExit should only match the sentinels")
	}
}

func TestGrid_SetTunnelRow(t *testing.T) {
	g := mustGrid(t,
		"#####",
		"_____",
		"#___#",
	)
	for _, y := range []int{-2, 3, 0, 2} {
		if err := g.SetTunnelRow(y); err == nil {
			t.Fatalf("SetTunnelRow(%d) accepted", y)
		}
		if g.TunnelRow != NoTunnel {
			t.Fatalf("rejected row %d still set TunnelRow=%d", y, g.TunnelRow)
		}
	}
	if err := g.SetTunnelRow(1); err != nil || g.TunnelRow != 1 {
		t.Fatalf("SetTunnelRow(1) = %v, row %d", err, g.TunnelRow)
	}
	if err := g.SetTunnelRow(NoTunnel); err != nil || g.TunnelRow != NoTunnel {
		t.Fatalf("disable = %v, row %d", err, g.TunnelRow)
	}
}

func TestGrid_FromRowsRejectsRagged(t *testing.T) {
	_, err := NewGridFromRows([][]CellCode{{CellOpen, CellOpen}, {CellOpen}})
	if err == nil {
		t.Fatal("expected error for ragged rows")
	}
	_, err = NewGridFromRows([][]CellCode{{CellOpen, CellCollectible}})
	if err == nil {
		t.Fatal("expected error for item code in terrain layer")
	}
}

func TestGrid_CollectibleLifecycle(t *testing.T) {
	g := mustGrid(t,
		"#####",
		"#.o_#",
		"#####",
	)
	if g.Remaining() != 2 {
		t.Fatalf("remaining = %d, want 2", g.Remaining())
	}
	if g.ItemAt(2, 1) != CellPowerCollectible {
		t.Fatalf("item at (2,1) = %s", g.ItemAt(2, 1))
	}
	item, ok := g.RemoveCollectible(1, 1)
	if !ok || item != CellCollectible {
		t.Fatalf("RemoveCollectible = %s,%v", item, ok)
	}
	if _, ok := g.RemoveCollectible(1, 1); ok {
		t.Fatal("second removal should report nothing")
	}
	if g.Remaining() != 1 {
		t.Fatalf("remaining = %d, want 1", g.Remaining())
	}
	// Walls never hold items.
	g.PlaceCollectible(0, 0, CellCollectible)
	if g.ItemAt(0, 0) != CellOpen {
		t.Fatal("wall cell accepted a collectible")
	}
}

func TestGrid_Corners(t *testing.T) {
	g := NewGrid(28, 31)
	cases := map[Corner]Cell{
		CornerUpLeft:    {0, 0},
		CornerUpRight:   {27, 0},
		CornerDownLeft:  {0, 30},
		CornerDownRight: {27, 30},
	}
	for c, want := range cases {
		if got := g.Corner(c); got != want {
			t.Fatalf("Corner(%s) = %v, want %v", c, got, want)
		}
		if ParseCorner(c.String()) != c {
			t.Fatalf("ParseCorner(%q) did not round-trip", c.String())
		}
	}
}

func TestGrid_MarkIntersections(t *testing.T) {
	g := mustGrid(t,
		"#####",
		"#___#",
		"#_#_#",
		"#___#",
		"#####",
	)
	if n := g.MarkIntersections(); n != 0 {
		t.Fatalf("ring corridor has no junctions, marked %d", n)
	}
	g = mustGrid(t,
		"#####",
		"#___#",
		"##_##",
		"#####",
	)
	if n := g.MarkIntersections(); n != 1 || !g.IsIntersection(2, 1) {
		t.Fatalf("expected T-junction at (2,1), marked %d", n)
	}
}
