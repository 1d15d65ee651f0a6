package game

import (
	"testing"

	"golang.org/x/image/colornames"
)

// mustGrid builds a grid from ASCII rows:
//
//	# wall  _ open  + intersection  . open with collectible  o open with power
func mustGrid(t *testing.T, rows ...string) *Grid {
	t.Helper()
	codes := make([][]CellCode, len(rows))
	type item struct {
		x, y int
		code CellCode
	}
	var items []item
	for y, r := range rows {
		for x, ch := range r {
			switch ch {
			case '#':
				codes[y] = append(codes[y], CellWall)
			case '+':
				codes[y] = append(codes[y], CellIntersection)
			case '.':
				codes[y] = append(codes[y], CellOpen)
				items = append(items, item{x, y, CellCollectible})
			case 'o':
				codes[y] = append(codes[y], CellOpen)
				items = append(items, item{x, y, CellPowerCollectible})
			default:
				codes[y] = append(codes[y], CellOpen)
			}
		}
	}
	g, err := NewGridFromRows(codes)
	if err != nil {
		t.Fatalf("bad test grid: %v", err)
	}
	for _, it := range items {
		g.PlaceCollectible(it.x, it.y, it.code)
	}
	return g
}

// openGrid is an all-open w×h grid with every cell an intersection.
func openGrid(w, h int) *Grid {
	g := NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.SetCell(x, y, CellIntersection)
		}
	}
	return g
}

func mustSim(t *testing.T, g *Grid, opts ...SimOption) *Sim {
	t.Helper()
	s, err := NewSim(g, opts...)
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	return s
}

func pursuer(name string, at Cell, speed float64, dir Direction, strat Strategy) SimOption {
	return WithPursuer(PursuerSpec{
		Name:     name,
		Color:    colornames.Red,
		At:       at,
		Speed:    speed,
		Dir:      dir,
		Scatter:  CornerUpLeft,
		Strategy: strat,
	})
}

func mustStep(t *testing.T, s *Sim) Outcome {
	t.Helper()
	out, err := s.Step()
	if err != nil {
		t.Fatalf("Step at T=%d: %v\n%s", s.CurrentTick(), err, s.Log.Format())
	}
	return out
}
