package game

import (
	"errors"
	"fmt"
	"image/color"
)

// Search selects the path search a pursuer uses at intersections. A* only
// turns toward reachable targets: a walled scatter corner, as on the classic
// maze, makes it hold course and bounce for the whole scatter phase.
type Search uint8

const (
	SearchGreedy Search = iota // one-step triangulation toward the target
	SearchAStar                // full shortest path, first step taken
)

func (s Search) String() string {
	if s == SearchAStar {
		return "astar"
	}
	return "greedy"
}

// ParseSearch maps "greedy" or "astar" to a Search.
func ParseSearch(s string) (Search, error) {
	switch s {
	case "greedy", "":
		return SearchGreedy, nil
	case "astar":
		return SearchAStar, nil
	default:
		return SearchGreedy, fmt.Errorf("unknown search %q", s)
	}
}

// Color returns the pursuer's identity colour (zero for the controlled agent).
func (a *Agent) Color() color.RGBA {
	if a.pursuer == nil {
		return controlledColor
	}
	return a.pursuer.color
}

// Target returns the last target cell the pursuer steered toward.
func (a *Agent) Target() (Cell, bool) {
	if a.pursuer == nil || a.decisions == 0 {
		return Cell{}, false
	}
	return a.pursuer.lastGoal, true
}

// noBacktrack masks the cell the agent just came from.
func (a *Agent) noBacktrack() *Override {
	dx, dy := a.dir.Delta()
	return &Override{
		Cell: Cell{X: a.cell.X - dx, Y: a.cell.Y - dy},
		Code: CellWall,
	}
}

// decidePursuer runs at each decision point of a pursuer: tunnel wrap,
// collision, then steering on intersections or wall bounce elsewhere.
func (s *Sim) decidePursuer(a *Agent) error {
	if a.wrapTunnel(s.Grid) {
		s.Log.Add(s.tick, a.Name, KindPursuer.String(), "tunnel", "wrap", a.cell.String(), 0)
	}

	if a.cell == s.controlled.cell {
		s.end(EndCollision, a, a.cell)
		return nil
	}

	if s.Grid.IsIntersection(a.cell.X, a.cell.Y) {
		return s.steer(a)
	}
	s.bounce(a)
	return nil
}

// targetContext gathers what SelectTarget needs for pursuer a. The peer's
// position is whatever it is at this point of the tick.
func (s *Sim) targetContext(a *Agent) TargetContext {
	st := a.pursuer
	tc := TargetContext{
		Chase:    s.chase,
		Strategy: st.strategy,
		Self:     a.cell,
		Scatter:  s.Grid.Corner(st.scatter),
		Quarry:   s.controlled.cell,
		Heading:  s.controlled.dir,
	}
	if st.peer != nil {
		pc := st.peer.cell
		tc.Peer = &pc
	}
	return tc
}

// steer picks the next direction at an intersection.
func (s *Sim) steer(a *Agent) error {
	st := a.pursuer
	target := SelectTarget(s.targetContext(a))
	st.lastGoal = target
	s.Log.AddVerbose(s.tick, a.Name, KindPursuer.String(), "target", st.strategy.String(), target.String(), 0)

	mask := a.noBacktrack()
	var next Cell
	switch st.search {
	case SearchAStar:
		path, err := ShortestPath(s.Grid, a.cell, target, s.forbidden, mask)
		if errors.Is(err, ErrNoPathFound) || len(path) < 2 {
			s.Log.Add(s.tick, a.Name, KindPursuer.String(), "search", "hold",
				fmt.Sprintf("no path %s → %s", a.cell, target), 0)
			s.bounce(a)
			return nil
		}
		next = path[1]
	default:
		n, err := NextStepGreedy(s.Grid, a.cell, target, s.forbidden, mask)
		if err != nil {
			return fmt.Errorf("pursuer %s at %s: %w", a.Name, a.cell, err)
		}
		next = n
	}

	d := DirectionBetween(a.cell, next)
	if d != a.dir {
		s.Log.Add(s.tick, a.Name, KindPursuer.String(), "decision", "turn",
			fmt.Sprintf("%s → %s toward %s", a.dir, d, target), 0)
	}
	a.setDirection(d)
	return nil
}

// bounce turns a pursuer that faces a wall at a corner. Vertical movers turn
// left if the right side is walled, else right; horizontal movers turn up if
// the cell below is walled, else down.
func (s *Sim) bounce(a *Agent) {
	if !a.wallAhead(s.Grid) {
		return
	}
	x, y := a.cell.X, a.cell.Y
	var d Direction
	if a.dir.Vertical() {
		if s.Grid.IsWall(x+1, y) {
			d = Left
		} else {
			d = Right
		}
	} else {
		if s.Grid.IsWall(x, y+1) {
			d = Up
		} else {
			d = Down
		}
	}
	s.Log.Add(s.tick, a.Name, KindPursuer.String(), "decision", "bounce",
		fmt.Sprintf("%s → %s at %s", a.dir, d, a.cell), 0)
	a.setDirection(d)
}
