package game

import "fmt"

// decideControlled runs at each decision point of the controlled agent:
// input, tunnel wrap, wall stop, collision, consumption.
func (s *Sim) decideControlled(a *Agent) error {
	s.applyInput(a)

	if a.wrapTunnel(s.Grid) {
		s.Log.Add(s.tick, a.Name, KindControlled.String(), "tunnel", "wrap", a.cell.String(), 0)
	}

	if a.wallAhead(s.Grid) && !a.stopped {
		a.stop()
		s.Log.Add(s.tick, a.Name, KindControlled.String(), "decision", "stop",
			fmt.Sprintf("wall %s of %s", a.dir, a.cell), 0)
	}

	for _, p := range s.agents {
		if p.Kind == KindPursuer && p.cell == a.cell {
			s.end(EndCollision, p, a.cell)
			return nil
		}
	}

	s.consume(a)
	return nil
}

// applyInput applies the pending request if it is valid. The request is
// consumed either way.
func (s *Sim) applyInput(a *Agent) {
	req := a.controlled.pending
	if req == None {
		return
	}
	a.controlled.pending = None
	if err := s.checkRequest(a, req); err != nil {
		s.Log.Add(s.tick, a.Name, KindControlled.String(), "input", "discarded", err.Error(), 0)
		return
	}
	prev := a.dir
	a.setDirection(req)
	s.Log.Add(s.tick, a.Name, KindControlled.String(), "input", "applied",
		fmt.Sprintf("%s → %s", prev, req), 0)
}

// checkRequest returns ErrInvalidDirection (wrapped with the reason) when req
// cannot be applied at the agent's current cell.
func (s *Sim) checkRequest(a *Agent, req Direction) error {
	if req == a.dir {
		return fmt.Errorf("%w: already heading %s", ErrInvalidDirection, req)
	}
	if !s.Grid.inBounds(a.cell.X, a.cell.Y) {
		return fmt.Errorf("%w: inside tunnel at %s", ErrInvalidDirection, a.cell)
	}
	n := a.cell.Add(req, 1)
	if s.Grid.IsWall(n.X, n.Y) {
		return fmt.Errorf("%w: wall %s of %s", ErrInvalidDirection, req, a.cell)
	}
	return nil
}

// consume clears the collectible under the agent through the consume
// interface. A power collectible raises a chase-mode toggle request.
func (s *Sim) consume(a *Agent) {
	if s.items.ItemAt(a.cell.X, a.cell.Y) == CellOpen {
		return
	}
	item, ok := s.items.RemoveCollectible(a.cell.X, a.cell.Y)
	if !ok {
		return
	}
	left := s.items.Remaining()
	s.Log.Add(s.tick, a.Name, KindControlled.String(), "collectible", item.String(), a.cell.String(), float64(left))
	if item == CellPowerCollectible {
		s.toggler.ToggleChaseMode()
	}
	if left == 0 {
		s.end(EndCleared, a, a.cell)
	}
}
