package game

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// EndReason says why a run stopped.
type EndReason uint8

const (
	EndNone      EndReason = iota
	EndCollision           // a pursuer reached the controlled agent
	EndCleared             // every collectible was consumed
)

func (r EndReason) String() string {
	switch r {
	case EndCollision:
		return "collision"
	case EndCleared:
		return "cleared"
	default:
		return "running"
	}
}

func (r EndReason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Outcome is the terminal state of a run. Collision is reported here, not as
// an error.
type Outcome struct {
	Ended   bool      `json:"ended"`
	Reason  EndReason `json:"reason"`
	Pursuer string    `json:"pursuer,omitempty"`
	Tick    int       `json:"tick"`
	Cell    Cell      `json:"cell"`
}

// ChaseToggler receives the chase-mode toggle request raised by a power
// collectible.
type ChaseToggler interface {
	ToggleChaseMode()
}

// Sim owns the grid and the ordered agent collection. Agent order is fixed:
// the controlled agent first, then pursuers in creation order.
type Sim struct {
	Grid *Grid
	Log  *SimLog

	agents     []*Agent
	controlled *Agent
	peerNames  map[*Agent]string
	forbidden  mapset.Set[CellCode]
	items      Collectibles
	toggler    ChaseToggler
	schedule   *ModeSchedule

	chase   bool
	tick    int
	primed  bool
	outcome Outcome
}

// decideFuncs is the variant-indexed decision table.
var decideFuncs = [...]func(*Sim, *Agent) error{
	KindControlled: (*Sim).decideControlled,
	KindPursuer:    (*Sim).decidePursuer,
}

// NewSim builds a simulation over grid in two ordered passes:
//  1. Infrastructure (log, chase flag, search rules, hooks)
//  2. Agents, in declaration order
//
// Flank peers are resolved afterwards; a peer must precede its flanker.
func NewSim(grid *Grid, opts ...SimOption) (*Sim, error) {
	s := &Sim{
		Grid:      grid,
		Log:       NewSimLog(false),
		peerNames: map[*Agent]string{},
		forbidden: WallsOnly(),
		items:     grid,
	}
	s.toggler = s
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(s)
		}
	}
	for _, o := range opts {
		if o.kind == simOptAgent {
			o.fn(s)
		}
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// addAgent keeps the controlled agent at index 0.
func (s *Sim) addAgent(a *Agent) {
	if a.Kind == KindControlled {
		s.controlled = a
		s.agents = append([]*Agent{a}, s.agents...)
		return
	}
	s.agents = append(s.agents, a)
}

func (s *Sim) validate() error {
	if s.controlled == nil {
		return ErrNoControlled
	}
	index := make(map[string]int, len(s.agents))
	for i, a := range s.agents {
		if _, dup := index[a.Name]; dup {
			return fmt.Errorf("agent %q: %w", a.Name, ErrDuplicateName)
		}
		index[a.Name] = i
		if s.Grid.IsWall(a.cell.X, a.cell.Y) {
			return fmt.Errorf("agent %q at %v: %w", a.Name, a.cell, ErrSpawnBlocked)
		}
	}
	for i, a := range s.agents {
		name, ok := s.peerNames[a]
		if !ok {
			continue
		}
		j, found := index[name]
		if !found || s.agents[j].Kind != KindPursuer {
			return fmt.Errorf("pursuer %q peer %q: %w", a.Name, name, ErrUnknownPeer)
		}
		if j >= i {
			return fmt.Errorf("pursuer %q peer %q: %w", a.Name, name, ErrPeerOrder)
		}
		a.pursuer.peer = s.agents[j]
	}
	for _, a := range s.agents {
		if a.Kind == KindPursuer && a.pursuer.strategy == StrategyFlank && a.pursuer.peer == nil {
			return fmt.Errorf("pursuer %q: flank needs a peer: %w", a.Name, ErrUnknownPeer)
		}
	}
	return nil
}

// Agents returns the ordered agent collection.
func (s *Sim) Agents() []*Agent { return s.agents }

// Controlled returns the controlled agent.
func (s *Sim) Controlled() *Agent { return s.controlled }

// Agent looks an agent up by name.
func (s *Sim) Agent(name string) (*Agent, bool) {
	for _, a := range s.agents {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// CurrentTick returns the current simulation tick.
func (s *Sim) CurrentTick() int { return s.tick }

// Outcome returns the terminal state, zero while running.
func (s *Sim) Outcome() Outcome { return s.outcome }

// ChaseMode returns the shared chase flag.
func (s *Sim) ChaseMode() bool { return s.chase }

// SetChaseMode sets the shared chase flag.
func (s *Sim) SetChaseMode(on bool) {
	if s.chase == on {
		return
	}
	s.chase = on
	s.Log.Add(s.tick, "--", "--", "mode", "change", modeLabel(on), 0)
}

// ToggleChaseMode flips the shared chase flag.
func (s *Sim) ToggleChaseMode() { s.SetChaseMode(!s.chase) }

// RequestDirection queues a direction for the controlled agent, replacing
// any request not yet applied.
func (s *Sim) RequestDirection(d Direction) {
	if d == None {
		return
	}
	s.controlled.controlled.pending = d
	s.Log.AddVerbose(s.tick, s.controlled.Name, KindControlled.String(), "input", "request", d.String(), 0)
}

// PendingDirection returns the queued request, None if empty.
func (s *Sim) PendingDirection() Direction { return s.controlled.controlled.pending }

// Step advances every agent by one tick. Each agent moves, then runs its
// decision routine if it became cell-aligned. A collision stops the remaining
// agents for this tick. The returned error is only ever fatal (ErrNoNeighbors).
func (s *Sim) Step() (Outcome, error) {
	if s.outcome.Ended {
		return s.outcome, nil
	}
	if !s.primed {
		s.primed = true
		// Spawn cells are the tick-0 decision points.
		for _, a := range s.agents {
			if !a.aligned() {
				continue
			}
			if err := s.runDecision(a); err != nil {
				return s.outcome, err
			}
			if s.outcome.Ended {
				return s.outcome, nil
			}
		}
	}

	s.tick++
	if s.schedule != nil {
		if chase, changed := s.schedule.Advance(s.tick); changed {
			s.SetChaseMode(chase)
		}
	}

	for _, a := range s.agents {
		a.advance()
		s.Log.AddVerbose(s.tick, a.Name, a.Kind.String(), "move", "position",
			fmt.Sprintf("(%.3f,%.3f)", a.offset.X, a.offset.Y), 0)
		if !a.aligned() {
			continue
		}
		if err := s.runDecision(a); err != nil {
			return s.outcome, err
		}
		if s.outcome.Ended {
			break
		}
	}
	return s.outcome, nil
}

// runDecision drives one Moving → AtDecisionPoint → Moving cycle.
func (s *Sim) runDecision(a *Agent) error {
	a.snap()
	a.state = AtDecisionPoint
	err := decideFuncs[a.Kind](s, a)
	a.state = Moving
	a.decisions++
	return err
}

// RunTicks advances up to n ticks, stopping early when the run ends.
func (s *Sim) RunTicks(n int) (Outcome, error) {
	for i := 0; i < n; i++ {
		out, err := s.Step()
		if err != nil || out.Ended {
			return out, err
		}
	}
	return s.outcome, nil
}

// RunUntil advances up to maxTicks, stopping early if predicate returns true.
// Returns the tick at which the predicate was satisfied, or -1.
func (s *Sim) RunUntil(predicate func(*Sim) bool, maxTicks int) (int, error) {
	for i := 0; i < maxTicks; i++ {
		if _, err := s.Step(); err != nil {
			return -1, err
		}
		if predicate(s) {
			return s.tick, nil
		}
		if s.outcome.Ended {
			return -1, nil
		}
	}
	return -1, nil
}

func (s *Sim) end(reason EndReason, by *Agent, at Cell) {
	s.outcome = Outcome{Ended: true, Reason: reason, Tick: s.tick, Cell: at}
	label, kind := "--", "--"
	if by != nil {
		label, kind = by.Name, by.Kind.String()
		if by.Kind == KindPursuer {
			s.outcome.Pursuer = by.Name
		}
	}
	s.Log.Add(s.tick, label, kind, "collision", reason.String(), at.String(), 0)
}

// Views returns the drawable state of every agent in processing order.
func (s *Sim) Views() []AgentView {
	out := make([]AgentView, len(s.agents))
	for i, a := range s.agents {
		out[i] = a.View()
	}
	return out
}

// Frame is an immutable per-tick snapshot for presentation collaborators.
type Frame struct {
	Tick      int         `json:"tick"`
	Chase     bool        `json:"chase"`
	Remaining int         `json:"remaining"`
	Agents    []AgentView `json:"agents"`
	Outcome   Outcome     `json:"outcome"`
}

// Frame captures the current state.
func (s *Sim) Frame() Frame {
	return Frame{
		Tick:      s.tick,
		Chase:     s.chase,
		Remaining: s.items.Remaining(),
		Agents:    s.Views(),
		Outcome:   s.outcome,
	}
}

func modeLabel(chase bool) string {
	if chase {
		return "chase"
	}
	return "scatter"
}
