package game

import (
	"image/color"

	"github.com/zyedidia/generic/mapset"
	"golang.org/x/image/colornames"
)

// controlledColor is the presentation colour of the controlled agent.
var controlledColor = colornames.Yellow

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // applied before agents
	simOptAgent                      // applied in declaration order
)

// SimOption is a builder function applied to a Sim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*Sim)
}

// PursuerSpec describes one pursuer. Peer names the pursuer a flanker
// reflects through; it must be declared earlier.
type PursuerSpec struct {
	Name     string
	Color    color.RGBA
	At       Cell
	Speed    float64
	Dir      Direction
	Scatter  Corner
	Strategy Strategy
	Search   Search
	Peer     string
}

// WithControlled adds the controlled agent.
func WithControlled(name string, at Cell, speed float64, dir Direction) SimOption {
	return SimOption{simOptAgent, func(s *Sim) {
		a := newAgent(name, KindControlled, at, speed, dir)
		a.controlled = &controlledState{}
		s.addAgent(a)
	}}
}

// WithPursuer adds a pursuer. Pursuers are processed in declaration order.
func WithPursuer(p PursuerSpec) SimOption {
	return SimOption{simOptAgent, func(s *Sim) {
		a := newAgent(p.Name, KindPursuer, p.At, p.Speed, p.Dir)
		a.pursuer = &pursuerState{
			color:    p.Color,
			scatter:  p.Scatter,
			strategy: p.Strategy,
			search:   p.Search,
		}
		s.addAgent(a)
		if p.Peer != "" {
			s.peerNames[a] = p.Peer
		}
	}}
}

// WithChaseMode sets the initial chase flag.
func WithChaseMode(on bool) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.chase = on
	}}
}

// WithVerbose enables per-tick position entries in the SimLog.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.Log = NewSimLog(v)
	}}
}

// WithForbidden replaces the codes pursuer search treats as impassable.
func WithForbidden(codes ...CellCode) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.forbidden = mapset.Of(codes...)
	}}
}

// WithCollectibles routes consumption to an external collaborator instead of
// the grid's own item layer.
func WithCollectibles(c Collectibles) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.items = c
	}}
}

// WithChaseToggler replaces the power-collectible hook. The default flips the
// sim's own chase flag.
func WithChaseToggler(t ChaseToggler) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.toggler = t
	}}
}

// WithModeSchedule drives the chase flag from a phase schedule. The schedule
// sets the flag on tick 1 and overrides WithChaseMode from then on; tick-0
// decisions still see the initial flag.
func WithModeSchedule(ms *ModeSchedule) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.schedule = ms
	}}
}
