package game

import (
	"image/color"
	"math"
)

// Kind tags the behaviour variant of an Agent.
type Kind uint8

const (
	KindControlled Kind = iota
	KindPursuer
)

func (k Kind) String() string {
	if k == KindControlled {
		return "controlled"
	}
	return "pursuer"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// MotionState is the agent motion state machine.
type MotionState uint8

const (
	Moving          MotionState = iota // offset between cells
	AtDecisionPoint                    // offset aligned, decision routine running
)

func (s MotionState) String() string {
	if s == AtDecisionPoint {
		return "decision"
	}
	return "moving"
}

// alignPrecision is the rounding applied to offsets before comparing them to
// the discrete cell (3 decimal places).
const alignPrecision = 1000

// Vec is a continuous sub-cell position in cell units.
type Vec struct {
	X, Y float64
}

// Agent is one moving entity. Motion fields are shared by both variants; the
// variant-specific state lives in controlled or pursuer depending on Kind.
type Agent struct {
	Name string
	Kind Kind

	cell      Cell
	offset    Vec
	dir       Direction
	speed     float64 // cells per tick
	speedVec  Vec
	stopped   bool // controlled agent halted at a wall; direction kept
	state     MotionState
	decisions int

	controlled *controlledState
	pursuer    *pursuerState
}

// controlledState is the Controlled variant's extra state.
type controlledState struct {
	pending Direction // single queued request, None when empty
}

// pursuerState is the Pursuer variant's extra state.
type pursuerState struct {
	color    color.RGBA
	scatter  Corner
	strategy Strategy
	search   Search
	peer     *Agent
	lastGoal Cell
}

func newAgent(name string, kind Kind, at Cell, speed float64, dir Direction) *Agent {
	a := &Agent{
		Name:   name,
		Kind:   kind,
		cell:   at,
		offset: Vec{X: float64(at.X), Y: float64(at.Y)},
		speed:  speed,
	}
	a.setDirection(dir)
	return a
}

// Cell returns the discrete position.
func (a *Agent) Cell() Cell { return a.cell }

// Offset returns the continuous position.
func (a *Agent) Offset() Vec { return a.offset }

// Direction returns the facing direction.
func (a *Agent) Direction() Direction { return a.dir }

// Speed returns the scalar speed in cells per tick.
func (a *Agent) Speed() float64 { return a.speed }

// SpeedVector returns direction × speed, zero while stopped.
func (a *Agent) SpeedVector() Vec { return a.speedVec }

// State returns the motion state.
func (a *Agent) State() MotionState { return a.state }

// Decisions counts how many decision points the agent has passed.
func (a *Agent) Decisions() int { return a.decisions }

// setDirection changes facing and recomputes the speed vector. Only called
// from decision routines (and construction).
func (a *Agent) setDirection(d Direction) {
	a.dir = d
	a.stopped = false
	dx, dy := d.Delta()
	a.speedVec = Vec{X: float64(dx) * a.speed, Y: float64(dy) * a.speed}
}

// stop zeroes the speed vector without changing facing.
func (a *Agent) stop() {
	a.stopped = true
	a.speedVec = Vec{}
}

// advance adds the speed vector to the offset and recomputes the cell.
func (a *Agent) advance() {
	a.offset.X += a.speedVec.X
	a.offset.Y += a.speedVec.Y
	a.cell = Cell{X: int(math.Round(a.offset.X)), Y: int(math.Round(a.offset.Y))}
}

// aligned reports whether the offset, rounded to three decimals, sits exactly
// on the discrete cell.
func (a *Agent) aligned() bool {
	return roundTo(a.offset.X) == float64(a.cell.X) && roundTo(a.offset.Y) == float64(a.cell.Y)
}

// snap removes accumulated float drift once aligned.
func (a *Agent) snap() {
	a.offset = Vec{X: float64(a.cell.X), Y: float64(a.cell.Y)}
}

// wrapTunnel teleports an agent standing on a tunnel sentinel to the opposite
// sentinel. Returns true if a wrap happened.
func (a *Agent) wrapTunnel(g *Grid) bool {
	if g.TunnelRow == NoTunnel || a.cell.Y != g.TunnelRow {
		return false
	}
	switch a.cell.X {
	case -1:
		a.cell.X = g.Width
	case g.Width:
		a.cell.X = -1
	default:
		return false
	}
	a.offset.X = float64(a.cell.X)
	return true
}

// wallAhead reports whether the cell in the facing direction is a wall.
func (a *Agent) wallAhead(g *Grid) bool {
	n := a.cell.Add(a.dir, 1)
	return g.IsWall(n.X, n.Y)
}

func roundTo(v float64) float64 {
	return math.Round(v*alignPrecision) / alignPrecision
}

// AgentView is what the presentation collaborator needs to draw one agent.
type AgentView struct {
	Name    string     `json:"name"`
	Kind    Kind       `json:"kind"`
	Color   color.RGBA `json:"color"`
	CellX   int        `json:"cell_x"`
	CellY   int        `json:"cell_y"`
	OffsetX float64    `json:"offset_x"`
	OffsetY float64    `json:"offset_y"`
	Facing  Direction  `json:"facing"`
	Moving  bool       `json:"moving"`
}

// View returns the drawable state of the agent.
func (a *Agent) View() AgentView {
	v := AgentView{
		Name:    a.Name,
		Kind:    a.Kind,
		CellX:   a.cell.X,
		CellY:   a.cell.Y,
		OffsetX: a.offset.X,
		OffsetY: a.offset.Y,
		Facing:  a.dir,
		Moving:  a.speedVec != (Vec{}),
	}
	if a.pursuer != nil {
		v.Color = a.pursuer.color
	} else {
		v.Color = controlledColor
	}
	return v
}
