package game

import "fmt"

// Strategy selects how a pursuer turns the controlled agent's state into a
// target cell while chase mode is on.
type Strategy uint8

const (
	StrategyDirect        Strategy = iota // the controlled agent's cell
	StrategyAmbush                        // four cells ahead of the controlled agent
	StrategyFlank                         // reflection through a peer pursuer
	StrategyDistanceGated                 // direct when far, scatter corner when close
)

// Lead distances and the distance-gated radius, in cells.
const (
	ambushLead    = 4
	flankLead     = 2
	ScatterRadius = 8.0
)

func (s Strategy) String() string {
	switch s {
	case StrategyAmbush:
		return "ambush"
	case StrategyFlank:
		return "flank"
	case StrategyDistanceGated:
		return "distance-gated"
	default:
		return "direct"
	}
}

// ParseStrategy maps a strategy name to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "direct", "":
		return StrategyDirect, nil
	case "ambush":
		return StrategyAmbush, nil
	case "flank":
		return StrategyFlank, nil
	case "distance-gated":
		return StrategyDistanceGated, nil
	default:
		return StrategyDirect, fmt.Errorf("unknown strategy %q", s)
	}
}

// TargetContext is everything target selection may read. Peer is only
// required by StrategyFlank.
type TargetContext struct {
	Chase    bool
	Strategy Strategy
	Self     Cell
	Scatter  Cell
	Quarry   Cell
	Heading  Direction
	Peer     *Cell
}

// SelectTarget returns the cell a pursuer should head for. It has no side
// effects.
func SelectTarget(tc TargetContext) Cell {
	if !tc.Chase {
		return tc.Scatter
	}
	switch tc.Strategy {
	case StrategyAmbush:
		return tc.Quarry.Add(tc.Heading, ambushLead)
	case StrategyFlank:
		if tc.Peer == nil {
			return tc.Quarry
		}
		pivot := tc.Quarry.Add(tc.Heading, flankLead)
		return Cell{
			X: (pivot.X-tc.Peer.X)*2 + tc.Peer.X,
			Y: (pivot.Y-tc.Peer.Y)*2 + tc.Peer.Y,
		}
	case StrategyDistanceGated:
		if SquaredDistance(tc.Self, tc.Quarry) <= int(ScatterRadius*ScatterRadius) {
			return tc.Scatter
		}
		return tc.Quarry
	default:
		return tc.Quarry
	}
}
