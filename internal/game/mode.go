package game

// ModePhase is one stretch of a mode schedule. Ticks <= 0 means the phase
// never ends.
type ModePhase struct {
	Chase bool
	Ticks int
}

// ModeSchedule alternates the shared chase flag through fixed phases. It is
// the external driver of chase mode; the core only reads the flag.
type ModeSchedule struct {
	phases []ModePhase
	last   bool
	seen   bool
}

// NewModeSchedule creates a schedule from phases in order.
func NewModeSchedule(phases ...ModePhase) *ModeSchedule {
	return &ModeSchedule{phases: phases}
}

// ClassicSchedule is the arcade-style scatter/chase alternation at 60 ticks
// per second: three short scatters, then permanent chase.
func ClassicSchedule() *ModeSchedule {
	return NewModeSchedule(
		ModePhase{Chase: false, Ticks: 420},
		ModePhase{Chase: true, Ticks: 1200},
		ModePhase{Chase: false, Ticks: 420},
		ModePhase{Chase: true, Ticks: 1200},
		ModePhase{Chase: false, Ticks: 300},
		ModePhase{Chase: true, Ticks: 1200},
		ModePhase{Chase: false, Ticks: 300},
		ModePhase{Chase: true},
	)
}

// ChaseAt returns the scheduled chase flag at tick (1-based).
func (ms *ModeSchedule) ChaseAt(tick int) bool {
	if len(ms.phases) == 0 {
		return false
	}
	elapsed := 0
	for _, p := range ms.phases {
		if p.Ticks <= 0 || tick <= elapsed+p.Ticks {
			return p.Chase
		}
		elapsed += p.Ticks
	}
	return ms.phases[len(ms.phases)-1].Chase
}

// Advance returns the flag for tick and whether it differs from the flag
// reported by the previous call. The first call always reports a change.
func (ms *ModeSchedule) Advance(tick int) (chase bool, changed bool) {
	chase = ms.ChaseAt(tick)
	changed = !ms.seen || chase != ms.last
	ms.last = chase
	ms.seen = true
	return chase, changed
}
