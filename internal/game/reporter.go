package game

import (
	"fmt"
	"sort"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-behaviour reports (~10s at 60TPS).
const reportWindowTicks = 600

// PursuerReport captures one pursuer's pressure on the controlled agent.
type PursuerReport struct {
	Name      string
	Cell      Cell
	Target    Cell
	HasTarget bool
	// PathDistance is the walk length to the controlled agent, -1 when no
	// walk exists.
	PathDistance int
	Manhattan    int
}

// SimReport is a snapshot of the pursuit at one tick.
type SimReport struct {
	Tick      int
	Chase     bool
	Remaining int

	Pursuers []PursuerReport

	// Nearest pursuer by walk length; empty when none can reach.
	Nearest         string
	NearestDistance int
}

// SimReporter collects periodic reports from the simulation and can produce
// summaries over sliding time windows.
type SimReporter struct {
	history     []SimReport
	windowTicks int
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{windowTicks: windowTicks}
}

// Collect gathers a snapshot from the current simulation state.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *SimReporter) Collect(s *Sim) {
	report := SimReport{
		Tick:            s.tick,
		Chase:           s.chase,
		Remaining:       s.items.Remaining(),
		NearestDistance: -1,
	}
	goal := s.controlled.cell
	for _, a := range s.agents {
		if a.Kind != KindPursuer {
			continue
		}
		pr := PursuerReport{
			Name:         a.Name,
			Cell:         a.cell,
			PathDistance: BFSDistance(s.Grid, a.cell, goal, s.forbidden),
			Manhattan:    Manhattan(a.cell, goal),
		}
		pr.Target, pr.HasTarget = a.Target()
		if pr.PathDistance >= 0 && (report.NearestDistance < 0 || pr.PathDistance < report.NearestDistance) {
			report.Nearest = a.Name
			report.NearestDistance = pr.PathDistance
		}
		report.Pursuers = append(report.Pursuers, pr)
	}

	r.history = append(r.history, report)

	// Prune old history beyond 2x window to prevent unbounded growth.
	maxKeep := r.windowTicks / 60 * 2 // reports per second * 2 windows
	if maxKeep < 100 {
		maxKeep = 100
	}
	if len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all retained reports.
func (r *SimReporter) History() []SimReport {
	return r.history
}

// WindowSummary aggregates the reports inside the recent time window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	var window []SimReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}

	wr := &WindowReport{
		FromTick:     window[len(window)-1].Tick,
		ToTick:       window[0].Tick,
		SampleCount:  len(window),
		MinNearest:   -1,
		AvgDistance:  map[string]float64{},
		NearestCount: map[string]int{},
		Collected:    window[len(window)-1].Remaining - window[0].Remaining,
	}

	chaseSamples := 0
	nearestSamples := 0
	samples := map[string]int{}
	for _, rpt := range window {
		if rpt.Chase {
			chaseSamples++
		}
		if rpt.NearestDistance >= 0 {
			nearestSamples++
			wr.AvgNearest += float64(rpt.NearestDistance)
			if wr.MinNearest < 0 || rpt.NearestDistance < wr.MinNearest {
				wr.MinNearest = rpt.NearestDistance
			}
			wr.NearestCount[rpt.Nearest]++
		}
		for _, pr := range rpt.Pursuers {
			if pr.PathDistance < 0 {
				continue
			}
			wr.AvgDistance[pr.Name] += float64(pr.PathDistance)
			samples[pr.Name]++
		}
	}

	wr.ChasePct = float64(chaseSamples) / float64(len(window)) * 100
	if nearestSamples > 0 {
		wr.AvgNearest /= float64(nearestSamples)
	}
	for name, n := range samples {
		wr.AvgDistance[name] /= float64(n)
	}
	return wr
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	ChasePct   float64 // share of samples in chase mode (0-100)
	AvgNearest float64 // mean walk length of the nearest pursuer
	MinNearest int     // closest approach, -1 if never reachable

	AvgDistance  map[string]float64 // per pursuer walk length
	NearestCount map[string]int     // samples in which each pursuer was nearest

	Collected int
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Pursuit Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)
	fmt.Fprintf(&sb, "  chase=%.0f%%  collected=%d\n", wr.ChasePct, wr.Collected)
	fmt.Fprintf(&sb, "  nearest: avg=%.1f min=%d (%s)\n",
		wr.AvgNearest, wr.MinNearest, pressureLabel(wr.AvgNearest, wr.MinNearest))

	names := make([]string, 0, len(wr.AvgDistance))
	for name := range wr.AvgDistance {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "  %-8s avg_distance=%5.1f nearest_in=%d\n",
			name, wr.AvgDistance[name], wr.NearestCount[name])
	}
	return sb.String()
}

func pressureLabel(avgNearest float64, minNearest int) string {
	switch {
	case minNearest < 0:
		return "unreachable"
	case avgNearest <= 4:
		return "cornered"
	case avgNearest <= 10:
		return "pressed"
	case avgNearest <= 20:
		return "tracked"
	default:
		return "free"
	}
}

// FormatLatest returns a concise snapshot of the most recent collected report.
func (r *SimReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot T=%d %s left=%d ---\n", rpt.Tick, modeLabel(rpt.Chase), rpt.Remaining)
	for _, pr := range rpt.Pursuers {
		target := "none"
		if pr.HasTarget {
			target = pr.Target.String()
		}
		fmt.Fprintf(&sb, "  %-8s at %-8s target=%-8s walk=%d manhattan=%d\n",
			pr.Name, pr.Cell, target, pr.PathDistance, pr.Manhattan)
	}
	return sb.String()
}
