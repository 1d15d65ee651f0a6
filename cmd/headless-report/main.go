package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/Garsondee/maze-pursuit/internal/game"
	"github.com/Garsondee/maze-pursuit/internal/scenario"
)

type runStats struct {
	runIndex int
	runID    string
	seed     int64

	outcome   game.Outcome
	ticks     int
	collected int
	left      int

	firstTurnTick  int
	firstChaseTick int
	firstWrapTick  int

	turns        int
	bounces      int
	holds        int
	stops        int
	inputApplied int
	inputDropped int
	wraps        int
	modeChanges  int

	decisions map[string]int // per agent

	windowSummary *game.WindowReport
}

// sampleEvery is how often (in ticks) the pursuit reporter samples a run.
const sampleEvery = 60

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenarioPath string
	var wander float64
	var serve string
	var fps int

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 6000, "maximum ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenarioPath, "scenario", "", "scenario YAML file (default: built-in classic)")
	flag.Float64Var(&wander, "wander", 0.05, "per-tick probability of a random steering request")
	flag.StringVar(&serve, "serve", "", "stream live runs to websocket viewers on this address (e.g. :8080)")
	flag.IntVar(&fps, "fps", 60, "ticks per second when serving")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if wander < 0 || wander > 1 {
		fmt.Println("error: -wander must be in [0,1]")
		return
	}

	sc := scenario.Default()
	if scenarioPath != "" {
		var err error
		if sc, err = scenario.Load(scenarioPath); err != nil {
			log.Fatal(err)
		}
	}

	if serve != "" {
		if err := serveRuns(serve, sc, fps, seedBase, wander); err != nil {
			log.Fatal(err)
		}
		return
	}

	fmt.Printf("=== Headless Pursuit Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%s seed_base=%d seed_step=%d wander=%.2f\n\n",
		sc.Name, runs, humanize.Comma(int64(ticks)), seedBase, seedStep, wander)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runScenario(sc, i+1, seed, ticks, wander)
		if err != nil {
			log.Fatalf("run %d (seed=%d): %v", i+1, seed, err)
		}
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// wanderer steers the controlled agent with seeded random requests.
type wanderer struct {
	rng *rand.Rand
	p   float64
}

func newWanderer(seed int64, p float64) *wanderer {
	return &wanderer{rng: rand.New(rand.NewSource(seed)), p: p}
}

func (w *wanderer) steer(s *game.Sim) {
	if w.p <= 0 || w.rng.Float64() >= w.p {
		return
	}
	s.RequestDirection(game.Directions[w.rng.Intn(len(game.Directions))])
}

func runScenario(sc *scenario.Scenario, runIndex int, seed int64, ticks int, wander float64) (runStats, error) {
	s, err := sc.Build()
	if err != nil {
		return runStats{}, err
	}
	start := s.Frame().Remaining
	w := newWanderer(seed, wander)
	rep := game.NewSimReporter(0)

	for i := 0; i < ticks; i++ {
		w.steer(s)
		out, err := s.Step()
		if err != nil {
			return runStats{}, err
		}
		if out.Ended {
			break
		}
		if s.CurrentTick()%sampleEvery == 0 {
			rep.Collect(s)
		}
	}
	rep.Collect(s)

	rs := collectStats(s.Log.Entries())
	rs.runIndex = runIndex
	rs.runID = uuid.NewString()
	rs.seed = seed
	rs.outcome = s.Outcome()
	rs.ticks = s.CurrentTick()
	rs.left = s.Frame().Remaining
	rs.collected = start - rs.left
	for _, a := range s.Agents() {
		rs.decisions[a.Name] = a.Decisions()
	}
	rs.windowSummary = rep.WindowSummary()
	return rs, nil
}

// collectStats tallies the SimLog categories the report prints.
func collectStats(entries []game.SimLogEntry) runStats {
	rs := runStats{
		firstTurnTick:  firstTick(entries, "decision", "turn", ""),
		firstChaseTick: firstTick(entries, "mode", "change", "chase"),
		firstWrapTick:  firstTick(entries, "tunnel", "wrap", ""),
		decisions:      map[string]int{},
	}
	for _, e := range entries {
		switch e.Category {
		case "decision":
			switch e.Key {
			case "turn":
				rs.turns++
			case "bounce":
				rs.bounces++
			case "stop":
				rs.stops++
			}
		case "search":
			if e.Key == "hold" {
				rs.holds++
			}
		case "input":
			switch e.Key {
			case "applied":
				rs.inputApplied++
			case "discarded":
				rs.inputDropped++
			}
		case "tunnel":
			rs.wraps++
		case "mode":
			rs.modeChanges++
		}
	}
	return rs
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func outcomeLabel(o game.Outcome) string {
	switch {
	case !o.Ended:
		return "timeout"
	case o.Reason == game.EndCollision && o.Pursuer != "":
		return fmt.Sprintf("caught by %s at %s", o.Pursuer, o.Cell)
	case o.Reason == game.EndCollision:
		return fmt.Sprintf("collision at %s", o.Cell)
	default:
		return o.Reason.String()
	}
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d id=%s) ---\n", rs.runIndex, rs.seed, rs.runID)
	fmt.Printf("outcome: %s after %s ticks\n", outcomeLabel(rs.outcome), humanize.Comma(int64(rs.ticks)))
	fmt.Printf("collectibles: taken=%s left=%s\n", humanize.Comma(int64(rs.collected)), humanize.Comma(int64(rs.left)))
	fmt.Printf("phase_markers: first_turn=%d first_chase=%d first_wrap=%d\n",
		rs.firstTurnTick, rs.firstChaseTick, rs.firstWrapTick)
	fmt.Printf("event_totals: turn=%d bounce=%d hold=%d stop=%d wrap=%d mode_change=%d\n",
		rs.turns, rs.bounces, rs.holds, rs.stops, rs.wraps, rs.modeChanges)
	fmt.Printf("input: applied=%d discarded=%d\n", rs.inputApplied, rs.inputDropped)
	fmt.Printf("decisions: %s\n", joinCounts(rs.decisions))
	fmt.Print(rs.windowSummary.Format())
	fmt.Println()
}

// catchesBy counts collision outcomes per pursuer.
func catchesBy(all []runStats) map[string]int {
	out := map[string]int{}
	for _, rs := range all {
		if rs.outcome.Ended && rs.outcome.Reason == game.EndCollision && rs.outcome.Pursuer != "" {
			out[rs.outcome.Pursuer]++
		}
	}
	return out
}

func printAggregate(all []runStats) {
	totalTicks := 0
	totalCollected := 0
	totalTurns := 0
	totalBounces := 0
	totalHolds := 0
	cleared := 0
	timeouts := 0
	endTicks := make([]int, 0, len(all))

	for _, rs := range all {
		totalTicks += rs.ticks
		totalCollected += rs.collected
		totalTurns += rs.turns
		totalBounces += rs.bounces
		totalHolds += rs.holds
		switch {
		case !rs.outcome.Ended:
			timeouts++
		case rs.outcome.Reason == game.EndCleared:
			cleared++
			endTicks = append(endTicks, rs.ticks)
		default:
			endTicks = append(endTicks, rs.ticks)
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d total_ticks=%s collectibles_taken=%s\n",
		len(all), humanize.Comma(int64(totalTicks)), humanize.Comma(int64(totalCollected)))
	fmt.Printf("avg_events_per_run: turn=%.1f bounce=%.1f hold=%.1f\n",
		avg(totalTurns, len(all)), avg(totalBounces, len(all)), avg(totalHolds, len(all)))
	fmt.Printf("endings: caught=%d cleared=%d timeout=%d avg_end_tick=%s\n",
		len(all)-cleared-timeouts, cleared, timeouts, avgTickString(endTicks))
	fmt.Printf("catches_by_pursuer: %s\n", joinCounts(catchesBy(all)))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(counts))
	for k := range counts {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	parts := make([]string, len(labels))
	for i, k := range labels {
		parts[i] = fmt.Sprintf("%s=%s", k, humanize.Comma(int64(counts[k])))
	}
	return strings.Join(parts, " ")
}
