package main

import (
	"strings"
	"testing"

	"github.com/Garsondee/maze-pursuit/internal/game"
	"github.com/Garsondee/maze-pursuit/internal/scenario"
)

func TestCollectStats_TalliesCategories(t *testing.T) {
	entries := []game.SimLogEntry{
		{Tick: 3, Category: "decision", Key: "turn"},
		{Tick: 4, Category: "decision", Key: "turn"},
		{Tick: 5, Category: "decision", Key: "bounce"},
		{Tick: 6, Category: "search", Key: "hold"},
		{Tick: 7, Category: "input", Key: "discarded"},
		{Tick: 8, Category: "mode", Key: "change", Value: "scatter"},
		{Tick: 9, Category: "mode", Key: "change", Value: "chase"},
		{Tick: 10, Category: "tunnel", Key: "wrap"},
	}
	rs := collectStats(entries)
	if rs.turns != 2 || rs.bounces != 1 || rs.holds != 1 || rs.inputDropped != 1 {
		t.Fatalf("unexpected tallies: %+v", rs)
	}
	if rs.firstTurnTick != 3 || rs.firstChaseTick != 9 || rs.firstWrapTick != 10 {
		t.Fatalf("unexpected markers: turn=%d chase=%d wrap=%d", rs.firstTurnTick, rs.firstChaseTick, rs.firstWrapTick)
	}
	if rs.modeChanges != 2 || rs.wraps != 1 {
		t.Fatalf("expected 2 mode changes and 1 wrap, got %d and %d", rs.modeChanges, rs.wraps)
	}
}

func TestFirstTick_MissingIsMinusOne(t *testing.T) {
	if got := firstTick(nil, "decision", "turn", ""); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

func TestRunScenario_SameSeedSameRun(t *testing.T) {
	sc := scenario.Default()
	a, err := runScenario(sc, 1, 7, 3000, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := runScenario(sc, 1, 7, 3000, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if a.outcome != b.outcome || a.ticks != b.ticks || a.collected != b.collected || a.turns != b.turns {
		t.Fatalf("runs diverged:\n%+v\n%+v", a, b)
	}
	if a.runID == b.runID {
		t.Fatal("expected fresh run IDs")
	}
	if a.decisions["player"] == 0 || a.decisions["blinky"] == 0 {
		t.Fatalf("expected decisions for every agent, got %v", a.decisions)
	}
}

func TestCatchesBy(t *testing.T) {
	all := []runStats{
		{outcome: game.Outcome{Ended: true, Reason: game.EndCollision, Pursuer: "blinky"}},
		{outcome: game.Outcome{Ended: true, Reason: game.EndCollision, Pursuer: "blinky"}},
		{outcome: game.Outcome{Ended: true, Reason: game.EndCollision, Pursuer: "clyde"}},
		{outcome: game.Outcome{Ended: true, Reason: game.EndCleared}},
		{},
	}
	got := catchesBy(all)
	if got["blinky"] != 2 || got["clyde"] != 1 || len(got) != 2 {
		t.Fatalf("unexpected catches: %v", got)
	}
	if s := joinCounts(got); s != "blinky=2 clyde=1" {
		t.Fatalf("unexpected join: %q", s)
	}
}

func TestOutcomeLabel(t *testing.T) {
	o := game.Outcome{Ended: true, Reason: game.EndCollision, Pursuer: "inky", Cell: game.Cell{X: 3, Y: 4}}
	if got := outcomeLabel(o); !strings.Contains(got, "inky") || !strings.Contains(got, "(3,4)") {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := outcomeLabel(game.Outcome{}); got != "timeout" {
		t.Fatalf("unexpected label: %q", got)
	}
}
