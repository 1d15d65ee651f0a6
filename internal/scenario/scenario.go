// Package scenario loads YAML run descriptions and turns them into a
// ready-to-step game.Sim.
package scenario

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/maze-pursuit/internal/game"
	"github.com/Garsondee/maze-pursuit/internal/mazefile"
)

// Scenario is one run description.
type Scenario struct {
	Name       string        `yaml:"name"`
	Maze       string        `yaml:"maze"`   // maze file path; empty uses the built-in classic maze
	Tunnel     *int          `yaml:"tunnel"` // overrides the maze file's tunnel row; -1 disables it
	Chase      bool          `yaml:"chase"`  // initial flag; not allowed together with a schedule
	Verbose    bool          `yaml:"verbose"`
	Schedule   Schedule      `yaml:"schedule"`
	Controlled AgentSpec     `yaml:"controlled"`
	Pursuers   []PursuerSpec `yaml:"pursuers"`

	dir string // directory of the scenario file, for relative maze paths
}

// Schedule selects the chase/scatter driver. Preset "classic" uses
// game.ClassicSchedule; otherwise Phases are used when present.
type Schedule struct {
	Preset string      `yaml:"preset"`
	Phases []PhaseSpec `yaml:"phases"`
}

// PhaseSpec is one schedule phase. Ticks 0 means forever.
type PhaseSpec struct {
	Chase bool `yaml:"chase"`
	Ticks int  `yaml:"ticks"`
}

// AgentSpec places the controlled agent.
type AgentSpec struct {
	Name  string `yaml:"name"`
	At    Point  `yaml:"at"`
	Speed Speed  `yaml:"speed"`
	Dir   string `yaml:"dir"`
}

// PursuerSpec places one pursuer.
type PursuerSpec struct {
	Name     string `yaml:"name"`
	Color    string `yaml:"color"` // colornames name, e.g. "red"
	At       Point  `yaml:"at"`
	Speed    Speed  `yaml:"speed"`
	Dir      string `yaml:"dir"`
	Scatter  string `yaml:"scatter"`
	Strategy string `yaml:"strategy"`
	Search   string `yaml:"search"`
	Peer     string `yaml:"peer"`
}

// Point is a cell written as a two-element sequence: [x, y].
type Point [2]int

// Cell converts p.
func (p Point) Cell() game.Cell { return game.Cell{X: p[0], Y: p[1]} }

// Speed is cells per tick. YAML accepts a number or a fraction such as "1/6".
type Speed float64

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Speed) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: speed must be a scalar", value.Line)
	}
	v, err := parseSpeed(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*s = Speed(v)
	return nil
}

func parseSpeed(raw string) (float64, error) {
	num, den, frac := strings.Cut(strings.TrimSpace(raw), "/")
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("speed %q: %w", raw, err)
	}
	if frac {
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil || d == 0 {
			return 0, fmt.Errorf("speed %q: bad denominator", raw)
		}
		n /= d
	}
	if n < 0 || n > 1 {
		return 0, fmt.Errorf("speed %q: must be within 0..1 cells per tick", raw)
	}
	return n, nil
}

// Load reads a scenario file. A relative maze path resolves against the
// file's directory.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	sc.dir = filepath.Dir(path)
	return sc, nil
}

// Parse decodes a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Marshal encodes the scenario back to YAML.
func (sc *Scenario) Marshal() ([]byte, error) {
	return yaml.Marshal(sc)
}

// MarshalYAML writes fractional speeds as plain numbers.
func (s Speed) MarshalYAML() (any, error) {
	return float64(s), nil
}

// Grid loads the maze the scenario points at.
func (sc *Scenario) Grid() (*game.Grid, error) {
	var (
		g   *game.Grid
		err error
	)
	if sc.Maze == "" {
		g, err = mazefile.Classic()
	} else {
		path := sc.Maze
		if !filepath.IsAbs(path) && sc.dir != "" {
			path = filepath.Join(sc.dir, path)
		}
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("scenario: %w", openErr)
		}
		defer f.Close()
		g, err = mazefile.Parse(filepath.Base(path), f)
	}
	if err != nil {
		return nil, err
	}
	if sc.Tunnel != nil {
		if err := g.SetTunnelRow(*sc.Tunnel); err != nil {
			return nil, fmt.Errorf("scenario: %w", err)
		}
	}
	return g, nil
}

// Options translates the scenario into game.SimOptions. All invalid names
// are reported together.
func (sc *Scenario) Options() ([]game.SimOption, error) {
	var errs []error
	opts := []game.SimOption{
		game.WithChaseMode(sc.Chase),
		game.WithVerbose(sc.Verbose),
	}

	scheduled := sc.Schedule.Preset != "" || len(sc.Schedule.Phases) > 0
	if sc.Chase && scheduled {
		errs = append(errs, errors.New("chase: the schedule owns the chase flag; drop chase or the schedule"))
	}
	switch {
	case sc.Schedule.Preset == "classic":
		opts = append(opts, game.WithModeSchedule(game.ClassicSchedule()))
	case sc.Schedule.Preset != "":
		errs = append(errs, fmt.Errorf("schedule: unknown preset %q", sc.Schedule.Preset))
	case len(sc.Schedule.Phases) > 0:
		phases := make([]game.ModePhase, len(sc.Schedule.Phases))
		for i, p := range sc.Schedule.Phases {
			phases[i] = game.ModePhase{Chase: p.Chase, Ticks: p.Ticks}
		}
		opts = append(opts, game.WithModeSchedule(game.NewModeSchedule(phases...)))
	}

	c := sc.Controlled
	dir, err := game.ParseDirection(c.Dir)
	if err != nil {
		errs = append(errs, fmt.Errorf("controlled %q: %w", c.Name, err))
	}
	name := c.Name
	if name == "" {
		name = "player"
	}
	opts = append(opts, game.WithControlled(name, c.At.Cell(), float64(c.Speed), dir))

	for _, p := range sc.Pursuers {
		spec, err := p.spec()
		if err != nil {
			errs = append(errs, fmt.Errorf("pursuer %q: %w", p.Name, err))
			continue
		}
		opts = append(opts, game.WithPursuer(spec))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return opts, nil
}

func (p PursuerSpec) spec() (game.PursuerSpec, error) {
	dir, err := game.ParseDirection(p.Dir)
	if err != nil {
		return game.PursuerSpec{}, err
	}
	strat, err := game.ParseStrategy(p.Strategy)
	if err != nil {
		return game.PursuerSpec{}, err
	}
	if strat == game.StrategyFlank && p.Peer == "" {
		return game.PursuerSpec{}, fmt.Errorf("strategy %s needs a peer", strat)
	}
	search, err := game.ParseSearch(p.Search)
	if err != nil {
		return game.PursuerSpec{}, err
	}
	corner := game.ParseCorner(p.Scatter)
	if p.Scatter != "" && corner.String() != p.Scatter {
		return game.PursuerSpec{}, fmt.Errorf("unknown scatter corner %q", p.Scatter)
	}
	col, err := lookupColor(p.Color)
	if err != nil {
		return game.PursuerSpec{}, err
	}
	return game.PursuerSpec{
		Name:     p.Name,
		Color:    col,
		At:       p.At.Cell(),
		Speed:    float64(p.Speed),
		Dir:      dir,
		Scatter:  corner,
		Strategy: strat,
		Search:   search,
		Peer:     p.Peer,
	}, nil
}

func lookupColor(name string) (color.RGBA, error) {
	if name == "" {
		return colornames.White, nil
	}
	col, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown colour %q", name)
	}
	return col, nil
}

// Build loads the maze and constructs the simulation.
func (sc *Scenario) Build() (*game.Sim, error) {
	g, err := sc.Grid()
	if err != nil {
		return nil, err
	}
	opts, err := sc.Options()
	if err != nil {
		return nil, err
	}
	return game.NewSim(g, opts...)
}
