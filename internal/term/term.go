// Package term is a terminal presenter for the simulation, one screen column
// per grid cell.
package term

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/maze-pursuit/internal/game"
)

// Builder constructs a fresh simulation; used at start-up and on restart.
type Builder func() (*game.Sim, error)

var (
	wallStyle   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(33, 33, 222)).Background(tcell.NewRGBColor(33, 33, 222))
	pelletStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 184, 151))
	hudStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dimStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// controlledGlyphs opens the mouth toward the facing direction.
var controlledGlyphs = map[game.Direction]rune{
	game.Up:    'v',
	game.Down:  '^',
	game.Left:  '>',
	game.Right: '<',
}

const pursuerGlyph = 'M'

// Presenter draws one Sim on a tcell screen and turns key events into
// direction requests.
type Presenter struct {
	screen tcell.Screen
	build  Builder
	sim    *game.Sim

	paused bool
	status string
}

// New builds the first simulation.
func New(screen tcell.Screen, build Builder) (*Presenter, error) {
	p := &Presenter{screen: screen, build: build}
	if err := p.restart(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Presenter) restart() error {
	s, err := p.build()
	if err != nil {
		return err
	}
	p.sim = s
	p.status = ""
	return nil
}

// Sim returns the simulation being shown.
func (p *Presenter) Sim() *game.Sim { return p.sim }

// keyDirections maps cursor keys to requests; runes are handled separately.
var keyDirections = map[tcell.Key]game.Direction{
	tcell.KeyUp:    game.Up,
	tcell.KeyLeft:  game.Left,
	tcell.KeyDown:  game.Down,
	tcell.KeyRight: game.Right,
}

var runeDirections = map[rune]game.Direction{
	'w': game.Up, 'a': game.Left, 's': game.Down, 'd': game.Right,
	'k': game.Up, 'h': game.Left, 'j': game.Down, 'l': game.Right,
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (p *Presenter) HandleEvent(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false, nil
		}
		if d, ok := keyDirections[ev.Key()]; ok {
			p.sim.RequestDirection(d)
			return true, nil
		}
		if ev.Key() != tcell.KeyRune {
			return true, nil
		}
		if d, ok := runeDirections[ev.Rune()]; ok {
			p.sim.RequestDirection(d)
			return true, nil
		}
		switch ev.Rune() {
		case 'q':
			return false, nil
		case ' ':
			p.paused = !p.paused
		case 'n':
			if p.paused {
				return true, p.step()
			}
		case 'm':
			p.sim.ToggleChaseMode()
		case 'r':
			return true, p.restart()
		}
	case *tcell.EventResize:
		p.screen.Sync()
	}
	return true, nil
}

// Tick advances the simulation once unless paused or finished.
func (p *Presenter) Tick() error {
	if p.paused || p.sim.Outcome().Ended {
		return nil
	}
	return p.step()
}

func (p *Presenter) step() error {
	out, err := p.sim.Step()
	if err != nil {
		return fmt.Errorf("tick %d: %w", p.sim.CurrentTick(), err)
	}
	if out.Ended && p.status == "" {
		p.status = fmt.Sprintf("%s at T=%d  r=restart q=quit", out.Reason, out.Tick)
		log.Printf("run ended: %s by %q at %s, T=%d", out.Reason, out.Pursuer, out.Cell, out.Tick)
	}
	return nil
}

// Draw renders the maze, agents and a status line.
func (p *Presenter) Draw() {
	p.screen.Clear()
	grid := p.sim.Grid
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			switch {
			case grid.IsWall(x, y):
				p.screen.SetContent(x, y, ' ', nil, wallStyle)
			case grid.ItemAt(x, y) == game.CellCollectible:
				p.screen.SetContent(x, y, '·', nil, pelletStyle)
			case grid.ItemAt(x, y) == game.CellPowerCollectible:
				p.screen.SetContent(x, y, 'o', nil, pelletStyle)
			}
		}
	}

	views := p.sim.Views()
	chase := p.sim.ChaseMode()
	// Pursuers first so the controlled agent draws on top.
	for i := len(views) - 1; i >= 0; i-- {
		v := views[i]
		x, y := int(math.Round(v.OffsetX)), int(math.Round(v.OffsetY))
		if x < 0 || x >= grid.Width || y < 0 || y >= grid.Height {
			continue
		}
		style := tcell.StyleDefault.Foreground(rgb(v.Color)).Bold(true)
		glyph := pursuerGlyph
		if v.Kind == game.KindControlled {
			glyph = controlledGlyphs[v.Facing]
			if glyph == 0 {
				glyph = 'C'
			}
		} else if !chase {
			style = style.Bold(false).Dim(true)
		}
		p.screen.SetContent(x, y, glyph, nil, style)
	}

	f := p.sim.Frame()
	mode := "SCATTER"
	if f.Chase {
		mode = "CHASE"
	}
	line := fmt.Sprintf("T=%d %s left=%d", f.Tick, mode, f.Remaining)
	if p.paused {
		line += " PAUSED"
	}
	p.drawText(0, grid.Height, line, hudStyle)
	if p.status != "" {
		p.drawText(0, grid.Height+1, p.status, hudStyle)
	} else {
		p.drawText(0, grid.Height+1, "arrows/wasd/hjkl steer  space pause  n step  m chase  r restart  q quit", dimStyle)
	}
	p.screen.Show()
}

func (p *Presenter) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Run polls events and ticks the simulation tps times per second until the
// user quits.
func (p *Presenter) Run(tps int) error {
	if tps <= 0 {
		tps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	p.Draw()
	for {
		select {
		case ev := <-eventChan:
			ok, err := p.HandleEvent(ev)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			p.Draw()
		case <-ticker.C:
			if err := p.Tick(); err != nil {
				return err
			}
			p.Draw()
		}
	}
}
