// Package view is the ebiten presentation collaborator: it draws the maze and
// agents, feeds arrow keys to the controlled agent and mirrors the SimLog into
// an on-screen panel.
package view

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/maze-pursuit/internal/game"
)

// borderWidth is the pixel gap between the window edge and the maze.
const borderWidth = 24

// cellSize is the on-screen size of one grid cell in pixels.
const cellSize = 20

// hudScale is the integer upscale factor applied to HUD text.
const hudScale = 2

var (
	backgroundColor = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	wallColor       = color.RGBA{R: 33, G: 33, B: 222, A: 255}
	pelletColor     = color.RGBA{R: 255, G: 184, B: 151, A: 255}
)

// Builder constructs a fresh simulation; used at start-up and on restart.
type Builder func() (*game.Sim, error)

// Game implements ebiten.Game over one game.Sim.
type Game struct {
	build Builder
	sim   *game.Sim

	width      int
	height     int
	gameWidth  int // maze width in pixels (log panel takes the rest)
	gameHeight int
	offX       int
	offY       int

	thoughtLog *ThoughtLog
	logCursor  int // SimLog entries already mirrored
	colors     map[string]color.RGBA

	prev []game.AgentView // views before the latest tick, for blending

	showHUD     bool
	showTargets bool
	prevKeys    map[ebiten.Key]bool
	hudBuf      *ebiten.Image

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0=paused, 0.25, 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds

	status      string // transient HUD message
	statusTicks int
}

// New builds the first simulation and sizes the window around its grid.
func New(build Builder) (*Game, error) {
	g := &Game{
		build:      build,
		thoughtLog: NewThoughtLog(),
		showHUD:    true,
		prevKeys:   make(map[ebiten.Key]bool),
		simSpeed:   1,
	}
	if err := g.restart(); err != nil {
		return nil, err
	}
	return g, nil
}

// restart replaces the simulation with a freshly built one.
func (g *Game) restart() error {
	s, err := g.build()
	if err != nil {
		return err
	}
	g.sim = s
	g.gameWidth = s.Grid.Width * cellSize
	g.gameHeight = s.Grid.Height * cellSize
	g.offX, g.offY = borderWidth, borderWidth
	g.width = borderWidth + g.gameWidth + borderWidth + logPanelWidth
	g.height = borderWidth + g.gameHeight + borderWidth
	g.colors = make(map[string]color.RGBA, len(s.Agents()))
	for _, a := range s.Agents() {
		g.colors[a.Name] = a.Color()
	}
	g.thoughtLog.Reset()
	g.logCursor = 0
	g.prev = s.Views()
	g.tickAccum = 0
	g.hudBuf = nil
	return nil
}

// Sim returns the simulation being shown.
func (g *Game) Sim() *game.Sim { return g.sim }

// Size returns the window size in pixels.
func (g *Game) Size() (int, int) { return g.width, g.height }

func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	if g.statusTicks > 0 {
		g.statusTicks--
	}

	if g.simSpeed <= 0 || g.sim.Outcome().Ended {
		return nil
	}

	// For speeds > 1 run multiple sim ticks per frame.
	// For speeds < 1 accumulate fractions.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		if err := g.simTick(); err != nil {
			return err
		}
	}
	return nil
}

// simTick runs one simulation tick and mirrors new log entries.
func (g *Game) simTick() error {
	g.prev = g.sim.Views()
	out, err := g.sim.Step()
	g.drainLog()
	if err != nil {
		return fmt.Errorf("tick %d: %w", g.sim.CurrentTick(), err)
	}
	if out.Ended {
		g.flash(fmt.Sprintf("%s at T=%d  R=restart", out.Reason, out.Tick))
	}
	return nil
}

func (g *Game) drainLog() {
	for _, e := range g.sim.Log.Since(g.logCursor) {
		g.thoughtLog.AddSimEntry(e, g.colors)
		g.logCursor++
	}
}

func (g *Game) flash(msg string) {
	g.status = msg
	g.statusTicks = 240
}

// pressed reports a key edge and records the key state.
func (g *Game) pressed(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !g.prevKeys[k]
}

// directionKeys maps held keys to controlled-agent requests.
var directionKeys = []struct {
	keys []ebiten.Key
	dir  game.Direction
}{
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, game.Up},
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, game.Left},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, game.Down},
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, game.Right},
}

// speeds are the selectable simulation speed multipliers.
var speeds = []float64{0, 0.25, 0.5, 1, 2, 4}

func (g *Game) handleInput() error {
	currentKeys := map[ebiten.Key]bool{}

	// Direction requests are level-triggered; the sim keeps only the latest.
	for _, dk := range directionKeys {
		for _, k := range dk.keys {
			if ebiten.IsKeyPressed(k) {
				g.sim.RequestDirection(dk.dir)
			}
		}
	}

	if g.pressed(currentKeys, ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if g.pressed(currentKeys, ebiten.KeyT) {
		g.showTargets = !g.showTargets
	}
	if g.pressed(currentKeys, ebiten.KeyM) {
		g.sim.ToggleChaseMode()
		g.drainLog()
	}
	if g.pressed(currentKeys, ebiten.KeyC) {
		if err := copyLog(g.sim); err != nil {
			g.flash("clipboard: " + err.Error())
		} else {
			g.flash(fmt.Sprintf("copied %d log entries", len(g.sim.Log.Entries())))
		}
	}
	if g.pressed(currentKeys, ebiten.KeyR) {
		if err := g.restart(); err != nil {
			return err
		}
	}

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	if g.pressed(currentKeys, ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if g.pressed(currentKeys, ebiten.KeyComma) {
		g.simSpeed = stepSpeed(g.simSpeed, -1)
	}
	if g.pressed(currentKeys, ebiten.KeyPeriod) {
		g.simSpeed = stepSpeed(g.simSpeed, 1)
	}

	g.prevKeys = currentKeys
	return nil
}

// stepSpeed moves to the next slower (dir < 0) or faster speed.
func stepSpeed(cur float64, dir int) float64 {
	idx := 0
	for i, s := range speeds {
		if s <= cur {
			idx = i
		}
	}
	idx += dir
	if idx < 0 {
		idx = 0
	}
	if idx >= len(speeds) {
		idx = len(speeds) - 1
	}
	return speeds[idx]
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	g.drawMaze(screen)
	g.drawAgents(screen)
	if g.showTargets {
		g.drawTargets(screen)
	}

	vector.StrokeRect(screen, float32(g.offX)-3, float32(g.offY)-3, float32(g.gameWidth)+6, float32(g.gameHeight)+6, 1.0, color.RGBA{R: 40, G: 40, B: 110, A: 255}, false)

	logX := g.offX + g.gameWidth + g.offX
	g.thoughtLog.Draw(screen, logX, g.height)

	if g.showHUD {
		g.drawHUD(screen)
	}
}

// cellOrigin converts a cell coordinate (possibly fractional) to the screen
// position of the cell centre.
func (g *Game) cellOrigin(x, y float64) (float32, float32) {
	return float32(g.offX) + float32(x*cellSize) + cellSize/2, float32(g.offY) + float32(y*cellSize) + cellSize/2
}

func (g *Game) drawMaze(screen *ebiten.Image) {
	grid := g.sim.Grid
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			px := float32(g.offX + x*cellSize)
			py := float32(g.offY + y*cellSize)
			if grid.IsWall(x, y) {
				vector.FillRect(screen, px+2, py+2, cellSize-4, cellSize-4, wallColor, false)
				continue
			}
			cx, cy := g.cellOrigin(float64(x), float64(y))
			switch grid.ItemAt(x, y) {
			case game.CellCollectible:
				vector.FillRect(screen, cx-2, cy-2, 4, 4, pelletColor, false)
			case game.CellPowerCollectible:
				if frameFor(g.sim.CurrentTick())%2 == 0 {
					vector.FillCircle(screen, cx, cy, cellSize*0.35, pelletColor, true)
				}
			}
		}
	}
}

func (g *Game) drawAgents(screen *ebiten.Image) {
	cur := g.sim.Views()
	t := g.tickAccum
	if g.simSpeed >= 1 || g.simSpeed <= 0 {
		t = 1
	}

	// Pursuers first so the controlled agent draws on top.
	for i := len(cur) - 1; i >= 0; i-- {
		v := cur[i]
		x, y := v.OffsetX, v.OffsetY
		if i < len(g.prev) {
			x, y = lerpView(g.prev[i], v, t)
		}
		if x < 0 || x > float64(g.sim.Grid.Width-1) {
			continue // inside the tunnel, off-screen
		}
		cx, cy := g.cellOrigin(x, y)
		r := float32(cellSize) * 0.45
		if v.Kind == game.KindControlled {
			drawControlled(screen, cx, cy, r, v, g.sim.CurrentTick(), backgroundColor)
		} else {
			drawPursuer(screen, cx, cy, r, v, g.sim.ChaseMode())
		}
	}
}

func (g *Game) drawTargets(screen *ebiten.Image) {
	for _, a := range g.sim.Agents() {
		target, ok := a.Target()
		if !ok {
			continue
		}
		tx, ty := g.cellOrigin(float64(target.X), float64(target.Y))
		col := a.Color()
		col.A = 160
		vector.StrokeLine(screen, tx-5, ty-5, tx+5, ty+5, 2, col, false)
		vector.StrokeLine(screen, tx-5, ty+5, tx+5, ty-5, 2, col, false)
		ax, ay := g.cellOrigin(a.Offset().X, a.Offset().Y)
		col.A = 60
		vector.StrokeLine(screen, ax, ay, tx, ty, 1, col, false)
	}
}

// drawHUD renders status and key hints in the bottom-left corner, drawn at 1x
// into hudBuf and composited at hudScale.
func (g *Game) drawHUD(screen *ebiten.Image) {
	speedStr := fmt.Sprintf("%gx", g.simSpeed)
	if g.simSpeed == 0 {
		speedStr = "PAUSED"
	}
	f := g.sim.Frame()
	lines := []string{
		fmt.Sprintf("T=%d  %s  left=%d  SIM: %s", f.Tick, modeName(f.Chase), f.Remaining, speedStr),
		"arrows/WASD=steer  P=pause  ,/.=speed",
		"M=toggle chase  T=targets  C=copy log  R=restart  H=hide",
	}
	if g.statusTicks > 0 {
		lines = append(lines, g.status)
	}

	const lineH = 12 // debug font line height at 1x
	const charW = 6  // debug font char width at 1x
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)

	if g.hudBuf == nil {
		g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	}
	bufH := float32(g.height / hudScale)
	bx := float32(4)
	by := bufH - boxH - 4

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 6, G: 6, B: 20, A: 210}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, colornames.Midnightblue, false)

	for i, line := range lines {
		ebitenutil.DebugPrintAt(g.hudBuf, line, int(bx)+padX, int(by)+padY+i*lineH)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}

func modeName(chase bool) string {
	if chase {
		return "CHASE"
	}
	return "SCATTER"
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
