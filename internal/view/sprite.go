package view

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/maze-pursuit/internal/game"
)

// mouthFrames is the controlled agent's chomp cycle: mouth half-angle as a
// fraction of π.
var mouthFrames = [...]float64{0.02, 0.12, 0.24, 0.12}

// ticksPerFrame is how many sim ticks each sprite frame is held.
const ticksPerFrame = 4

// frameFor returns the sprite frame index shown at tick.
func frameFor(tick int) int {
	if tick < 0 {
		tick = 0
	}
	return (tick / ticksPerFrame) % len(mouthFrames)
}

// facingAngle is the screen angle (radians, y down) of d. None faces right.
func facingAngle(d game.Direction) float64 {
	switch d {
	case game.Up:
		return -math.Pi / 2
	case game.Left:
		return math.Pi
	case game.Down:
		return math.Pi / 2
	default:
		return 0
	}
}

// lerpView blends two snapshots of one agent. A jump of more than one cell
// (a tunnel wrap) is not blended.
func lerpView(prev, cur game.AgentView, t float64) (x, y float64) {
	if t <= 0 {
		return prev.OffsetX, prev.OffsetY
	}
	if t >= 1 || math.Abs(cur.OffsetX-prev.OffsetX) > 1 || math.Abs(cur.OffsetY-prev.OffsetY) > 1 {
		return cur.OffsetX, cur.OffsetY
	}
	return prev.OffsetX + (cur.OffsetX-prev.OffsetX)*t, prev.OffsetY + (cur.OffsetY-prev.OffsetY)*t
}

// drawControlled draws a disc with a mouth wedge cut toward its facing.
func drawControlled(screen *ebiten.Image, cx, cy, r float32, v game.AgentView, tick int, bg color.RGBA) {
	vector.FillCircle(screen, cx, cy, r, v.Color, true)

	half := mouthFrames[0]
	if v.Moving {
		half = mouthFrames[frameFor(tick)]
	}
	a := facingAngle(v.Facing)
	a0 := float32(a - half*math.Pi)
	a1 := float32(a + half*math.Pi)

	var path vector.Path
	path.MoveTo(cx, cy)
	path.Arc(cx, cy, r+1, a0, a1, vector.Clockwise)
	path.Close()

	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(bg)
	vector.FillPath(screen, &path, &vector.FillOptions{}, op)
}

// drawPursuer draws a rounded head over a square skirt with eyes looking
// toward the facing direction.
func drawPursuer(screen *ebiten.Image, cx, cy, r float32, v game.AgentView, chase bool) {
	body := v.Color
	if !chase {
		body = color.RGBA{R: body.R / 2, G: body.G / 2, B: body.B / 2, A: 255}
	}
	vector.FillCircle(screen, cx, cy-r*0.15, r*0.85, body, true)
	vector.FillRect(screen, cx-r*0.85, cy-r*0.15, r*1.7, r*0.95, body, false)

	dx, dy := v.Facing.Delta()
	white := color.RGBA{R: 240, G: 240, B: 240, A: 255}
	pupil := color.RGBA{R: 30, G: 30, B: 160, A: 255}
	for _, ex := range []float32{cx - r*0.35, cx + r*0.35} {
		ey := cy - r*0.25
		vector.FillCircle(screen, ex, ey, r*0.25, white, true)
		vector.FillCircle(screen, ex+float32(dx)*r*0.1, ey+float32(dy)*r*0.1, r*0.12, pupil, true)
	}
}
