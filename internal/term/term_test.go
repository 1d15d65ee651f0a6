package term

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/maze-pursuit/internal/game"
	"github.com/Garsondee/maze-pursuit/internal/scenario"
)

func newPresenter(t *testing.T) (*Presenter, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(40, 40)
	t.Cleanup(screen.Fini)

	p, err := New(screen, scenario.Default().Build)
	require.NoError(t, err)
	return p, screen
}

func runeAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func rowText(screen tcell.Screen, y, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		b.WriteRune(runeAt(screen, x, y))
	}
	return b.String()
}

func key(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func TestDraw_MazeAgentsAndStatus(t *testing.T) {
	p, screen := newPresenter(t)
	p.Draw()

	assert.Equal(t, '·', runeAt(screen, 1, 1))
	assert.Equal(t, 'o', runeAt(screen, 1, 3))
	assert.Equal(t, '>', runeAt(screen, 14, 23), "controlled agent faces left")
	assert.Equal(t, pursuerGlyph, runeAt(screen, 14, 11))
	assert.True(t, strings.HasPrefix(rowText(screen, 31, 40), "T=0 SCATTER"))
}

func TestHandleEvent_SteersAndControls(t *testing.T) {
	p, _ := newPresenter(t)

	ok, err := p.HandleEvent(key('w'))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, game.Up, p.Sim().PendingDirection())

	_, err = p.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	require.NoError(t, err)
	assert.Equal(t, game.Right, p.Sim().PendingDirection())

	_, err = p.HandleEvent(key('m'))
	require.NoError(t, err)
	assert.True(t, p.Sim().ChaseMode())

	// Paused: Tick is a no-op, n single-steps.
	_, err = p.HandleEvent(key(' '))
	require.NoError(t, err)
	require.NoError(t, p.Tick())
	assert.Equal(t, 0, p.Sim().CurrentTick())
	_, err = p.HandleEvent(key('n'))
	require.NoError(t, err)
	assert.Equal(t, 1, p.Sim().CurrentTick())

	_, err = p.HandleEvent(key('r'))
	require.NoError(t, err)
	assert.Equal(t, 0, p.Sim().CurrentTick())
	assert.False(t, p.Sim().ChaseMode())
}

func TestHandleEvent_Quit(t *testing.T) {
	p, _ := newPresenter(t)
	for _, ev := range []*tcell.EventKey{
		key('q'),
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone),
	} {
		ok, err := p.HandleEvent(ev)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestTick_StopsWhenRunEnds(t *testing.T) {
	p, screen := newPresenter(t)
	for i := 0; i < 10000 && !p.Sim().Outcome().Ended; i++ {
		require.NoError(t, p.Tick())
	}
	require.True(t, p.Sim().Outcome().Ended)
	end := p.Sim().CurrentTick()
	require.NoError(t, p.Tick())
	assert.Equal(t, end, p.Sim().CurrentTick())

	p.Draw()
	assert.Contains(t, rowText(screen, 32, 40), "r=restart")
}
