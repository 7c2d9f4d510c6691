package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/trajectory"
)

func orbitTrajectory(t *testing.T, frames int) *trajectory.Trajectory {
	t.Helper()
	states := make([]dynamo.State, frames)
	times := make([]float64, frames)
	for f := range states {
		y := 0.1 * float64(f)
		states[f] = physics.Pack([]physics.Body{
			{Mass: 3, Pos: r2.Vec{X: -1, Y: y}, Vel: r2.Vec{Y: 0.5}},
			{Mass: 4, Pos: r2.Vec{X: 1, Y: -y}, Vel: r2.Vec{Y: -0.5}},
			{Mass: 5, Pos: r2.Vec{X: 0, Y: 2}, Vel: r2.Vec{X: 0.1}},
		})
		times[f] = 0.02 * float64(f)
	}
	traj, err := trajectory.Extract(states, times, []float64{3, 4, 5}, 0.02)
	require.NoError(t, err)
	return traj
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, p Player, msg tea.Msg) Player {
	t.Helper()
	m, _ := p.Update(msg)
	next, ok := m.(Player)
	require.True(t, ok)
	return next
}

func TestPlayerAdvancesOnTick(t *testing.T) {
	p, err := NewPlayer(orbitTrajectory(t, 5), PlayerOptions{G: 1, Window: 3})
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, p.interval)

	for i := 0; i < 3; i++ {
		p = update(t, p, TickMsg(time.Now()))
	}
	assert.Equal(t, 3, p.frame)
	assert.True(t, p.running)

	for i := 0; i < 10; i++ {
		p = update(t, p, TickMsg(time.Now()))
	}
	assert.Equal(t, 4, p.frame, "playback stops on the last frame")
	assert.False(t, p.running)
}

func TestPlayerKeys(t *testing.T) {
	p, err := NewPlayer(orbitTrajectory(t, 120), PlayerOptions{G: 1, Window: 10})
	require.NoError(t, err)

	p = update(t, p, key(" "))
	assert.False(t, p.running)
	p = update(t, p, TickMsg(time.Now()))
	assert.Equal(t, 0, p.frame, "paused player must not advance")

	p = update(t, p, key("l"))
	p = update(t, p, key("l"))
	assert.Equal(t, 2, p.frame)

	p = update(t, p, key("]"))
	assert.Equal(t, 52, p.frame)

	p = update(t, p, key("]"))
	p = update(t, p, key("]"))
	assert.Equal(t, 119, p.frame)

	p = update(t, p, key("["))
	p = update(t, p, key("["))
	p = update(t, p, key("["))
	assert.Equal(t, 0, p.frame)

	p = update(t, p, key("h"))
	assert.Equal(t, 0, p.frame)

	p = update(t, p, key("v"))
	assert.True(t, p.vectors)

	p = update(t, p, key("t"))
	assert.Equal(t, "retro", p.theme.Name)

	p.frame = 40
	p = update(t, p, key("r"))
	assert.Equal(t, 0, p.frame)
	assert.True(t, p.running)

	_, cmd := p.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestPlayerView(t *testing.T) {
	p, err := NewPlayer(orbitTrajectory(t, 10), PlayerOptions{Title: "demo", G: 1, Window: 5, Vectors: true})
	require.NoError(t, err)
	p.frame = 6

	out := p.View()
	assert.Contains(t, out, "DEMO")
	assert.Contains(t, out, "7/10")
	assert.Contains(t, out, "m=4")
	assert.Contains(t, out, "energy")

	p.showHelp = true
	assert.True(t, strings.Contains(p.View(), "KEYBOARD SHORTCUTS"))
}

func TestNewPlayerRejectsBadG(t *testing.T) {
	_, err := NewPlayer(orbitTrajectory(t, 2), PlayerOptions{G: 0})
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
}
