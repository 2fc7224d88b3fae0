package terminal

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/roguebot/game/config"
	"github.com/wricardo/roguebot/game/engine"
	"github.com/wricardo/roguebot/game/service"
	"github.com/wricardo/roguebot/game/session"
)

// recordingService notes every direction it is asked to move
type recordingService struct {
	service.GameService
	mu    sync.Mutex
	moves []string
}

func (r *recordingService) Move(ctx context.Context, sessionID, ownerID, direction string) (*service.MoveResult, error) {
	r.mu.Lock()
	r.moves = append(r.moves, direction)
	r.mu.Unlock()
	return r.GameService.Move(ctx, sessionID, ownerID, direction)
}

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(40, 20)
	t.Cleanup(s.Fini)
	return s
}

func screenLines(s tcell.SimulationScreen) []string {
	cells, w, h := s.GetContents()
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		var b strings.Builder
		for x := 0; x < w; x++ {
			if c := cells[y*w+x]; len(c.Runes) > 0 {
				b.WriteRune(c.Runes[0])
			} else {
				b.WriteByte(' ')
			}
		}
		lines[y] = strings.TrimRight(b.String(), " ")
	}
	return lines
}

func newTestService() (*recordingService, *session.Manager) {
	sessions := session.NewManager()
	svc := service.NewGameService(sessions, config.NewBuiltinManager())
	return &recordingService{GameService: svc}, sessions
}

func TestRunMovesAndQuits(t *testing.T) {
	screen := newSimScreen(t)
	svc, sessions := newTestService()

	screen.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'l', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'k', tcell.ModNone)
	screen.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	client := NewClient(svc, screen, "local", "ascii")
	require.NoError(t, client.Run(context.Background()))

	assert.Equal(t, []string{"left", "right", "up", "down"}, svc.moves)
	assert.Zero(t, sessions.Count(), "session should be ended on quit")

	lines := screenLines(screen)
	assert.Equal(t, engine.DefaultTitle, lines[0])

	grid := strings.Join(lines, "\n")
	assert.Equal(t, 1, strings.Count(grid, "@"), "exactly one player glyph")
	assert.Contains(t, grid, "knowledge ")
	assert.Contains(t, grid, helpLine)
}

func TestRunStopsOnCancel(t *testing.T) {
	screen := newSimScreen(t)
	svc, sessions := newTestService()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- NewClient(svc, screen, "local", "ascii").Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Zero(t, sessions.Count())
}

func TestRunUnknownPreset(t *testing.T) {
	screen := newSimScreen(t)
	svc, _ := newTestService()

	err := NewClient(svc, screen, "local", "lava").Run(context.Background())
	assert.ErrorIs(t, err, service.ErrPresetNotFound)
}

func TestDirectionFor(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want engine.Direction
		ok   bool
	}{
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), engine.Up, true},
		{tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), engine.Right, true},
		{tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone), engine.Down, true},
		{tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), engine.Left, true},
		{tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), 0, false},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), 0, false},
	}
	for _, tt := range tests {
		d, ok := directionFor(tt.ev)
		assert.Equal(t, tt.ok, ok, tt.ev.Name())
		if ok {
			assert.Equal(t, tt.want, d, tt.ev.Name())
		}
	}

	assert.True(t, isQuit(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.True(t, isQuit(tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModNone)))
	assert.False(t, isQuit(tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone)))
}
