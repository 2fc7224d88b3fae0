package terminal

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/roguebot/game/engine"
	"github.com/wricardo/roguebot/game/service"
	"github.com/wricardo/roguebot/logging"
)

const helpLine = "arrows/hjkl move | q quits"

// Client plays one session in a terminal.
type Client struct {
	game    service.GameService
	screen  tcell.Screen
	ownerID string
	preset  string
	current *service.SessionInfo
}

// NewScreen creates and initializes a terminal screen.
func NewScreen() (tcell.Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.Clear()
	return s, nil
}

// NewClient creates a client drawing on an initialized screen.
func NewClient(game service.GameService, screen tcell.Screen, ownerID, preset string) *Client {
	return &Client{
		game:    game,
		screen:  screen,
		ownerID: ownerID,
		preset:  preset,
	}
}

// Run starts a session and handles key presses until the player quits or
// ctx is done. The session is ended on return.
func (c *Client) Run(ctx context.Context) error {
	info, err := c.game.StartGame(ctx, c.ownerID, c.preset)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.game.EndSession(context.Background(), info.ID, c.ownerID); err != nil {
			logging.For("terminal").WithError(err).Warn("failed to end session")
		}
	}()
	c.draw(info)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	for {
		switch ev := c.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		case *tcell.EventResize:
			c.screen.Sync()
			c.draw(c.current)
		case *tcell.EventKey:
			if isQuit(ev) {
				return nil
			}
			d, ok := directionFor(ev)
			if !ok {
				continue
			}
			result, err := c.game.Move(ctx, info.ID, c.ownerID, d.String())
			if err != nil {
				return fmt.Errorf("move %s: %w", d, err)
			}
			c.draw(result.Session)
		}
	}
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

func directionFor(ev *tcell.EventKey) (engine.Direction, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return engine.Up, true
	case tcell.KeyDown:
		return engine.Down, true
	case tcell.KeyLeft:
		return engine.Left, true
	case tcell.KeyRight:
		return engine.Right, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k', 'w':
			return engine.Up, true
		case 'j', 's':
			return engine.Down, true
		case 'h', 'a':
			return engine.Left, true
		case 'l', 'd':
			return engine.Right, true
		}
	}
	return 0, false
}

func glyphStyle(r rune) tcell.Style {
	switch r {
	case '#':
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case '.':
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case 'B':
		return tcell.StyleDefault.Foreground(tcell.ColorOlive)
	case '@':
		return tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	default:
		return tcell.StyleDefault
	}
}

// draw lays out: title, the rendered view, then a status and help line
func (c *Client) draw(info *service.SessionInfo) {
	if info == nil {
		return
	}
	c.current = info
	c.screen.Clear()

	y := 0
	c.text(0, y, info.Title, tcell.StyleDefault.Bold(true))
	y += 2

	for _, line := range strings.Split(info.View, "\n") {
		x := 0
		for _, r := range line {
			c.screen.SetContent(x, y, r, nil, glyphStyle(r))
			x++
		}
		y++
	}

	y++
	status := fmt.Sprintf("map %s  pos %s  knowledge %d", info.Map, info.Position, info.Counters[engine.KnowledgeCounter])
	c.text(0, y, status, tcell.StyleDefault)
	c.text(0, y+1, helpLine, tcell.StyleDefault.Foreground(tcell.ColorGray))

	c.screen.Show()
}

func (c *Client) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		c.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
