package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/roguebot/game/engine"
	"github.com/wricardo/roguebot/game/service"
	"github.com/wricardo/roguebot/logging"
)

// DefaultOwner is the player identity used when none is configured.
const DefaultOwner = "mcp"

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	ownerID    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API. Sessions it
// starts are owned by ownerID.
func NewClient(baseURL, ownerID string) *Client {
	if ownerID == "" {
		ownerID = DefaultOwner
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		ownerID: ownerID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"roguebot",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`roguebot - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Walk a player (@ in the ascii preset) across an endless world of small square
maps. Walking off an edge enters the neighbouring map. Bump into a book to read
it and gain knowledge.

AVAILABLE TOOLS:
- start_game: Start a new session (optional preset)
- move: Single move (up/down/left/right)
- view_session: Current view and stats of a session
- list_sessions: List all active sessions
- list_presets: List available map presets
- end_session: End a session you own
- game_instructions: Rules and legend`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start a new game session, optionally from a named preset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Preset ID from list_presets (optional, 'ascii' is easiest to read)",
				},
			},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one step. Bumping a book reads it instead of moving.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of why you are making this move",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "view_session",
		Description: "Show the current view and stats of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleViewSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List available map presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPresets)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_session",
		Description: "End a session you started",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleEndSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the game and the tile legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("X-Owner-ID", c.ownerID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func sessionPath(sessionID string, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	preset := stringArg(arguments(request), "preset")

	body := map[string]string{"owner_id": c.ownerID}
	if preset != "" {
		body["preset"] = preset
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Started session: %s\n%s", info.ID, formatSessionInfo(&info))), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")
	direction := stringArg(args, "direction")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	if intent := stringArg(args, "intent"); intent != "" {
		logging.For("mcp").WithField("session", sessionID).Debugf("move %s: %s", direction, intent)
	}

	body := map[string]string{
		"direction": direction,
		"owner_id":  c.ownerID,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleViewSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(resp.Sessions) == 0 {
		return mcp.NewToolResultText("No active sessions"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions (%d):\n", len(resp.Sessions))
	for _, s := range resp.Sessions {
		mine := ""
		if s.OwnerID == c.ownerID {
			mine = " (yours)"
		}
		fmt.Fprintf(&b, "- %s%s owner=%s preset=%s map=%s knowledge=%d\n",
			s.ID, mine, s.OwnerID, s.Preset, s.Map, s.Counters[engine.KnowledgeCounter])
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Presets []*service.PresetInfo `json:"presets"`
	}
	if err := c.apiCall(ctx, "GET", "/api/presets", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available presets:\n")
	for _, p := range resp.Presets {
		fmt.Fprintf(&b, "- %s: %s (%dx%d", p.PresetID, p.Name, p.Width, p.Height)
		if p.BookChance > 0 {
			fmt.Fprintf(&b, ", 1 in %d cells is a book", p.BookChance)
		} else {
			b.WriteString(", no books")
		}
		b.WriteString(")")
		if p.Description != "" {
			b.WriteString(" - " + p.Description)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleEndSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	if err := c.apiCall(ctx, "DELETE", sessionPath(sessionID, ""), nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session %s ended", sessionID)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `roguebot - Instructions

THE WORLD:
The world is an endless grid of small square maps. Only the map you stand on is
shown. Each map has a wall border with doorways in the middle of every edge.
Step through a doorway and you arrive on the opposite edge of the neighbouring
map. Maps are created the first time you enter them and stay as you left them.

LEGEND (ascii preset):
- @ : you
- . : stone floor, walk freely
- # : wall, blocks you
- B : book, blocks you; bumping it reads it (+1 knowledge) and it turns to stone

The classic preset uses chat emoji instead of characters; the layout rules are
the same.

MOVEMENT COMMANDS:
- move with direction up, down, left or right
- a blocked move leaves you where you are; the view is still redrawn
- only the player who started a session can move it

TIPS:
- the row and column through the middle of a map lead to the next map
- the message line above the map shows what your last move did`

func formatSessionInfo(info *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s (preset %s, owner %s)\n", info.ID, info.Preset, info.OwnerID)
	fmt.Fprintf(&b, "Map: %s  Position: %s  Maps visited: %d  Knowledge: %d\n",
		info.Map, info.Position, info.MapsVisited, info.Counters[engine.KnowledgeCounter])
	if len(info.Counters) > 1 {
		names := make([]string, 0, len(info.Counters))
		for name := range info.Counters {
			if name != engine.KnowledgeCounter {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "%s: %d\n", name, info.Counters[name])
		}
	}
	fmt.Fprintf(&b, "\n%s\n%s\n", info.Title, info.View)
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	switch {
	case result.CrossedMap:
		fmt.Fprintf(&b, "✓ Moved %s into a new map\n", result.Direction)
	case result.Moved:
		fmt.Fprintf(&b, "✓ Moved %s onto %s\n", result.Direction, result.Tile)
	default:
		fmt.Fprintf(&b, "✗ Blocked by %s going %s\n", result.Tile, result.Direction)
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", result.Message)
	}
	if result.Session != nil {
		fmt.Fprintf(&b, "Map: %s  Position: %s  Knowledge: %d\n",
			result.Session.Map, result.Session.Position, result.Session.Counters[engine.KnowledgeCounter])
	}
	fmt.Fprintf(&b, "\n%s\n", result.View)
	return b.String()
}
