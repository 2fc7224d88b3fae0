// Package mcp exposes the game to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request to the REST
// API served by package api, sent with the client's owner identity so the
// agent can drive the sessions it starts.
//
// MCP Tools:
//   - start_game: Start a session, optionally from a preset
//   - move: Move one step up, down, left or right
//   - view_session: Current view and stats of a session
//   - list_sessions: List all active sessions
//   - list_presets: List available map presets
//   - end_session: End a session owned by this client
//   - game_instructions: Rules and tile legend
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080", "agent")
//	server.ServeStdio(client.GetMCPServer())
package mcp
