// Package service is the layer between the transports and the game engine.
//
// GameService starts sessions for a player, routes moves to the right
// session and refuses moves from anyone but the session's owner. Transports
// (Discord, HTTP, MCP, the terminal) only ever talk to this interface.
//
// Core Interfaces:
//
// GameService is the main service interface. SessionManager stores live
// sessions and ConfigManager provides map presets. Observer receives every
// freshly rendered view, which is how the websocket hub feeds spectators.
//
// Usage:
//
//	sessions := session.NewManager()
//	presets, _ := config.NewManager("configs")
//	svc := service.NewGameService(sessions, presets, hub)
//
//	info, err := svc.StartGame(ctx, userID, "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := svc.Move(ctx, info.ID, userID, "up")
//
// Moves are traced with OpenTelemetry spans; without a configured exporter
// the global no-op provider makes them free.
package service
