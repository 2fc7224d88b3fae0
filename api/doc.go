// Package api provides the HTTP REST API of the roguebot game service.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Start a game ({"owner_id", "preset"})
//   - GET /api/sessions - List sessions (optional ?owner=)
//   - GET /api/sessions/{id} - Current view and stats of a session
//   - DELETE /api/sessions/{id} - End a session (owner only)
//
// Game Operations:
//   - POST /api/sessions/{id}/move - Move one step ({"direction", "owner_id"})
//
// Other:
//   - GET /api/presets - Available map presets
//   - GET /api/health - Service and pool health
//   - GET /ws?session={id} - Spectate a session over WebSocket
//
// The owner may be sent as the owner_id field or the X-Owner-ID header.
// Every response carries an X-Request-ID header.
//
// Error Handling:
//
// Errors are returned as JSON:
//
//	{"error": "session belongs to another player"}
//
// with 404 for unknown sessions or presets, 403 when the caller does not
// own the session, 400 for a bad direction or missing owner and 500 for
// anything else.
package api
