// Package session provides the registry of live game sessions.
//
// Each session binds one engine.Game to the player who started it. Sessions
// are identified by short 4-character hex IDs, looked up case-insensitively,
// and live in memory only: nothing survives a restart.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", userID, "classic", engine.DefaultSettings())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Periodically drop sessions nobody touched for a day
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
//
// The manager is safe for concurrent use. It serializes access to the
// registry only; moves within one session are serialized by the Game itself.
package session
