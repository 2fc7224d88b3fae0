// Package websocket lets spectators watch a session live.
//
// A Hub implements service.Observer: every time the game service renders a
// new view of a session, the hub pushes it to the websockets subscribed to
// that session. Spectators are read-only; anything they send is ignored.
//
// Message Protocol:
//
// Each frame is one JSON document:
//
//	{"session_id": "ab12", "event": "session_update", "session": {...}}
//	{"session_id": "ab12", "event": "session_ended"}
//
// After session_ended the hub closes the session's connections.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	svc := service.NewGameService(sessions, presets, hub)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
