// Package discord is the chat-bot front end of the game.
//
// /play starts a session for the invoking user and answers with an embed
// holding the rendered map plus a cross of arrow buttons. Each press is a
// move: the owner's presses edit the message in place, anyone else gets an
// ephemeral refusal. Button IDs have the form rogue:<session>:<direction>.
//
// /ping answers "Pong!" followed by the health of the database and cache
// pools when they are configured.
package discord
