// Package terminal plays a game session locally in a terminal using tcell.
// It drives the same game service as the chat bot, normally with the ascii
// preset so every tile is one character wide.
package terminal
