package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/wricardo/roguebot/game/engine"
)

const (
	// CustomIDPrefix marks buttons that belong to a game message.
	CustomIDPrefix = "rogue"

	// EmbedDescriptionLimit is the most characters Discord shows in an
	// embed description.
	EmbedDescriptionLimit = 4096

	fillerLabel = "\u200b"
	fillerName  = "filler"
)

var arrows = map[engine.Direction]string{
	engine.Up:    "⬆️",
	engine.Down:  "⬇️",
	engine.Left:  "◀️",
	engine.Right: "▶️",
}

// CustomID builds the button ID for a move in a session.
func CustomID(sessionID string, d engine.Direction) string {
	return strings.Join([]string{CustomIDPrefix, sessionID, d.String()}, ":")
}

// ParseCustomID splits a button ID into its session and direction.
// Filler buttons and foreign IDs report ok=false.
func ParseCustomID(id string) (sessionID string, d engine.Direction, ok bool) {
	parts := strings.Split(id, ":")
	if len(parts) != 3 || parts[0] != CustomIDPrefix || parts[1] == "" {
		return "", 0, false
	}
	d, err := engine.ParseDirection(parts[2])
	if err != nil {
		return "", 0, false
	}
	return parts[1], d, true
}

func arrowButton(sessionID string, d engine.Direction) discordgo.Button {
	return discordgo.Button{
		Style:    discordgo.PrimaryButton,
		CustomID: CustomID(sessionID, d),
		Emoji:    &discordgo.ComponentEmoji{Name: arrows[d]},
	}
}

func fillerButton(sessionID string, n int) discordgo.Button {
	return discordgo.Button{
		Label:    fillerLabel,
		Style:    discordgo.SecondaryButton,
		CustomID: fmt.Sprintf("%s:%s:%s%d", CustomIDPrefix, sessionID, fillerName, n),
		Disabled: true,
	}
}

// Controls lays the arrows out as a cross on three rows:
//
//	[ ] [⬆️] [ ]
//	[◀️] [ ] [▶️]
//	[ ] [⬇️] [ ]
func Controls(sessionID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			fillerButton(sessionID, 1),
			arrowButton(sessionID, engine.Up),
			fillerButton(sessionID, 2),
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			arrowButton(sessionID, engine.Left),
			fillerButton(sessionID, 3),
			arrowButton(sessionID, engine.Right),
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			fillerButton(sessionID, 4),
			arrowButton(sessionID, engine.Down),
			fillerButton(sessionID, 5),
		}},
	}
}

// Embed shows a rendered view.
func Embed(title, view string) *discordgo.MessageEmbed {
	if r := []rune(view); len(r) > EmbedDescriptionLimit {
		view = string(r[:EmbedDescriptionLimit])
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: view,
	}
}
