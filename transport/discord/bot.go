package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/roguebot/game/service"
	"github.com/wricardo/roguebot/game/session"
	"github.com/wricardo/roguebot/logging"
	"github.com/wricardo/roguebot/store"
)

const (
	CommandPlay = "play"
	CommandPing = "ping"

	interactionTimeout = 3 * time.Second

	notOwnerText = "This isn't your game. Use /play to start your own."
	endedText    = "This game has ended. Use /play to start a new one."
	failedText   = "Something went wrong with that move."
)

// Commands are the slash commands the bot registers.
var Commands = []*discordgo.ApplicationCommand{
	{Name: CommandPlay, Description: "Lets you attempt a session of a roguelike"},
	{Name: CommandPing, Description: "Pongs you back!"},
}

// Responder answers interactions. *discordgo.Session satisfies it.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Bot routes Discord interactions into the game service.
type Bot struct {
	game    service.GameService
	pools   *store.Pools
	preset  string
	guildID string
}

// NewBot creates a bot. pools may be nil. An empty guildID registers the
// commands globally.
func NewBot(game service.GameService, pools *store.Pools, preset, guildID string) *Bot {
	return &Bot{
		game:    game,
		pools:   pools,
		preset:  preset,
		guildID: guildID,
	}
}

func logger() *logrus.Entry { return logging.For("game plugin") }

func miscLogger() *logrus.Entry { return logging.For("misc plugin") }

// RouteLibraryLogs sends discordgo's own log lines through logrus.
func RouteLibraryLogs() {
	discordgo.Logger = func(level, caller int, format string, a ...interface{}) {
		entry := logging.For("discordgo")
		msg := fmt.Sprintf(format, a...)
		switch level {
		case discordgo.LogError:
			entry.Error(msg)
		case discordgo.LogWarning:
			entry.Warn(msg)
		case discordgo.LogInformational:
			entry.Info(msg)
		default:
			entry.Debug(msg)
		}
	}
}

// Run connects with token, registers the commands and serves interactions
// until ctx is done.
func (b *Bot) Run(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("discord token is required")
	}

	RouteLibraryLogs()
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}
	dg.LogLevel = discordgo.LogError
	dg.Identify.Intents = discordgo.IntentsGuilds

	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		logger().WithField("user", r.User.String()).Info("connected to discord")
	})
	dg.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.HandleInteraction(s, i)
	})

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open discord connection: %w", err)
	}
	defer dg.Close()

	registered, err := dg.ApplicationCommandBulkOverwrite(dg.State.User.ID, b.guildID, Commands)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	scope := "global"
	if b.guildID != "" {
		scope = "guild " + b.guildID
	}
	logger().WithField("scope", scope).Infof("registered %d commands", len(registered))

	<-ctx.Done()
	logger().Info("disconnecting from discord")
	return nil
}

// HandleInteraction dispatches one interaction.
func (b *Bot) HandleInteraction(r Responder, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	var err error
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch name := i.ApplicationCommandData().Name; name {
		case CommandPlay:
			err = b.handlePlay(ctx, r, i)
		case CommandPing:
			err = b.handlePing(ctx, r, i)
		default:
			logger().WithField("command", name).Warn("unknown command")
		}
	case discordgo.InteractionMessageComponent:
		err = b.handleButton(ctx, r, i)
	}

	if err != nil {
		logger().WithError(err).Error("failed to respond to interaction")
	}
}

// OwnerPrefix namespaces Discord users among session owners. The HTTP API
// refuses owner IDs of this form.
const OwnerPrefix = "discord:"

// ownerID is the session owner for the invoking user
func ownerID(i *discordgo.InteractionCreate) string {
	return OwnerPrefix + userID(i)
}

// userID is the invoking user in guilds and in DMs
func userID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func ephemeral(r Responder, i *discordgo.InteractionCreate, content string) error {
	return r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (b *Bot) handlePlay(ctx context.Context, r Responder, i *discordgo.InteractionCreate) error {
	if userID(i) == "" {
		return ephemeral(r, i, "Could not start a game: "+service.ErrOwnerRequired.Error())
	}
	info, err := b.game.StartGame(ctx, ownerID(i), b.preset)
	if err != nil {
		logger().WithError(err).Warn("failed to start game")
		return ephemeral(r, i, "Could not start a game: "+err.Error())
	}

	return r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{Embed(info.Title, info.View)},
			Components: Controls(info.ID),
		},
	})
}

func (b *Bot) handleButton(ctx context.Context, r Responder, i *discordgo.InteractionCreate) error {
	sessionID, d, ok := ParseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return nil
	}

	result, err := b.game.Move(ctx, sessionID, ownerID(i), d.String())
	switch {
	case errors.Is(err, service.ErrNotOwner):
		return ephemeral(r, i, notOwnerText)
	case errors.Is(err, session.ErrSessionNotFound):
		// Drop the buttons so nobody keeps pressing them
		return r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Content:    endedText,
				Components: []discordgo.MessageComponent{},
			},
		})
	case err != nil:
		logger().WithError(err).WithField("session", sessionID).Error("move failed")
		return ephemeral(r, i, failedText)
	}

	title := ""
	if result.Session != nil {
		title = result.Session.Title
	}
	return r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{Embed(title, result.View)},
			Components: Controls(sessionID),
		},
	})
}

func (b *Bot) handlePing(ctx context.Context, r Responder, i *discordgo.InteractionCreate) error {
	miscLogger().WithField("user", userID(i)).Info("ping")
	return r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: PingText(b.pools.Health(ctx)),
		},
	})
}

// PingText is the /ping reply.
func PingText(checks []store.Check) string {
	if len(checks) == 0 {
		return "Pong!"
	}
	lines := []string{"Pong!"}
	for _, c := range checks {
		lines = append(lines, c.String())
	}
	return strings.Join(lines, "\n")
}
