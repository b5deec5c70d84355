package bot

import (
	"context"
	"fmt"

	"luckydraw/bot/common"
	"luckydraw/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	colorWinner = 0xF1C40F
	colorReset  = 0x95A5A6
)

// Config holds announcer configuration
type Config struct {
	Token     string
	ChannelID string
}

// embedSender is the part of a discord session the announcer needs
type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot posts draw results to a Discord channel
type Bot struct {
	config  Config
	session *discordgo.Session
	sender  embedSender
}

// New opens a Discord session and subscribes the announcer to the bus
func New(config Config, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	bot := &Bot{
		config:  config,
		session: dg,
		sender:  dg,
	}
	bot.Subscribe(eventBus)

	log.WithField("channelID", config.ChannelID).Info("Discord announcer connected")
	return bot, nil
}

// Subscribe registers the announcer handlers on the bus
func (b *Bot) Subscribe(eventBus *events.Bus) {
	eventBus.Subscribe(events.EventTypeDrawCompleted, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.DrawCompletedEvent); ok {
			b.send(buildWinnerEmbed(e), "eventID", e.EventID)
		}
	})
	eventBus.Subscribe(events.EventTypeRaffleReset, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.RaffleResetEvent); ok {
			b.send(buildResetEmbed(e), "eventID", e.EventID)
		}
	})
}

func (b *Bot) send(embed *discordgo.MessageEmbed, key string, value interface{}) {
	if _, err := b.sender.ChannelMessageSendEmbed(b.config.ChannelID, embed); err != nil {
		log.WithFields(log.Fields{
			key:         value,
			"channelID": b.config.ChannelID,
			"error":     err,
		}).Error("Failed to post announcement")
	}
}

// Close closes the Discord session
func (b *Bot) Close() error {
	if b.session == nil {
		return nil
	}
	return b.session.Close()
}

func buildWinnerEmbed(e events.DrawCompletedEvent) *discordgo.MessageEmbed {
	title := "🎉 Winner"
	if e.EventName != "" {
		title = fmt.Sprintf("🎉 %s", e.EventName)
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Prize", Value: e.PrizeName, Inline: true},
		{Name: "Ticket", Value: common.FormatTicketNumber(e.TicketNumber), Inline: true},
		{Name: "Remaining", Value: common.FormatRemaining(e.PrizeRemaining), Inline: true},
	}
	if e.Department != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Department", Value: e.Department, Inline: true})
	}
	if !e.WonAt.IsZero() {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Drawn", Value: common.FormatDiscordTimestamp(e.WonAt, "R"), Inline: true})
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("**%s** wins **%s**!", e.FullName, e.PrizeName),
		Color:       colorWinner,
		Fields:      fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Draw #%d by %s", e.DrawRunID, e.Initiator),
		},
	}
}

func buildResetEmbed(e events.RaffleResetEvent) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Raffle reset",
		Description: fmt.Sprintf("%d winners removed, every prize is back in stock.", e.WinnersRemoved),
		Color:       colorReset,
	}
}
