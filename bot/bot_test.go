package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"luckydraw/events"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(channelID, embed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

func sampleDraw() events.DrawCompletedEvent {
	return events.DrawCompletedEvent{
		EventID:        1,
		EventName:      "Year End Party 2026",
		PrizeName:      "Bike",
		PrizeRemaining: 0,
		DrawRunID:      12,
		FullName:       "Trần Thị Bình",
		Department:     "Finance",
		TicketNumber:   7,
		Initiator:      "mc",
		WonAt:          time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildWinnerEmbed(t *testing.T) {
	embed := buildWinnerEmbed(sampleDraw())

	assert.Equal(t, "🎉 Year End Party 2026", embed.Title)
	assert.Equal(t, "**Trần Thị Bình** wins **Bike**!", embed.Description)
	assert.Equal(t, "Draw #12 by mc", embed.Footer.Text)
	require.Len(t, embed.Fields, 5)
	assert.Equal(t, "#007", embed.Fields[1].Value)
	assert.Equal(t, "Prize fully awarded", embed.Fields[2].Value)
}

func TestBuildWinnerEmbed_MinimalEvent(t *testing.T) {
	embed := buildWinnerEmbed(events.DrawCompletedEvent{PrizeName: "Mug", FullName: "An", TicketNumber: 1, PrizeRemaining: 3})

	assert.Equal(t, "🎉 Winner", embed.Title)
	assert.Len(t, embed.Fields, 3)
}

func TestSubscribe_PostsAnnouncements(t *testing.T) {
	sender := new(mockSender)
	sender.On("ChannelMessageSendEmbed", "chan-1", mock.MatchedBy(func(e *discordgo.MessageEmbed) bool {
		return e.Color == colorWinner
	})).Return(&discordgo.Message{}, nil).Once()
	sender.On("ChannelMessageSendEmbed", "chan-1", mock.MatchedBy(func(e *discordgo.MessageEmbed) bool {
		return e.Color == colorReset
	})).Return(nil, errors.New("missing access")).Once()

	b := &Bot{config: Config{ChannelID: "chan-1"}, sender: sender}
	bus := events.NewBus()
	b.Subscribe(bus)

	bus.Emit(context.Background(), sampleDraw())
	bus.Emit(context.Background(), events.RaffleResetEvent{EventID: 1, WinnersRemoved: 3})
	bus.Emit(context.Background(), events.PrizeSelectedEvent{EventID: 1})
	bus.Wait()

	sender.AssertExpectations(t)
	assert.NoError(t, b.Close())
}
