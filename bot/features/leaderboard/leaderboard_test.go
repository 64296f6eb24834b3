package leaderboard

import (
	"context"
	"errors"
	"testing"

	"cyanbot/models"
	"cyanbot/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReader struct {
	mock.Mock
}

func (m *mockReader) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(channelID, embed)
	return &discordgo.Message{}, args.Error(0)
}

func TestBuildEmbed(t *testing.T) {
	embed := BuildEmbed("Top", []*models.LeaderboardEntry{
		{Rank: 1, UserID: "111", Balance: 5000},
		{Rank: 2, UserID: "222", Balance: 300},
		{Rank: 4, UserID: "444", Balance: 10},
	})

	assert.Equal(t, "Top", embed.Title)
	assert.Contains(t, embed.Description, "🥇 <@111>: **5,000**")
	assert.Contains(t, embed.Description, "🥈 <@222>: **300**")
	assert.Contains(t, embed.Description, "#4 <@444>: **10**")

	empty := BuildEmbed("Top", nil)
	assert.Contains(t, empty.Description, "Nobody")
}

func TestDigest_Post(t *testing.T) {
	reader := new(mockReader)
	sender := new(mockSender)

	reader.On("Leaderboard", mock.Anything, service.DefaultLeaderboardSize).Return([]*models.LeaderboardEntry{
		{Rank: 1, UserID: "111", Balance: 42},
	}, nil)
	sender.On("ChannelMessageSendEmbed", "chan-1", mock.MatchedBy(func(e *discordgo.MessageEmbed) bool {
		return e.Timestamp != "" && e.Title == "📊 Daily Leaderboard"
	})).Return(nil)

	digest, err := NewDigest(sender, reader, "chan-1", "0 14 * * *")
	require.NoError(t, err)

	require.NoError(t, digest.Post(context.Background()))
	reader.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestDigest_PostFailures(t *testing.T) {
	t.Run("ledger error skips the post", func(t *testing.T) {
		reader := new(mockReader)
		sender := new(mockSender)
		reader.On("Leaderboard", mock.Anything, mock.Anything).Return(nil, service.ErrStorageUnavailable)

		digest, err := NewDigest(sender, reader, "chan-1", "@daily")
		require.NoError(t, err)

		err = digest.Post(context.Background())
		assert.ErrorIs(t, err, service.ErrStorageUnavailable)
		sender.AssertNotCalled(t, "ChannelMessageSendEmbed", mock.Anything, mock.Anything)
	})

	t.Run("send error", func(t *testing.T) {
		reader := new(mockReader)
		sender := new(mockSender)
		reader.On("Leaderboard", mock.Anything, mock.Anything).Return([]*models.LeaderboardEntry{}, nil)
		sender.On("ChannelMessageSendEmbed", mock.Anything, mock.Anything).Return(errors.New("missing access"))

		digest, err := NewDigest(sender, reader, "chan-1", "@daily")
		require.NoError(t, err)
		assert.ErrorContains(t, digest.Post(context.Background()), "missing access")
	})
}

func TestNewDigest_InvalidSchedule(t *testing.T) {
	_, err := NewDigest(new(mockSender), new(mockReader), "chan-1", "every tuesday")
	assert.Error(t, err)
}

func TestDigest_StartStop(t *testing.T) {
	digest, err := NewDigest(new(mockSender), new(mockReader), "chan-1", "@daily")
	require.NoError(t, err)

	digest.Start()
	<-digest.Stop().Done()
}
