package daily

import (
	"testing"
	"time"

	"cyanbot/bot/common/testutil"
	"cyanbot/models"
	"cyanbot/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHandleCommand(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("claim", func(t *testing.T) {
		responder := &testutil.Responder{}
		ledger := new(testutil.MockLedger)
		ledger.On("ClaimDaily", mock.Anything, "42", now).
			Run(testutil.RecordOn(responder)).
			Return(&models.DailyClaimResult{Reward: 50, NewBalance: 150, NextClaimAt: now.Add(24 * time.Hour)}, nil)

		feature := New(ledger, time.Second)
		feature.now = func() time.Time { return now }
		feature.HandleCommand(responder, testutil.CommandInteraction("daily", "42"))

		assert.Equal(t, []string{testutil.CallDefer, testutil.CallLedger, testutil.CallFollowUp}, responder.Calls())
		assert.Contains(t, responder.LastFollowUp().Content, "You claimed **50** Cyan Dollars")
		ledger.AssertExpectations(t)
	})

	t.Run("cooldown", func(t *testing.T) {
		responder := &testutil.Responder{}
		ledger := new(testutil.MockLedger)
		ledger.On("ClaimDaily", mock.Anything, "42", now).
			Return(nil, &service.CooldownError{NextClaimAt: time.Unix(1800000000, 0)})

		feature := New(ledger, time.Second)
		feature.now = func() time.Time { return now }
		feature.HandleCommand(responder, testutil.CommandInteraction("daily", "42"))

		assert.Equal(t, []string{testutil.CallDefer, testutil.CallDelete, testutil.CallFollowUp}, responder.Calls())
		followUp := responder.LastFollowUp()
		assert.Contains(t, followUp.Content, "<t:1800000000:R>")
		assert.Equal(t, discordgo.MessageFlagsEphemeral, followUp.Flags)
	})
}
