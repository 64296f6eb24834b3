package redeem

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
	t.Run("redeem privately", func(t *testing.T) {
		responder := &testutil.Responder{}
		ledger := new(testutil.MockLedger)
		ledger.On("RedeemCode", mock.Anything, "42", "WELCOME").
			Run(testutil.RecordOn(responder)).
			Return(&models.RedeemResult{Code: "WELCOME", Value: 100, NewBalance: 150, UsesRemaining: 2}, nil)

		New(ledger, time.Second).HandleCommand(responder, testutil.CommandInteraction("redeem", "42",
			testutil.StringOption("code", "WELCOME"),
		))

		assert.Equal(t, []string{testutil.CallDefer, testutil.CallLedger, testutil.CallFollowUp}, responder.Calls())
		assert.Equal(t, discordgo.MessageFlagsEphemeral, responder.Responses()[0].Data.Flags)

		followUp := responder.LastFollowUp()
		assert.Contains(t, followUp.Content, "Redeemed `WELCOME`")
		assert.Equal(t, discordgo.MessageFlagsEphemeral, followUp.Flags)
	})

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"unknown code", service.ErrCodeNotFound, "does not exist"},
		{"exhausted", service.ErrCodeExhausted, "no uses left"},
		{"already redeemed", service.ErrAlreadyRedeemed, "already redeemed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responder := &testutil.Responder{}
			ledger := new(testutil.MockLedger)
			ledger.On("RedeemCode", mock.Anything, "42", "CODE1").Return(nil, tt.err)

			New(ledger, time.Second).HandleCommand(responder, testutil.CommandInteraction("redeem", "42",
				testutil.StringOption("code", "CODE1"),
			))

			assert.Contains(t, responder.LastFollowUp().Content, tt.contains)
		})
	}
}
