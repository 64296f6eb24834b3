package admin

import (
	"math"
	"testing"
	"time"

	"cyanbot/bot/common/testutil"
	"cyanbot/models"
	"cyanbot/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func onlyAdmin(userID string) bool {
	return userID == "999999"
}

func TestHandleCommand(t *testing.T) {
	t.Run("setbalance", func(t *testing.T) {
		responder := &testutil.Responder{}
		ledger := new(testutil.MockLedger)
		ledger.On("SetBalance", mock.Anything, "999999", "42", int64(1000)).
			Run(testutil.RecordOn(responder)).
			Return(&models.BalanceHistory{UserID: "42", BalanceAfter: 1000, ChangeAmount: 900}, nil)

		New(ledger, time.Second, onlyAdmin).HandleCommand(responder, testutil.CommandInteraction("admin", "999999",
			testutil.SubCommand("setbalance",
				testutil.UserOption("user", "42"),
				testutil.IntOption("amount", 1000),
			),
		))

		assert.Equal(t, []string{testutil.CallDefer, testutil.CallLedger, testutil.CallFollowUp}, responder.Calls())
		assert.Equal(t, discordgo.MessageFlagsEphemeral, responder.Responses()[0].Data.Flags)
		assert.Contains(t, responder.LastFollowUp().Content, "Set <@42>'s balance to **1,000**")
	})

	t.Run("createcode", func(t *testing.T) {
		responder := &testutil.Responder{}
		ledger := new(testutil.MockLedger)
		ledger.On("CreateCode", mock.Anything, "999999", "SPRING", int64(250), 5).
			Return(&models.RedemptionCode{Code: "SPRING", Value: 250, MaxUses: 5}, nil)

		New(ledger, time.Second, onlyAdmin).HandleCommand(responder, testutil.CommandInteraction("admin", "999999",
			testutil.SubCommand("createcode",
				testutil.IntOption("value", 250),
				testutil.IntOption("uses", 5),
				testutil.StringOption("code", "SPRING"),
			),
		))

		ledger.AssertExpectations(t)
		assert.Contains(t, responder.LastFollowUp().Content, "Created code `SPRING`")
	})

	t.Run("duplicate code", func(t *testing.T) {
		responder := &testutil.Responder{}
		ledger := new(testutil.MockLedger)
		ledger.On("CreateCode", mock.Anything, "999999", "SPRING", int64(250), 5).
			Return(nil, service.ErrCodeExists)

		New(ledger, time.Second, onlyAdmin).HandleCommand(responder, testutil.CommandInteraction("admin", "999999",
			testutil.SubCommand("createcode",
				testutil.IntOption("value", 250),
				testutil.IntOption("uses", 5),
				testutil.StringOption("code", "SPRING"),
			),
		))

		assert.Equal(t, []string{testutil.CallDefer, testutil.CallDelete, testutil.CallFollowUp}, responder.Calls())
		assert.Contains(t, responder.LastFollowUp().Content, "already exists")
	})

	t.Run("too many uses", func(t *testing.T) {
		responder := &testutil.Responder{}
		ledger := new(testutil.MockLedger)

		New(ledger, time.Second, onlyAdmin).HandleCommand(responder, testutil.CommandInteraction("admin", "999999",
			testutil.SubCommand("createcode",
				testutil.IntOption("value", 250),
				testutil.IntOption("uses", math.MaxInt32+1),
			),
		))

		assert.Equal(t, []string{testutil.CallRespond}, responder.Calls())
		assert.Contains(t, responder.Responses()[0].Data.Content, "at most 2147483647 uses")
		ledger.AssertNotCalled(t, "CreateCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non admin", func(t *testing.T) {
		responder := &testutil.Responder{}
		ledger := new(testutil.MockLedger)

		New(ledger, time.Second, onlyAdmin).HandleCommand(responder, testutil.CommandInteraction("admin", "42",
			testutil.SubCommand("setbalance",
				testutil.UserOption("user", "42"),
				testutil.IntOption("amount", 1000000),
			),
		))

		assert.Equal(t, []string{testutil.CallRespond}, responder.Calls())
		assert.Contains(t, responder.Responses()[0].Data.Content, "not allowed")
		ledger.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
