package redeem

import (
	"fmt"
	"time"

	"cyanbot/bot/common"
	"cyanbot/models"
	"cyanbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves /redeem
type Feature struct {
	ledger  service.LedgerService
	timeout time.Duration
}

func New(ledger service.LedgerService, timeout time.Duration) *Feature {
	return &Feature{
		ledger:  ledger,
		timeout: timeout,
	}
}

func (f *Feature) HandleCommand(s common.Responder, i *discordgo.InteractionCreate) {
	opts := common.NewOptions(i.ApplicationCommandData().Options)

	// Ephemeral so the code is not leaked to the channel
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring redeem command: %v", err)
		return
	}

	ctx, cancel := common.CommandContext(f.timeout)
	defer cancel()

	userID := common.InvokingUserID(i)
	result, err := f.ledger.RedeemCode(ctx, userID, opts.String("code"))
	if err != nil {
		common.HandleDeferredError(s, i, common.TranslateLedgerError(err))
		return
	}

	if err := common.FollowUp(s, i, redeemMessage(result), true); err != nil {
		log.WithFields(log.Fields{
			"user_id":     userID,
			"code":        result.Code,
			"new_balance": result.NewBalance,
		}).Errorf("Error sending redeem result: %v", err)
	}
}

func redeemMessage(result *models.RedeemResult) string {
	return fmt.Sprintf("✅ Redeemed `%s` for %s. Your balance is now %s.",
		result.Code,
		common.FormatCurrency(result.Value),
		common.FormatCurrency(result.NewBalance),
	)
}
