package games

import (
	"time"

	"cyanbot/bot/common"
	"cyanbot/models"
	"cyanbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves /coinflip and /slots
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

// HandleCoinflip settles a coinflip wager
func (f *Feature) HandleCoinflip(s common.Responder, i *discordgo.InteractionCreate) {
	opts := common.NewOptions(i.ApplicationCommandData().Options)

	amount, ok := opts.Int("amount")
	if !ok {
		common.HandleError(s, i, common.NewUserError("Tell me how much to wager.", "coinflip without amount"))
		return
	}

	side, err := models.ParseCoinSide(opts.String("side"))
	if err != nil {
		common.HandleError(s, i, common.TranslateLedgerError(service.ErrInvalidChoice))
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring coinflip command: %v", err)
		return
	}

	ctx, cancel := common.CommandContext(f.timeout)
	defer cancel()

	userID := common.InvokingUserID(i)
	result, err := f.ledger.WagerCoinflip(ctx, userID, amount, side)
	if err != nil {
		common.HandleDeferredError(s, i, common.TranslateLedgerError(err))
		return
	}

	if err := common.FollowUpWithEmbed(s, i, coinflipEmbed(result), false); err != nil {
		log.WithFields(log.Fields{
			"user_id":     userID,
			"won":         result.Won,
			"new_balance": result.NewBalance,
		}).Errorf("Error sending coinflip result: %v", err)
	}
}

// HandleSlots settles a slots wager
func (f *Feature) HandleSlots(s common.Responder, i *discordgo.InteractionCreate) {
	opts := common.NewOptions(i.ApplicationCommandData().Options)

	amount, ok := opts.Int("amount")
	if !ok {
		common.HandleError(s, i, common.NewUserError("Tell me how much to wager.", "slots without amount"))
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring slots command: %v", err)
		return
	}

	ctx, cancel := common.CommandContext(f.timeout)
	defer cancel()

	userID := common.InvokingUserID(i)
	result, err := f.ledger.WagerSlots(ctx, userID, amount)
	if err != nil {
		common.HandleDeferredError(s, i, common.TranslateLedgerError(err))
		return
	}

	if err := common.FollowUpWithEmbed(s, i, slotsEmbed(result), false); err != nil {
		log.WithFields(log.Fields{
			"user_id":     userID,
			"multiplier":  result.Multiplier,
			"new_balance": result.NewBalance,
		}).Errorf("Error sending slots result: %v", err)
	}
}
