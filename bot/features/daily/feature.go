package daily

import (
	"fmt"
	"time"

	"cyanbot/bot/common"
	"cyanbot/models"
	"cyanbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves /daily
type Feature struct {
	ledger  service.LedgerService
	timeout time.Duration
	now     func() time.Time
}

func New(ledger service.LedgerService, timeout time.Duration) *Feature {
	return &Feature{
		ledger:  ledger,
		timeout: timeout,
		now:     time.Now,
	}
}

func (f *Feature) HandleCommand(s common.Responder, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring daily command: %v", err)
		return
	}

	ctx, cancel := common.CommandContext(f.timeout)
	defer cancel()

	userID := common.InvokingUserID(i)
	result, err := f.ledger.ClaimDaily(ctx, userID, f.now())
	if err != nil {
		common.HandleDeferredError(s, i, common.TranslateLedgerError(err))
		return
	}

	if err := common.FollowUp(s, i, claimMessage(result), false); err != nil {
		log.WithFields(log.Fields{
			"user_id":     userID,
			"new_balance": result.NewBalance,
		}).Errorf("Error sending daily claim result: %v", err)
	}
}

func claimMessage(result *models.DailyClaimResult) string {
	return fmt.Sprintf("🎁 You claimed %s! Your balance is now %s. Next claim %s.",
		common.FormatCurrency(result.Reward),
		common.FormatCurrency(result.NewBalance),
		common.FormatDiscordTimestamp(result.NextClaimAt, "R"),
	)
}
