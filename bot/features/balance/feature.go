package balance

import (
	"fmt"
	"strings"
	"time"

	"cyanbot/bot/common"
	"cyanbot/models"
	"cyanbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves /balance and /history
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

// HandleBalance replies with the invoking user's balance
func (f *Feature) HandleBalance(s common.Responder, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring balance command: %v", err)
		return
	}

	ctx, cancel := common.CommandContext(f.timeout)
	defer cancel()

	balance, err := f.ledger.GetBalance(ctx, common.InvokingUserID(i))
	if err != nil {
		common.HandleDeferredError(s, i, common.TranslateLedgerError(err))
		return
	}

	if err := common.FollowUp(s, i, balanceMessage(common.DisplayName(i), balance), false); err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}

func balanceMessage(displayName string, balance int64) string {
	return fmt.Sprintf("💰 %s, your balance is %s.", displayName, common.FormatCurrency(balance))
}

// HandleHistory replies with the invoking user's recent balance changes
func (f *Feature) HandleHistory(s common.Responder, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring history command: %v", err)
		return
	}

	ctx, cancel := common.CommandContext(f.timeout)
	defer cancel()

	history, err := f.ledger.History(ctx, common.InvokingUserID(i), service.DefaultHistorySize)
	if err != nil {
		common.HandleDeferredError(s, i, common.TranslateLedgerError(err))
		return
	}

	if err := common.FollowUpWithEmbed(s, i, historyEmbed(history), true); err != nil {
		log.Errorf("Error responding to history command: %v", err)
	}
}

func historyEmbed(history []*models.BalanceHistory) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📜 Recent transactions",
		Color: common.ColorInfo,
	}

	if len(history) == 0 {
		embed.Description = "No transactions yet. Try `/daily`."
		return embed
	}

	var sb strings.Builder
	for _, entry := range history {
		fmt.Fprintf(&sb, "%s **%s** %s → %s\n",
			common.FormatDiscordTimestamp(entry.CreatedAt, "R"),
			entry.TransactionType.Label(),
			common.FormatSignedChange(entry.ChangeAmount),
			common.FormatBalance(entry.BalanceAfter),
		)
	}
	embed.Description = sb.String()
	return embed
}
