package admin

import (
	"context"
	"fmt"
	"math"
	"time"

	"cyanbot/bot/common"
	"cyanbot/models"
	"cyanbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves the /admin command group
type Feature struct {
	ledger  service.LedgerService
	timeout time.Duration
	isAdmin func(userID string) bool
}

func New(ledger service.LedgerService, timeout time.Duration, isAdmin func(userID string) bool) *Feature {
	return &Feature{
		ledger:  ledger,
		timeout: timeout,
		isAdmin: isAdmin,
	}
}

// adminAction runs a validated admin subcommand against the ledger
type adminAction func(ctx context.Context) (string, error)

func (f *Feature) HandleCommand(s common.Responder, i *discordgo.InteractionCreate) {
	actorID := common.InvokingUserID(i)
	if !f.isAdmin(actorID) {
		common.HandleError(s, i, common.NewUserError("You are not allowed to use admin commands.", "non-admin used /admin"))
		return
	}

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		common.HandleError(s, i, common.NewUserError("Pick an admin subcommand.", "admin without subcommand"))
		return
	}

	sub := data.Options[0]
	opts := common.NewOptions(sub.Options)

	var action adminAction
	var err error
	switch sub.Name {
	case "setbalance":
		action, err = f.setBalance(actorID, opts)
	case "createcode":
		action, err = f.createCode(actorID, opts)
	default:
		err = common.NewUserError("Unknown admin subcommand.", "unknown admin subcommand "+sub.Name)
	}
	if err != nil {
		common.HandleError(s, i, err)
		return
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring admin command: %v", err)
		return
	}

	ctx, cancel := common.CommandContext(f.timeout)
	defer cancel()

	message, err := action(ctx)
	if err != nil {
		common.HandleDeferredError(s, i, err)
		return
	}

	if err := common.FollowUp(s, i, message, true); err != nil {
		log.WithFields(log.Fields{
			"actor_id":   actorID,
			"subcommand": sub.Name,
		}).Errorf("Error sending admin result: %v", err)
	}
}

func (f *Feature) setBalance(actorID string, opts common.Options) (adminAction, error) {
	userID := opts.UserID("user")
	amount, ok := opts.Int("amount")
	if userID == "" || !ok {
		return nil, common.NewUserError("Provide a user and an amount.", "setbalance with missing options")
	}

	return func(ctx context.Context) (string, error) {
		history, err := f.ledger.SetBalance(ctx, actorID, userID, amount)
		if err != nil {
			return "", common.TranslateLedgerError(err)
		}
		return setBalanceMessage(history), nil
	}, nil
}

func (f *Feature) createCode(actorID string, opts common.Options) (adminAction, error) {
	value, valueOK := opts.Int("value")
	uses, usesOK := opts.Int("uses")
	if !valueOK || !usesOK {
		return nil, common.NewUserError("Provide a value and a number of uses.", "createcode with missing options")
	}
	if uses > math.MaxInt32 {
		return nil, common.NewUserError(fmt.Sprintf("A code can have at most %d uses.", math.MaxInt32), "createcode with too many uses")
	}
	code := opts.String("code")

	return func(ctx context.Context) (string, error) {
		redemptionCode, err := f.ledger.CreateCode(ctx, actorID, code, value, int(uses))
		if err != nil {
			return "", common.TranslateLedgerError(err)
		}
		return createCodeMessage(redemptionCode), nil
	}, nil
}

func setBalanceMessage(history *models.BalanceHistory) string {
	return fmt.Sprintf("✅ Set %s's balance to %s (%s).",
		common.UserMention(history.UserID),
		common.FormatCurrency(history.BalanceAfter),
		common.FormatSignedChange(history.ChangeAmount),
	)
}

func createCodeMessage(code *models.RedemptionCode) string {
	return fmt.Sprintf("✅ Created code `%s` worth %s with %d uses.",
		code.Code,
		common.FormatCurrency(code.Value),
		code.MaxUses,
	)
}
