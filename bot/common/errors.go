package common

import (
	"errors"
	"fmt"
	"strings"

	"cyanbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const genericFailure = "Something went wrong. Please try again later."

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Ephemeral   bool
	Err         error
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, insufficient funds, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: genericFailure,
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// TranslateLedgerError maps a ledger error to the message the invoking user sees
func TranslateLedgerError(err error) *BotError {
	var cooldown *service.CooldownError
	var insufficient *service.InsufficientFundsError

	switch {
	case errors.As(err, &cooldown):
		return NewUserError(
			fmt.Sprintf("You already claimed your daily reward. Come back %s.", FormatDiscordTimestamp(cooldown.NextClaimAt, "R")),
			err.Error(),
		)
	case errors.Is(err, service.ErrAlreadyClaimed):
		return NewUserError("You already claimed your daily reward.", err.Error())
	case errors.As(err, &insufficient):
		return NewUserError(
			fmt.Sprintf("Insufficient funds. You have %s but tried to wager %s.", FormatCurrency(insufficient.Balance), FormatCurrency(insufficient.Amount)),
			err.Error(),
		)
	case errors.Is(err, service.ErrInsufficientFunds):
		return NewUserError("Insufficient funds.", err.Error())
	case errors.Is(err, service.ErrInvalidAmount):
		return NewUserError(fmt.Sprintf("Invalid amount. %s", describeInvalidAmount(err)), err.Error())
	case errors.Is(err, service.ErrInvalidChoice):
		return NewUserError("Pick heads or tails.", err.Error())
	case errors.Is(err, service.ErrCodeNotFound):
		return NewUserError("That code does not exist.", err.Error())
	case errors.Is(err, service.ErrCodeExhausted):
		return NewUserError("That code has no uses left.", err.Error())
	case errors.Is(err, service.ErrAlreadyRedeemed):
		return NewUserError("You already redeemed that code.", err.Error())
	case errors.Is(err, service.ErrCodeExists):
		return NewUserError("A code with that name already exists.", err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		return NewSystemError(err, "ledger storage unavailable")
	default:
		return NewSystemError(err, "unexpected ledger error")
	}
}

// describeInvalidAmount keeps the bound from the wrapped message, e.g. "minimum wager is 10"
func describeInvalidAmount(err error) string {
	detail, ok := strings.CutPrefix(err.Error(), service.ErrInvalidAmount.Error()+": ")
	if !ok || detail == "" {
		return "Amounts must be positive whole numbers."
	}
	return strings.ToUpper(detail[:1]) + detail[1:] + "."
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s Responder, i *discordgo.InteractionCreate, message string) {
	if err := Respond(s, i, fmt.Sprintf("❌ %s", message), true); err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError replaces a deferred response with an ephemeral error message
func FollowUpWithError(s Responder, i *discordgo.InteractionCreate, message string) {
	// The deferred placeholder may be public, so drop it before replying privately
	if err := s.InteractionResponseDelete(i.Interaction); err != nil {
		log.Warnf("Error deleting deferred response: %v", err)
	}
	if err := FollowUp(s, i, fmt.Sprintf("❌ %s", message), true); err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError logs err and tells the user what went wrong
func HandleError(s Responder, i *discordgo.InteractionCreate, err error) {
	RespondWithError(s, i, logBotError(i, err))
}

// HandleDeferredError is HandleError for interactions that were already deferred
func HandleDeferredError(s Responder, i *discordgo.InteractionCreate, err error) {
	FollowUpWithError(s, i, logBotError(i, err))
}

// logBotError logs err and returns the message the user should see
func logBotError(i *discordgo.InteractionCreate, err error) string {
	fields := log.Fields{
		"user_id": InvokingUserID(i),
		"command": i.ApplicationCommandData().Name,
	}

	var botErr *BotError
	if !errors.As(err, &botErr) {
		fields["error"] = err.Error()
		log.WithFields(fields).Error("Unexpected error in bot command")
		return genericFailure
	}

	fields["error"] = botErr.Error()
	fields["user_message"] = botErr.UserMessage
	if botErr.Err != nil {
		log.WithFields(fields).Error(botErr.LogMessage)
	} else {
		log.WithFields(fields).Info(botErr.LogMessage)
	}
	return botErr.UserMessage
}
