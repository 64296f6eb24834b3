package common

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Options indexes command options by name
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

// NewOptions indexes opts by name
func NewOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) Options {
	indexed := make(Options, len(opts))
	for _, opt := range opts {
		indexed[opt.Name] = opt
	}
	return indexed
}

// Int returns an integer option and whether it was supplied
func (o Options) Int(name string) (int64, bool) {
	opt, ok := o[name]
	if !ok {
		return 0, false
	}
	return opt.IntValue(), true
}

// String returns a string option, or "" when absent
func (o Options) String(name string) string {
	opt, ok := o[name]
	if !ok {
		return ""
	}
	return opt.StringValue()
}

// UserID returns the id of a user option, or "" when absent
func (o Options) UserID(name string) string {
	opt, ok := o[name]
	if !ok {
		return ""
	}
	// Value is the raw snowflake; UserValue(nil) avoids a session lookup
	if user := opt.UserValue(nil); user != nil {
		return user.ID
	}
	return ""
}

// CommandContext bounds a single command's ledger work
func CommandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}
