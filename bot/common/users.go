package common

import (
	"github.com/bwmarrin/discordgo"
)

// InvokingUser returns the user who ran the command, in a guild or a DM
func InvokingUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// InvokingUserID returns the invoking user's snowflake, or "" if unknown
func InvokingUserID(i *discordgo.InteractionCreate) string {
	if user := InvokingUser(i); user != nil {
		return user.ID
	}
	return ""
}

// DisplayName returns the invoking user's server nickname, global name or username.
// It reads the interaction payload only, so it makes no API calls.
func DisplayName(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}
	user := InvokingUser(i)
	if user == nil {
		return "Unknown"
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}
