package bot

import (
	"fmt"
	"math"

	"cyanbot/bot/common"
	"cyanbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var (
	minAmount      = 1.0
	minLeaderboard = 1.0
	maxLeaderboard = float64(service.MaxLeaderboardSize)
	adminOnly      = int64(discordgo.PermissionAdministrator)
)

// commandDefinitions returns every slash command the bot serves
func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your Cyan Dollars balance",
		},
		{
			Name:        "daily",
			Description: "Claim your daily Cyan Dollars",
		},
		{
			Name:        "coinflip",
			Description: "Bet Cyan Dollars on a coin toss",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to wager",
					Required:    true,
					MinValue:    &minAmount,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "side",
					Description: "Heads or tails",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Heads", Value: "heads"},
						{Name: "Tails", Value: "tails"},
					},
				},
			},
		},
		{
			Name:        "slots",
			Description: "Spin the slot machine",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to wager",
					Required:    true,
					MinValue:    &minAmount,
				},
			},
		},
		{
			Name:        "leaderboard",
			Description: "Show the richest players",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "size",
					Description: "How many players to show",
					MinValue:    &minLeaderboard,
					MaxValue:    maxLeaderboard,
				},
			},
		},
		{
			Name:        "redeem",
			Description: "Redeem a code for Cyan Dollars",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "code",
					Description: "The code to redeem",
					Required:    true,
				},
			},
		},
		{
			Name:        "history",
			Description: "Show your recent transactions",
		},
		{
			Name:        "ping",
			Description: "Check the bot's latency",
		},
		{
			Name:                     "admin",
			Description:              "Cyan Dollars administration",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "setbalance",
					Description: "Set a player's balance",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "Player to adjust",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "New balance",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "createcode",
					Description: "Create a redemption code",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "value",
							Description: "Cyan Dollars granted per redemption",
							Required:    true,
							MinValue:    &minAmount,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "uses",
							Description: "How many players can redeem it",
							Required:    true,
							MinValue:    &minAmount,
							MaxValue:    math.MaxInt32,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "code",
							Description: "Code text (generated when omitted)",
						},
					},
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord.
// Commands are guild scoped when a guild id is configured, global otherwise.
func (b *Bot) registerCommands() error {
	appID := b.session.State.User.ID
	created, err := b.session.ApplicationCommandBulkOverwrite(appID, b.config.GuildID, commandDefinitions())
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	b.commands = created

	log.WithFields(log.Fields{
		"count":    len(created),
		"guild_id": b.config.GuildID,
	}).Info("Registered slash commands")
	return nil
}

// unregisterCommands removes guild scoped commands so stale definitions do not linger
func (b *Bot) unregisterCommands() {
	if b.config.GuildID == "" {
		return
	}
	appID := b.session.State.User.ID
	for _, cmd := range b.commands {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmd.ID); err != nil {
			log.Errorf("Failed to delete command %s: %v", cmd.Name, err)
		}
	}
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	log.WithFields(log.Fields{
		"command": name,
		"user_id": common.InvokingUserID(i),
	}).Debug("Handling command")

	switch name {
	case "balance":
		b.balanceFeature.HandleBalance(s, i)
	case "history":
		b.balanceFeature.HandleHistory(s, i)
	case "daily":
		b.dailyFeature.HandleCommand(s, i)
	case "coinflip":
		b.gamesFeature.HandleCoinflip(s, i)
	case "slots":
		b.gamesFeature.HandleSlots(s, i)
	case "leaderboard":
		b.leaderboardFeature.HandleCommand(s, i)
	case "redeem":
		b.redeemFeature.HandleCommand(s, i)
	case "admin":
		b.adminFeature.HandleCommand(s, i)
	case "ping":
		b.pingFeature.HandleCommand(s, i)
	default:
		common.RespondWithError(s, i, "Unknown command.")
	}
}
