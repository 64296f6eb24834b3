package games

import (
	"fmt"
	"strings"

	"cyanbot/bot/common"
	"cyanbot/models"

	"github.com/bwmarrin/discordgo"
)

func coinEmoji(side models.CoinSide) string {
	if side == models.CoinSideHeads {
		return "🪙"
	}
	return "🦅"
}

func coinflipEmbed(result *models.CoinflipResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s The coin landed on %s", coinEmoji(result.Outcome), result.Outcome),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Your call", Value: string(result.Choice), Inline: true},
			{Name: "Wager", Value: common.FormatBalance(result.Amount), Inline: true},
			{Name: "Balance", Value: common.FormatCurrency(result.NewBalance), Inline: false},
		},
	}

	if result.Won {
		embed.Color = common.ColorSuccess
		embed.Description = fmt.Sprintf("🎉 You won %s!", common.FormatCurrency(result.Payout-result.Amount))
	} else {
		embed.Color = common.ColorDanger
		embed.Description = fmt.Sprintf("😔 You lost %s.", common.FormatCurrency(result.Amount))
	}
	return embed
}

func slotsEmbed(result *models.SlotsResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🎰 " + strings.Join(result.Reels[:], " | "),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Wager", Value: common.FormatBalance(result.Amount), Inline: true},
			{Name: "Multiplier", Value: fmt.Sprintf("x%d", result.Multiplier), Inline: true},
			{Name: "Balance", Value: common.FormatCurrency(result.NewBalance), Inline: false},
		},
	}

	net := result.Payout - result.Amount
	switch {
	case net > 0:
		embed.Color = common.ColorSuccess
		embed.Description = fmt.Sprintf("🎉 Winner! You won %s.", common.FormatCurrency(net))
	case net == 0:
		embed.Color = common.ColorWarning
		embed.Description = "😐 Push. You got your wager back."
	default:
		embed.Color = common.ColorDanger
		embed.Description = fmt.Sprintf("😔 No match. You lost %s.", common.FormatCurrency(result.Amount))
	}
	return embed
}
