package leaderboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cyanbot/bot/common"
	"cyanbot/models"
	"cyanbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Reader is the part of the ledger the leaderboard needs
type Reader interface {
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// Feature serves /leaderboard
type Feature struct {
	ledger  Reader
	timeout time.Duration
}

func New(ledger Reader, timeout time.Duration) *Feature {
	return &Feature{
		ledger:  ledger,
		timeout: timeout,
	}
}

func (f *Feature) HandleCommand(s common.Responder, i *discordgo.InteractionCreate) {
	opts := common.NewOptions(i.ApplicationCommandData().Options)

	size := service.DefaultLeaderboardSize
	if requested, ok := opts.Int("size"); ok {
		size = int(requested)
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring leaderboard command: %v", err)
		return
	}

	ctx, cancel := common.CommandContext(f.timeout)
	defer cancel()

	entries, err := f.ledger.Leaderboard(ctx, size)
	if err != nil {
		common.HandleDeferredError(s, i, common.TranslateLedgerError(err))
		return
	}

	if err := common.FollowUpWithEmbed(s, i, BuildEmbed("🏆 Cyan Dollars Leaderboard", entries), false); err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
	}
}

// BuildEmbed renders ranked entries, mentioning each user
func BuildEmbed(title string, entries []*models.LeaderboardEntry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: common.ColorPrimary,
	}

	if len(entries) == 0 {
		embed.Description = "Nobody has any Cyan Dollars yet."
		return embed
	}

	var sb strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&sb, "%s %s: **%s**\n",
			common.RankBadge(entry.Rank),
			common.UserMention(entry.UserID),
			common.FormatBalance(entry.Balance),
		)
	}
	embed.Description = sb.String()
	return embed
}
