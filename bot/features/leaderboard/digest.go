package leaderboard

import (
	"context"
	"fmt"
	"time"

	"cyanbot/service"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const digestTimeout = 30 * time.Second

// EmbedSender posts an embed to a channel
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Digest posts the leaderboard to a channel on a cron schedule
type Digest struct {
	cron      *cron.Cron
	sender    EmbedSender
	ledger    Reader
	channelID string
}

// NewDigest schedules the digest. schedule is a standard five field cron spec.
func NewDigest(sender EmbedSender, ledger Reader, channelID, schedule string) (*Digest, error) {
	d := &Digest{
		cron:      cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(log.StandardLogger())))),
		sender:    sender,
		ledger:    ledger,
		channelID: channelID,
	}

	if _, err := d.cron.AddFunc(schedule, d.run); err != nil {
		return nil, fmt.Errorf("invalid leaderboard schedule %q: %w", schedule, err)
	}
	return d, nil
}

// Start runs the scheduler in the background
func (d *Digest) Start() {
	log.WithField("channel_id", d.channelID).Info("Starting leaderboard digest")
	d.cron.Start()
}

// Stop stops scheduling and returns a context that is done when a running post finishes
func (d *Digest) Stop() context.Context {
	return d.cron.Stop()
}

func (d *Digest) run() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	if err := d.Post(ctx); err != nil {
		log.WithError(err).Error("Failed to post leaderboard digest")
	}
}

// Post sends the current leaderboard to the digest channel
func (d *Digest) Post(ctx context.Context) error {
	entries, err := d.ledger.Leaderboard(ctx, service.DefaultLeaderboardSize)
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}

	embed := BuildEmbed("📊 Daily Leaderboard", entries)
	embed.Timestamp = time.Now().UTC().Format(time.RFC3339)

	if _, err := d.sender.ChannelMessageSendEmbed(d.channelID, embed); err != nil {
		return fmt.Errorf("failed to send leaderboard digest: %w", err)
	}

	log.WithFields(log.Fields{
		"channel_id": d.channelID,
		"entries":    len(entries),
	}).Info("Posted leaderboard digest")
	return nil
}
