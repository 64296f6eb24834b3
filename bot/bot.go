package bot

import (
	"fmt"
	"time"

	"cyanbot/bot/features/admin"
	"cyanbot/bot/features/balance"
	"cyanbot/bot/features/daily"
	"cyanbot/bot/features/games"
	"cyanbot/bot/features/leaderboard"
	"cyanbot/bot/features/ping"
	"cyanbot/bot/features/redeem"
	"cyanbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token                string
	GuildID              string
	CommandTimeout       time.Duration
	LeaderboardChannelID string
	LeaderboardSchedule  string
	IsAdmin              func(userID string) bool
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	commands []*discordgo.ApplicationCommand
	digest   *leaderboard.Digest

	balanceFeature     *balance.Feature
	dailyFeature       *daily.Feature
	gamesFeature       *games.Feature
	leaderboardFeature *leaderboard.Feature
	redeemFeature      *redeem.Feature
	adminFeature       *admin.Feature
	pingFeature        *ping.Feature
}

func New(config Config, ledger service.LedgerService) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	if config.IsAdmin == nil {
		config.IsAdmin = func(string) bool { return false }
	}

	bot := &Bot{
		config:             config,
		session:            dg,
		balanceFeature:     balance.New(ledger, config.CommandTimeout),
		dailyFeature:       daily.New(ledger, config.CommandTimeout),
		gamesFeature:       games.New(ledger, config.CommandTimeout),
		leaderboardFeature: leaderboard.New(ledger, config.CommandTimeout),
		redeemFeature:      redeem.New(ledger, config.CommandTimeout),
		adminFeature:       admin.New(ledger, config.CommandTimeout, config.IsAdmin),
		pingFeature:        ping.New(),
	}

	if config.LeaderboardChannelID != "" {
		digest, err := leaderboard.NewDigest(dg, ledger, config.LeaderboardChannelID, config.LeaderboardSchedule)
		if err != nil {
			return nil, err
		}
		bot.digest = digest
	}

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	if bot.digest != nil {
		bot.digest.Start()
	}

	return bot, nil
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	}).Info("Discord session ready")
}

// Close stops the digest, removes guild commands and closes the session
func (b *Bot) Close() error {
	if b.digest != nil {
		<-b.digest.Stop().Done()
	}
	b.unregisterCommands()
	return b.session.Close()
}
