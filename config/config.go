package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"cyanbot/database"
	"cyanbot/service"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string
	GuildID      string // Guild used to scope slash command registration, empty for global

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Ledger configuration
	StartingBalance       int64
	DailyAmount           int64
	MinBet                int64
	MaxBet                int64 // 0 disables the upper bound
	CoinflipMultiplier    int64
	SlotsTripleMultiplier int64
	SlotsPairMultiplier   int64
	RandomSeed            int64 // 0 seeds from the clock

	// Admin configuration
	AdminDiscordIDs []string // Discord IDs allowed to run /admin commands

	// Command handling
	CommandTimeout time.Duration

	// NATS configuration
	NATSServers string // Comma-separated server list, empty disables event forwarding

	// Status API configuration
	StatusAddr string // Empty disables the status API

	// Leaderboard digest configuration
	LeaderboardChannelID string
	LeaderboardSchedule  string // cron expression, UTC

	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		// A missing .env file is normal outside local development
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.WithError(err).Warn("Failed to load .env file")
		}

		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// LedgerConfig returns the ledger settings derived from this configuration
func (c *Config) LedgerConfig() service.LedgerConfig {
	ledgerCfg := service.DefaultLedgerConfig()
	ledgerCfg.StartingBalance = c.StartingBalance
	ledgerCfg.DailyReward = c.DailyAmount
	ledgerCfg.MinBet = c.MinBet
	ledgerCfg.MaxBet = c.MaxBet
	ledgerCfg.CoinflipMultiplier = c.CoinflipMultiplier
	ledgerCfg.Paytable.TripleMultiplier = c.SlotsTripleMultiplier
	ledgerCfg.Paytable.PairMultiplier = c.SlotsPairMultiplier
	return ledgerCfg
}

// IsAdmin reports whether the Discord ID may run administrative commands
func (c *Config) IsAdmin(discordID string) bool {
	for _, id := range c.AdminDiscordIDs {
		if id == discordID {
			return true
		}
	}
	return false
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken: getEnvWithDefault("DISCORD_TOKEN", os.Getenv("CYAN_TOKEN")),
		GuildID:      os.Getenv("GUILD_ID"),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Ledger settings with defaults
		StartingBalance:       0,
		DailyAmount:           50,
		MinBet:                1,
		MaxBet:                0,
		CoinflipMultiplier:    2,
		SlotsTripleMultiplier: 10,
		SlotsPairMultiplier:   2,

		CommandTimeout: 5 * time.Second,

		// NATS
		NATSServers: os.Getenv("NATS_SERVERS"),

		// Status API
		StatusAddr: getEnvWithDefault("STATUS_ADDR", ":8899"),

		// Leaderboard digest
		LeaderboardChannelID: os.Getenv("LEADERBOARD_CHANNEL_ID"),
		LeaderboardSchedule:  getEnvWithDefault("LEADERBOARD_SCHEDULE", "0 14 * * *"),

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	int64Overrides := map[string]*int64{
		"STARTING_BALANCE":        &config.StartingBalance,
		"DAILY_AMOUNT":            &config.DailyAmount,
		"MIN_BET":                 &config.MinBet,
		"MAX_BET":                 &config.MaxBet,
		"COINFLIP_MULTIPLIER":     &config.CoinflipMultiplier,
		"SLOTS_TRIPLE_MULTIPLIER": &config.SlotsTripleMultiplier,
		"SLOTS_PAIR_MULTIPLIER":   &config.SlotsPairMultiplier,
		"RANDOM_SEED":             &config.RandomSeed,
	}
	for key, target := range int64Overrides {
		value := os.Getenv(key)
		if value == "" {
			continue
		}
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		*target = parsed
	}

	if timeout := os.Getenv("COMMAND_TIMEOUT_SECONDS"); timeout != "" {
		seconds, err := strconv.Atoi(timeout)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("invalid COMMAND_TIMEOUT_SECONDS %q: must be a positive number of seconds", timeout)
		}
		config.CommandTimeout = time.Duration(seconds) * time.Second
	}

	// Parse admin Discord IDs
	if adminIDs := os.Getenv("ADMIN_DISCORD_IDS"); adminIDs != "" {
		for _, id := range strings.Split(adminIDs, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				config.AdminDiscordIDs = append(config.AdminDiscordIDs, id)
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if err := config.validateLedger(); err != nil {
		return nil, err
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

func (c *Config) validateLedger() error {
	if c.StartingBalance < 0 {
		return fmt.Errorf("STARTING_BALANCE cannot be negative")
	}
	if c.DailyAmount <= 0 {
		return fmt.Errorf("DAILY_AMOUNT must be positive")
	}
	if c.MinBet < 1 {
		return fmt.Errorf("MIN_BET must be at least 1")
	}
	if c.MaxBet != 0 && c.MaxBet < c.MinBet {
		return fmt.Errorf("MAX_BET must be 0 or at least MIN_BET")
	}
	if c.CoinflipMultiplier < 0 || c.SlotsTripleMultiplier < 0 || c.SlotsPairMultiplier < 0 {
		return fmt.Errorf("payout multipliers cannot be negative")
	}
	return nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:           "test",
		AdminDiscordIDs:       []string{"999999"},
		StartingBalance:       0,
		DailyAmount:           50,
		MinBet:                1,
		CoinflipMultiplier:    2,
		SlotsTripleMultiplier: 10,
		SlotsPairMultiplier:   2,
		CommandTimeout:        5 * time.Second,
		LeaderboardSchedule:   "0 14 * * *",
		LogLevel:              "info",
	}
}
