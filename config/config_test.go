package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, int64(0), cfg.StartingBalance)
	assert.Equal(t, int64(50), cfg.DailyAmount)
	assert.Equal(t, int64(1), cfg.MinBet)
	assert.Equal(t, int64(0), cfg.MaxBet)
	assert.Equal(t, int64(2), cfg.CoinflipMultiplier)
	assert.Equal(t, int64(10), cfg.SlotsTripleMultiplier)
	assert.Equal(t, int64(2), cfg.SlotsPairMultiplier)
	assert.Equal(t, 5*time.Second, cfg.CommandTimeout)
	assert.Equal(t, ":8899", cfg.StatusAddr)
	assert.Equal(t, "0 14 * * *", cfg.LeaderboardSchedule)
	assert.Empty(t, cfg.NATSServers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("STARTING_BALANCE", "100")
	t.Setenv("DAILY_AMOUNT", "75")
	t.Setenv("MIN_BET", "10")
	t.Setenv("MAX_BET", "100000")
	t.Setenv("SLOTS_TRIPLE_MULTIPLIER", "12")
	t.Setenv("COMMAND_TIMEOUT_SECONDS", "3")
	t.Setenv("ADMIN_DISCORD_IDS", "123, 456,,789")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, int64(100), cfg.StartingBalance)
	assert.Equal(t, int64(75), cfg.DailyAmount)
	assert.Equal(t, int64(10), cfg.MinBet)
	assert.Equal(t, int64(100000), cfg.MaxBet)
	assert.Equal(t, int64(12), cfg.SlotsTripleMultiplier)
	assert.Equal(t, 3*time.Second, cfg.CommandTimeout)
	assert.Equal(t, []string{"123", "456", "789"}, cfg.AdminDiscordIDs)
	assert.True(t, cfg.IsAdmin("456"))
	assert.False(t, cfg.IsAdmin("999"))
}

func TestLoad_TokenFallback(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("CYAN_TOKEN", "cyan-token")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432")

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, "cyan-token", cfg.DiscordToken)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing token", map[string]string{"ENVIRONMENT": "production", "DISCORD_TOKEN": "", "CYAN_TOKEN": "", "DATABASE_URL": "postgres://x"}},
		{"missing database", map[string]string{"ENVIRONMENT": "production", "DISCORD_TOKEN": "t", "DATABASE_URL": ""}},
		{"negative starting balance", map[string]string{"ENVIRONMENT": "test", "STARTING_BALANCE": "-1"}},
		{"zero daily amount", map[string]string{"ENVIRONMENT": "test", "DAILY_AMOUNT": "0"}},
		{"max below min", map[string]string{"ENVIRONMENT": "test", "MIN_BET": "10", "MAX_BET": "5"}},
		{"unparseable number", map[string]string{"ENVIRONMENT": "test", "DAILY_AMOUNT": "lots"}},
		{"unparseable command timeout", map[string]string{"ENVIRONMENT": "test", "COMMAND_TIMEOUT_SECONDS": "5s"}},
		{"zero command timeout", map[string]string{"ENVIRONMENT": "test", "COMMAND_TIMEOUT_SECONDS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			_, err := load()
			assert.Error(t, err)
		})
	}
}

func TestLedgerConfig(t *testing.T) {
	cfg := NewTestConfig()
	cfg.StartingBalance = 25
	cfg.MaxBet = 500
	cfg.SlotsPairMultiplier = 3

	ledgerCfg := cfg.LedgerConfig()

	assert.Equal(t, int64(25), ledgerCfg.StartingBalance)
	assert.Equal(t, int64(50), ledgerCfg.DailyReward)
	assert.Equal(t, int64(500), ledgerCfg.MaxBet)
	assert.Equal(t, int64(3), ledgerCfg.Paytable.PairMultiplier)
	assert.Equal(t, int64(10), ledgerCfg.Paytable.TripleMultiplier)
	assert.Equal(t, 24*time.Hour, ledgerCfg.DailyCooldown)
	assert.NotEmpty(t, ledgerCfg.Paytable.Symbols)
}

func TestSetTestConfig(t *testing.T) {
	testCfg := NewTestConfig()
	SetTestConfig(testCfg)
	defer ResetConfig()

	assert.Same(t, testCfg, Get())
}
