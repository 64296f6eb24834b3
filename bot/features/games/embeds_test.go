package games

import (
	"testing"

	"cyanbot/bot/common"
	"cyanbot/models"

	"github.com/stretchr/testify/assert"
)

func TestCoinflipEmbed(t *testing.T) {
	t.Run("win", func(t *testing.T) {
		embed := coinflipEmbed(&models.CoinflipResult{
			Won: true, Choice: models.CoinSideHeads, Outcome: models.CoinSideHeads,
			Amount: 100, Payout: 200, NewBalance: 200,
		})
		assert.Equal(t, common.ColorSuccess, embed.Color)
		assert.Contains(t, embed.Title, "heads")
		assert.Contains(t, embed.Description, "You won **100** Cyan Dollars")
	})

	t.Run("loss", func(t *testing.T) {
		embed := coinflipEmbed(&models.CoinflipResult{
			Won: false, Choice: models.CoinSideHeads, Outcome: models.CoinSideTails,
			Amount: 100, NewBalance: 0,
		})
		assert.Equal(t, common.ColorDanger, embed.Color)
		assert.Contains(t, embed.Title, "tails")
		assert.Contains(t, embed.Description, "You lost **100** Cyan Dollars")
	})
}

func TestSlotsEmbed(t *testing.T) {
	tests := []struct {
		name       string
		multiplier int64
		payout     int64
		color      int
		contains   string
	}{
		{"triple", 10, 100, common.ColorSuccess, "won **90**"},
		{"push", 1, 10, common.ColorWarning, "Push"},
		{"miss", 0, 0, common.ColorDanger, "lost **10**"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embed := slotsEmbed(&models.SlotsResult{
				Reels:      [3]string{"🍒", "🍒", "🍒"},
				Amount:     10,
				Multiplier: tt.multiplier,
				Payout:     tt.payout,
			})
			assert.Equal(t, tt.color, embed.Color)
			assert.Contains(t, embed.Description, tt.contains)
			assert.Equal(t, "🎰 🍒 | 🍒 | 🍒", embed.Title)
		})
	}
}
