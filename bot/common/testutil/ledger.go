package testutil

import (
	"context"
	"time"

	"cyanbot/models"

	"github.com/stretchr/testify/mock"
)

// MockLedger is a mock implementation of service.LedgerService
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) GetBalance(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) ClaimDaily(ctx context.Context, userID string, now time.Time) (*models.DailyClaimResult, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyClaimResult), args.Error(1)
}

func (m *MockLedger) WagerCoinflip(ctx context.Context, userID string, amount int64, choice models.CoinSide) (*models.CoinflipResult, error) {
	args := m.Called(ctx, userID, amount, choice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CoinflipResult), args.Error(1)
}

func (m *MockLedger) WagerSlots(ctx context.Context, userID string, amount int64) (*models.SlotsResult, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SlotsResult), args.Error(1)
}

func (m *MockLedger) RedeemCode(ctx context.Context, userID string, code string) (*models.RedeemResult, error) {
	args := m.Called(ctx, userID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RedeemResult), args.Error(1)
}

func (m *MockLedger) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockLedger) History(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

func (m *MockLedger) SetBalance(ctx context.Context, actorID, userID string, newBalance int64) (*models.BalanceHistory, error) {
	args := m.Called(ctx, actorID, userID, newBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BalanceHistory), args.Error(1)
}

func (m *MockLedger) CreateCode(ctx context.Context, actorID, code string, value int64, maxUses int) (*models.RedemptionCode, error) {
	args := m.Called(ctx, actorID, code, value, maxUses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RedemptionCode), args.Error(1)
}

// RecordOn makes a mocked call log CallLedger on r when it runs
func RecordOn(r *Responder) func(mock.Arguments) {
	return func(mock.Arguments) {
		r.Record(CallLedger)
	}
}
