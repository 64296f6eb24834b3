package service

import (
	"context"
	"sync"
	"time"

	"cyanbot/events"
	"cyanbot/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetOrCreateForUpdate(ctx context.Context, userID string, startingBalance int64) (*models.Account, bool, error) {
	args := m.Called(ctx, userID, startingBalance)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Account), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, userID string, newBalance int64) error {
	args := m.Called(ctx, userID, newBalance)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateDailyClaim(ctx context.Context, userID string, newBalance int64, claimedAt time.Time) error {
	args := m.Called(ctx, userID, newBalance, claimedAt)
	return args.Error(0)
}

func (m *MockAccountRepository) GetTopByBalance(ctx context.Context, limit int) ([]*models.Account, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

// MockRedemptionCodeRepository is a mock implementation of RedemptionCodeRepository
type MockRedemptionCodeRepository struct {
	mock.Mock
}

func (m *MockRedemptionCodeRepository) Create(ctx context.Context, code *models.RedemptionCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockRedemptionCodeRepository) GetByCodeForUpdate(ctx context.Context, code string) (*models.RedemptionCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RedemptionCode), args.Error(1)
}

func (m *MockRedemptionCodeRepository) HasRedeemed(ctx context.Context, code, userID string) (bool, error) {
	args := m.Called(ctx, code, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedemptionCodeRepository) RecordRedemption(ctx context.Context, code, userID string) (int, error) {
	args := m.Called(ctx, code, userID)
	return args.Int(0), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// MockGameRoundRepository is a mock implementation of GameRoundRepository
type MockGameRoundRepository struct {
	mock.Mock
}

func (m *MockGameRoundRepository) Create(ctx context.Context, round *models.GameRound) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Published returns the events of the given type
func (m *MockEventPublisher) Published(eventType events.EventType) []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []events.Event
	for _, e := range m.events {
		if e.Type() == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	accountRepo        *MockAccountRepository
	redemptionCodeRepo *MockRedemptionCodeRepository
	balanceHistoryRepo *MockBalanceHistoryRepository
	gameRoundRepo      *MockGameRoundRepository
	eventBus           *MockEventPublisher
}

func newMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		accountRepo:        new(MockAccountRepository),
		redemptionCodeRepo: new(MockRedemptionCodeRepository),
		balanceHistoryRepo: new(MockBalanceHistoryRepository),
		gameRoundRepo:      new(MockGameRoundRepository),
		eventBus:           new(MockEventPublisher),
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) RedemptionCodeRepository() RedemptionCodeRepository {
	return m.redemptionCodeRepo
}

func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository {
	return m.balanceHistoryRepo
}

func (m *MockUnitOfWork) GameRoundRepository() GameRoundRepository {
	return m.gameRoundRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// AssertAllExpectations checks the unit of work and every repository mock
func (m *MockUnitOfWork) AssertAllExpectations(t mock.TestingT) {
	m.AssertExpectations(t)
	m.accountRepo.AssertExpectations(t)
	m.redemptionCodeRepo.AssertExpectations(t)
	m.balanceHistoryRepo.AssertExpectations(t)
	m.gameRoundRepo.AssertExpectations(t)
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// scriptedRand replays fixed values and then repeats the last one
type scriptedRand struct {
	mu     sync.Mutex
	values []int
	calls  int
}

func newScriptedRand(values ...int) *scriptedRand {
	return &scriptedRand{values: values}
}

func (r *scriptedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.calls
	if idx >= len(r.values) {
		idx = len(r.values) - 1
	}
	r.calls++
	return r.values[idx] % n
}
