package service

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"
	"time"

	"cyanbot/events"
	"cyanbot/models"
)

// memoryStore is an in-memory UnitOfWorkFactory. Writes are staged per unit of work
// and applied on Commit. It takes no row locks, so any serialization observed in
// tests comes from the ledger itself.
type memoryStore struct {
	mu            sync.Mutex
	accounts      map[string]*models.Account
	codes         map[string]*models.RedemptionCode
	redemptions   map[string]map[string]bool
	history       []*models.BalanceHistory
	rounds        []*models.GameRound
	events        []events.Event
	nextAccountID int64
	nextHistoryID int64
	nextRoundID   int64

	// failUpdates makes every UpdateBalance return an error
	failUpdates bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		accounts:    make(map[string]*models.Account),
		codes:       make(map[string]*models.RedemptionCode),
		redemptions: make(map[string]map[string]bool),
	}
}

func (s *memoryStore) Create() UnitOfWork {
	return &memoryUnitOfWork{store: s}
}

func (s *memoryStore) balance(userID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account, ok := s.accounts[userID]; ok {
		return account.Balance
	}
	return 0
}

func (s *memoryStore) code(code string) *models.RedemptionCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *s.codes[code]
	return &c
}

func (s *memoryStore) historyFor(userID string) []*models.BalanceHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []*models.BalanceHistory
	for _, h := range s.history {
		if h.UserID == userID {
			entries = append(entries, h)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

type memoryUnitOfWork struct {
	store   *memoryStore
	begun   bool
	pending []func(s *memoryStore)
	events  []events.Event
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.begun = true
	return nil
}

func (u *memoryUnitOfWork) Commit() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	for _, apply := range u.pending {
		apply(u.store)
	}
	u.store.events = append(u.store.events, u.events...)
	u.pending = nil
	u.events = nil
	u.begun = false
	return nil
}

func (u *memoryUnitOfWork) Rollback() error {
	u.pending = nil
	u.events = nil
	u.begun = false
	return nil
}

func (u *memoryUnitOfWork) stage(apply func(s *memoryStore)) {
	u.pending = append(u.pending, apply)
}

func (u *memoryUnitOfWork) AccountRepository() AccountRepository {
	return &memoryAccountRepository{uow: u}
}

func (u *memoryUnitOfWork) RedemptionCodeRepository() RedemptionCodeRepository {
	return &memoryRedemptionCodeRepository{uow: u}
}

func (u *memoryUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository {
	return &memoryBalanceHistoryRepository{uow: u}
}

func (u *memoryUnitOfWork) GameRoundRepository() GameRoundRepository {
	return &memoryGameRoundRepository{uow: u}
}

func (u *memoryUnitOfWork) EventBus() EventPublisher {
	return u
}

func (u *memoryUnitOfWork) Publish(event events.Event) {
	u.events = append(u.events, event)
}

type memoryAccountRepository struct {
	uow *memoryUnitOfWork
}

func (r *memoryAccountRepository) GetOrCreateForUpdate(ctx context.Context, userID string, startingBalance int64) (*models.Account, bool, error) {
	s := r.uow.store
	s.mu.Lock()
	existing, ok := s.accounts[userID]
	var account models.Account
	if ok {
		account = *existing
	} else {
		s.nextAccountID++
		now := time.Now()
		account = models.Account{
			ID:        s.nextAccountID,
			UserID:    userID,
			Balance:   startingBalance,
			CreatedAt: now,
			UpdatedAt: now,
		}
		created := account
		r.uow.stage(func(s *memoryStore) {
			if _, exists := s.accounts[userID]; !exists {
				s.accounts[userID] = &created
			}
		})
	}
	s.mu.Unlock()

	// Widen the window between read and write so unserialized callers would collide
	runtime.Gosched()

	return &account, !ok, nil
}

func (r *memoryAccountRepository) UpdateBalance(ctx context.Context, userID string, newBalance int64) error {
	r.uow.store.mu.Lock()
	fail := r.uow.store.failUpdates
	r.uow.store.mu.Unlock()
	if fail {
		return errors.New("simulated storage failure")
	}

	r.uow.stage(func(s *memoryStore) {
		s.accounts[userID].Balance = newBalance
		s.accounts[userID].UpdatedAt = time.Now()
	})
	return nil
}

func (r *memoryAccountRepository) UpdateDailyClaim(ctx context.Context, userID string, newBalance int64, claimedAt time.Time) error {
	r.uow.stage(func(s *memoryStore) {
		s.accounts[userID].Balance = newBalance
		claimed := claimedAt
		s.accounts[userID].LastDailyClaim = &claimed
	})
	return nil
}

func (r *memoryAccountRepository) GetTopByBalance(ctx context.Context, limit int) ([]*models.Account, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]*models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		copied := *account
		accounts = append(accounts, &copied)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Balance != accounts[j].Balance {
			return accounts[i].Balance > accounts[j].Balance
		}
		return accounts[i].ID < accounts[j].ID
	})
	if len(accounts) > limit {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

type memoryRedemptionCodeRepository struct {
	uow *memoryUnitOfWork
}

func (r *memoryRedemptionCodeRepository) Create(ctx context.Context, code *models.RedemptionCode) error {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.codes[code.Code]; exists {
		return ErrDuplicateCode
	}
	stored := *code
	stored.CreatedAt = time.Now()
	r.uow.stage(func(s *memoryStore) {
		s.codes[stored.Code] = &stored
	})
	return nil
}

func (r *memoryRedemptionCodeRepository) GetByCodeForUpdate(ctx context.Context, code string) (*models.RedemptionCode, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.codes[code]
	if !ok {
		return nil, nil
	}
	copied := *stored
	return &copied, nil
}

func (r *memoryRedemptionCodeRepository) HasRedeemed(ctx context.Context, code, userID string) (bool, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redemptions[code][userID], nil
}

func (r *memoryRedemptionCodeRepository) RecordRedemption(ctx context.Context, code, userID string) (int, error) {
	s := r.uow.store
	s.mu.Lock()
	remaining := s.codes[code].UsesRemaining - 1
	s.mu.Unlock()

	r.uow.stage(func(s *memoryStore) {
		s.codes[code].UsesRemaining--
		if s.redemptions[code] == nil {
			s.redemptions[code] = make(map[string]bool)
		}
		s.redemptions[code][userID] = true
	})
	return remaining, nil
}

type memoryBalanceHistoryRepository struct {
	uow *memoryUnitOfWork
}

func (r *memoryBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	s := r.uow.store
	s.mu.Lock()
	s.nextHistoryID++
	history.ID = s.nextHistoryID
	s.mu.Unlock()

	history.CreatedAt = time.Now()
	stored := *history
	r.uow.stage(func(s *memoryStore) {
		s.history = append(s.history, &stored)
	})
	return nil
}

func (r *memoryBalanceHistoryRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error) {
	entries := r.uow.store.historyFor(userID)
	// newest first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

type memoryGameRoundRepository struct {
	uow *memoryUnitOfWork
}

func (r *memoryGameRoundRepository) Create(ctx context.Context, round *models.GameRound) error {
	s := r.uow.store
	s.mu.Lock()
	s.nextRoundID++
	round.ID = s.nextRoundID
	s.mu.Unlock()

	stored := *round
	r.uow.stage(func(s *memoryStore) {
		s.rounds = append(s.rounds, &stored)
	})
	return nil
}
