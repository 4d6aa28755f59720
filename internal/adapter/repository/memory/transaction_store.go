package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iho/bachatbox/internal/domain"
)

// TransactionStore implements usecase.TransactionStore in process memory.
// Each caller keeps at most maxPerUser transactions, newest first; a caller
// untouched for longer than ttl is dropped. Contents are lost on restart.
type TransactionStore struct {
	users      map[string]*userLog
	now        func() time.Time
	mu         sync.RWMutex
	maxPerUser int
	ttl        time.Duration
}

type userLog struct {
	touched time.Time
	txs     []*domain.Transaction
}

// NewTransactionStore creates a new TransactionStore. A zero ttl disables expiry.
func NewTransactionStore(maxPerUser int, ttl time.Duration) *TransactionStore {
	if maxPerUser <= 0 {
		maxPerUser = 1
	}

	return &TransactionStore{
		users:      make(map[string]*userLog),
		now:        time.Now,
		maxPerUser: maxPerUser,
		ttl:        ttl,
	}
}

// Append stores tx as the caller's newest transaction.
func (s *TransactionStore) Append(ctx context.Context, userID string, tx *domain.Transaction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.live(userID)
	if log == nil {
		log = &userLog{}
		s.users[userID] = log
	}

	log.txs = append([]*domain.Transaction{tx}, log.txs...)
	if len(log.txs) > s.maxPerUser {
		log.txs = log.txs[:s.maxPerUser]
	}
	log.touched = s.now()

	return len(log.txs), nil
}

// List returns up to limit transactions, newest first.
func (s *TransactionStore) List(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.live(userID)
	if log == nil {
		return []*domain.Transaction{}, nil
	}

	n := len(log.txs)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]*domain.Transaction, n)
	copy(out, log.txs[:n])

	return out, nil
}

// Get returns the caller's transaction with the given id.
func (s *TransactionStore) Get(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if log := s.live(userID); log != nil {
		for _, tx := range log.txs {
			if tx.ID == id {
				return tx, nil
			}
		}
	}

	return nil, domain.ErrTransactionNotFound
}

// Delete removes the caller's transaction with the given id.
func (s *TransactionStore) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.live(userID)
	if log == nil {
		return domain.ErrTransactionNotFound
	}

	for i, tx := range log.txs {
		if tx.ID == id {
			log.txs = append(log.txs[:i:i], log.txs[i+1:]...)
			log.touched = s.now()
			return nil
		}
	}

	return domain.ErrTransactionNotFound
}

// Count returns how many transactions the caller has.
func (s *TransactionStore) Count(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if log := s.live(userID); log != nil {
		return len(log.txs), nil
	}

	return 0, nil
}

// Sweep drops every caller whose log has expired and returns how many were dropped.
func (s *TransactionStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for userID, log := range s.users {
		if s.expired(log) {
			delete(s.users, userID)
			dropped++
		}
	}

	return dropped
}

// Run sweeps expired callers every interval until ctx is cancelled.
func (s *TransactionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Ping always succeeds.
func (s *TransactionStore) Ping(ctx context.Context) error {
	return nil
}

// live returns the caller's log unless it is missing or expired. Callers hold mu.
func (s *TransactionStore) live(userID string) *userLog {
	log, ok := s.users[userID]
	if !ok || s.expired(log) {
		return nil
	}

	return log
}

func (s *TransactionStore) expired(log *userLog) bool {
	return s.ttl > 0 && s.now().Sub(log.touched) > s.ttl
}
