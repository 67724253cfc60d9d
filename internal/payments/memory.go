package payments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/relieffund/relieffund-backend/pkg/enums"
)

// MemoryStore keeps pending payments in a mutex-guarded map. State is
// process-lifetime only; a restart abandons every pending reference.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]PendingPayment
}

// NewMemoryStore builds an empty in-memory reference store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]PendingPayment)}
}

func (s *MemoryStore) Put(_ context.Context, record PendingPayment) error {
	if record.Reference == "" {
		return fmt.Errorf("reference is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.Reference]; exists {
		return fmt.Errorf("reference %q already exists", record.Reference)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	s.records[record.Reference] = record
	return nil
}

func (s *MemoryStore) Get(_ context.Context, reference string) (*PendingPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[reference]
	if !ok {
		return nil, ErrReferenceNotFound
	}
	copied := record
	return &copied, nil
}

func (s *MemoryStore) MarkSettled(_ context.Context, reference, transactionID string) (*PendingPayment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[reference]
	if !ok {
		return nil, false, ErrReferenceNotFound
	}
	if record.Settled() {
		copied := record
		return &copied, false, nil
	}
	now := time.Now().UTC()
	record.Status = enums.PaymentStatusSettled
	record.TransactionID = transactionID
	record.SettledAt = &now
	s.records[reference] = record
	copied := record
	return &copied, true, nil
}

func (s *MemoryStore) Remove(_ context.Context, reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, reference)
	return nil
}

// Sweep evicts entries older than the given age, settled or not. Settled
// entries are kept around until the sweep so repeated confirmations stay
// idempotent for a grace period.
func (s *MemoryStore) Sweep(_ context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for reference, record := range s.records {
		if record.CreatedAt.Before(cutoff) {
			delete(s.records, reference)
			evicted++
		}
	}
	return evicted, nil
}

// Len reports the number of live records, for tests and readiness probes.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
