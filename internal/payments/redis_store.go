package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/relieffund/relieffund-backend/pkg/enums"
)

// referenceKV is the slice of the redis client the store needs.
type referenceKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	PaymentReferenceKey(reference string) string
}

// RedisStore keeps pending payments in Redis under a TTL, which doubles as
// the abandoned-reference eviction policy. Each reference has exactly one
// writer at any step of the flow, so read-modify-write on settle is safe.
type RedisStore struct {
	kv  referenceKV
	ttl time.Duration
}

// NewRedisStore builds a reference store on the provided redis client.
func NewRedisStore(kv referenceKV, ttl time.Duration) (*RedisStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("reference ttl must be positive")
	}
	return &RedisStore{kv: kv, ttl: ttl}, nil
}

func (s *RedisStore) Put(ctx context.Context, record PendingPayment) error {
	if record.Reference == "" {
		return fmt.Errorf("reference is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode pending payment: %w", err)
	}
	ok, err := s.kv.SetNX(ctx, s.kv.PaymentReferenceKey(record.Reference), string(payload), s.ttl)
	if err != nil {
		return fmt.Errorf("store pending payment: %w", err)
	}
	if !ok {
		return fmt.Errorf("reference %q already exists", record.Reference)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, reference string) (*PendingPayment, error) {
	raw, err := s.kv.Get(ctx, s.kv.PaymentReferenceKey(reference))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrReferenceNotFound
		}
		return nil, fmt.Errorf("load pending payment: %w", err)
	}
	var record PendingPayment
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("decode pending payment: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) MarkSettled(ctx context.Context, reference, transactionID string) (*PendingPayment, bool, error) {
	record, err := s.Get(ctx, reference)
	if err != nil {
		return nil, false, err
	}
	if record.Settled() {
		return record, false, nil
	}

	now := time.Now().UTC()
	record.Status = enums.PaymentStatusSettled
	record.TransactionID = transactionID
	record.SettledAt = &now

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, false, fmt.Errorf("encode pending payment: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.PaymentReferenceKey(reference), string(payload), s.ttl); err != nil {
		return nil, false, fmt.Errorf("settle pending payment: %w", err)
	}
	return record, true, nil
}

func (s *RedisStore) Remove(ctx context.Context, reference string) error {
	return s.kv.Del(ctx, s.kv.PaymentReferenceKey(reference))
}
