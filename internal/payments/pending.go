package payments

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/relieffund/relieffund-backend/pkg/enums"
)

// ErrReferenceNotFound is returned by stores when a reference is unknown.
var ErrReferenceNotFound = errors.New("payment reference not found")

// PendingPayment is the server-side record of an initiated-but-unconfirmed
// payment, keyed by its reference token.
type PendingPayment struct {
	Reference     string              `json:"reference"`
	CampaignID    int64               `json:"campaign_id"`
	DisasterID    string              `json:"disaster_id"`
	WalletAddress string              `json:"wallet_address"`
	Amount        decimal.Decimal     `json:"amount"`
	Token         enums.TokenSymbol   `json:"token"`
	Status        enums.PaymentStatus `json:"status"`
	TransactionID string              `json:"transaction_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	SettledAt     *time.Time          `json:"settled_at,omitempty"`
}

// Settled reports whether the payment has already been confirmed.
func (p *PendingPayment) Settled() bool {
	return p != nil && p.Status == enums.PaymentStatusSettled
}

// Store holds pending payment records. Each reference is written exactly once
// at initiation and settled or removed exactly once at confirmation;
// implementations must tolerate concurrent access across sessions.
type Store interface {
	// Put inserts the record under its reference. Overwriting an existing
	// reference is rejected with a conflict, references are never reused.
	Put(ctx context.Context, record PendingPayment) error
	// Get returns a copy of the record or ErrReferenceNotFound.
	Get(ctx context.Context, reference string) (*PendingPayment, error)
	// MarkSettled flips the record to settled with the given transaction id.
	// The returned bool is true when this call performed the settle and false
	// when the record was settled previously; the record is returned either
	// way.
	MarkSettled(ctx context.Context, reference, transactionID string) (*PendingPayment, bool, error)
	// Remove deletes the record. Removing an unknown reference is a no-op.
	Remove(ctx context.Context, reference string) error
}

// Sweepable is implemented by stores that support age-based eviction of
// abandoned entries.
type Sweepable interface {
	Sweep(ctx context.Context, olderThan time.Duration) (int, error)
}
