package payments

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/relieffund/relieffund-backend/pkg/enums"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/logger"
	"github.com/relieffund/relieffund-backend/pkg/metrics"
)

const referenceBytes = 16

// InitiationDetails carries what the caller already knows about the payment
// being opened. A zero value is accepted, wallet-bridge callers that only
// want a reference get a placeholder record.
type InitiationDetails struct {
	CampaignID    int64
	DisasterID    string
	WalletAddress string
	Amount        decimal.Decimal
	Token         enums.TokenSymbol
}

// Initiator issues payment references.
type Initiator interface {
	Initiate(ctx context.Context, details InitiationDetails) (string, error)
}

// InitiationService creates pending payment records keyed by fresh
// unpredictable reference tokens.
type InitiationService struct {
	store   Store
	metrics *metrics.PaymentMetrics
	logg    *logger.Logger
}

// NewInitiationService wires the reference store into an initiator.
func NewInitiationService(store Store, m *metrics.PaymentMetrics, logg *logger.Logger) (*InitiationService, error) {
	if store == nil {
		return nil, fmt.Errorf("reference store required")
	}
	return &InitiationService{store: store, metrics: m, logg: logg}, nil
}

// Initiate generates a reference, records the pending payment, and returns
// the reference. Exactly one entry is added to the store per call.
func (s *InitiationService) Initiate(ctx context.Context, details InitiationDetails) (string, error) {
	if details.Token != "" && !details.Token.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid token %q", details.Token))
	}
	if details.Amount.IsNegative() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative")
	}

	reference, err := newReference()
	if err != nil {
		// Token generation failure is fatal for this call, never retried.
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate payment reference")
	}

	token := details.Token
	if token == "" {
		token = enums.DefaultTokenSymbol
	}

	record := PendingPayment{
		Reference:     reference,
		CampaignID:    details.CampaignID,
		DisasterID:    details.DisasterID,
		WalletAddress: details.WalletAddress,
		Amount:        details.Amount,
		Token:         token,
		Status:        enums.PaymentStatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.Put(ctx, record); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record pending payment")
	}

	s.metrics.IncInitiated()
	if s.logg != nil {
		s.logg.Info(s.logg.WithReference(ctx, reference), "payment initiated")
	}
	return reference, nil
}

func newReference() (string, error) {
	buf := make([]byte, referenceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading randomness: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
