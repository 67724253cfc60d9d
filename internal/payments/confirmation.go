package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/relieffund/relieffund-backend/pkg/enums"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/logger"
	"github.com/relieffund/relieffund-backend/pkg/metrics"
)

// WalletResult is the payload the external wallet reports after the user
// acted on the payment command.
type WalletResult struct {
	Reference     string                   `json:"reference"`
	TransactionID string                   `json:"transactionId"`
	Status        enums.WalletResultStatus `json:"status"`
}

// Confirmation is the outcome of a successful confirm call.
type Confirmation struct {
	TransactionID    string
	AlreadyConfirmed bool
	Payment          *PendingPayment
}

// Verifier cross-checks a reported transaction against the payment
// processor's own ledger. The check is optional; the zero setup trusts the
// wallet-reported status.
type Verifier interface {
	VerifyTransaction(ctx context.Context, transactionID, reference string) error
}

// Recorder persists a settled payment (donation row, campaign totals).
type Recorder interface {
	RecordSettlement(ctx context.Context, payment PendingPayment) error
}

// Confirmer validates wallet results against pending payments.
type Confirmer interface {
	Confirm(ctx context.Context, result WalletResult, expectedReference string) (*Confirmation, error)
}

// ConfirmationService settles pending payments exactly once.
type ConfirmationService struct {
	store    Store
	verifier Verifier
	recorder Recorder
	metrics  *metrics.PaymentMetrics
	logg     *logger.Logger
}

// ConfirmationParams collects the service collaborators.
type ConfirmationParams struct {
	Store    Store
	Verifier Verifier
	Recorder Recorder
	Metrics  *metrics.PaymentMetrics
	Logger   *logger.Logger
}

// NewConfirmationService builds the confirmation service. Verifier and
// Recorder may be nil.
func NewConfirmationService(params ConfirmationParams) (*ConfirmationService, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("reference store required")
	}
	return &ConfirmationService{
		store:    params.Store,
		verifier: params.Verifier,
		recorder: params.Recorder,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

// Confirm checks the wallet result against the expected reference and the
// pending record, settles it, and records the donation. Calling it twice with
// the same valid payload is safe: the second call reports AlreadyConfirmed.
func (s *ConfirmationService) Confirm(ctx context.Context, result WalletResult, expectedReference string) (*Confirmation, error) {
	if expectedReference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expected reference is required")
	}

	// Anti-tampering check: a confirmation is only accepted for the session
	// that initiated it.
	if result.Reference != expectedReference {
		s.metrics.IncRejected("reference_mismatch")
		if s.logg != nil {
			s.logg.Warn(s.logg.WithReference(ctx, expectedReference), "payment reference mismatch rejected")
		}
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "payment reference mismatch")
	}

	if result.Status != enums.WalletResultSuccess {
		s.metrics.IncRejected("transaction_" + result.Status.String())
		return nil, pkgerrors.New(pkgerrors.CodePaymentRejected, "payment failed or was canceled by user")
	}

	record, err := s.store.Get(ctx, expectedReference)
	if err != nil {
		if errors.Is(err, ErrReferenceNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown payment reference")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pending payment")
	}

	if record.Settled() {
		return &Confirmation{
			TransactionID:    record.TransactionID,
			AlreadyConfirmed: true,
			Payment:          record,
		}, nil
	}

	if s.verifier != nil {
		if err := s.verifier.VerifyTransaction(ctx, result.TransactionID, expectedReference); err != nil {
			s.metrics.IncRejected("ledger_verification")
			return nil, pkgerrors.Wrap(pkgerrors.CodePaymentRejected, err, "transaction not found on ledger")
		}
	}

	settled, performed, err := s.store.MarkSettled(ctx, expectedReference, result.TransactionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle pending payment")
	}
	if !performed {
		// Lost a settle race with a concurrent confirm, report the winner's
		// transaction id.
		return &Confirmation{
			TransactionID:    settled.TransactionID,
			AlreadyConfirmed: true,
			Payment:          settled,
		}, nil
	}

	if s.recorder != nil {
		if err := s.recorder.RecordSettlement(ctx, *settled); err != nil {
			if s.logg != nil {
				s.logg.Error(s.logg.WithReference(ctx, expectedReference), "record settlement failed", err)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record settlement")
		}
	}

	s.metrics.IncConfirmed(settled.Token.String())
	if s.logg != nil {
		s.logg.Info(s.logg.WithReference(ctx, expectedReference), "payment confirmed")
	}

	return &Confirmation{
		TransactionID: result.TransactionID,
		Payment:       settled,
	}, nil
}
