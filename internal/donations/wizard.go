package donations

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/relieffund/relieffund-backend/internal/payments"
	"github.com/relieffund/relieffund-backend/pkg/enums"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/logger"
)

// State is the full wizard position for one donation session. Callers get
// copies; only the wizard mutates it.
type State struct {
	CampaignID       int64                 `json:"campaignId"`
	DisasterID       string                `json:"disasterId"`
	Step             enums.DonationStep    `json:"step"`
	Amount           decimal.Decimal       `json:"amount"`
	WalletAddress    string                `json:"walletAddress"`
	PaymentMethod    enums.PaymentMethod   `json:"paymentMethod"`
	Token            enums.TokenSymbol     `json:"token"`
	PaymentReference string                `json:"paymentReference,omitempty"`
	TransactionID    string                `json:"transactionId,omitempty"`
	Error            string                `json:"error,omitempty"`
}

// Wizard drives one donation session through amount, confirm, processing and
// success. Transitions are strictly sequential: a submit or complete call
// that arrives while another is still resolving is rejected, it is never
// queued.
type Wizard struct {
	mu    sync.Mutex
	state State
	busy  bool

	initiator        payments.Initiator
	invoker          payments.CommandInvoker
	confirmer        payments.Confirmer
	recipientAddress string
	logg             *logger.Logger
}

// WizardParams collects everything a new session needs.
type WizardParams struct {
	CampaignID       int64
	DisasterID       string
	WalletAddress    string
	RecipientAddress string
	Initiator        payments.Initiator
	Invoker          payments.CommandInvoker
	Confirmer        payments.Confirmer
	Logger           *logger.Logger
}

// NewWizard opens a session at the amount step.
func NewWizard(params WizardParams) (*Wizard, error) {
	if params.Initiator == nil {
		return nil, fmt.Errorf("initiator required")
	}
	if params.Invoker == nil {
		return nil, fmt.Errorf("command invoker required")
	}
	if params.Confirmer == nil {
		return nil, fmt.Errorf("confirmer required")
	}
	if params.CampaignID <= 0 {
		return nil, fmt.Errorf("campaign id required")
	}
	return &Wizard{
		state: State{
			CampaignID:    params.CampaignID,
			DisasterID:    params.DisasterID,
			WalletAddress: params.WalletAddress,
			Step:          enums.DonationStepAmount,
			PaymentMethod: enums.PaymentMethodExternalWallet,
			Token:         enums.DefaultTokenSymbol,
		},
		initiator:        params.Initiator,
		invoker:          params.Invoker,
		confirmer:        params.Confirmer,
		recipientAddress: params.RecipientAddress,
		logg:             params.Logger,
	}, nil
}

// State returns a copy of the current session state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// SetAmount records the chosen amount and advances amount to confirm.
func (w *Wizard) SetAmount(amount decimal.Decimal, walletAddress string) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Step != enums.DonationStepAmount {
		return w.state, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot set amount at step %s", w.state.Step))
	}
	if !amount.IsPositive() {
		return w.state, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}

	w.state.Amount = amount
	if walletAddress != "" {
		w.state.WalletAddress = walletAddress
	}
	w.state.Error = ""
	w.state.Step = enums.DonationStepConfirm
	return w.state, nil
}

// Submit initiates the payment and hands the command to the external wallet,
// advancing confirm to processing. When the wallet bridge is unreachable the
// session stays at confirm with a wallet-unavailable error.
func (w *Wizard) Submit(ctx context.Context, method enums.PaymentMethod, token enums.TokenSymbol) (State, error) {
	w.mu.Lock()
	if w.busy {
		state := w.state
		w.mu.Unlock()
		return state, pkgerrors.New(pkgerrors.CodeStateConflict, "a submission is already in flight")
	}
	if w.state.Step != enums.DonationStepConfirm {
		state := w.state
		w.mu.Unlock()
		return state, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot submit at step %s", w.state.Step))
	}
	if !w.state.Amount.IsPositive() {
		state := w.state
		w.mu.Unlock()
		return state, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	if method != "" {
		if !method.IsValid() {
			state := w.state
			w.mu.Unlock()
			return state, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", method))
		}
		w.state.PaymentMethod = method
	}
	if token != "" {
		if !token.IsValid() {
			state := w.state
			w.mu.Unlock()
			return state, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid token %q", token))
		}
		w.state.Token = token
	}

	w.busy = true
	details := payments.InitiationDetails{
		CampaignID:    w.state.CampaignID,
		DisasterID:    w.state.DisasterID,
		WalletAddress: w.state.WalletAddress,
		Amount:        w.state.Amount,
		Token:         w.state.Token,
	}
	command := payments.PaymentCommand{
		RecipientAddress: w.recipientAddress,
		Tokens: []payments.TokenAmount{{
			Symbol: w.state.Token,
			Amount: w.state.Amount,
		}},
		Description: fmt.Sprintf("donation to campaign %d", w.state.CampaignID),
	}
	w.mu.Unlock()
	defer w.clearBusy()

	reference, err := w.initiator.Initiate(ctx, details)
	if err != nil {
		return w.fail(enums.DonationStepConfirm, "Payment could not be started"), err
	}

	command.Reference = reference
	if _, err := w.invoker.Invoke(ctx, command); err != nil {
		message := "Payment could not be started"
		if pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
			message = "Wallet unavailable"
		}
		return w.fail(enums.DonationStepConfirm, message), err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.PaymentReference = reference
	w.state.Error = ""
	w.state.Step = enums.DonationStepProcessing
	return w.state, nil
}

// Complete feeds the wallet's result through the confirmation service. On
// success the session reaches its terminal step; any rejection regresses it
// to confirm with a human-readable error and no transaction id.
func (w *Wizard) Complete(ctx context.Context, result payments.WalletResult) (State, error) {
	w.mu.Lock()
	if w.busy {
		state := w.state
		w.mu.Unlock()
		return state, pkgerrors.New(pkgerrors.CodeStateConflict, "a confirmation is already in flight")
	}
	if w.state.Step != enums.DonationStepProcessing {
		state := w.state
		w.mu.Unlock()
		return state, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot complete at step %s", w.state.Step))
	}
	reference := w.state.PaymentReference
	w.busy = true
	w.mu.Unlock()
	defer w.clearBusy()

	confirmation, err := w.confirmer.Confirm(ctx, result, reference)
	if err != nil {
		return w.fail(enums.DonationStepConfirm, failureMessage(err)), err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.TransactionID = confirmation.TransactionID
	w.state.Error = ""
	w.state.Step = enums.DonationStepSuccess
	return w.state, nil
}

// Reset returns the session to the amount step with session defaults. While
// a submit or complete is still resolving the reset is refused, otherwise the
// resuming call would advance a freshly cleared session.
func (w *Wizard) Reset() (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return w.state, pkgerrors.New(pkgerrors.CodeStateConflict, "a submission is still resolving")
	}
	w.state.Step = enums.DonationStepAmount
	w.state.Amount = decimal.Zero
	w.state.PaymentMethod = enums.PaymentMethodExternalWallet
	w.state.Token = enums.DefaultTokenSymbol
	w.state.PaymentReference = ""
	w.state.TransactionID = ""
	w.state.Error = ""
	return w.state, nil
}

func (w *Wizard) fail(step enums.DonationStep, message string) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Step = step
	w.state.Error = message
	return w.state
}

func (w *Wizard) clearBusy() {
	w.mu.Lock()
	w.busy = false
	w.mu.Unlock()
}

func failureMessage(err error) string {
	switch pkgerrors.CodeOf(err) {
	case pkgerrors.CodePaymentRejected:
		return "Payment failed or was canceled by user"
	case pkgerrors.CodeForbidden:
		return "Payment reference mismatch"
	case pkgerrors.CodeNotFound:
		return "Payment session expired"
	case pkgerrors.CodeDependency:
		return "Payment service unavailable"
	default:
		return "Payment could not be completed"
	}
}
