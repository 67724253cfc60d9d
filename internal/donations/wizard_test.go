package donations

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/relieffund/relieffund-backend/internal/payments"
	"github.com/relieffund/relieffund-backend/pkg/enums"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
)

type stubInvoker struct {
	mu       sync.Mutex
	err      error
	commands []payments.PaymentCommand
	started  chan struct{}
	block    chan struct{}
}

func (s *stubInvoker) Invoke(_ context.Context, command payments.PaymentCommand) (*payments.Invocation, error) {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.commands = append(s.commands, command)
	return &payments.Invocation{CommandID: "cmd-1", Reference: command.Reference}, nil
}

func (s *stubInvoker) lastCommand(t *testing.T) payments.PaymentCommand {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.commands) == 0 {
		t.Fatal("no command was invoked")
	}
	return s.commands[len(s.commands)-1]
}

func wizardFixture(t *testing.T, invoker payments.CommandInvoker) (*Wizard, *payments.MemoryStore) {
	t.Helper()
	store := payments.NewMemoryStore()
	initiator, err := payments.NewInitiationService(store, nil, nil)
	if err != nil {
		t.Fatalf("new initiator: %v", err)
	}
	confirmer, err := payments.NewConfirmationService(payments.ConfirmationParams{Store: store})
	if err != nil {
		t.Fatalf("new confirmer: %v", err)
	}
	wizard, err := NewWizard(WizardParams{
		CampaignID:       11,
		DisasterID:       "dst-1",
		WalletAddress:    "donor-wallet",
		RecipientAddress: "relief-treasury",
		Initiator:        initiator,
		Invoker:          invoker,
		Confirmer:        confirmer,
	})
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}
	return wizard, store
}

func advanceToProcessing(t *testing.T, wizard *Wizard) State {
	t.Helper()
	if _, err := wizard.SetAmount(decimal.RequireFromString("25"), ""); err != nil {
		t.Fatalf("set amount: %v", err)
	}
	state, err := wizard.Submit(context.Background(), enums.PaymentMethodExternalWallet, enums.TokenUSDC)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return state
}

func TestWizardOpensAtAmountStep(t *testing.T) {
	wizard, _ := wizardFixture(t, &stubInvoker{})
	state := wizard.State()
	if state.Step != enums.DonationStepAmount {
		t.Fatalf("expected amount step got %s", state.Step)
	}
	if state.Token != enums.DefaultTokenSymbol {
		t.Fatalf("expected default token got %s", state.Token)
	}
}

func TestWizardSetAmountAdvancesToConfirm(t *testing.T) {
	wizard, _ := wizardFixture(t, &stubInvoker{})

	state, err := wizard.SetAmount(decimal.RequireFromString("10"), "other-wallet")
	if err != nil {
		t.Fatalf("set amount: %v", err)
	}
	if state.Step != enums.DonationStepConfirm {
		t.Fatalf("expected confirm step got %s", state.Step)
	}
	if state.WalletAddress != "other-wallet" {
		t.Fatalf("expected wallet recorded, got %s", state.WalletAddress)
	}
}

func TestWizardSetAmountRejectsNonPositive(t *testing.T) {
	wizard, _ := wizardFixture(t, &stubInvoker{})
	_, err := wizard.SetAmount(decimal.Zero, "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
	if wizard.State().Step != enums.DonationStepAmount {
		t.Fatal("failed amount must not advance the step")
	}
}

func TestWizardSubmitOutOfOrder(t *testing.T) {
	wizard, _ := wizardFixture(t, &stubInvoker{})
	_, err := wizard.Submit(context.Background(), "", "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestWizardSubmitAdvancesToProcessing(t *testing.T) {
	invoker := &stubInvoker{}
	wizard, store := wizardFixture(t, invoker)

	state := advanceToProcessing(t, wizard)
	if state.Step != enums.DonationStepProcessing {
		t.Fatalf("expected processing step got %s", state.Step)
	}
	if state.PaymentReference == "" {
		t.Fatal("expected a payment reference")
	}

	command := invoker.lastCommand(t)
	if command.Reference != state.PaymentReference {
		t.Fatalf("command reference %q must match session reference %q", command.Reference, state.PaymentReference)
	}
	if command.RecipientAddress != "relief-treasury" {
		t.Fatalf("unexpected recipient %s", command.RecipientAddress)
	}

	record, err := store.Get(context.Background(), state.PaymentReference)
	if err != nil {
		t.Fatalf("pending record: %v", err)
	}
	if !record.Amount.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("pending amount mismatch: %s", record.Amount)
	}
}

func TestWizardStaysAtConfirmWhenWalletUnavailable(t *testing.T) {
	invoker := &stubInvoker{err: pkgerrors.New(pkgerrors.CodeDependency, "wallet bridge unavailable")}
	wizard, _ := wizardFixture(t, invoker)

	if _, err := wizard.SetAmount(decimal.RequireFromString("25"), ""); err != nil {
		t.Fatalf("set amount: %v", err)
	}
	state, err := wizard.Submit(context.Background(), "", "")
	if err == nil {
		t.Fatal("expected submit to fail")
	}
	if state.Step != enums.DonationStepConfirm {
		t.Fatalf("wizard must stay at confirm, got %s", state.Step)
	}
	if state.Error != "Wallet unavailable" {
		t.Fatalf("expected wallet unavailable error, got %q", state.Error)
	}
}

func TestWizardCompleteReachesSuccess(t *testing.T) {
	wizard, _ := wizardFixture(t, &stubInvoker{})
	state := advanceToProcessing(t, wizard)

	result := payments.WalletResult{
		Reference:     state.PaymentReference,
		TransactionID: "0xdead",
		Status:        enums.WalletResultSuccess,
	}
	final, err := wizard.Complete(context.Background(), result)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if final.Step != enums.DonationStepSuccess {
		t.Fatalf("expected success step got %s", final.Step)
	}
	if final.TransactionID != "0xdead" {
		t.Fatalf("expected transaction id recorded, got %q", final.TransactionID)
	}
	if final.Error != "" {
		t.Fatalf("expected no error, got %q", final.Error)
	}
}

func TestWizardCompleteRejectsTamperedReference(t *testing.T) {
	wizard, _ := wizardFixture(t, &stubInvoker{})
	advanceToProcessing(t, wizard)

	result := payments.WalletResult{
		Reference:     "zzz999",
		TransactionID: "0xdead",
		Status:        enums.WalletResultSuccess,
	}
	state, err := wizard.Complete(context.Background(), result)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", err)
	}
	if state.Step != enums.DonationStepConfirm {
		t.Fatalf("wizard must regress to confirm, got %s", state.Step)
	}
	if state.Error == "" {
		t.Fatal("expected a non-empty error message")
	}
	if state.TransactionID != "" {
		t.Fatalf("transaction id must stay unset, got %q", state.TransactionID)
	}
}

func TestWizardCompleteHandlesCancelledPayment(t *testing.T) {
	wizard, _ := wizardFixture(t, &stubInvoker{})
	state := advanceToProcessing(t, wizard)

	result := payments.WalletResult{
		Reference: state.PaymentReference,
		Status:    enums.WalletResultCancelled,
	}
	after, err := wizard.Complete(context.Background(), result)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodePaymentRejected {
		t.Fatalf("expected payment rejected code, got %v", err)
	}
	if after.Step != enums.DonationStepConfirm {
		t.Fatalf("wizard must regress to confirm, got %s", after.Step)
	}
	if after.Error != "Payment failed or was canceled by user" {
		t.Fatalf("unexpected error message %q", after.Error)
	}
	if after.TransactionID != "" {
		t.Fatalf("transaction id must stay unset, got %q", after.TransactionID)
	}
}

func TestWizardRetryAfterFailureSucceeds(t *testing.T) {
	wizard, _ := wizardFixture(t, &stubInvoker{})
	state := advanceToProcessing(t, wizard)

	failed := payments.WalletResult{
		Reference: state.PaymentReference,
		Status:    enums.WalletResultFailed,
	}
	if _, err := wizard.Complete(context.Background(), failed); err == nil {
		t.Fatal("expected failed result to error")
	}

	state, err := wizard.Submit(context.Background(), "", "")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if state.Step != enums.DonationStepProcessing {
		t.Fatalf("expected processing after retry, got %s", state.Step)
	}

	success := payments.WalletResult{
		Reference:     state.PaymentReference,
		TransactionID: "0xbeef",
		Status:        enums.WalletResultSuccess,
	}
	final, err := wizard.Complete(context.Background(), success)
	if err != nil {
		t.Fatalf("complete after retry: %v", err)
	}
	if final.Step != enums.DonationStepSuccess || final.TransactionID != "0xbeef" {
		t.Fatalf("unexpected final state %+v", final)
	}
}

func TestWizardResetReturnsToAmount(t *testing.T) {
	wizard, _ := wizardFixture(t, &stubInvoker{})
	state := advanceToProcessing(t, wizard)
	if _, err := wizard.Complete(context.Background(), payments.WalletResult{
		Reference:     state.PaymentReference,
		TransactionID: "0xdead",
		Status:        enums.WalletResultSuccess,
	}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	fresh, err := wizard.Reset()
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if fresh.Step != enums.DonationStepAmount {
		t.Fatalf("expected amount step got %s", fresh.Step)
	}
	if !fresh.Amount.IsZero() || fresh.TransactionID != "" || fresh.PaymentReference != "" || fresh.Error != "" {
		t.Fatalf("reset must clear session state, got %+v", fresh)
	}
	if fresh.CampaignID != 11 {
		t.Fatal("reset must keep the campaign binding")
	}
}

func TestWizardRefusesResetWhileSubmitInFlight(t *testing.T) {
	invoker := &stubInvoker{started: make(chan struct{}, 1), block: make(chan struct{})}
	wizard, _ := wizardFixture(t, invoker)
	if _, err := wizard.SetAmount(decimal.RequireFromString("25"), ""); err != nil {
		t.Fatalf("set amount: %v", err)
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := wizard.Submit(context.Background(), "", "")
		firstDone <- err
	}()
	<-invoker.started

	// A reset here would be clobbered when the blocked submit resumes,
	// leaving the session at processing with a zeroed amount.
	_, resetErr := wizard.Reset()
	if !pkgerrors.HasCode(resetErr, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict for reset during submit, got %v", resetErr)
	}

	close(invoker.block)
	if err := <-firstDone; err != nil {
		t.Fatalf("submit: %v", err)
	}
	state := wizard.State()
	if state.Step != enums.DonationStepProcessing {
		t.Fatalf("expected processing, got %s", state.Step)
	}
	if !state.Amount.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("amount must survive the refused reset, got %s", state.Amount)
	}
	if state.PaymentReference == "" {
		t.Fatal("expected the payment reference to be recorded")
	}
}

func TestWizardIgnoresReentrantSubmit(t *testing.T) {
	invoker := &stubInvoker{started: make(chan struct{}, 1), block: make(chan struct{})}
	wizard, _ := wizardFixture(t, invoker)
	if _, err := wizard.SetAmount(decimal.RequireFromString("25"), ""); err != nil {
		t.Fatalf("set amount: %v", err)
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := wizard.Submit(context.Background(), "", "")
		firstDone <- err
	}()
	<-invoker.started

	// The first submit is blocked on the wallet; a second must be rejected.
	_, conflictErr := wizard.Submit(context.Background(), "", "")
	if !pkgerrors.HasCode(conflictErr, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict for re-entrant submit, got %v", conflictErr)
	}

	close(invoker.block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if wizard.State().Step != enums.DonationStepProcessing {
		t.Fatalf("expected processing, got %s", wizard.State().Step)
	}
}
