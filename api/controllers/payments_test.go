package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/relieffund/relieffund-backend/internal/donations"
	"github.com/relieffund/relieffund-backend/internal/payments"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestPaymentInitiateReturnsReference(t *testing.T) {
	ctrl := &PaymentController{
		Initiator: stubInitiator{reference: strings.Repeat("ab", 16)},
		Confirmer: stubResultConfirmer{},
		Donations: stubDonationQueries{},
		Logg:      testLogger(),
	}

	body := []byte(`{"campaign_id":7,"amount":"50","token":"USDC"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/initiate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	ctrl.Initiate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	var envelope struct {
		Data initiateResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Reference != strings.Repeat("ab", 16) {
		t.Fatalf("unexpected reference %q", envelope.Data.Reference)
	}
}

func TestPaymentInitiateRequiresAmount(t *testing.T) {
	ctrl := &PaymentController{
		Initiator: stubInitiator{reference: "aa11"},
		Confirmer: stubResultConfirmer{},
		Donations: stubDonationQueries{},
		Logg:      testLogger(),
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/initiate", bytes.NewReader([]byte(`{"campaign_id":7}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	ctrl.Initiate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPaymentInitiateRejectsUnknownToken(t *testing.T) {
	ctrl := &PaymentController{
		Initiator: stubInitiator{reference: "aa11"},
		Confirmer: stubResultConfirmer{},
		Donations: stubDonationQueries{},
		Logg:      testLogger(),
	}

	body := []byte(`{"campaign_id":7,"amount":"50","token":"DOGE"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/initiate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	ctrl.Initiate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPaymentConfirmSettles(t *testing.T) {
	ctrl := &PaymentController{
		Initiator: stubInitiator{},
		Confirmer: stubResultConfirmer{confirmation: &payments.Confirmation{TransactionID: "0xdead"}},
		Donations: stubDonationQueries{},
		Logg:      testLogger(),
	}

	reference := strings.Repeat("ab", 16)
	body := []byte(`{"payload":{"reference":"` + reference + `","transaction_id":"0xdead","status":"success"},"reference":"` + reference + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	ctrl.Confirm(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data confirmResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TransactionID != "0xdead" {
		t.Fatalf("expected transaction 0xdead got %s", envelope.Data.TransactionID)
	}
	if envelope.Data.AlreadyConfirmed {
		t.Fatal("expected first settlement")
	}
}

func TestPaymentConfirmRejected(t *testing.T) {
	ctrl := &PaymentController{
		Initiator: stubInitiator{},
		Confirmer: stubResultConfirmer{err: pkgerrors.New(pkgerrors.CodePaymentRejected, "payment failed or was canceled by user")},
		Donations: stubDonationQueries{},
		Logg:      testLogger(),
	}

	reference := strings.Repeat("ab", 16)
	body := []byte(`{"payload":{"reference":"` + reference + `","status":"cancelled"},"reference":"` + reference + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	ctrl.Confirm(rec, req)

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402 got %d", rec.Code)
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "payment failed or was canceled by user" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestPaymentConfirmRejectsForeignReference(t *testing.T) {
	confirmer, err := payments.NewConfirmationService(payments.ConfirmationParams{Store: payments.NewMemoryStore()})
	if err != nil {
		t.Fatalf("new confirmer: %v", err)
	}
	ctrl := &PaymentController{
		Initiator: stubInitiator{},
		Confirmer: confirmer,
		Donations: stubDonationQueries{},
		Logg:      testLogger(),
	}

	// A wallet result carrying someone else's reference must not settle the
	// reference the caller kept from initiation.
	body := []byte(`{"payload":{"reference":"` + strings.Repeat("cd", 16) + `","transaction_id":"0xdead","status":"success"},"reference":"` + strings.Repeat("ab", 16) + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	ctrl.Confirm(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestPaymentConfirmRequiresPayload(t *testing.T) {
	ctrl := &PaymentController{
		Initiator: stubInitiator{},
		Confirmer: stubResultConfirmer{},
		Donations: stubDonationQueries{},
		Logg:      testLogger(),
	}

	body := []byte(`{"reference":"` + strings.Repeat("ab", 16) + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	ctrl.Confirm(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPaymentConfirmRejectsShortReference(t *testing.T) {
	ctrl := &PaymentController{
		Initiator: stubInitiator{},
		Confirmer: stubResultConfirmer{},
		Donations: stubDonationQueries{},
		Logg:      testLogger(),
	}

	body := []byte(`{"payload":{"reference":"abc","status":"success"},"reference":"abc"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	ctrl.Confirm(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPaymentDonationByReference(t *testing.T) {
	ctrl := &PaymentController{
		Initiator: stubInitiator{},
		Confirmer: stubResultConfirmer{},
		Donations: stubDonationQueries{dto: &donations.DonationDTO{
			CampaignID: 7,
			Amount:     decimal.NewFromInt(50),
		}},
		Logg: testLogger(),
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/donation?reference="+strings.Repeat("ab", 16), nil)
	rec := httptest.NewRecorder()

	ctrl.DonationByReference(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data donations.DonationDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CampaignID != 7 {
		t.Fatalf("expected campaign 7 got %d", envelope.Data.CampaignID)
	}
}

func TestPaymentDonationByReferenceRequiresReference(t *testing.T) {
	ctrl := &PaymentController{
		Initiator: stubInitiator{},
		Confirmer: stubResultConfirmer{},
		Donations: stubDonationQueries{},
		Logg:      testLogger(),
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/donation", nil)
	rec := httptest.NewRecorder()

	ctrl.DonationByReference(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
