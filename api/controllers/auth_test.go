package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/relieffund/relieffund-backend/internal/auth"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
)

type stubAuthService struct {
	nonce    *auth.NonceDTO
	nonceErr error
	token    *auth.TokenDTO
	loginErr error
}

func (s stubAuthService) IssueNonce(_ context.Context, _ string) (*auth.NonceDTO, error) {
	return s.nonce, s.nonceErr
}

func (s stubAuthService) Login(_ context.Context, _, _ string) (*auth.TokenDTO, error) {
	return s.token, s.loginErr
}

func walletHex() string {
	return strings.Repeat("ab", 32)
}

func TestAuthNonceIssuesChallenge(t *testing.T) {
	handler := AuthNonce(stubAuthService{nonce: &auth.NonceDTO{
		Nonce:     strings.Repeat("cd", 32),
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}}, nil)

	body := []byte(`{"wallet_address":"` + walletHex() + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/nonce", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data auth.NonceDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Nonce) != 64 {
		t.Fatalf("expected 64 hex chars got %d", len(envelope.Data.Nonce))
	}
}

func TestAuthNonceRejectsBadWallet(t *testing.T) {
	handler := AuthNonce(stubAuthService{}, nil)

	body := []byte(`{"wallet_address":"not-a-key"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/nonce", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthLoginMintsToken(t *testing.T) {
	handler := AuthLogin(stubAuthService{token: &auth.TokenDTO{
		AccessToken:   "token-1",
		WalletAddress: walletHex(),
	}}, nil)

	body := []byte(`{"wallet_address":"` + walletHex() + `","signature":"` + strings.Repeat("ef", 64) + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data auth.TokenDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "token-1" {
		t.Fatalf("unexpected token %q", envelope.Data.AccessToken)
	}
}

func TestAuthLoginExpiredNonce(t *testing.T) {
	handler := AuthLogin(stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "nonce expired or never issued")}, nil)

	body := []byte(`{"wallet_address":"` + walletHex() + `","signature":"` + strings.Repeat("ef", 64) + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthLoginRejectsShortSignature(t *testing.T) {
	handler := AuthLogin(stubAuthService{}, nil)

	body := []byte(`{"wallet_address":"` + walletHex() + `","signature":"abcd"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
