package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/relieffund/relieffund-backend/api/responses"
	"github.com/relieffund/relieffund-backend/api/validators"
	"github.com/relieffund/relieffund-backend/internal/auth"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/logger"
)

type authService interface {
	IssueNonce(ctx context.Context, walletAddress string) (*auth.NonceDTO, error)
	Login(ctx context.Context, walletAddress, signatureHex string) (*auth.TokenDTO, error)
}

type nonceRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,hexadecimal,len=64"`
}

// AuthNonce issues a single-use login challenge for the wallet.
func AuthNonce(svc authService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload nonceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		nonce, err := svc.IssueNonce(r.Context(), strings.ToLower(strings.TrimSpace(payload.WalletAddress)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nonce)
	}
}

type loginRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,hexadecimal,len=64"`
	Signature     string `json:"signature" validate:"required,hexadecimal,len=128"`
}

// AuthLogin verifies the signed nonce and mints an access token.
func AuthLogin(svc authService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := svc.Login(r.Context(), strings.ToLower(strings.TrimSpace(payload.WalletAddress)), payload.Signature)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, token)
	}
}
