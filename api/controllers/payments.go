package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/relieffund/relieffund-backend/api/middleware"
	"github.com/relieffund/relieffund-backend/api/responses"
	"github.com/relieffund/relieffund-backend/api/validators"
	"github.com/relieffund/relieffund-backend/internal/payments"
	"github.com/relieffund/relieffund-backend/pkg/enums"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/logger"
)

// PaymentController exposes the reference lifecycle directly, for callers
// that drive the wallet themselves instead of going through the wizard.
type PaymentController struct {
	Initiator payments.Initiator
	Confirmer payments.Confirmer
	Donations donationQueries
	Logg      *logger.Logger
}

type initiateRequest struct {
	CampaignID int64           `json:"campaign_id" validate:"required,gt=0"`
	DisasterID string          `json:"disaster_id,omitempty"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
	Token      string          `json:"token,omitempty" validate:"omitempty,oneof=USDC RLF"`
}

type initiateResponse struct {
	Reference string `json:"reference"`
}

// Initiate opens a pending payment and returns its reference.
func (c *PaymentController) Initiate(w http.ResponseWriter, r *http.Request) {
	var payload initiateRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	token := enums.DefaultTokenSymbol
	if payload.Token != "" {
		parsed, err := enums.ParseTokenSymbol(payload.Token)
		if err != nil {
			responses.WriteError(r.Context(), c.Logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid token"))
			return
		}
		token = parsed
	}

	reference, err := c.Initiator.Initiate(r.Context(), payments.InitiationDetails{
		CampaignID:    payload.CampaignID,
		DisasterID:    strings.TrimSpace(payload.DisasterID),
		WalletAddress: middleware.WalletFromContext(r.Context()),
		Amount:        payload.Amount,
		Token:         token,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	responses.WriteSuccessStatus(w, http.StatusCreated, initiateResponse{Reference: reference})
}

type walletResultPayload struct {
	Reference     string `json:"reference" validate:"required,hexadecimal,len=32"`
	TransactionID string `json:"transaction_id,omitempty"`
	Status        string `json:"status" validate:"required,oneof=success failed cancelled"`
}

type confirmRequest struct {
	Payload    walletResultPayload `json:"payload" validate:"required"`
	Reference  string              `json:"reference" validate:"required,hexadecimal,len=32"`
	CampaignID int64               `json:"campaign_id,omitempty"`
	Amount     decimal.Decimal     `json:"amount,omitempty"`
	Token      string              `json:"token,omitempty" validate:"omitempty,oneof=USDC RLF"`
}

type confirmResponse struct {
	TransactionID    string `json:"transaction_id"`
	AlreadyConfirmed bool   `json:"already_confirmed"`
}

// Confirm settles the pending payment. The wallet's result rides in payload;
// the top-level reference is the one the caller kept from initiation and is
// compared against the payload's, so a forged result cannot settle a
// different reference. Campaign, amount and token are advisory context, the
// pending record is authoritative.
func (c *PaymentController) Confirm(w http.ResponseWriter, r *http.Request) {
	var payload confirmRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	status, err := enums.ParseWalletResultStatus(payload.Payload.Status)
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
		return
	}

	confirmation, err := c.Confirmer.Confirm(r.Context(), payments.WalletResult{
		Reference:     payload.Payload.Reference,
		TransactionID: payload.Payload.TransactionID,
		Status:        status,
	}, payload.Reference)
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	responses.WriteSuccess(w, confirmResponse{
		TransactionID:    confirmation.TransactionID,
		AlreadyConfirmed: confirmation.AlreadyConfirmed,
	})
}

// DonationByReference resolves a settled donation from a payment reference.
func (c *PaymentController) DonationByReference(w http.ResponseWriter, r *http.Request) {
	reference := strings.TrimSpace(r.URL.Query().Get("reference"))
	if reference == "" {
		responses.WriteError(r.Context(), c.Logg, w, pkgerrors.New(pkgerrors.CodeValidation, "reference is required"))
		return
	}

	donation, err := c.Donations.GetByReference(r.Context(), reference)
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	responses.WriteSuccess(w, donation)
}
