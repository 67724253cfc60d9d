package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/relieffund/relieffund-backend/api/middleware"
	"github.com/relieffund/relieffund-backend/api/responses"
	"github.com/relieffund/relieffund-backend/api/validators"
	"github.com/relieffund/relieffund-backend/internal/donations"
	"github.com/relieffund/relieffund-backend/internal/payments"
	"github.com/relieffund/relieffund-backend/pkg/enums"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/logger"
	"github.com/relieffund/relieffund-backend/pkg/pagination"
)

// DonationController groups the wizard session endpoints. Sessions only
// open against campaigns that are still accepting donations, so the
// campaign service rides along.
type DonationController struct {
	Sessions         *donations.SessionManager
	Campaigns        campaignService
	Donations        donationQueries
	RecipientAddress string
	Logg             *logger.Logger
}

type donationQueries interface {
	GetByReference(ctx context.Context, reference string) (*donations.DonationDTO, error)
	ListByCampaign(ctx context.Context, campaignID int64, params pagination.Params) (*donations.DonationFeedDTO, error)
}

func (c *DonationController) wizardFromRequest(r *http.Request) (*donations.Wizard, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "sessionId"))
	if raw == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session id")
	}
	return c.Sessions.Get(id)
}

type createSessionRequest struct {
	CampaignID int64  `json:"campaign_id" validate:"required,gt=0"`
	DisasterID string `json:"disaster_id,omitempty"`
}

type sessionResponse struct {
	SessionID uuid.UUID       `json:"session_id"`
	State     donations.State `json:"state"`
}

// Create opens a donation wizard session for a campaign.
func (c *DonationController) Create(w http.ResponseWriter, r *http.Request) {
	var payload createSessionRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	campaign, err := c.Campaigns.GetDonatable(r.Context(), payload.CampaignID)
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	disasterID := strings.TrimSpace(payload.DisasterID)
	if disasterID == "" {
		disasterID = campaign.DisasterID
	}

	recipient := strings.TrimSpace(campaign.RecipientAddress)
	if recipient == "" {
		recipient = c.RecipientAddress
	}

	id, wizard, err := c.Sessions.Create(donations.SessionDetails{
		CampaignID:       campaign.ID,
		DisasterID:       disasterID,
		WalletAddress:    middleware.WalletFromContext(r.Context()),
		RecipientAddress: recipient,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	responses.WriteSuccessStatus(w, http.StatusCreated, sessionResponse{SessionID: id, State: wizard.State()})
}

// State returns the current wizard state for a session.
func (c *DonationController) State(w http.ResponseWriter, r *http.Request) {
	wizard, err := c.wizardFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}
	responses.WriteSuccess(w, wizard.State())
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// SetAmount records the donation amount and advances to the confirm step.
func (c *DonationController) SetAmount(w http.ResponseWriter, r *http.Request) {
	wizard, err := c.wizardFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	var payload amountRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	state, err := wizard.SetAmount(payload.Amount, middleware.WalletFromContext(r.Context()))
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	responses.WriteSuccess(w, state)
}

type submitRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=standard external_wallet"`
	Token         string `json:"token,omitempty" validate:"omitempty,oneof=USDC RLF"`
}

// Submit confirms the donation and hands a payment command to the wallet.
func (c *DonationController) Submit(w http.ResponseWriter, r *http.Request) {
	wizard, err := c.wizardFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	var payload submitRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
		return
	}

	token := enums.DefaultTokenSymbol
	if payload.Token != "" {
		token, err = enums.ParseTokenSymbol(payload.Token)
		if err != nil {
			responses.WriteError(r.Context(), c.Logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid token"))
			return
		}
	}

	state, err := wizard.Submit(r.Context(), method, token)
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	responses.WriteSuccess(w, state)
}

type completeRequest struct {
	Reference     string `json:"reference" validate:"required"`
	TransactionID string `json:"transaction_id,omitempty"`
	Status        string `json:"status" validate:"required,oneof=success failed cancelled"`
}

// Complete feeds the wallet's reported result back into the wizard. On
// failure the regressed wizard state is attached as error details for the
// authenticated session owner; whether it reaches the response body follows
// the per-code details gating, so a PAYMENT_REJECTED response carries the
// state while a FORBIDDEN one strips it.
func (c *DonationController) Complete(w http.ResponseWriter, r *http.Request) {
	wizard, err := c.wizardFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	var payload completeRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	status, err := enums.ParseWalletResultStatus(payload.Status)
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
		return
	}

	state, err := wizard.Complete(r.Context(), payments.WalletResult{
		Reference:     payload.Reference,
		TransactionID: payload.TransactionID,
		Status:        status,
	})
	if err != nil {
		// The wizard already regressed itself; surface the failed state
		// alongside the error code so clients can re-render the step.
		if typed := pkgerrors.As(err); typed != nil {
			typed = typed.WithDetails(state)
			responses.WriteError(r.Context(), c.Logg, w, typed)
			return
		}
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	responses.WriteSuccess(w, state)
}

// Reset clears the wizard back to the amount step.
func (c *DonationController) Reset(w http.ResponseWriter, r *http.Request) {
	wizard, err := c.wizardFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}
	state, err := wizard.Reset()
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}
	responses.WriteSuccess(w, state)
}

// Delete drops the session entirely.
func (c *DonationController) Delete(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(chi.URLParam(r, "sessionId"))
	if raw == "" {
		responses.WriteError(r.Context(), c.Logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id is required"))
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session id"))
		return
	}

	c.Sessions.Delete(id)
	responses.WriteSuccess(w, nil)
}

// Feed returns the settled donations for a campaign, newest first.
func (c *DonationController) Feed(w http.ResponseWriter, r *http.Request) {
	campaignID, err := campaignIDParam(r, "campaignId")
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	feed, err := c.Donations.ListByCampaign(r.Context(), campaignID, pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	})
	if err != nil {
		responses.WriteError(r.Context(), c.Logg, w, err)
		return
	}

	responses.WriteSuccess(w, feed)
}
