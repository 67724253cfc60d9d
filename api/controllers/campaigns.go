package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/relieffund/relieffund-backend/api/responses"
	"github.com/relieffund/relieffund-backend/api/validators"
	"github.com/relieffund/relieffund-backend/internal/campaigns"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/logger"
	"github.com/relieffund/relieffund-backend/pkg/pagination"
)

type campaignService interface {
	GetByID(ctx context.Context, id int64) (*campaigns.CampaignDTO, error)
	GetDonatable(ctx context.Context, id int64) (*campaigns.CampaignDTO, error)
	ListByDisaster(ctx context.Context, disasterID string, limit int) ([]campaigns.CampaignDTO, error)
}

func campaignIDParam(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "campaign id must be a positive integer")
	}
	return id, nil
}

// CampaignListByDisaster returns the campaigns collecting for a disaster.
func CampaignListByDisaster(svc campaignService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		disasterID := strings.TrimSpace(chi.URLParam(r, "disasterId"))
		if disasterID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "disaster id is required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListByDisaster(r.Context(), disasterID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// CampaignGet returns a single campaign.
func CampaignGet(svc campaignService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		id, err := campaignIDParam(r, "campaignId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaign, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, campaign)
	}
}
