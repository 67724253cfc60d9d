package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/relieffund/relieffund-backend/api/responses"
	"github.com/relieffund/relieffund-backend/api/validators"
	"github.com/relieffund/relieffund-backend/internal/disasters"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/logger"
	"github.com/relieffund/relieffund-backend/pkg/pagination"
)

type disasterService interface {
	GetByID(ctx context.Context, id string) (*disasters.DisasterDTO, error)
	List(ctx context.Context, limit int) ([]disasters.DisasterDTO, error)
}

// DisasterList returns active disasters ordered by severity.
func DisasterList(svc disasterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "disaster service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// DisasterGet returns a single disaster by its chain identifier.
func DisasterGet(svc disasterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "disaster service unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "disasterId"))
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "disaster id is required"))
			return
		}

		disaster, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, disaster)
	}
}
