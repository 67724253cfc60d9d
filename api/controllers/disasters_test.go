package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/relieffund/relieffund-backend/internal/campaigns"
	"github.com/relieffund/relieffund-backend/internal/disasters"
	"github.com/relieffund/relieffund-backend/pkg/enums"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
)

type stubDisasterService struct {
	dto  *disasters.DisasterDTO
	list []disasters.DisasterDTO
	err  error
}

func (s stubDisasterService) GetByID(_ context.Context, _ string) (*disasters.DisasterDTO, error) {
	return s.dto, s.err
}

func (s stubDisasterService) List(_ context.Context, _ int) ([]disasters.DisasterDTO, error) {
	return s.list, s.err
}

func TestDisasterListReturnsRows(t *testing.T) {
	handler := DisasterList(stubDisasterService{list: []disasters.DisasterDTO{
		{ID: "quake-2026", Name: "Coastal Earthquake", Severity: enums.DisasterSeverityCritical},
		{ID: "flood-2026", Name: "River Flood", Severity: enums.DisasterSeverityHigh},
	}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/disasters?limit=10", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data []disasters.DisasterDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 disasters got %d", len(envelope.Data))
	}
	if envelope.Data[0].ID != "quake-2026" {
		t.Fatalf("unexpected first disaster %s", envelope.Data[0].ID)
	}
}

func TestDisasterListRejectsBadLimit(t *testing.T) {
	handler := DisasterList(stubDisasterService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/disasters?limit=abc", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestDisasterGetNotFound(t *testing.T) {
	handler := DisasterGet(stubDisasterService{err: pkgerrors.New(pkgerrors.CodeNotFound, "disaster not found")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/disasters/nope", nil)
	req = withRouteParam(req, "disasterId", "nope")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestDisasterGetMissingID(t *testing.T) {
	handler := DisasterGet(stubDisasterService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/disasters/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCampaignListByDisaster(t *testing.T) {
	handler := CampaignListByDisaster(stubCampaignService{list: []campaigns.CampaignDTO{*donatableCampaign()}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/disasters/quake-2026/campaigns", nil)
	req = withRouteParam(req, "disasterId", "quake-2026")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestCampaignGetInvalidID(t *testing.T) {
	handler := CampaignGet(stubCampaignService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns/-3", nil)
	req = withRouteParam(req, "campaignId", "-3")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCampaignGetReturnsCampaign(t *testing.T) {
	handler := CampaignGet(stubCampaignService{dto: donatableCampaign()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns/7", nil)
	req = withRouteParam(req, "campaignId", "7")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != 7 {
		t.Fatalf("expected campaign 7 got %d", envelope.Data.ID)
	}
}
