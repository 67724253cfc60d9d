package campaigns

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/relieffund/relieffund-backend/pkg/db/models"
	"github.com/relieffund/relieffund-backend/pkg/enums"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/pagination"
)

type campaignRepo interface {
	FindByID(ctx context.Context, id int64) (*models.Campaign, error)
	ListByDisaster(ctx context.Context, disasterID string, limit int) ([]models.Campaign, error)
}

// Service serves read access to the synced campaign registry.
type Service struct {
	repo campaignRepo
}

// NewService wires the campaign repository into the service.
func NewService(repo campaignRepo) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("campaign repository is required")
	}
	return &Service{repo: repo}, nil
}

// GetByID returns one campaign.
func (s *Service) GetByID(ctx context.Context, id int64) (*CampaignDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}
	campaign, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load campaign")
	}
	dto := toDTO(*campaign)
	return &dto, nil
}

// GetDonatable returns the campaign when it can still accept donations.
func (s *Service) GetDonatable(ctx context.Context, id int64) (*CampaignDTO, error) {
	dto, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.Status != enums.CampaignStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "campaign is closed")
	}
	return dto, nil
}

// ListByDisaster returns a disaster's campaigns.
func (s *Service) ListByDisaster(ctx context.Context, disasterID string, limit int) ([]CampaignDTO, error) {
	if strings.TrimSpace(disasterID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "disaster id is required")
	}
	rows, err := s.repo.ListByDisaster(ctx, disasterID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list campaigns")
	}
	dtos := make([]CampaignDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toDTO(row))
	}
	return dtos, nil
}
