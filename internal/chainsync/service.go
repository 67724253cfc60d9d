package chainsync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/relieffund/relieffund-backend/pkg/db/models"
	"github.com/relieffund/relieffund-backend/pkg/enums"
	"github.com/relieffund/relieffund-backend/pkg/logger"
)

type disasterWriter interface {
	Upsert(ctx context.Context, disaster *models.Disaster) error
}

type campaignWriter interface {
	Upsert(ctx context.Context, campaign *models.Campaign) error
}

// Service mirrors the on-chain registries into the local database. A sync
// error on one row does not stop the remaining rows.
type Service struct {
	reader    Reader
	disasters disasterWriter
	campaigns campaignWriter
	logg      *logger.Logger
}

// NewService wires the chain reader and the registry repositories.
func NewService(reader Reader, disasters disasterWriter, campaigns campaignWriter, logg *logger.Logger) (*Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("chain reader is required")
	}
	if disasters == nil || campaigns == nil {
		return nil, fmt.Errorf("disaster and campaign repositories are required")
	}
	return &Service{
		reader:    reader,
		disasters: disasters,
		campaigns: campaigns,
		logg:      logg,
	}, nil
}

// SyncOnce pulls both registries and upserts every row, returning the
// combined row-level errors.
func (s *Service) SyncOnce(ctx context.Context) error {
	chainDisasters, err := s.reader.Disasters(ctx)
	if err != nil {
		return fmt.Errorf("read disasters: %w", err)
	}

	now := time.Now().UTC()
	var errs error
	for _, entry := range chainDisasters {
		if err := s.disasters.Upsert(ctx, disasterModel(entry, now)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("upsert disaster %s: %w", entry.ID, err))
			continue
		}

		chainCampaigns, err := s.reader.Campaigns(ctx, entry.ID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("read campaigns for %s: %w", entry.ID, err))
			continue
		}
		for _, campaign := range chainCampaigns {
			if err := s.campaigns.Upsert(ctx, campaignModel(campaign, now)); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("upsert campaign %d: %w", campaign.ID, err))
			}
		}
	}

	if s.logg != nil {
		fields := map[string]any{"disasters": len(chainDisasters)}
		if errs != nil {
			fields["errors"] = len(multierr.Errors(errs))
		}
		s.logg.Info(s.logg.WithFields(ctx, fields), "chain sync completed")
	}
	return errs
}

// Run blocks until the context is cancelled, syncing immediately and then
// once per interval.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if err := s.SyncOnce(ctx); err != nil && s.logg != nil {
		s.logg.Error(ctx, "chain sync failed", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SyncOnce(ctx); err != nil && s.logg != nil {
				s.logg.Error(ctx, "chain sync failed", err)
			}
		}
	}
}

func disasterModel(entry ChainDisaster, syncedAt time.Time) *models.Disaster {
	severity, err := enums.ParseDisasterSeverity(entry.Severity)
	if err != nil {
		severity = enums.DisasterSeverityMedium
	}
	return &models.Disaster{
		ID:          entry.ID,
		Name:        entry.Name,
		Description: entry.Description,
		Severity:    severity,
		Latitude:    entry.Latitude,
		Longitude:   entry.Longitude,
		SyncedAt:    syncedAt,
	}
}

func campaignModel(entry ChainCampaign, syncedAt time.Time) *models.Campaign {
	status := enums.CampaignStatusClosed
	if entry.Active {
		status = enums.CampaignStatusActive
	}
	return &models.Campaign{
		ID:               entry.ID,
		DisasterID:       entry.DisasterID,
		Title:            entry.Title,
		Description:      entry.Description,
		RecipientAddress: entry.RecipientAddress,
		Goal:             entry.Goal,
		Raised:           entry.Raised,
		Status:           status,
		SyncedAt:         syncedAt,
	}
}
