package campaigns

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/relieffund/relieffund-backend/pkg/db/models"
)

// Repository handles campaign persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to campaign operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a campaign by its chain identifier.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&campaign).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// ListByDisaster returns a disaster's campaigns, active first, newest first.
func (r *Repository) ListByDisaster(ctx context.Context, disasterID string, limit int) ([]models.Campaign, error) {
	var rows []models.Campaign
	if err := r.db.WithContext(ctx).
		Where("disaster_id = ?", disasterID).
		Order("CASE status WHEN 'active' THEN 0 ELSE 1 END").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert inserts or refreshes a synced campaign row. Raised is only taken
// from the chain value, local increments between syncs are overwritten by
// the authoritative total.
func (r *Repository) Upsert(ctx context.Context, campaign *models.Campaign) error {
	if campaign == nil {
		return fmt.Errorf("campaign is required")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"disaster_id", "title", "description", "recipient_address",
				"goal", "raised", "status", "synced_at", "updated_at",
			}),
		}).
		Create(campaign).Error
}
