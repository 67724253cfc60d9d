package disasters

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/relieffund/relieffund-backend/pkg/db/models"
)

// Repository handles disaster persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to disaster operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a disaster by its chain identifier.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Disaster, error) {
	var disaster models.Disaster
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&disaster).Error; err != nil {
		return nil, err
	}
	return &disaster, nil
}

// List returns disasters ordered most severe first, then newest.
func (r *Repository) List(ctx context.Context, limit int) ([]models.Disaster, error) {
	var rows []models.Disaster
	if err := r.db.WithContext(ctx).
		Order("CASE severity WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert inserts or refreshes a synced disaster row.
func (r *Repository) Upsert(ctx context.Context, disaster *models.Disaster) error {
	if disaster == nil {
		return fmt.Errorf("disaster is required")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "severity", "latitude", "longitude", "synced_at", "updated_at",
			}),
		}).
		Create(disaster).Error
}
