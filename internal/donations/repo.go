package donations

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/relieffund/relieffund-backend/pkg/db/models"
	"github.com/relieffund/relieffund-backend/pkg/pagination"
)

// Repository handles donation persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to donation operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateSettled inserts the donation row and bumps the campaign's raised
// total in one transaction. The unique reference index turns a double insert
// into an error instead of a double count.
func (r *Repository) CreateSettled(ctx context.Context, donation *models.Donation) error {
	if donation == nil {
		return fmt.Errorf("donation is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(donation).Error; err != nil {
			return err
		}
		result := tx.Model(&models.Campaign{}).
			Where("id = ?", donation.CampaignID).
			Update("raised", gorm.Expr("raised + ?", donation.Amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("campaign %d not found", donation.CampaignID)
		}
		return nil
	})
}

// FindByReference loads a settled donation by its payment reference.
func (r *Repository) FindByReference(ctx context.Context, reference string) (*models.Donation, error) {
	var donation models.Donation
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// ListByCampaign returns one page of a campaign's donations, newest first.
// The extra row beyond limit signals the next page to the caller.
func (r *Repository) ListByCampaign(ctx context.Context, campaignID int64, limit int, cursor *pagination.Cursor) ([]models.Donation, error) {
	query := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Donation
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
