package campaigns

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/relieffund/relieffund-backend/pkg/db/models"
	"github.com/relieffund/relieffund-backend/pkg/enums"
)

// CampaignDTO is the public shape of a relief campaign.
type CampaignDTO struct {
	ID               int64                `json:"id"`
	DisasterID       string               `json:"disasterId"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	RecipientAddress string               `json:"recipientAddress"`
	Goal             decimal.Decimal      `json:"goal"`
	Raised           decimal.Decimal      `json:"raised"`
	Status           enums.CampaignStatus `json:"status"`
	SyncedAt         time.Time            `json:"syncedAt"`
}

func toDTO(model models.Campaign) CampaignDTO {
	return CampaignDTO{
		ID:               model.ID,
		DisasterID:       model.DisasterID,
		Title:            model.Title,
		Description:      model.Description,
		RecipientAddress: model.RecipientAddress,
		Goal:             model.Goal,
		Raised:           model.Raised,
		Status:           model.Status,
		SyncedAt:         model.SyncedAt,
	}
}
