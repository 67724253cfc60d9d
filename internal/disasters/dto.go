package disasters

import (
	"time"

	"github.com/relieffund/relieffund-backend/pkg/db/models"
	"github.com/relieffund/relieffund-backend/pkg/enums"
)

// DisasterDTO is the public shape of an on-chain disaster record.
type DisasterDTO struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Severity    enums.DisasterSeverity `json:"severity"`
	Latitude    float64                `json:"latitude"`
	Longitude   float64                `json:"longitude"`
	SyncedAt    time.Time              `json:"syncedAt"`
}

func toDTO(model models.Disaster) DisasterDTO {
	return DisasterDTO{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Severity:    model.Severity,
		Latitude:    model.Latitude,
		Longitude:   model.Longitude,
		SyncedAt:    model.SyncedAt,
	}
}
