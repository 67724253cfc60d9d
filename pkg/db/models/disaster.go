package models

import (
	"time"

	"github.com/relieffund/relieffund-backend/pkg/enums"
)

// Disaster mirrors the on-chain disaster registry entry. The chain identifier
// is the primary key; rows are upserted by the chain sync job.
type Disaster struct {
	ID          string                 `gorm:"column:id;type:text;primaryKey"`
	Name        string                 `gorm:"column:name;type:text;not null"`
	Description string                 `gorm:"column:description;type:text;not null;default:''"`
	Severity    enums.DisasterSeverity `gorm:"column:severity;type:text;not null;default:'medium'"`
	Latitude    float64                `gorm:"column:latitude;not null;default:0"`
	Longitude   float64                `gorm:"column:longitude;not null;default:0"`
	SyncedAt    time.Time              `gorm:"column:synced_at"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
