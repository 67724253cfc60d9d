package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/relieffund/relieffund-backend/pkg/enums"
)

// Campaign mirrors an on-chain relief campaign. Raised totals are incremented
// locally when a donation settles and reconciled by the chain sync job.
type Campaign struct {
	ID               int64                `gorm:"column:id;primaryKey"`
	DisasterID       string               `gorm:"column:disaster_id;type:text;not null;index"`
	Title            string               `gorm:"column:title;type:text;not null"`
	Description      string               `gorm:"column:description;type:text;not null;default:''"`
	RecipientAddress string               `gorm:"column:recipient_address;type:text;not null"`
	Goal             decimal.Decimal      `gorm:"column:goal;type:numeric(20,6);not null"`
	Raised           decimal.Decimal      `gorm:"column:raised;type:numeric(20,6);not null;default:0"`
	Status           enums.CampaignStatus `gorm:"column:status;type:text;not null;default:'active'"`
	SyncedAt         time.Time            `gorm:"column:synced_at"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
