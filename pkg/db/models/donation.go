package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/relieffund/relieffund-backend/pkg/enums"
)

// Donation is a settled donation. Rows are written exactly once, when a
// pending payment is confirmed; the unique reference enforces that.
type Donation struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	CampaignID    int64             `gorm:"column:campaign_id;not null;index"`
	DisasterID    string            `gorm:"column:disaster_id;type:text;not null"`
	WalletAddress string            `gorm:"column:wallet_address;type:text;not null"`
	Amount        decimal.Decimal   `gorm:"column:amount;type:numeric(20,6);not null"`
	Token         enums.TokenSymbol `gorm:"column:token;type:text;not null"`
	Reference     string            `gorm:"column:reference;type:text;not null;uniqueIndex"`
	TransactionID string            `gorm:"column:transaction_id;type:text;not null"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
}
