package chainsync

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChainDisaster is a disaster registry entry as the chain gateway reports it.
type ChainDisaster struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Severity    string  `json:"severity"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// ChainCampaign is a relief campaign as the chain gateway reports it. Raised
// is the authoritative on-chain total.
type ChainCampaign struct {
	ID               int64           `json:"id"`
	DisasterID       string          `json:"disasterId"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	RecipientAddress string          `json:"recipientAddress"`
	Goal             decimal.Decimal `json:"goal"`
	Raised           decimal.Decimal `json:"raised"`
	Active           bool            `json:"active"`
}

// Reader reads the on-chain disaster and campaign registries.
type Reader interface {
	Disasters(ctx context.Context) ([]ChainDisaster, error)
	Campaigns(ctx context.Context, disasterID string) ([]ChainCampaign, error)
}
