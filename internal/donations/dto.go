package donations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/relieffund/relieffund-backend/pkg/db/models"
	"github.com/relieffund/relieffund-backend/pkg/enums"
)

// DonationDTO is the public shape of a settled donation.
type DonationDTO struct {
	ID            uuid.UUID         `json:"id"`
	CampaignID    int64             `json:"campaignId"`
	DisasterID    string            `json:"disasterId"`
	WalletAddress string            `json:"walletAddress"`
	Amount        decimal.Decimal   `json:"amount"`
	Token         enums.TokenSymbol `json:"token"`
	TransactionID string            `json:"transactionId"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// DonationFeedDTO is one page of a campaign's donation feed.
type DonationFeedDTO struct {
	Donations  []DonationDTO `json:"donations"`
	NextCursor string        `json:"nextCursor,omitempty"`
}

func toDonationDTO(model models.Donation) DonationDTO {
	return DonationDTO{
		ID:            model.ID,
		CampaignID:    model.CampaignID,
		DisasterID:    model.DisasterID,
		WalletAddress: maskWallet(model.WalletAddress),
		Amount:        model.Amount,
		Token:         model.Token,
		TransactionID: model.TransactionID,
		CreatedAt:     model.CreatedAt,
	}
}

// maskWallet keeps the first and last four characters of an address so the
// public feed does not expose full donor wallets.
func maskWallet(address string) string {
	if len(address) <= 8 {
		return address
	}
	return address[:4] + "..." + address[len(address)-4:]
}
