package donations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/relieffund/relieffund-backend/internal/payments"
	"github.com/relieffund/relieffund-backend/pkg/db/models"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/logger"
	"github.com/relieffund/relieffund-backend/pkg/pagination"
)

type donationRepo interface {
	CreateSettled(ctx context.Context, donation *models.Donation) error
	FindByReference(ctx context.Context, reference string) (*models.Donation, error)
	ListByCampaign(ctx context.Context, campaignID int64, limit int, cursor *pagination.Cursor) ([]models.Donation, error)
}

// Service persists settled donations and serves the public donation feed.
type Service struct {
	repo donationRepo
	logg *logger.Logger
}

// NewService wires the donation repository into the service.
func NewService(repo donationRepo, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("donation repository is required")
	}
	return &Service{repo: repo, logg: logg}, nil
}

// RecordSettlement writes the donation row for a confirmed payment and bumps
// the campaign total. A reference that was already recorded is treated as
// done, so a replayed confirmation cannot double count.
func (s *Service) RecordSettlement(ctx context.Context, payment payments.PendingPayment) error {
	donation := &models.Donation{
		ID:            uuid.New(),
		CampaignID:    payment.CampaignID,
		DisasterID:    payment.DisasterID,
		WalletAddress: payment.WalletAddress,
		Amount:        payment.Amount,
		Token:         payment.Token,
		Reference:     payment.Reference,
		TransactionID: payment.TransactionID,
	}

	if err := s.repo.CreateSettled(ctx, donation); err != nil {
		if existing, lookupErr := s.repo.FindByReference(ctx, payment.Reference); lookupErr == nil && existing != nil {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithReference(ctx, payment.Reference), "settlement already recorded")
			}
			return nil
		}
		return err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithReference(ctx, payment.Reference), "donation recorded")
	}
	return nil
}

// GetByReference returns the settled donation for a payment reference.
func (s *Service) GetByReference(ctx context.Context, reference string) (*DonationDTO, error) {
	donation, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "donation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load donation")
	}
	dto := toDonationDTO(*donation)
	return &dto, nil
}

// ListByCampaign returns one page of a campaign's donation feed.
func (s *Service) ListByCampaign(ctx context.Context, campaignID int64, params pagination.Params) (*DonationFeedDTO, error) {
	if campaignID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListByCampaign(ctx, campaignID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list donations")
	}

	feed := &DonationFeedDTO{Donations: make([]DonationDTO, 0, limit)}
	for i, row := range rows {
		if i == limit {
			last := rows[limit-1]
			feed.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
			break
		}
		feed.Donations = append(feed.Donations, toDonationDTO(row))
	}
	return feed, nil
}
