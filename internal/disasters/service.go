package disasters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/relieffund/relieffund-backend/pkg/db/models"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/pagination"
)

type disasterRepo interface {
	FindByID(ctx context.Context, id string) (*models.Disaster, error)
	List(ctx context.Context, limit int) ([]models.Disaster, error)
}

// Service serves read access to the synced disaster registry.
type Service struct {
	repo disasterRepo
}

// NewService wires the disaster repository into the service.
func NewService(repo disasterRepo) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("disaster repository is required")
	}
	return &Service{repo: repo}, nil
}

// GetByID returns one disaster.
func (s *Service) GetByID(ctx context.Context, id string) (*DisasterDTO, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "disaster id is required")
	}
	disaster, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "disaster not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load disaster")
	}
	dto := toDTO(*disaster)
	return &dto, nil
}

// List returns disasters, most severe first.
func (s *Service) List(ctx context.Context, limit int) ([]DisasterDTO, error) {
	rows, err := s.repo.List(ctx, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list disasters")
	}
	dtos := make([]DisasterDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toDTO(row))
	}
	return dtos, nil
}
