package services

import (
	"context"

	"github.com/google/uuid"

	"employee-service/internal/apperrors"
	"employee-service/internal/models"
	"employee-service/internal/repository"
)

type ProvinceService struct {
	repo repository.ProvinceRepository
}

func NewProvinceService(repo repository.ProvinceRepository) *ProvinceService {
	return &ProvinceService{repo: repo}
}

// List returns every province with its employee count
func (s *ProvinceService) List(ctx context.Context) ([]models.ProvinceSummary, error) {
	provinces, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.FromStorage(err, "Province")
	}
	return provinces, nil
}

// Get returns one province. Province admins may read their own province only.
func (s *ProvinceService) Get(ctx context.Context, identity *models.Identity, provinceID uuid.UUID) (*models.Province, error) {
	if err := AuthorizeProvince(identity, provinceID); err != nil {
		return nil, err
	}

	province, err := s.repo.GetByID(ctx, provinceID)
	if err != nil {
		return nil, apperrors.FromStorage(err, "Province")
	}
	return province, nil
}
