package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"employee-service/internal/models"
)

// ErrProvinceHasAdmin is returned when binding a second admin to a province
var ErrProvinceHasAdmin = errors.New("province already has an admin")

type ProvinceRepository interface {
	Create(ctx context.Context, province *models.Province) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Province, error)
	GetByName(ctx context.Context, name string) (*models.Province, error)
	List(ctx context.Context) ([]models.ProvinceSummary, error)
	SetAdmin(ctx context.Context, provinceID, adminID uuid.UUID) error
}

type provinceRepository struct {
	db *gorm.DB
}

func NewProvinceRepository(db *gorm.DB) ProvinceRepository {
	return &provinceRepository{db: db}
}

func (r *provinceRepository) Create(ctx context.Context, province *models.Province) error {
	return r.db.WithContext(ctx).Create(province).Error
}

// GetByID loads the province together with the ids of its employees
func (r *provinceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Province, error) {
	var province models.Province
	db := r.db.WithContext(ctx)
	if err := db.Where("id = ?", id).First(&province).Error; err != nil {
		return nil, err
	}

	province.EmployeeIDs = []uuid.UUID{}
	if err := db.Model(&models.Employee{}).
		Where("province_id = ?", id).
		Order("created_at ASC").
		Pluck("id", &province.EmployeeIDs).Error; err != nil {
		return nil, err
	}

	return &province, nil
}

func (r *provinceRepository) GetByName(ctx context.Context, name string) (*models.Province, error) {
	var province models.Province
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&province).Error; err != nil {
		return nil, err
	}
	return &province, nil
}

func (r *provinceRepository) List(ctx context.Context) ([]models.ProvinceSummary, error) {
	summaries := []models.ProvinceSummary{}
	err := r.db.WithContext(ctx).
		Model(&models.Province{}).
		Select("provinces.id, provinces.name, provinces.admin_id, COUNT(employees.id) AS employee_count").
		Joins("LEFT JOIN employees ON employees.province_id = provinces.id").
		Group("provinces.id, provinces.name, provinces.admin_id").
		Order("provinces.name ASC").
		Scan(&summaries).Error
	return summaries, err
}

// SetAdmin binds adminID to a province that has no admin yet. Rebinding the
// same admin is a no-op.
func (r *provinceRepository) SetAdmin(ctx context.Context, provinceID, adminID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Province{}).
		Where("id = ? AND (admin_id IS NULL OR admin_id = ?)", provinceID, adminID).
		Updates(map[string]interface{}{
			"admin_id":   adminID,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Province{}).Where("id = ?", provinceID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrProvinceHasAdmin
	}
	return nil
}
