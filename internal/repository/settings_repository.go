package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"employee-service/internal/models"
)

type SettingsRepository interface {
	// Get reads the settings row, creating it with defaults when missing
	Get(ctx context.Context) (*models.Settings, error)
	SetPerformanceLocked(ctx context.Context, locked bool, updatedBy string) (*models.Settings, error)
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	settings := models.Settings{ID: models.SettingsRowID}
	err := r.db.WithContext(ctx).
		Where(models.Settings{ID: models.SettingsRowID}).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SetPerformanceLocked upserts the settings row. Concurrent writers are last-write-wins.
func (r *settingsRepository) SetPerformanceLocked(ctx context.Context, locked bool, updatedBy string) (*models.Settings, error) {
	settings := models.Settings{
		ID:                models.SettingsRowID,
		PerformanceLocked: locked,
		UpdatedBy:         &updatedBy,
		UpdatedAt:         time.Now(),
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"performance_locked", "updated_by", "updated_at"}),
		}).
		Create(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
