// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"employee-service/internal/config"
	"employee-service/internal/events"
	"employee-service/internal/models"
)

// NewDB opens a migrated in-memory SQLite database that lives for the test
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))

	return db
}

// SeedProvince inserts a province with the given name
func SeedProvince(t *testing.T, db *gorm.DB, name string) *models.Province {
	t.Helper()
	p := &models.Province{Name: name}
	require.NoError(t, db.WithContext(context.Background()).Create(p).Error)
	return p
}

// SeedEmployee inserts an employee of provinceID. nationalID must be unique per database.
func SeedEmployee(t *testing.T, db *gorm.DB, provinceID uuid.UUID, firstName, lastName, nationalID string) *models.Employee {
	t.Helper()
	now := time.Now()
	e := &models.Employee{
		ProvinceID: provinceID,
		BasicInfo: models.BasicInfo{
			FirstName:  firstName,
			LastName:   lastName,
			NationalID: nationalID,
			Gender:     models.GenderMale,
			Status:     models.StatusActive,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

// Identity builders
func GlobalAdmin() *models.Identity {
	return &models.Identity{ID: uuid.NewString(), Role: models.RoleGlobalAdmin}
}

func ProvinceAdmin(provinceID uuid.UUID) *models.Identity {
	return &models.Identity{ID: uuid.NewString(), Role: models.RoleProvinceAdmin, ProvinceID: provinceID.String()}
}

// RecordingPublisher collects published events
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []events.Event
}

func (p *RecordingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
}

func (p *RecordingPublisher) IsConnected() bool { return true }

func (p *RecordingPublisher) Close() {}

// Types returns the published event types in order
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		out = append(out, e.Type)
	}
	return out
}
