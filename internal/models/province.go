package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Province is an administrative partition of employees and the unit of access scoping.
// Provinces are created by seeding.
type Province struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string     `json:"name" gorm:"not null;uniqueIndex"`
	AdminID   *uuid.UUID `json:"adminId,omitempty" gorm:"type:uuid;uniqueIndex"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	// EmployeeIDs is derived from employees.province_id when the province is loaded
	EmployeeIDs []uuid.UUID `json:"employeeIds" gorm:"-"`
}

func (Province) TableName() string {
	return "provinces"
}

func (p *Province) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// GetID exposes the province identifier to reference normalization
func (p *Province) GetID() string {
	if p == nil {
		return ""
	}
	return p.ID.String()
}

// ProvinceSummary is the list view of a province
type ProvinceSummary struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	AdminID       *uuid.UUID `json:"adminId,omitempty"`
	EmployeeCount int64      `json:"employeeCount"`
}
