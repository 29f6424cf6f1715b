package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Gender of an employee
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// MaritalStatus of an employee
type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalDivorced MaritalStatus = "divorced"
	MaritalWidowed  MaritalStatus = "widowed"
)

// EmployeeStatus is the employment state of an employee
type EmployeeStatus string

const (
	StatusActive      EmployeeStatus = "active"
	StatusInactive    EmployeeStatus = "inactive"
	StatusRetired     EmployeeStatus = "retired"
	StatusTransferred EmployeeStatus = "transferred"
)

// BasicInfo holds the personal details of an employee
type BasicInfo struct {
	FirstName      string         `json:"firstName" binding:"required,max=100" gorm:"not null"`
	LastName       string         `json:"lastName" binding:"required,max=100" gorm:"not null;index"`
	FatherName     string         `json:"fatherName,omitempty" binding:"max=100"`
	NationalID     string         `json:"nationalId" binding:"required,len=10,numeric" gorm:"not null;uniqueIndex"`
	PersonnelCode  string         `json:"personnelCode,omitempty" binding:"max=32" gorm:"index"`
	Gender         Gender         `json:"gender" binding:"required,oneof=male female"`
	MaritalStatus  MaritalStatus  `json:"maritalStatus,omitempty" binding:"omitempty,oneof=single married divorced widowed"`
	BirthDate      *time.Time     `json:"birthDate,omitempty"`
	PhoneNumber    string         `json:"phoneNumber,omitempty" binding:"max=20"`
	EducationLevel string         `json:"educationLevel,omitempty" binding:"max=64"`
	Status         EmployeeStatus `json:"status,omitempty" binding:"omitempty,oneof=active inactive retired transferred" gorm:"default:active"`
}

// WorkPlace holds where and how the employee works
type WorkPlace struct {
	Office         string     `json:"office,omitempty" binding:"max=200"`
	Department     string     `json:"department,omitempty" binding:"max=200"`
	JobTitle       string     `json:"jobTitle,omitempty" binding:"max=200"`
	EmploymentType string     `json:"employmentType,omitempty" binding:"max=64"`
	HireDate       *time.Time `json:"hireDate,omitempty"`
	TruckDriver    bool       `json:"truckDriver"`
}

// PerformanceRecord is one period of work metrics
type PerformanceRecord struct {
	Year          int     `json:"year" binding:"required,min=1"`
	Month         int     `json:"month" binding:"required,min=1,max=12"`
	WorkingDays   int     `json:"workingDays" binding:"min=0,max=31"`
	OvertimeHours float64 `json:"overtimeHours" binding:"min=0"`
	MissionDays   int     `json:"missionDays" binding:"min=0,max=31"`
	Score         float64 `json:"score" binding:"min=0,max=100"`
	Notes         string  `json:"notes,omitempty" binding:"max=1000"`
}

// Employee is owned by exactly one province. ProvinceID never changes after creation.
type Employee struct {
	ID                       uuid.UUID                             `json:"id" gorm:"type:uuid;primaryKey"`
	ProvinceID               uuid.UUID                             `json:"provinceId" gorm:"type:uuid;not null;index"`
	BasicInfo                BasicInfo                             `json:"basicInfo" gorm:"embedded;embeddedPrefix:basic_"`
	WorkPlace                WorkPlace                             `json:"workPlace" gorm:"embedded;embeddedPrefix:work_"`
	AdditionalSpecifications datatypes.JSONMap                     `json:"additionalSpecifications,omitempty"`
	Performance              datatypes.JSONSlice[PerformanceRecord] `json:"performance,omitempty"`
	CreatedBy                *string                               `json:"createdBy,omitempty"`
	UpdatedBy                *string                               `json:"updatedBy,omitempty"`
	CreatedAt                time.Time                             `json:"createdAt"`
	UpdatedAt                time.Time                             `json:"updatedAt"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// CreateEmployeeRequest is the body of POST /provinces/:provinceId/employees.
// ProvinceID is accepted for client convenience but always replaced by the path value.
type CreateEmployeeRequest struct {
	ProvinceID               interface{}         `json:"provinceId,omitempty"`
	BasicInfo                BasicInfo           `json:"basicInfo" binding:"required"`
	WorkPlace                WorkPlace           `json:"workPlace"`
	AdditionalSpecifications map[string]any      `json:"additionalSpecifications,omitempty"`
	Performance              []PerformanceRecord `json:"performance,omitempty" binding:"omitempty,dive"`
}

// UpdateEmployeeRequest is a top-level partial update: every present sub-record
// replaces the stored one, absent ones are left untouched
type UpdateEmployeeRequest struct {
	ProvinceID               interface{}          `json:"provinceId,omitempty"`
	BasicInfo                *BasicInfo           `json:"basicInfo,omitempty"`
	WorkPlace                *WorkPlace           `json:"workPlace,omitempty"`
	AdditionalSpecifications map[string]any       `json:"additionalSpecifications,omitempty"`
	Performance              *[]PerformanceRecord `json:"performance,omitempty" binding:"omitempty,dive"`
}

// TouchesPerformance reports whether the update changes the performance sub-record
func (r *UpdateEmployeeRequest) TouchesPerformance() bool {
	return r != nil && r.Performance != nil
}

// EmployeeFilters are the optional list constraints. Nil/empty means no constraint.
type EmployeeFilters struct {
	Search        string
	Gender        *Gender
	MaritalStatus *MaritalStatus
	Status        *EmployeeStatus
	TruckDriver   *bool
	SortBy        string
	SortDesc      bool
}
