package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"employee-service/internal/models"
	"employee-service/internal/pagination"
)

// exportBatchSize bounds how many rows an export loads per round trip
const exportBatchSize = 500

type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	// GetByID is not province scoped; callers check membership themselves
	GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	List(ctx context.Context, provinceID uuid.UUID, filters *models.EmployeeFilters, params pagination.Params) ([]models.Employee, int64, error)
	ListAll(ctx context.Context, provinceID uuid.UUID, filters *models.EmployeeFilters, fn func(batch []models.Employee) error) error
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, provinceID, id uuid.UUID) error
	ResetPerformance(ctx context.Context, provinceID, id uuid.UUID, updatedBy string) (*models.Employee, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	now := time.Now()
	employee.CreatedAt = now
	employee.UpdatedAt = now
	if employee.BasicInfo.Status == "" {
		employee.BasicInfo.Status = models.StatusActive
	}

	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, provinceID uuid.UUID, filters *models.EmployeeFilters, params pagination.Params) ([]models.Employee, int64, error) {
	var employees []models.Employee
	var total int64

	query := r.scoped(ctx, provinceID, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.ordered(query, filters).
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// ListAll streams every matching employee of a province in batches, in list order
func (r *employeeRepository) ListAll(ctx context.Context, provinceID uuid.UUID, filters *models.EmployeeFilters, fn func(batch []models.Employee) error) error {
	for offset := 0; ; offset += exportBatchSize {
		var batch []models.Employee
		if err := r.ordered(r.scoped(ctx, provinceID, filters), filters).
			Offset(offset).
			Limit(exportBatchSize).
			Find(&batch).Error; err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		if len(batch) < exportBatchSize {
			return nil
		}
	}
}

// Update writes every mutable column of employee. The province and creation
// columns are never part of the statement.
func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(employee).
		Where("province_id = ?", employee.ProvinceID).
		Select("*").
		Omit("id", "province_id", "created_at", "created_by").
		Updates(employee)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, provinceID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND province_id = ?", id, provinceID).
		Delete(&models.Employee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *employeeRepository) ResetPerformance(ctx context.Context, provinceID, id uuid.UUID, updatedBy string) (*models.Employee, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ? AND province_id = ?", id, provinceID).
		Updates(map[string]interface{}{
			"performance": datatypes.JSONSlice[models.PerformanceRecord]{},
			"updated_by":  updatedBy,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// scoped always carries the province constraint; filters narrow it further
func (r *employeeRepository) scoped(ctx context.Context, provinceID uuid.UUID, filters *models.EmployeeFilters) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Employee{}).Where("province_id = ?", provinceID)
	return r.applyFilters(query, filters)
}

func (r *employeeRepository) applyFilters(query *gorm.DB, filters *models.EmployeeFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(filters.Search)) + "%"
		query = query.Where(
			`(LOWER(basic_first_name) LIKE ? ESCAPE '\' OR LOWER(basic_last_name) LIKE ? ESCAPE '\' OR basic_national_id LIKE ? ESCAPE '\' OR LOWER(basic_personnel_code) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern,
		)
	}

	if filters.Gender != nil {
		query = query.Where("basic_gender = ?", *filters.Gender)
	}

	if filters.MaritalStatus != nil {
		query = query.Where("basic_marital_status = ?", *filters.MaritalStatus)
	}

	if filters.Status != nil {
		query = query.Where("basic_status = ?", *filters.Status)
	}

	if filters.TruckDriver != nil {
		query = query.Where("work_truck_driver = ?", *filters.TruckDriver)
	}

	return query
}

// ordered applies the whitelisted sort with id as a tiebreaker so pages are stable
func (r *employeeRepository) ordered(query *gorm.DB, filters *models.EmployeeFilters) *gorm.DB {
	f := models.EmployeeFilters{SortDesc: true}
	if filters != nil {
		f = *filters
	}
	return query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: pagination.SortColumn(f)}, Desc: f.SortDesc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
