package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"employee-service/internal/apperrors"
	"employee-service/internal/events"
	"employee-service/internal/models"
	"employee-service/internal/pagination"
	"employee-service/internal/repository"
)

// PerformanceGate decides whether performance records may change right now
type PerformanceGate interface {
	EnsurePerformanceUnlocked(ctx context.Context) error
}

// EmployeeService is the resource scoping layer. Every operation runs the
// province access predicate before touching storage, and every single-record
// operation checks that the record belongs to the province in the path.
type EmployeeService struct {
	repo      repository.EmployeeRepository
	gate      PerformanceGate
	publisher events.Publisher
	logger    *logrus.Entry
}

func NewEmployeeService(repo repository.EmployeeRepository, gate PerformanceGate, publisher events.Publisher, logger *logrus.Logger) *EmployeeService {
	return &EmployeeService{
		repo:      repo,
		gate:      gate,
		publisher: publisher,
		logger:    logger.WithField("component", "employee.service"),
	}
}

// EmployeePage is one page of a scoped list
type EmployeePage struct {
	Employees  []models.Employee
	Pagination *models.PaginationInfo
}

func (s *EmployeeService) List(ctx context.Context, identity *models.Identity, provinceID uuid.UUID, filters *models.EmployeeFilters, params pagination.Params) (*EmployeePage, error) {
	if err := AuthorizeProvince(identity, provinceID); err != nil {
		return nil, err
	}

	employees, total, err := s.repo.List(ctx, provinceID, filters, params)
	if err != nil {
		return nil, apperrors.FromStorage(err, "Employee")
	}
	if employees == nil {
		employees = []models.Employee{}
	}

	return &EmployeePage{
		Employees:  employees,
		Pagination: pagination.Meta(params, total),
	}, nil
}

func (s *EmployeeService) Get(ctx context.Context, identity *models.Identity, provinceID, employeeID uuid.UUID) (*models.Employee, error) {
	if err := AuthorizeProvince(identity, provinceID); err != nil {
		return nil, err
	}
	return s.loadMember(ctx, provinceID, employeeID)
}

// Create persists a new employee of provinceID. Any province named in the
// payload is discarded in favour of the path value.
func (s *EmployeeService) Create(ctx context.Context, identity *models.Identity, provinceID uuid.UUID, req *models.CreateEmployeeRequest) (*models.Employee, error) {
	if err := AuthorizeProvince(identity, provinceID); err != nil {
		return nil, err
	}

	actor := identity.ID
	employee := &models.Employee{
		ProvinceID:               provinceID,
		BasicInfo:                req.BasicInfo,
		WorkPlace:                req.WorkPlace,
		AdditionalSpecifications: datatypes.JSONMap(req.AdditionalSpecifications),
		Performance:              datatypes.JSONSlice[models.PerformanceRecord](req.Performance),
		CreatedBy:                &actor,
		UpdatedBy:                &actor,
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, apperrors.FromStorage(err, "Employee")
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"province_id": provinceID,
		"user_id":     identity.ID,
	}).Info("Employee created")
	s.publish(ctx, identity, events.EmployeeCreated, employee.ID, provinceID, nil)

	return employee, nil
}

// Update applies a top-level partial update. The province can never change;
// a patch touching performance must pass the performance-lock gate.
func (s *EmployeeService) Update(ctx context.Context, identity *models.Identity, provinceID, employeeID uuid.UUID, req *models.UpdateEmployeeRequest) (*models.Employee, error) {
	if err := AuthorizeProvince(identity, provinceID); err != nil {
		return nil, err
	}

	if req.ProvinceID != nil {
		if requested := NormalizeID(req.ProvinceID); requested != provinceID.String() {
			return nil, apperrors.NewProvinceImmutable(provinceID.String(), requested)
		}
	}

	employee, err := s.loadMember(ctx, provinceID, employeeID)
	if err != nil {
		return nil, err
	}

	if req.TouchesPerformance() {
		if err := s.gate.EnsurePerformanceUnlocked(ctx); err != nil {
			return nil, err
		}
	}

	changed := applyUpdate(employee, req)
	actor := identity.ID
	employee.UpdatedBy = &actor

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, apperrors.FromStorage(err, "Employee")
	}

	s.publish(ctx, identity, events.EmployeeUpdated, employee.ID, provinceID, map[string]interface{}{"fields": changed})

	return employee, nil
}

func (s *EmployeeService) Delete(ctx context.Context, identity *models.Identity, provinceID, employeeID uuid.UUID) (*models.DeleteConfirmation, error) {
	if err := AuthorizeProvince(identity, provinceID); err != nil {
		return nil, err
	}

	if _, err := s.loadMember(ctx, provinceID, employeeID); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, provinceID, employeeID); err != nil {
		return nil, apperrors.FromStorage(err, "Employee")
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"province_id": provinceID,
		"user_id":     identity.ID,
	}).Info("Employee deleted")
	s.publish(ctx, identity, events.EmployeeDeleted, employeeID, provinceID, nil)

	return &models.DeleteConfirmation{ID: employeeID.String(), Deleted: true}, nil
}

// ResetPerformance clears the performance records of an employee
func (s *EmployeeService) ResetPerformance(ctx context.Context, identity *models.Identity, provinceID, employeeID uuid.UUID) (*models.Employee, error) {
	if err := AuthorizeProvince(identity, provinceID); err != nil {
		return nil, err
	}

	if _, err := s.loadMember(ctx, provinceID, employeeID); err != nil {
		return nil, err
	}

	if err := s.gate.EnsurePerformanceUnlocked(ctx); err != nil {
		return nil, err
	}

	employee, err := s.repo.ResetPerformance(ctx, provinceID, employeeID, identity.ID)
	if err != nil {
		return nil, apperrors.FromStorage(err, "Employee")
	}

	s.publish(ctx, identity, events.EmployeePerformanceReset, employeeID, provinceID, nil)

	return employee, nil
}

// Export streams every employee of the province matching filters to fn
func (s *EmployeeService) Export(ctx context.Context, identity *models.Identity, provinceID uuid.UUID, filters *models.EmployeeFilters, fn func(batch []models.Employee) error) error {
	if err := AuthorizeProvince(identity, provinceID); err != nil {
		return err
	}

	if err := s.repo.ListAll(ctx, provinceID, filters, fn); err != nil {
		return apperrors.FromStorage(err, "Employee")
	}
	return nil
}

// loadMember fetches an employee and checks it belongs to provinceID
func (s *EmployeeService) loadMember(ctx context.Context, provinceID, employeeID uuid.UUID) (*models.Employee, error) {
	employee, err := s.repo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, apperrors.FromStorage(err, "Employee")
	}

	if NormalizeID(employee.ProvinceID) != NormalizeID(provinceID) {
		return nil, apperrors.NewWrongProvince(employeeID.String(), provinceID.String())
	}

	return employee, nil
}

// applyUpdate replaces every sub-record present in req and reports which ones changed
func applyUpdate(employee *models.Employee, req *models.UpdateEmployeeRequest) []string {
	changed := []string{}
	if req.BasicInfo != nil {
		employee.BasicInfo = *req.BasicInfo
		if employee.BasicInfo.Status == "" {
			employee.BasicInfo.Status = models.StatusActive
		}
		changed = append(changed, "basicInfo")
	}
	if req.WorkPlace != nil {
		employee.WorkPlace = *req.WorkPlace
		changed = append(changed, "workPlace")
	}
	if req.AdditionalSpecifications != nil {
		employee.AdditionalSpecifications = datatypes.JSONMap(req.AdditionalSpecifications)
		changed = append(changed, "additionalSpecifications")
	}
	if req.Performance != nil {
		employee.Performance = datatypes.JSONSlice[models.PerformanceRecord](*req.Performance)
		changed = append(changed, "performance")
	}
	return changed
}

func (s *EmployeeService) publish(ctx context.Context, identity *models.Identity, eventType string, employeeID, provinceID uuid.UUID, data map[string]interface{}) {
	event := events.NewEvent(eventType, identity.ID, identity.Role.String())
	event.EmployeeID = employeeID.String()
	event.ProvinceID = provinceID.String()
	event.Data = data
	s.publisher.Publish(ctx, event)
}
