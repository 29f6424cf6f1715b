package handlers

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"employee-service/internal/apperrors"
	"employee-service/internal/export"
	"employee-service/internal/middleware"
	"employee-service/internal/models"
	"employee-service/internal/pagination"
	"employee-service/internal/services"
)

// EmployeeHandler serves the province-scoped employee resource. Province access
// is checked by the route group and again by the service, membership by the
// service; handlers only parse and shape.
type EmployeeHandler struct {
	employees *services.EmployeeService
	provinces *services.ProvinceService
	pager     pagination.Parser
}

func NewEmployeeHandler(employees *services.EmployeeService, provinces *services.ProvinceService, pager pagination.Parser) *EmployeeHandler {
	return &EmployeeHandler{
		employees: employees,
		provinces: provinces,
		pager:     pager,
	}
}

// ListEmployees returns one page of the province's employees
// @Summary List employees
// @Tags employees
// @Produce json
// @Param provinceId path string true "Province ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param search query string false "Name, national id or personnel code"
// @Param gender query string false "male or female"
// @Param maritalStatus query string false "single, married, divorced or widowed"
// @Param status query string false "active, inactive, retired or transferred"
// @Param truckDriver query bool false "Truck drivers only"
// @Param sortBy query string false "createdAt, updatedAt, firstName, lastName, personnelCode or hireDate"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} models.Response{data=[]models.Employee}
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Router /provinces/{provinceId}/employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	query := c.Request.URL.Query()
	params := h.pager.Parse(query)
	filters := pagination.ParseEmployeeFilters(query)

	page, err := h.employees.List(c.Request.Context(), identity, middleware.GetProvinceID(c), &filters, params)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success:    true,
		Data:       page.Employees,
		Pagination: page.Pagination,
		Links:      pagination.BuildLinks(c.Request.URL, params, page.Pagination),
	})
}

// GetEmployee returns one employee of the province
// @Summary Get employee
// @Tags employees
// @Produce json
// @Param provinceId path string true "Province ID"
// @Param employeeId path string true "Employee ID"
// @Success 200 {object} models.Response{data=models.Employee}
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /provinces/{provinceId}/employees/{employeeId} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	employeeID, ok := employeeParam(c)
	if !ok {
		return
	}

	employee, err := h.employees.Get(c.Request.Context(), identity, middleware.GetProvinceID(c), employeeID)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(employee))
}

// CreateEmployee adds an employee to the province in the path
// @Summary Create employee
// @Tags employees
// @Accept json
// @Produce json
// @Param provinceId path string true "Province ID"
// @Param request body models.CreateEmployeeRequest true "Employee"
// @Success 201 {object} models.Response{data=models.Employee}
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 409 {object} models.Response
// @Router /provinces/{provinceId}/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req models.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Abort(c, apperrors.FromBinding(err))
		return
	}

	employee, err := h.employees.Create(c.Request.Context(), identity, middleware.GetProvinceID(c), &req)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.OKWithMessage(employee, "Employee created"))
}

// UpdateEmployee replaces the sub-records present in the body
// @Summary Update employee
// @Tags employees
// @Accept json
// @Produce json
// @Param provinceId path string true "Province ID"
// @Param employeeId path string true "Employee ID"
// @Param request body models.UpdateEmployeeRequest true "Partial employee"
// @Success 200 {object} models.Response{data=models.Employee}
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 423 {object} models.Response
// @Router /provinces/{provinceId}/employees/{employeeId} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	employeeID, ok := employeeParam(c)
	if !ok {
		return
	}

	var req models.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Abort(c, apperrors.FromBinding(err))
		return
	}

	employee, err := h.employees.Update(c.Request.Context(), identity, middleware.GetProvinceID(c), employeeID, &req)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OKWithMessage(employee, "Employee updated"))
}

// DeleteEmployee removes an employee of the province
// @Summary Delete employee
// @Tags employees
// @Produce json
// @Param provinceId path string true "Province ID"
// @Param employeeId path string true "Employee ID"
// @Success 200 {object} models.Response{data=models.DeleteConfirmation}
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /provinces/{provinceId}/employees/{employeeId} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	employeeID, ok := employeeParam(c)
	if !ok {
		return
	}

	confirmation, err := h.employees.Delete(c.Request.Context(), identity, middleware.GetProvinceID(c), employeeID)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OKWithMessage(confirmation, "Employee deleted"))
}

// ResetPerformance clears the employee's performance records
// @Summary Reset performance
// @Tags employees
// @Produce json
// @Param provinceId path string true "Province ID"
// @Param employeeId path string true "Employee ID"
// @Success 200 {object} models.Response{data=models.Employee}
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 423 {object} models.Response
// @Router /provinces/{provinceId}/employees/{employeeId}/performance [delete]
func (h *EmployeeHandler) ResetPerformance(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	employeeID, ok := employeeParam(c)
	if !ok {
		return
	}

	employee, err := h.employees.ResetPerformance(c.Request.Context(), identity, middleware.GetProvinceID(c), employeeID)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OKWithMessage(employee, "Performance records reset"))
}

// ExportEmployees downloads the filtered employees of the province
// @Summary Export employees
// @Tags employees
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param provinceId path string true "Province ID"
// @Param format query string false "xlsx or csv" default(xlsx)
// @Success 200 {file} file
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Router /provinces/{provinceId}/employees/export [get]
func (h *EmployeeHandler) ExportEmployees(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	provinceID := middleware.GetProvinceID(c)
	ctx := c.Request.Context()

	format := strings.ToLower(c.DefaultQuery("format", "xlsx"))
	if format != "xlsx" && format != "csv" {
		apperrors.Abort(c, apperrors.NewValidation("Unsupported export format", map[string]interface{}{"format": format}))
		return
	}

	// also authorizes the caller for the province
	province, err := h.provinces.Get(ctx, identity, provinceID)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	filters := pagination.ParseEmployeeFilters(c.Request.URL.Query())
	var buf bytes.Buffer
	var writer export.Writer
	contentType := export.XLSXMime

	if format == "csv" {
		contentType = export.CSVMime
		writer, err = export.NewCSVWriter(&buf)
	} else {
		writer, err = export.NewWorkbook()
	}
	if err != nil {
		apperrors.Abort(c, apperrors.NewInternal(err))
		return
	}
	defer writer.Close()

	if err := h.employees.Export(ctx, identity, provinceID, &filters, writer.Append); err != nil {
		apperrors.Abort(c, err)
		return
	}
	if err := writer.Finish(&buf); err != nil {
		apperrors.Abort(c, apperrors.NewInternal(err))
		return
	}

	filename := export.FileName(province.Name, format, time.Now())
	c.Header("Content-Disposition", export.ContentDisposition(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// employeeParam parses :employeeId, aborting with InvalidIdentifier when malformed
func employeeParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := services.ParseEmployeeID(c.Param("employeeId"))
	if err != nil {
		apperrors.Abort(c, err)
		return uuid.Nil, false
	}
	return id, true
}
