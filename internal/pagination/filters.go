package pagination

import (
	"net/url"
	"strconv"
	"strings"

	"employee-service/internal/models"
)

// SortColumns maps the accepted sortBy values to employee columns
var SortColumns = map[string]string{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"firstName":     "basic_first_name",
	"lastName":      "basic_last_name",
	"personnelCode": "basic_personnel_code",
	"hireDate":      "work_hire_date",
}

// ParseEmployeeFilters reads the optional list constraints. Unknown enum values
// and unknown sort fields are ignored rather than rejected.
func ParseEmployeeFilters(query url.Values) models.EmployeeFilters {
	f := models.EmployeeFilters{
		Search:   strings.TrimSpace(query.Get("search")),
		SortDesc: true,
	}

	switch g := models.Gender(query.Get("gender")); g {
	case models.GenderMale, models.GenderFemale:
		f.Gender = &g
	}

	switch m := models.MaritalStatus(query.Get("maritalStatus")); m {
	case models.MaritalSingle, models.MaritalMarried, models.MaritalDivorced, models.MaritalWidowed:
		f.MaritalStatus = &m
	}

	switch s := models.EmployeeStatus(query.Get("status")); s {
	case models.StatusActive, models.StatusInactive, models.StatusRetired, models.StatusTransferred:
		f.Status = &s
	}

	if v := query.Get("truckDriver"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.TruckDriver = &b
		}
	}

	if sortBy := query.Get("sortBy"); sortBy != "" {
		if _, ok := SortColumns[sortBy]; ok {
			f.SortBy = sortBy
		}
	}

	switch strings.ToLower(query.Get("sortOrder")) {
	case "asc":
		f.SortDesc = false
	case "desc":
		f.SortDesc = true
	}

	return f
}

// SortColumn resolves the storage column for a filter, defaulting to creation time
func SortColumn(f models.EmployeeFilters) string {
	if col, ok := SortColumns[f.SortBy]; ok {
		return col
	}
	return "created_at"
}
