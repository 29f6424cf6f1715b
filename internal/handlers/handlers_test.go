package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"employee-service/internal/apperrors"
	"employee-service/internal/cache"
	"employee-service/internal/export"
	"employee-service/internal/middleware"
	"employee-service/internal/models"
	"employee-service/internal/pagination"
	"employee-service/internal/repository"
	"employee-service/internal/services"
	"employee-service/internal/testutil"
)

const testCookie = "employee_session"

type apiEnv struct {
	db        *gorm.DB
	router    *gin.Engine
	publisher *testutil.RecordingPublisher
}

func newAPI(t *testing.T, limiter cache.AttemptLimiter) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	db := testutil.NewDB(t)
	publisher := &testutil.RecordingPublisher{}

	settings := services.NewSettingsService(repository.NewSettingsRepository(db), publisher, logger)
	provinces := services.NewProvinceService(repository.NewProvinceRepository(db))
	employees := services.NewEmployeeService(repository.NewEmployeeRepository(db), settings, publisher, logger)
	auth := services.NewAuthService(repository.NewUserRepository(db), repository.NewSessionRepository(db), limiter, time.Hour, logger)

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware(), middleware.ErrorHandler(logger))
	router.NoRoute(middleware.NotFoundHandler())

	health := NewHealthHandler(db, map[string]Pinger{"nats": nil})
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)

	RegisterRoutes(router.Group("/api/v1"), Handlers{
		Auth:      NewAuthHandler(auth, CookieConfig{Name: testCookie}),
		Provinces: NewProvinceHandler(provinces),
		Employees: NewEmployeeHandler(employees, provinces, pagination.NewParser(20, 100)),
		Settings:  NewSettingsHandler(settings),
	}, auth, testCookie)

	return &apiEnv{db: db, router: router, publisher: publisher}
}

func (e *apiEnv) do(method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:1234"
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *apiEnv) createUser(t *testing.T, username, password string, role models.Role, provinceID *uuid.UUID) {
	t.Helper()
	users := repository.NewUserRepository(e.db)
	require.NoError(t, users.Create(context.Background(), &models.User{Username: username, Role: role, ProvinceID: provinceID}, password))
}

func (e *apiEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	w := e.do(http.MethodPost, "/api/v1/auth/login", gin.H{"username": username, "password": password}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatal("login did not set the session cookie")
	return nil
}

type envelope struct {
	Success    bool                   `json:"success"`
	Data       json.RawMessage        `json:"data"`
	Error      string                 `json:"error"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details"`
	Pagination *models.PaginationInfo `json:"pagination"`
	Links      *models.Links          `json:"_links"`
}

func parse(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func employeeBody(nationalID string) gin.H {
	return gin.H{
		"basicInfo": gin.H{
			"firstName":  "Ali",
			"lastName":   "Rahimi",
			"nationalId": nationalID,
			"gender":     "male",
		},
		"workPlace": gin.H{"department": "Roads", "truckDriver": true},
	}
}

// ===========================================
// Scoped employee API
// ===========================================

type EmployeeAPISuite struct {
	suite.Suite
	env    *apiEnv
	tehran *models.Province
	shiraz *models.Province
	global *http.Cookie
	teh    *http.Cookie
}

func TestEmployeeAPISuite(t *testing.T) {
	suite.Run(t, new(EmployeeAPISuite))
}

func (s *EmployeeAPISuite) SetupTest() {
	t := s.T()
	s.env = newAPI(t, nil)
	s.tehran = testutil.SeedProvince(t, s.env.db, "Tehran")
	s.shiraz = testutil.SeedProvince(t, s.env.db, "Shiraz")

	s.env.createUser(t, "root", "rootpass", models.RoleGlobalAdmin, nil)
	s.env.createUser(t, "teh-admin", "tehpass", models.RoleProvinceAdmin, &s.tehran.ID)

	s.global = s.env.login(t, "root", "rootpass")
	s.teh = s.env.login(t, "teh-admin", "tehpass")
}

func (s *EmployeeAPISuite) employeesPath(p *models.Province) string {
	return "/api/v1/provinces/" + p.ID.String() + "/employees"
}

func (s *EmployeeAPISuite) TestRequiresSession() {
	w := s.env.do(http.MethodGet, s.employeesPath(s.tehran), nil, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal(apperrors.CodeUnauthorized, parse(s.T(), w).Error)

	w = s.env.do(http.MethodGet, s.employeesPath(s.tehran), nil, &http.Cookie{Name: testCookie, Value: "forged"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *EmployeeAPISuite) TestProvinceAdminCannotReadAnotherProvince() {
	testutil.SeedEmployee(s.T(), s.env.db, s.shiraz.ID, "Mina", "Jafari", "1111111111")

	w := s.env.do(http.MethodGet, s.employeesPath(s.shiraz), nil, s.teh)
	s.Equal(http.StatusForbidden, w.Code)
	env := parse(s.T(), w)
	s.Equal(apperrors.CodeProvinceForbidden, env.Error)
	s.Nil(env.Data, "a denied list is an error, never an empty page")

	w = s.env.do(http.MethodPost, s.employeesPath(s.shiraz), employeeBody("2222222222"), s.teh)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *EmployeeAPISuite) TestGlobalAdminReadsEveryProvince() {
	testutil.SeedEmployee(s.T(), s.env.db, s.shiraz.ID, "Mina", "Jafari", "1111111111")

	w := s.env.do(http.MethodGet, s.employeesPath(s.shiraz), nil, s.global)
	s.Require().Equal(http.StatusOK, w.Code)
	env := parse(s.T(), w)
	s.Equal(int64(1), env.Pagination.Total)
}

func (s *EmployeeAPISuite) TestMalformedIdentifiers() {
	w := s.env.do(http.MethodGet, "/api/v1/provinces/not-a-uuid/employees", nil, s.global)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apperrors.CodeInvalidIdentifier, parse(s.T(), w).Error)

	w = s.env.do(http.MethodGet, s.employeesPath(s.tehran)+"/123", nil, s.teh)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apperrors.CodeInvalidIdentifier, parse(s.T(), w).Error)
}

func (s *EmployeeAPISuite) TestForeignProvinceDeniedBeforeRequestChecks() {
	foreign := s.employeesPath(s.shiraz)

	w := s.env.do(http.MethodPost, foreign, gin.H{"basicInfo": gin.H{"nationalId": "12"}}, s.teh)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal(apperrors.CodeProvinceForbidden, parse(s.T(), w).Error)

	w = s.env.do(http.MethodPut, foreign+"/"+uuid.NewString(), "not an object", s.teh)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.env.do(http.MethodPut, foreign+"/123", gin.H{}, s.teh)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.env.do(http.MethodGet, foreign+"/export?format=pdf", nil, s.teh)
	s.Equal(http.StatusForbidden, w.Code)

	// the same requests against the own province fail validation
	w = s.env.do(http.MethodGet, s.employeesPath(s.tehran)+"/export?format=pdf", nil, s.teh)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *EmployeeAPISuite) TestCreateStampsPathProvince() {
	body := employeeBody("3333333333")
	body["provinceId"] = s.shiraz.ID.String()

	w := s.env.do(http.MethodPost, s.employeesPath(s.tehran), body, s.teh)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var created models.Employee
	s.Require().NoError(json.Unmarshal(parse(s.T(), w).Data, &created))
	s.Equal(s.tehran.ID, created.ProvinceID)
	s.True(created.WorkPlace.TruckDriver)
	s.Contains(s.env.publisher.Types(), "employee.created")
}

func (s *EmployeeAPISuite) TestCreateValidation() {
	body := employeeBody("12")
	w := s.env.do(http.MethodPost, s.employeesPath(s.tehran), body, s.teh)
	s.Equal(http.StatusBadRequest, w.Code)
	env := parse(s.T(), w)
	s.Equal(apperrors.CodeValidationFailed, env.Error)
	s.Contains(env.Details, "fields")
}

func (s *EmployeeAPISuite) TestDuplicateNationalIDConflicts() {
	testutil.SeedEmployee(s.T(), s.env.db, s.tehran.ID, "Mina", "Jafari", "4444444444")

	w := s.env.do(http.MethodPost, s.employeesPath(s.tehran), employeeBody("4444444444"), s.teh)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *EmployeeAPISuite) TestWrongProvinceMembership() {
	other := testutil.SeedEmployee(s.T(), s.env.db, s.shiraz.ID, "Mina", "Jafari", "5555555555")

	w := s.env.do(http.MethodGet, s.employeesPath(s.tehran)+"/"+other.ID.String(), nil, s.global)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apperrors.CodeProvinceMismatch, parse(s.T(), w).Error)

	w = s.env.do(http.MethodDelete, s.employeesPath(s.tehran)+"/"+other.ID.String(), nil, s.teh)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.env.do(http.MethodGet, s.employeesPath(s.tehran)+"/"+uuid.NewString(), nil, s.teh)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *EmployeeAPISuite) TestUpdateCannotMoveEmployee() {
	e := testutil.SeedEmployee(s.T(), s.env.db, s.tehran.ID, "Mina", "Jafari", "6666666666")
	path := s.employeesPath(s.tehran) + "/" + e.ID.String()

	w := s.env.do(http.MethodPut, path, gin.H{"provinceId": s.shiraz.ID.String()}, s.teh)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apperrors.CodeProvinceImmutable, parse(s.T(), w).Error)

	w = s.env.do(http.MethodPut, path, gin.H{
		"provinceId": s.tehran.ID.String(),
		"workPlace":  gin.H{"office": "HQ"},
	}, s.teh)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated models.Employee
	s.Require().NoError(json.Unmarshal(parse(s.T(), w).Data, &updated))
	s.Equal("HQ", updated.WorkPlace.Office)
	s.Equal("Mina", updated.BasicInfo.FirstName, "absent sub-records are untouched")
}

func (s *EmployeeAPISuite) TestDelete() {
	e := testutil.SeedEmployee(s.T(), s.env.db, s.tehran.ID, "Mina", "Jafari", "7777777777")
	path := s.employeesPath(s.tehran) + "/" + e.ID.String()

	w := s.env.do(http.MethodDelete, path, nil, s.teh)
	s.Require().Equal(http.StatusOK, w.Code)

	var confirmation models.DeleteConfirmation
	s.Require().NoError(json.Unmarshal(parse(s.T(), w).Data, &confirmation))
	s.True(confirmation.Deleted)
	s.Equal(e.ID.String(), confirmation.ID)

	s.Equal(http.StatusNotFound, s.env.do(http.MethodDelete, path, nil, s.teh).Code)
}

func (s *EmployeeAPISuite) TestPaginationEnvelope() {
	for i, id := range []string{"1000000001", "1000000002", "1000000003", "1000000004", "1000000005"} {
		testutil.SeedEmployee(s.T(), s.env.db, s.tehran.ID, "Emp", string(rune('A'+i)), id)
	}

	w := s.env.do(http.MethodGet, s.employeesPath(s.tehran)+"?limit=2&sortBy=lastName&sortOrder=asc", nil, s.teh)
	s.Require().Equal(http.StatusOK, w.Code)
	env := parse(s.T(), w)

	s.Equal(models.PaginationInfo{Total: 5, Page: 1, Limit: 2, Pages: 3}, *env.Pagination)
	s.Require().NotNil(env.Links)
	s.Contains(env.Links.Next, "page=2")
	s.Contains(env.Links.Next, "sortBy=lastName")
	s.Empty(env.Links.Prev)

	var page []models.Employee
	s.Require().NoError(json.Unmarshal(env.Data, &page))
	s.Require().Len(page, 2)
	s.Equal("A", page[0].BasicInfo.LastName)

	w = s.env.do(http.MethodGet, s.employeesPath(s.tehran)+"?limit=2&page=3", nil, s.teh)
	env = parse(s.T(), w)
	s.Require().NoError(json.Unmarshal(env.Data, &page))
	s.Len(page, 1)
	s.Empty(env.Links.Next)
	s.Contains(env.Links.Prev, "page=2")
}

func (s *EmployeeAPISuite) TestPerformanceLock() {
	e := testutil.SeedEmployee(s.T(), s.env.db, s.tehran.ID, "Mina", "Jafari", "8888888888")
	path := s.employeesPath(s.tehran) + "/" + e.ID.String()
	performance := gin.H{"performance": []gin.H{{"year": 2024, "month": 6, "workingDays": 22, "score": 80}}}

	// only a global admin may toggle the lock
	w := s.env.do(http.MethodPut, "/api/v1/settings/performance-lock", gin.H{"locked": true}, s.teh)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.env.do(http.MethodPut, "/api/v1/settings/performance-lock", gin.H{"locked": true}, s.global)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.env.do(http.MethodGet, "/api/v1/settings/performance-lock", nil, s.teh)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(string(parse(s.T(), w).Data), `"performanceLocked":true`)

	w = s.env.do(http.MethodPut, path, performance, s.teh)
	s.Equal(http.StatusLocked, w.Code)
	s.Equal(apperrors.CodePerformanceLocked, parse(s.T(), w).Error)

	w = s.env.do(http.MethodDelete, path+"/performance", nil, s.teh)
	s.Equal(http.StatusLocked, w.Code)

	// non-performance edits are not gated
	w = s.env.do(http.MethodPut, path, gin.H{"workPlace": gin.H{"office": "Annex"}}, s.teh)
	s.Equal(http.StatusOK, w.Code)

	w = s.env.do(http.MethodPut, "/api/v1/settings/performance-lock", gin.H{"locked": false}, s.global)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.env.do(http.MethodPut, path, performance, s.teh)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.env.do(http.MethodDelete, path+"/performance", nil, s.teh)
	s.Require().Equal(http.StatusOK, w.Code)
	var reset models.Employee
	s.Require().NoError(json.Unmarshal(parse(s.T(), w).Data, &reset))
	s.Empty(reset.Performance)
}

func (s *EmployeeAPISuite) TestSetLockRequiresBody() {
	w := s.env.do(http.MethodPut, "/api/v1/settings/performance-lock", gin.H{}, s.global)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *EmployeeAPISuite) TestProvinces() {
	testutil.SeedEmployee(s.T(), s.env.db, s.tehran.ID, "Mina", "Jafari", "9999999999")

	w := s.env.do(http.MethodGet, "/api/v1/provinces", nil, s.teh)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.env.do(http.MethodGet, "/api/v1/provinces", nil, s.global)
	s.Require().Equal(http.StatusOK, w.Code)
	var summaries []models.ProvinceSummary
	s.Require().NoError(json.Unmarshal(parse(s.T(), w).Data, &summaries))
	s.Len(summaries, 2)

	w = s.env.do(http.MethodGet, "/api/v1/provinces/"+s.tehran.ID.String(), nil, s.global)
	s.Require().Equal(http.StatusOK, w.Code)
	var province models.Province
	s.Require().NoError(json.Unmarshal(parse(s.T(), w).Data, &province))
	s.Equal("Tehran", province.Name)
	s.Len(province.EmployeeIDs, 1)

	w = s.env.do(http.MethodGet, "/api/v1/provinces/"+uuid.NewString(), nil, s.global)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *EmployeeAPISuite) TestExport() {
	testutil.SeedEmployee(s.T(), s.env.db, s.tehran.ID, "Mina", "Jafari", "1212121212")
	testutil.SeedEmployee(s.T(), s.env.db, s.shiraz.ID, "Omid", "Kazemi", "3434343434")

	w := s.env.do(http.MethodGet, s.employeesPath(s.tehran)+"/export", nil, s.teh)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(export.XLSXMime, w.Header().Get("Content-Type"))
	s.Contains(w.Header().Get("Content-Disposition"), "employees_Tehran_")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	s.Require().NoError(err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	s.Require().NoError(err)
	s.Require().Len(rows, 2, "only the caller's province is exported")
	s.Equal("Mina", rows[1][1])

	w = s.env.do(http.MethodGet, s.employeesPath(s.tehran)+"/export?format=csv", nil, s.teh)
	s.Require().Equal(http.StatusOK, w.Code)
	s.True(strings.HasPrefix(w.Header().Get("Content-Type"), export.CSVMime))
	s.Contains(w.Body.String(), "Jafari")
	s.NotContains(w.Body.String(), "Kazemi")

	w = s.env.do(http.MethodGet, s.employeesPath(s.shiraz)+"/export", nil, s.teh)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.env.do(http.MethodGet, s.employeesPath(s.tehran)+"/export?format=pdf", nil, s.teh)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *EmployeeAPISuite) TestMeAndLogout() {
	w := s.env.do(http.MethodGet, "/api/v1/auth/me", nil, s.teh)
	s.Require().Equal(http.StatusOK, w.Code)
	var identity models.Identity
	s.Require().NoError(json.Unmarshal(parse(s.T(), w).Data, &identity))
	s.Equal(models.RoleProvinceAdmin, identity.Role)
	s.Equal(s.tehran.ID.String(), identity.ProvinceID)

	w = s.env.do(http.MethodPost, "/api/v1/auth/logout", nil, s.teh)
	s.Require().Equal(http.StatusOK, w.Code)
	var cleared *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			cleared = c
		}
	}
	s.Require().NotNil(cleared)
	s.True(cleared.MaxAge < 0)

	s.Equal(http.StatusUnauthorized, s.env.do(http.MethodGet, "/api/v1/auth/me", nil, s.teh).Code)
}

// ===========================================
// Login
// ===========================================

func TestLogin_CookieAndBody(t *testing.T) {
	env := newAPI(t, nil)
	province := testutil.SeedProvince(t, env.db, "Tabriz")
	env.createUser(t, "tab-admin", "secret", models.RoleProvinceAdmin, &province.ID)

	w := env.do(http.MethodPost, "/api/v1/auth/login", gin.H{"username": "tab-admin", "password": "secret"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.NotContains(t, w.Body.String(), cookie.Value, "the token only travels in the cookie")
	assert.NotContains(t, w.Body.String(), "password")

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(parse(t, w).Data, &resp))
	assert.Equal(t, models.RoleProvinceAdmin, resp.Role)
	assert.Equal(t, province.ID.String(), resp.ProvinceID)
}

func TestLogin_FailuresLookIdentical(t *testing.T) {
	env := newAPI(t, nil)
	env.createUser(t, "root", "rootpass", models.RoleGlobalAdmin, nil)

	unknown := env.do(http.MethodPost, "/api/v1/auth/login", gin.H{"username": "nobody", "password": "x"}, nil)
	wrong := env.do(http.MethodPost, "/api/v1/auth/login", gin.H{"username": "root", "password": "x"}, nil)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.JSONEq(t, unknown.Body.String(), wrong.Body.String())
	assert.Empty(t, unknown.Result().Cookies())

	blank := env.do(http.MethodPost, "/api/v1/auth/login", gin.H{"username": "  ", "password": "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, blank.Code)
}

func TestLogin_Throttled(t *testing.T) {
	env := newAPI(t, cache.NewMemoryAttemptLimiter(2, 15*time.Minute))
	env.createUser(t, "root", "rootpass", models.RoleGlobalAdmin, nil)

	for i := 0; i < 2; i++ {
		w := env.do(http.MethodPost, "/api/v1/auth/login", gin.H{"username": "root", "password": "bad"}, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := env.do(http.MethodPost, "/api/v1/auth/login", gin.H{"username": "root", "password": "rootpass"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, apperrors.CodeTooManyAttempts, parse(t, w).Error)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

// ===========================================
// Health
// ===========================================

func TestHealthEndpoints(t *testing.T) {
	env := newAPI(t, nil)

	w := env.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/ready", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "connected", checks["database"])
	assert.Equal(t, "disabled", checks["nats"])

	w = env.do(http.MethodGet, "/api/v1/unknown", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
