package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employee-service/internal/apperrors"
	"employee-service/internal/models"
)

const cookieName = "sid"

type stubResolver struct {
	identity *models.Identity
	err      error
	tokens   []string
}

func (s *stubResolver) ResolveSession(_ context.Context, token string) (*models.Identity, *models.Session, error) {
	s.tokens = append(s.tokens, token)
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.identity, &models.Session{ID: uuid.New()}, nil
}

// Helper to setup test router
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	r := gin.New()
	r.Use(RequestIDMiddleware(), ErrorHandler(logger))
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) models.Response {
	t.Helper()
	var resp models.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func do(r *gin.Engine, method, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	r.ServeHTTP(w, req)
	return w
}

// ===========================================
// Error handler
// ===========================================

func TestErrorHandler_WritesEnvelope(t *testing.T) {
	r := setupTestRouter()
	r.GET("/locked", func(c *gin.Context) { apperrors.Abort(c, apperrors.ErrPerformanceLocked) })
	r.GET("/boom", func(c *gin.Context) { apperrors.Abort(c, errors.New("pq: relation does not exist")) })
	r.GET("/throttled", func(c *gin.Context) { apperrors.Abort(c, apperrors.NewTooManyAttempts(42)) })

	w := do(r, http.MethodGet, "/locked", nil)
	assert.Equal(t, http.StatusLocked, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, apperrors.CodePerformanceLocked, resp.Error)
	assert.NotEmpty(t, resp.Message)

	w = do(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp = decode(t, w)
	assert.Equal(t, apperrors.CodeInternalServer, resp.Error)
	assert.NotContains(t, w.Body.String(), "pq:", "storage errors are not leaked")

	w = do(r, http.MethodGet, "/throttled", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "42", w.Header().Get("Retry-After"))
}

func TestErrorHandler_StatusPerKind(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"unauthenticated": {apperrors.NewUnauthenticated("x"), http.StatusUnauthorized},
		"credentials":     {apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		"forbidden":       {apperrors.NewProvinceForbidden("p"), http.StatusForbidden},
		"identifier":      {apperrors.NewInvalidIdentifier("provinceId", "x"), http.StatusBadRequest},
		"wrong province":  {apperrors.NewWrongProvince("e", "p"), http.StatusBadRequest},
		"not found":       {apperrors.NewNotFound("Employee"), http.StatusNotFound},
		"validation":      {apperrors.NewValidation("bad", nil), http.StatusBadRequest},
		"conflict":        {apperrors.NewConflict("dup", nil), http.StatusConflict},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := setupTestRouter()
			r.GET("/", func(c *gin.Context) { apperrors.Abort(c, tc.err) })
			assert.Equal(t, tc.status, do(r, http.MethodGet, "/", nil).Code)
		})
	}
}

func TestNotFoundHandler(t *testing.T) {
	r := setupTestRouter()
	r.NoRoute(NotFoundHandler())

	w := do(r, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.CodeNotFound, decode(t, w).Error)
}

// ===========================================
// Request ID
// ===========================================

func TestRequestIDMiddleware(t *testing.T) {
	r := setupTestRouter()
	var fromCtx string
	r.GET("/", func(c *gin.Context) {
		fromCtx = c.GetString("request_id")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", fromCtx)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "bad id\nwith newline")
	r.ServeHTTP(w, req)
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err, "unsafe ids are replaced")
}

// ===========================================
// Session resolver and role gate
// ===========================================

func TestSessionMiddleware(t *testing.T) {
	identity := &models.Identity{ID: "u1", Role: models.RoleGlobalAdmin}
	resolver := &stubResolver{identity: identity}

	r := setupTestRouter()
	r.GET("/me", SessionMiddleware(resolver, cookieName), func(c *gin.Context) {
		got, ok := IdentityFrom(c)
		require.True(t, ok)
		fromCtx, ok := IdentityFromContext(c.Request.Context())
		require.True(t, ok)
		assert.Same(t, got, fromCtx)
		_, ok = SessionFrom(c)
		assert.True(t, ok)
		c.JSON(http.StatusOK, models.OK(got))
	})

	w := do(r, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, resolver.tokens, "no cookie means no lookup")

	w = do(r, http.MethodGet, "/me", &http.Cookie{Name: cookieName, Value: "tok"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"tok"}, resolver.tokens)
}

func TestSessionMiddleware_ResolverError(t *testing.T) {
	resolver := &stubResolver{err: apperrors.NewUnauthenticated("Session expired")}

	r := setupTestRouter()
	r.GET("/me", SessionMiddleware(resolver, cookieName), func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	w := do(r, http.MethodGet, "/me", &http.Cookie{Name: cookieName, Value: "old"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Session expired", decode(t, w).Message)
}

func TestRequireRole(t *testing.T) {
	admin := &models.Identity{ID: "p", Role: models.RoleProvinceAdmin, ProvinceID: uuid.NewString()}
	global := &models.Identity{ID: "g", Role: models.RoleGlobalAdmin}

	route := func(identity *models.Identity) *gin.Engine {
		r := setupTestRouter()
		r.GET("/provinces", SessionMiddleware(&stubResolver{identity: identity}, cookieName), RequireRole(models.RoleGlobalAdmin), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return r
	}

	cookie := &http.Cookie{Name: cookieName, Value: "t"}
	assert.Equal(t, http.StatusForbidden, do(route(admin), http.MethodGet, "/provinces", cookie).Code)
	assert.Equal(t, http.StatusOK, do(route(global), http.MethodGet, "/provinces", cookie).Code)
}

func TestCheckRole(t *testing.T) {
	_, err := CheckRole(nil, models.RoleGlobalAdmin)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))

	_, err = CheckAnyRole(nil)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))

	identity := &models.Identity{ID: "p", Role: models.RoleProvinceAdmin, ProvinceID: "x"}
	_, err = CheckRole(identity, models.RoleGlobalAdmin)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	got, err := CheckAnyRole(identity)
	require.NoError(t, err)
	assert.Same(t, identity, got)
}

func TestRequireAnyRole_WithoutSession(t *testing.T) {
	r := setupTestRouter()
	r.GET("/", RequireAnyRole(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/", nil).Code)
}

// ===========================================
// Province param
// ===========================================

func TestProvinceParam(t *testing.T) {
	r := setupTestRouter()
	r.GET("/provinces/:provinceId", ProvinceParam(), func(c *gin.Context) {
		c.String(http.StatusOK, GetProvinceID(c).String())
	})

	id := uuid.New()
	w := do(r, http.MethodGet, "/provinces/"+strings.ToUpper(id.String()), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())

	w = do(r, http.MethodGet, "/provinces/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CodeInvalidIdentifier, decode(t, w).Error)
}

func TestProvinceAccess(t *testing.T) {
	own := uuid.New()
	admin := &models.Identity{ID: "p", Role: models.RoleProvinceAdmin, ProvinceID: own.String()}

	r := setupTestRouter()
	r.POST("/provinces/:provinceId/employees",
		SessionMiddleware(&stubResolver{identity: admin}, cookieName), ProvinceParam(), ProvinceAccess(),
		func(c *gin.Context) { c.Status(http.StatusCreated) })

	cookie := &http.Cookie{Name: cookieName, Value: "t"}
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/provinces/"+own.String()+"/employees", cookie).Code)

	w := do(r, http.MethodPost, "/provinces/"+uuid.NewString()+"/employees", cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.CodeProvinceForbidden, decode(t, w).Error)

	// no session on the context
	r = setupTestRouter()
	r.GET("/provinces/:provinceId", ProvinceParam(), ProvinceAccess(), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/provinces/"+own.String(), nil).Code)
}
