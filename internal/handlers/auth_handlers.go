package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"employee-service/internal/apperrors"
	"employee-service/internal/middleware"
	"employee-service/internal/models"
	"employee-service/internal/services"
)

// CookieConfig controls the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	auth   *services.AuthService
	cookie CookieConfig
}

func NewAuthHandler(auth *services.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

// ===========================================
// Password Authentication
// ===========================================

// Login authenticates a user with username and password
// @Summary Log in
// @Description Verifies credentials and sets the HTTP-only session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.Response{data=models.LoginResponse}
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 429 {object} models.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Abort(c, apperrors.FromBinding(err))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), &req, services.ClientInfo{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	c.JSON(http.StatusOK, models.OK(result.Response))
}

// Logout revokes the current session and clears the cookie
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} models.Response
// @Failure 401 {object} models.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)
	if err := h.auth.Logout(c.Request.Context(), session); err != nil {
		apperrors.Abort(c, err)
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, models.OKWithMessage(nil, "Logged out"))
}

// Me returns the identity bound to the current session
// @Summary Current identity
// @Tags auth
// @Produce json
// @Success 200 {object} models.Response{data=models.Identity}
// @Failure 401 {object} models.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		apperrors.Abort(c, apperrors.NewUnauthenticated("Authentication required"))
		return
	}
	c.JSON(http.StatusOK, models.OK(identity))
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, maxAge, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
}
