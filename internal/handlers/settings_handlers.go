package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"employee-service/internal/apperrors"
	"employee-service/internal/middleware"
	"employee-service/internal/models"
	"employee-service/internal/services"
)

type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetPerformanceLock returns the current performance lock state
// @Summary Get performance lock
// @Tags settings
// @Produce json
// @Success 200 {object} models.Response{data=models.Settings}
// @Failure 401 {object} models.Response
// @Router /settings/performance-lock [get]
func (h *SettingsHandler) GetPerformanceLock(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK(settings))
}

// SetPerformanceLock locks or unlocks performance records
// @Summary Set performance lock
// @Tags settings
// @Accept json
// @Produce json
// @Param request body models.PerformanceLockRequest true "Lock state"
// @Success 200 {object} models.Response{data=models.Settings}
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Router /settings/performance-lock [put]
func (h *SettingsHandler) SetPerformanceLock(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req models.PerformanceLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Abort(c, apperrors.FromBinding(err))
		return
	}

	settings, err := h.settings.SetPerformanceLock(c.Request.Context(), identity, *req.Locked)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	message := "Performance records unlocked"
	if settings.PerformanceLocked {
		message = "Performance records locked"
	}
	c.JSON(http.StatusOK, models.OKWithMessage(settings, message))
}
