package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"employee-service/internal/apperrors"
	"employee-service/internal/middleware"
	"employee-service/internal/models"
	"employee-service/internal/services"
)

type ProvinceHandler struct {
	provinces *services.ProvinceService
}

func NewProvinceHandler(provinces *services.ProvinceService) *ProvinceHandler {
	return &ProvinceHandler{provinces: provinces}
}

// ListProvinces returns every province with its employee count
// @Summary List provinces
// @Tags provinces
// @Produce json
// @Success 200 {object} models.Response{data=[]models.ProvinceSummary}
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Router /provinces [get]
func (h *ProvinceHandler) ListProvinces(c *gin.Context) {
	provinces, err := h.provinces.List(c.Request.Context())
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	if provinces == nil {
		provinces = []models.ProvinceSummary{}
	}
	c.JSON(http.StatusOK, models.OK(provinces))
}

// GetProvince returns one province with its employee ids
// @Summary Get province
// @Tags provinces
// @Produce json
// @Param provinceId path string true "Province ID"
// @Success 200 {object} models.Response{data=models.Province}
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /provinces/{provinceId} [get]
func (h *ProvinceHandler) GetProvince(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	province, err := h.provinces.Get(c.Request.Context(), identity, middleware.GetProvinceID(c))
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	if province.EmployeeIDs == nil {
		province.EmployeeIDs = []uuid.UUID{}
	}
	c.JSON(http.StatusOK, models.OK(province))
}
