package handlers

import (
	"github.com/gin-gonic/gin"

	"employee-service/internal/middleware"
	"employee-service/internal/models"
)

// Handlers groups the API handlers mounted under /api/v1
type Handlers struct {
	Auth      *AuthHandler
	Provinces *ProvinceHandler
	Employees *EmployeeHandler
	Settings  *SettingsHandler
}

// RegisterRoutes mounts the API on api. Every route except login runs the
// session resolver and the role gate first.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, resolver middleware.SessionResolver, cookieName string) {
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("")
	authed.Use(middleware.SessionMiddleware(resolver, cookieName))
	authed.Use(middleware.RequireAnyRole())
	{
		authed.POST("/auth/logout", h.Auth.Logout)
		authed.GET("/auth/me", h.Auth.Me)

		globalOnly := middleware.RequireRole(models.RoleGlobalAdmin)

		// Provinces
		authed.GET("/provinces", globalOnly, h.Provinces.ListProvinces)
		authed.GET("/provinces/:provinceId", globalOnly, middleware.ProvinceParam(), middleware.ProvinceAccess(), h.Provinces.GetProvince)

		// Employees of a province
		employees := authed.Group("/provinces/:provinceId/employees")
		employees.Use(middleware.ProvinceParam(), middleware.ProvinceAccess())
		{
			employees.GET("", h.Employees.ListEmployees)
			employees.POST("", h.Employees.CreateEmployee)
			employees.GET("/export", h.Employees.ExportEmployees)
			employees.GET("/:employeeId", h.Employees.GetEmployee)
			employees.PUT("/:employeeId", h.Employees.UpdateEmployee)
			employees.DELETE("/:employeeId", h.Employees.DeleteEmployee)
			employees.DELETE("/:employeeId/performance", h.Employees.ResetPerformance)
		}

		// Settings
		authed.GET("/settings/performance-lock", h.Settings.GetPerformanceLock)
		authed.PUT("/settings/performance-lock", globalOnly, h.Settings.SetPerformanceLock)
	}
}
