package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/iloilo-msme/produkta/internal/middleware"
)

// RegisterRoutes mounts the /v1 API on router
func RegisterRoutes(router gin.IRouter) {
	v1 := router.Group("/v1")
	{
		v1.GET("/health", HealthCheck)
		v1.GET("/sectors", ListSectors)

		v1.GET("/msmes", ListMSMEs)
		v1.GET("/msmes/:id", GetMSME)
		v1.POST("/msmes/:id/visits", RecordVisit)
		v1.POST("/msmes/:id/exports", RecordExport)

		v1.GET("/export/csv", ExportCSV)
		v1.POST("/export/csv", ExportCSV)
		v1.GET("/export/pdf", ExportPDF)
		v1.POST("/export/pdf", ExportPDF)
	}

	admin := v1.Group("", middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		admin.GET("/msmes/check-name", CheckCompanyName)
		admin.POST("/msmes", CreateMSME)
		admin.PUT("/msmes/:id", UpdateMSME)
		admin.DELETE("/msmes/:id", DeleteMSME)
		admin.GET("/admin/stats", GetDashboardStats)
	}

	super := v1.Group("/admin", middleware.AuthMiddleware(), middleware.RequireSuperAdmin())
	{
		super.POST("/sectors", CreateSector)
		super.PUT("/sectors/:id", UpdateSector)
		super.DELETE("/sectors/:id", DeleteSector)

		super.GET("/accounts", ListAdminAccounts)
		super.GET("/accounts/:id", GetAdminAccount)
		super.POST("/accounts", CreateAdminAccount)
		super.PUT("/accounts/:id", UpdateAdminAccount)
		super.POST("/accounts/:id/deactivate", DeactivateAdminAccount)
		super.DELETE("/accounts/:id", DeleteAdminAccount)
	}
}
