package routes

import (
	"crimewatch/internal/handlers"
	"crimewatch/internal/middleware"
	"crimewatch/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupReportRoutes wires the crime report endpoints. Everything requires
// authentication; filing a report is a citizen action, lifecycle and FIR
// actions require police or admin roles, and officer assignment is admin only.
func SetupReportRoutes(r *gin.RouterGroup, reportHandler *handlers.ReportHandler, adminHandler *handlers.AdminHandler, jwtSecret string) {
	citizen := r.Group("/reports")
	citizen.Use(
		middleware.AuthRequired(jwtSecret),
		middleware.RoleRequired(models.RoleCitizen),
	)
	{
		citizen.POST("", reportHandler.CreateReport)
	}

	reports := r.Group("/reports")
	reports.Use(middleware.AuthRequired(jwtSecret))
	{
		reports.GET("", reportHandler.ListReports)
		reports.GET("/my-reports", reportHandler.MyReports)
		reports.GET("/heatmap/data", reportHandler.GetHeatmap)
		reports.GET("/stats/summary", reportHandler.GetStats)
		reports.GET("/:id", reportHandler.GetReport)
	}

	police := r.Group("/reports")
	police.Use(
		middleware.AuthRequired(jwtSecret),
		middleware.RoleRequired(models.RolePolice, models.RoleAdmin),
	)
	{
		police.GET("/assigned-cases", reportHandler.AssignedCases)
		police.GET("/fir/requests", reportHandler.ListFIRRequests)
		police.PUT("/:id/status", reportHandler.UpdateStatus)
		police.PUT("/:id/fir", reportHandler.UpdateFIR)
	}

	admin := r.Group("/reports")
	admin.Use(
		middleware.AuthRequired(jwtSecret),
		middleware.RoleRequired(models.RoleAdmin),
	)
	{
		admin.PUT("/:id/assign", adminHandler.AssignOfficer)
	}
}
