package routes

import (
	"crimewatch/internal/handlers"
	"crimewatch/internal/middleware"
	"crimewatch/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes wires the admin console endpoints.
func SetupAdminRoutes(r *gin.RouterGroup, adminHandler *handlers.AdminHandler, jwtSecret string) {
	admin := r.Group("/admin")
	admin.Use(
		middleware.AuthRequired(jwtSecret),
		middleware.RoleRequired(models.RoleAdmin),
	)
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/:id", adminHandler.GetUser)
		admin.PUT("/users/:id/verify", adminHandler.VerifyPoliceAccount)
		admin.PUT("/users/:id/active", adminHandler.SetUserActive)
		admin.PUT("/users/:id/role", adminHandler.SetUserRole)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)

		admin.GET("/officers/available", adminHandler.ListAvailableOfficers)
		admin.PUT("/reports/:id/verify", adminHandler.VerifyReport)
		admin.GET("/reports/verification-needed", adminHandler.ListVerificationNeeded)

		admin.GET("/dashboard", adminHandler.GetDashboard)
		admin.GET("/email-queue", adminHandler.GetQueueStatus)
	}
}
