package routes

import (
	"crimewatch/internal/handlers"
	"crimewatch/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes wires the self-service profile endpoints.
func SetupUserRoutes(r *gin.RouterGroup, userHandler *handlers.UserHandler, jwtSecret string) {
	users := r.Group("/users")
	users.Use(middleware.AuthRequired(jwtSecret))
	{
		users.GET("/me", userHandler.GetProfile)
		users.PUT("/me", userHandler.UpdateProfile)
		users.POST("/me/fcm-token", userHandler.SaveFCMToken)
	}
}
