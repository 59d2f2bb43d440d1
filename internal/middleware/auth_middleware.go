package middleware

import (
	"strings"

	"crimewatch/internal/models"
	"crimewatch/internal/services"
	"crimewatch/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// AuthRequired validates the bearer token and stores the actor's identity
// and role on the request context.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, models.UserRole(claims.Role))

		c.Next()
	}
}

// RoleRequired gates a route group to the listed roles; any other role gets
// a 403. A missing role on the context means AuthRequired did not run.
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		userRole, ok := role.(models.UserRole)
		if !ok || !allowed[userRole] {
			utils.ForbiddenResponse(c, utils.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetActor rebuilds the services.Actor from context values set by
// AuthRequired. The boolean is false when auth middleware did not run.
func GetActor(c *gin.Context) (services.Actor, bool) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return services.Actor{}, false
	}
	id, ok := userID.(primitive.ObjectID)
	if !ok {
		return services.Actor{}, false
	}

	role, exists := c.Get(ContextRole)
	if !exists {
		return services.Actor{}, false
	}
	userRole, ok := role.(models.UserRole)
	if !ok {
		return services.Actor{}, false
	}

	return services.Actor{ID: id, Role: userRole}, true
}
