package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"crimewatch/internal/models"
	"crimewatch/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "middleware-test-secret"

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	chain := append([]gin.HandlerFunc{AuthRequired(testSecret)}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "actor missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.ID.Hex(), "role": actor.Role})
	})

	router.GET("/probe", chain...)
	return router
}

func bearerFor(t *testing.T, role models.UserRole) (string, primitive.ObjectID) {
	t.Helper()
	userID := primitive.NewObjectID()
	pair, err := utils.GenerateTokenPair(userID, string(role), "user@example.com", testSecret)
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}
	return "Bearer " + pair.AccessToken, userID
}

func probe(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestAuthRequired(t *testing.T) {
	router := newRouter()

	t.Run("valid token passes", func(t *testing.T) {
		header, _ := bearerFor(t, models.RoleCitizen)
		if rec := probe(router, header); rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing header", func(t *testing.T) {
		if rec := probe(router, ""); rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("missing bearer prefix", func(t *testing.T) {
		header, _ := bearerFor(t, models.RoleCitizen)
		raw := header[len("Bearer "):]
		if rec := probe(router, raw); rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if rec := probe(router, "Bearer not.a.jwt"); rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		pair, err := utils.GenerateTokenPair(primitive.NewObjectID(), "citizen", "x@y.z", "other-secret")
		if err != nil {
			t.Fatalf("GenerateTokenPair() error = %v", err)
		}
		if rec := probe(router, "Bearer "+pair.AccessToken); rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestRoleRequired(t *testing.T) {
	tests := []struct {
		name     string
		allowed  []models.UserRole
		tokenAs  models.UserRole
		wantCode int
	}{
		{"admin passes admin gate", []models.UserRole{models.RoleAdmin}, models.RoleAdmin, http.StatusOK},
		{"citizen blocked from admin gate", []models.UserRole{models.RoleAdmin}, models.RoleCitizen, http.StatusForbidden},
		{"police passes shared gate", []models.UserRole{models.RolePolice, models.RoleAdmin}, models.RolePolice, http.StatusOK},
		{"admin passes shared gate", []models.UserRole{models.RolePolice, models.RoleAdmin}, models.RoleAdmin, http.StatusOK},
		{"citizen blocked from shared gate", []models.UserRole{models.RolePolice, models.RoleAdmin}, models.RoleCitizen, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(RoleRequired(tt.allowed...))
			header, _ := bearerFor(t, tt.tokenAs)
			if rec := probe(router, header); rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestGetActorWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := GetActor(c); ok {
		t.Error("GetActor() reported an actor on a bare context")
	}
}
