package interfaces

import (
	"context"

	"crimewatch/internal/models"
	"crimewatch/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Authentication operations
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)

	// Listing
	List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.User, int64, error)
	ListActiveOfficers(ctx context.Context) ([]*models.User, error)

	// Statistics
	Count(ctx context.Context, filter bson.M) (int64, error)
	GetUserStats(ctx context.Context, filter bson.M) (*models.UserStats, error)
}
