package mongodb

import (
	"context"
	"fmt"
	"time"

	"crimewatch/internal/models"
	"crimewatch/internal/repositories/interfaces"
	"crimewatch/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CacheService is the subset of cache operations the repositories need.
// Satisfied by pkg/cache.RedisCache; a nil cache disables read-through.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type userRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewUserRepository(db *mongo.Database, cache CacheService) interfaces.UserRepository {
	return &userRepository{
		collection: db.Collection("users"),
		cache:      cache,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.cacheUser(ctx, user)

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if user := r.getUserFromCache(ctx, id.Hex()); user != nil {
		return user, nil
	}

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError(utils.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	r.cacheUser(ctx, &user)

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	var updated models.User
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return utils.NewNotFoundError(utils.ErrUserNotFound)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	r.invalidateUserCache(ctx, &updated)

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	var deleted models.User
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return utils.NewNotFoundError(utils.ErrUserNotFound)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.invalidateUserCache(ctx, &deleted)

	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	cacheKey := utils.CacheUserEmailPrefix + email
	if r.cache != nil {
		var user models.User
		if err := r.cache.Get(ctx, cacheKey, &user); err == nil {
			return &user, nil
		}
	}

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError(utils.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, cacheKey, user, utils.CacheUserTTL)
	}
	r.cacheUser(ctx, &user)

	return &user, nil
}

func (r *userRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{
		"reset_token":        token,
		"reset_token_expiry": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewValidationError(utils.ErrInvalidToken)
		}
		return nil, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.User, int64, error) {
	if filter == nil {
		filter = bson.M{}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetFindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, total, nil
}

func (r *userRepository) ListActiveOfficers(ctx context.Context) ([]*models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"role":      models.RolePolice,
		"is_active": true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list officers: %w", err)
	}
	defer cursor.Close(ctx)

	var officers []*models.User
	if err := cursor.All(ctx, &officers); err != nil {
		return nil, fmt.Errorf("failed to decode officers: %w", err)
	}

	return officers, nil
}

func (r *userRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return r.collection.CountDocuments(ctx, filter)
}

func (r *userRepository) GetUserStats(ctx context.Context, filter bson.M) (*models.UserStats, error) {
	if filter == nil {
		filter = bson.M{}
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"total_users": bson.M{"$sum": 1},
			"citizens": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$role", models.RoleCitizen}}, 1, 0},
			}},
			"police": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$role", models.RolePolice}}, 1, 0},
			}},
			"admins": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$role", models.RoleAdmin}}, 1, 0},
			}},
			"verified_users": bson.M{"$sum": bson.M{
				"$cond": bson.A{"$is_verified", 1, 0},
			}},
			"active_users": bson.M{"$sum": bson.M{
				"$cond": bson.A{"$is_active", 1, 0},
			}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.UserStats
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode user stats: %w", err)
	}

	if len(results) == 0 {
		return &models.UserStats{}, nil
	}
	return &results[0], nil
}

func (r *userRepository) cacheUser(ctx context.Context, user *models.User) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, utils.CacheUserPrefix+user.ID.Hex(), user, utils.CacheUserTTL)
}

func (r *userRepository) getUserFromCache(ctx context.Context, userID string) *models.User {
	if r.cache == nil {
		return nil
	}
	var user models.User
	if err := r.cache.Get(ctx, utils.CacheUserPrefix+userID, &user); err != nil {
		return nil
	}
	return &user
}

// invalidateUserCache drops both entries a user can be cached under. Login
// reads through the email key, so leaving it behind would keep a changed
// password hash or a deactivated account live until the TTL expires.
func (r *userRepository) invalidateUserCache(ctx context.Context, user *models.User) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, utils.CacheUserPrefix+user.ID.Hex(), utils.CacheUserEmailPrefix+user.Email)
}
