package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"crimewatch/internal/models"
	"crimewatch/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeCache keeps entries in a map so the cache interaction can be asserted
// without Redis.
type fakeCache struct {
	users   map[string]models.User
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{users: make(map[string]models.User)}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	user, ok := f.users[key]
	if !ok {
		return errors.New("cache miss")
	}
	*dest.(*models.User) = user
	return nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case *models.User:
		f.users[key] = *v
	case models.User:
		f.users[key] = v
	}
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.users, key)
		f.deleted = append(f.deleted, key)
	}
	return nil
}

func cachedUser() *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Email:    "asha@example.com",
		Role:     models.RoleCitizen,
		IsActive: true,
	}
}

func TestGetByEmailServedFromCache(t *testing.T) {
	cache := newFakeCache()
	user := cachedUser()
	cache.users[utils.CacheUserEmailPrefix+user.Email] = *user

	// Nil collection: a cache hit must resolve without touching Mongo.
	repo := &userRepository{cache: cache}

	got, err := repo.GetByEmail(context.Background(), user.Email)
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %s, want %s", got.ID.Hex(), user.ID.Hex())
	}
}

func TestInvalidateUserCacheDropsBothKeys(t *testing.T) {
	cache := newFakeCache()
	user := cachedUser()
	idKey := utils.CacheUserPrefix + user.ID.Hex()
	emailKey := utils.CacheUserEmailPrefix + user.Email
	cache.users[idKey] = *user
	cache.users[emailKey] = *user

	repo := &userRepository{cache: cache}
	repo.invalidateUserCache(context.Background(), user)

	dropped := make(map[string]bool, len(cache.deleted))
	for _, key := range cache.deleted {
		dropped[key] = true
	}
	if !dropped[idKey] {
		t.Errorf("id key %q not invalidated", idKey)
	}
	if !dropped[emailKey] {
		t.Errorf("email key %q not invalidated", emailKey)
	}

	// A fresh credential check must not be answered from the stale entry.
	var stale models.User
	if err := cache.Get(context.Background(), emailKey, &stale); err == nil {
		t.Error("email-keyed entry still served after invalidation")
	}
}

func TestInvalidateUserCacheNilCache(t *testing.T) {
	repo := &userRepository{}
	repo.invalidateUserCache(context.Background(), cachedUser())
}
