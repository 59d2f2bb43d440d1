package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleCitizen UserRole = "citizen"
	RolePolice  UserRole = "police"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleCitizen, RolePolice, RoleAdmin:
		return true
	}
	return false
}

type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zip_code" bson:"zip_code"`
}

type User struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username    string             `json:"username" bson:"username" validate:"required,min=3,max=30"`
	FirstName   string             `json:"first_name" bson:"first_name" validate:"required,min=2,max=50"`
	LastName    string             `json:"last_name" bson:"last_name" validate:"required,min=2,max=50"`
	Email       string             `json:"email" bson:"email" validate:"required,email"`
	Password    string             `json:"-" bson:"password"`
	Phone       string             `json:"phone" bson:"phone"`
	Role        UserRole           `json:"role" bson:"role" validate:"required"`
	IsVerified  bool               `json:"is_verified" bson:"is_verified"`
	IsActive    bool               `json:"is_active" bson:"is_active"`
	BadgeNumber string             `json:"badge_number,omitempty" bson:"badge_number,omitempty"`
	Department  string             `json:"department,omitempty" bson:"department,omitempty"`
	Address     *Address           `json:"address,omitempty" bson:"address,omitempty"`
	FCMToken    string             `json:"-" bson:"fcm_token,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// PublicProfile strips credentials and device tokens from a user record
// before it leaves the API.
type PublicProfile struct {
	ID          primitive.ObjectID `json:"id"`
	Username    string             `json:"username"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone,omitempty"`
	Role        UserRole           `json:"role"`
	IsVerified  bool               `json:"is_verified"`
	IsActive    bool               `json:"is_active"`
	BadgeNumber string             `json:"badge_number,omitempty"`
	Department  string             `json:"department,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

func (u *User) PublicProfile() *PublicProfile {
	return &PublicProfile{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		IsVerified:  u.IsVerified,
		IsActive:    u.IsActive,
		BadgeNumber: u.BadgeNumber,
		Department:  u.Department,
		CreatedAt:   u.CreatedAt,
	}
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
