package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model     `json:"-"`
	ID             uint   `json:"id" gorm:"primaryKey"`
	Username       string `json:"username" gorm:"uniqueIndex"`
	Email          string `json:"email" gorm:"uniqueIndex"`
	Password       string `json:"-"` // bcrypt hash, empty for Firebase-only accounts
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Bio            string `json:"bio,omitempty"`
	WebsiteURL     string `json:"website_url,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"` // full http URL or an opaque blob ID
	PushToken      string `json:"-"`
	FollowersCount int    `json:"followers_count"`
	FollowingCount int    `json:"following_count"`
	FirebaseUID    string `json:"firebase_uid,omitempty" gorm:"index"` // Link to Firebase User UID
}

// UserCompact is the denormalized author snapshot embedded in feed items
type UserCompact struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=2,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type FirebaseLoginRequest struct {
	IDToken  string `json:"id_token" validate:"required"`
	Username string `json:"username,omitempty" validate:"omitempty,min=2,max=30"`
}

type UpdateUserRequest struct {
	Username   string `json:"username,omitempty" validate:"omitempty,min=2,max=30"`
	FirstName  string `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName   string `json:"last_name,omitempty" validate:"omitempty,max=50"`
	Bio        string `json:"bio,omitempty" validate:"omitempty,max=300"`
	WebsiteURL string `json:"website_url,omitempty" validate:"omitempty,url"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	PushToken  string `json:"push_token,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
