package models

import (
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	DefaultProfilePicture   = "/uploads/default-avatar.png"
	AnonymousProfilePicture = "/uploads/anonymous-avatar.png"
)

// User is a stored account. Handlers never render it directly; use ToProfile or ToPublic.
type User struct {
	ID             string    `json:"id" bson:"_id" gorm:"primaryKey"`
	Username       string    `json:"username" bson:"username" gorm:"uniqueIndex"`
	Email          string    `json:"email" bson:"email" gorm:"uniqueIndex"`
	Password       string    `json:"password,omitempty" bson:"password"`
	FirebaseUID    string    `json:"firebaseUid,omitempty" bson:"firebase_uid,omitempty" gorm:"index"`
	ProfilePicture string    `json:"profilePicture" bson:"profile_picture"`
	Bio            string    `json:"bio" bson:"bio"`
	Followers      []string  `json:"followers" bson:"followers" gorm:"serializer:json;type:jsonb"`
	Following      []string  `json:"following" bson:"following" gorm:"serializer:json;type:jsonb"`
	Level          int       `json:"level" bson:"level"`
	Verified       bool      `json:"verified" bson:"verified"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at"`
}

// NewUser creates a user with the defaults every new account starts from
func NewUser(id, username, email, passwordHash string, now time.Time) User {
	return User{
		ID:             id,
		Username:       username,
		Email:          strings.ToLower(email),
		Password:       passwordHash,
		ProfilePicture: DefaultProfilePicture,
		Followers:      []string{},
		Following:      []string{},
		Level:          1,
		Verified:       false,
		CreatedAt:      now,
	}
}

func (u User) RecordID() string { return u.ID }

func (u User) HasFollower(userID string) bool {
	return slices.Contains(u.Followers, userID)
}

func (u User) IsFollowing(userID string) bool {
	return slices.Contains(u.Following, userID)
}

// PublicUser is the projection of a user that other users may see.
type PublicUser struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
	Level          int    `json:"level"`
	Verified       bool   `json:"verified"`
}

// AnonymousPublicUser is the fixed projection shown for anonymous authors.
func AnonymousPublicUser() PublicUser {
	return PublicUser{
		ID:             AnonymousUserID,
		Username:       "Anonymous",
		ProfilePicture: AnonymousProfilePicture,
		Level:          0,
		Verified:       false,
	}
}

func (u User) ToPublic() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
		Level:          u.Level,
		Verified:       u.Verified,
	}
}

// UserProfile is a user without its secrets.
type UserProfile struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture"`
	Bio            string    `json:"bio"`
	Followers      []string  `json:"followers"`
	Following      []string  `json:"following"`
	Level          int       `json:"level"`
	Verified       bool      `json:"verified"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (u User) ToProfile() UserProfile {
	return UserProfile{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
		Followers:      nonNil(u.Followers),
		Following:      nonNil(u.Following),
		Level:          u.Level,
		Verified:       u.Verified,
		CreatedAt:      u.CreatedAt,
	}
}

// UserIndex looks users up by id.
type UserIndex map[string]*User

// IndexUsers builds a UserIndex over users. The index points into the slice.
func IndexUsers(users []User) UserIndex {
	index := make(UserIndex, len(users))
	for i := range users {
		index[users[i].ID] = &users[i]
	}
	return index
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest changes only the fields that were sent. Bio is read from
// the JSON body here; multipart forms set it in the handler.
type UpdateProfileRequest struct {
	Username string  `form:"username" json:"username" validate:"omitempty,min=3,max=30"`
	Bio      *string `form:"-" json:"bio" validate:"omitempty,max=300"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
