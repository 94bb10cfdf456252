package models

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const UserCollection = "user"

type User struct {
	OID primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID  ID                 `bson:"-" json:"id"`

	Name  string `bson:"name" json:"name" validate:"required"`
	Email string `bson:"email" json:"email" validate:"required,email"`
	// Verbatim password in demo auth mode, bcrypt hash in hardened mode.
	PasswordHash string     `bson:"password_hash" json:"-" validate:"required"`
	CreatedAt    *time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt    *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	Tokens []string `bson:"tokens" json:"tokens"`
}

func (u *User) Normalize() {
	if u == nil {
		return
	}
	u.ID = IDFromObjectID(u.OID)
	if u.Tokens == nil {
		u.Tokens = []string{}
	}
}

func (u *User) StampTimes(now time.Time) {
	if u.CreatedAt == nil {
		u.CreatedAt = &now
	}
	if u.UpdatedAt == nil {
		u.UpdatedAt = &now
	}
}

func (u *User) HasToken(token string) bool {
	return slices.Contains(u.Tokens, token)
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
