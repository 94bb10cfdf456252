package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ListItemCollection = "listitem"

// ListItem joins a user to a movie on their watch-list.
type ListItem struct {
	OID primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID  ID                 `bson:"-" json:"id"`

	UserID    ID         `bson:"user_id" json:"user_id" validate:"required"`
	MovieID   string     `bson:"movie_id" json:"movie_id" validate:"required"`
	CreatedAt *time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

func (l *ListItem) Normalize() {
	if l == nil {
		return
	}
	l.ID = IDFromObjectID(l.OID)
}

func (l *ListItem) StampTimes(now time.Time) {
	if l.CreatedAt == nil {
		l.CreatedAt = &now
	}
	if l.UpdatedAt == nil {
		l.UpdatedAt = &now
	}
}

type AddToListRequest struct {
	Token   string `json:"token" binding:"required"`
	MovieID string `json:"movie_id" binding:"required"`
}
