package data_access

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNoDocuments is returned by FindOne and UpdateByID when nothing matches.
	ErrNoDocuments = errors.New("no documents in result")

	// ErrDuplicateKey is returned by InsertOne when a unique index rejects the document.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Backend is the raw document store the Documents layer runs on.
//
// Filters are field -> value equality maps. A value matches a stored array when
// the array contains it, {"$in": [...]} matches any listed value, and a nil
// value matches an absent or null field. Updates support $set, $push and
// $addToSet.
type Backend interface {
	InsertOne(ctx context.Context, collection string, doc any) (primitive.ObjectID, error)
	Find(ctx context.Context, collection string, filter bson.M, out any) error
	FindOne(ctx context.Context, collection string, filter bson.M, out any) error
	CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error)
	UpdateByID(ctx context.Context, collection string, id primitive.ObjectID, update bson.M) error
	ListCollectionNames(ctx context.Context) ([]string, error)
	EnsureIndexes(ctx context.Context, specs []IndexSpec) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// IndexSpec declares an ascending index over Keys in Collection.
type IndexSpec struct {
	Collection string
	Name       string
	Keys       []string
	Unique     bool
}
