package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID is the external string form of a document identifier. Only values of this
// type cross the API boundary; the store works with primitive.ObjectID.
type ID string

// IDFromObjectID converts a store identifier to its external form.
func IDFromObjectID(oid primitive.ObjectID) ID {
	if oid.IsZero() {
		return ""
	}
	return ID(oid.Hex())
}

// ObjectID parses the identifier back into the store representation.
func (id ID) ObjectID() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(string(id))
}

func (id ID) String() string {
	return string(id)
}
