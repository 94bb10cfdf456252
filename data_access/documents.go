package data_access

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"movie-catalog-backend/common"
	"movie-catalog-backend/models"
	"movie-catalog-backend/validation"
)

// Documents is the generic persistence layer shared by every repository: it
// validates and timestamps records on create and translates store errors into
// the common error taxonomy.
type Documents struct {
	backend Backend
	now     func() time.Time
}

func NewDocuments(backend Backend) *Documents {
	return &Documents{
		backend: backend,
		now:     time.Now,
	}
}

func (d *Documents) Backend() Backend {
	return d.backend
}

type timestamped interface {
	StampTimes(now time.Time)
}

// Create validates record, fills unset created_at/updated_at and inserts it.
func (d *Documents) Create(ctx context.Context, collection string, record any) (models.ID, error) {
	if err := validation.Validate(record); err != nil {
		return "", err
	}
	if ts, ok := record.(timestamped); ok {
		ts.StampTimes(d.now().UTC())
	}

	oid, err := d.backend.InsertOne(ctx, collection, record)
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return "", fmt.Errorf("create %s: %w: %w", collection, common.ErrConflict, err)
		}
		return "", fmt.Errorf("create %s: %w", collection, err)
	}
	return models.IDFromObjectID(oid), nil
}

// Query decodes every record matching filter into out, a pointer to a slice.
func (d *Documents) Query(ctx context.Context, collection string, filter bson.M, out any) error {
	if filter == nil {
		filter = bson.M{}
	}
	if err := d.backend.Find(ctx, collection, filter, out); err != nil {
		return fmt.Errorf("query %s: %w", collection, err)
	}
	return nil
}

// FindOne decodes the first record matching filter, or returns common.ErrNotFound.
func (d *Documents) FindOne(ctx context.Context, collection string, filter bson.M, out any) error {
	err := d.backend.FindOne(ctx, collection, filter, out)
	if errors.Is(err, ErrNoDocuments) {
		return fmt.Errorf("%s: %w", collection, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}
	return nil
}

// FindByID looks a record up by its external id. A malformed id yields
// common.ErrInvalidArgument instead of a parse error.
func (d *Documents) FindByID(ctx context.Context, collection string, id models.ID, out any) error {
	oid, err := id.ObjectID()
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", id, common.ErrInvalidArgument)
	}
	return d.FindOne(ctx, collection, bson.M{"_id": oid}, out)
}

func (d *Documents) Count(ctx context.Context, collection string, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	n, err := d.backend.CountDocuments(ctx, collection, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

// Push appends value to the array field of the record with the given id.
func (d *Documents) Push(ctx context.Context, collection string, id models.ID, field string, value any) error {
	return d.update(ctx, collection, id, "$push", field, value)
}

// AddToSet appends value to the array field unless it is already present.
func (d *Documents) AddToSet(ctx context.Context, collection string, id models.ID, field string, value any) error {
	return d.update(ctx, collection, id, "$addToSet", field, value)
}

func (d *Documents) update(ctx context.Context, collection string, id models.ID, op, field string, value any) error {
	oid, err := id.ObjectID()
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", id, common.ErrInvalidArgument)
	}

	update := bson.M{
		op:     bson.M{field: value},
		"$set": bson.M{"updated_at": d.now().UTC()},
	}
	err = d.backend.UpdateByID(ctx, collection, oid, update)
	if errors.Is(err, ErrNoDocuments) {
		return fmt.Errorf("%s: %w", collection, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	return nil
}

func (d *Documents) CollectionNames(ctx context.Context) ([]string, error) {
	return d.backend.ListCollectionNames(ctx)
}

// CollectionName maps a record type to its collection: the lower-cased type
// name, so User is stored in "user" and ListItem in "listitem".
func CollectionName(record any) string {
	t := reflect.TypeOf(record)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return strings.ToLower(t.Name())
}

// Normalizer is implemented by records that expose their store identifier as a
// string "id". Implementations must accept a nil receiver.
type Normalizer interface {
	Normalize()
}

// Normalize fills the external id of a single record and returns it.
func Normalize[T Normalizer](record T) T {
	record.Normalize()
	return record
}

// NormalizeAll normalizes every record in place. The result is never nil so it
// serializes as an empty JSON array.
func NormalizeAll[T any, P interface {
	*T
	Normalizer
}](records []T) []T {
	if records == nil {
		return []T{}
	}
	for i := range records {
		P(&records[i]).Normalize()
	}
	return records
}
