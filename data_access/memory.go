package data_access

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreClosed = errors.New("memory store is closed")

// MemoryStore is an in-process Backend. Documents round-trip through BSON so
// decoding behaves the same as with MongoDB. Each collection keeps insertion
// order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]bson.M
	indexes     map[string][]IndexSpec
	closed      bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]bson.M),
		indexes:     make(map[string][]IndexSpec),
	}
}

func (s *MemoryStore) InsertOne(ctx context.Context, collection string, doc any) (primitive.ObjectID, error) {
	m, err := toDocument(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}

	oid := primitive.NewObjectID()
	if v, ok := m["_id"]; ok {
		given, ok := v.(primitive.ObjectID)
		if !ok {
			return primitive.NilObjectID, fmt.Errorf("unsupported _id type %T", v)
		}
		oid = given
	}
	m["_id"] = oid

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return primitive.NilObjectID, errStoreClosed
	}

	docs := s.collections[collection]
	for _, existing := range docs {
		if existing["_id"] == oid {
			return primitive.NilObjectID, fmt.Errorf("%w: _id %s", ErrDuplicateKey, oid.Hex())
		}
	}
	for _, spec := range s.indexes[collection] {
		if !spec.Unique {
			continue
		}
		for _, existing := range docs {
			if sameKeys(existing, m, spec.Keys) {
				return primitive.NilObjectID, fmt.Errorf("%w: index %s", ErrDuplicateKey, spec.Name)
			}
		}
	}

	s.collections[collection] = append(docs, m)
	return oid, nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, filter bson.M, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errStoreClosed
	}

	matched, err := s.match(collection, filter)
	if err != nil {
		return err
	}
	return decodeAll(matched, out)
}

func (s *MemoryStore) FindOne(ctx context.Context, collection string, filter bson.M, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errStoreClosed
	}

	matched, err := s.match(collection, filter)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return ErrNoDocuments
	}
	return decode(matched[0], out)
}

func (s *MemoryStore) CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, errStoreClosed
	}

	matched, err := s.match(collection, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (s *MemoryStore) UpdateByID(ctx context.Context, collection string, id primitive.ObjectID, update bson.M) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStoreClosed
	}

	for _, doc := range s.collections[collection] {
		if doc["_id"] != id {
			continue
		}
		return applyUpdate(doc, update)
	}
	return ErrNoDocuments
}

func (s *MemoryStore) ListCollectionNames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errStoreClosed
	}

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) EnsureIndexes(ctx context.Context, specs []IndexSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, spec := range specs {
		replaced := false
		for i, existing := range s.indexes[spec.Collection] {
			if existing.Name == spec.Name {
				s.indexes[spec.Collection][i] = spec
				replaced = true
			}
		}
		if !replaced {
			s.indexes[spec.Collection] = append(s.indexes[spec.Collection], spec)
		}
		if _, ok := s.collections[spec.Collection]; !ok {
			s.collections[spec.Collection] = nil
		}
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errStoreClosed
	}
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// match must be called with s.mu held.
func (s *MemoryStore) match(collection string, filter bson.M) ([]bson.M, error) {
	var out []bson.M
	for _, doc := range s.collections[collection] {
		ok, err := matches(doc, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

func matches(doc bson.M, filter bson.M) (bool, error) {
	for key, want := range filter {
		got, present := doc[key]

		if want == nil {
			if present && got != nil {
				return false, nil
			}
			continue
		}

		if op, ok := want.(bson.M); ok {
			in, ok := op["$in"]
			if !ok || len(op) != 1 {
				return false, fmt.Errorf("unsupported filter operator on %q", key)
			}
			list, ok := canonical(in).(primitive.A)
			if !ok {
				return false, fmt.Errorf("$in on %q needs an array", key)
			}
			if !present || !anyMatch(got, list) {
				return false, nil
			}
			continue
		}

		if !present || !valueMatches(got, canonical(want)) {
			return false, nil
		}
	}
	return true, nil
}

func anyMatch(got any, list primitive.A) bool {
	for _, candidate := range list {
		if valueMatches(got, candidate) {
			return true
		}
	}
	return false
}

// valueMatches compares a stored value with a canonical filter value. A stored
// array matches when it contains the value.
func valueMatches(got, want any) bool {
	if reflect.DeepEqual(got, want) {
		return true
	}
	if arr, ok := got.(primitive.A); ok {
		for _, el := range arr {
			if reflect.DeepEqual(el, want) {
				return true
			}
		}
	}
	return false
}

func applyUpdate(doc bson.M, update bson.M) error {
	for op, raw := range update {
		fields, ok := raw.(bson.M)
		if !ok {
			return fmt.Errorf("update operator %s needs a document", op)
		}
		for field, value := range fields {
			v := canonical(value)
			switch op {
			case "$set":
				doc[field] = v
			case "$push":
				arr, _ := doc[field].(primitive.A)
				doc[field] = append(arr, v)
			case "$addToSet":
				arr, _ := doc[field].(primitive.A)
				if !valueMatches(arr, v) {
					doc[field] = append(arr, v)
				}
			default:
				return fmt.Errorf("unsupported update operator %s", op)
			}
		}
	}
	return nil
}

func sameKeys(a, b bson.M, keys []string) bool {
	for _, k := range keys {
		if !reflect.DeepEqual(a[k], b[k]) {
			return false
		}
	}
	return true
}

func toDocument(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// canonical returns v in the representation it has after a BSON round trip.
func canonical(v any) any {
	m, err := toDocument(bson.M{"v": v})
	if err != nil {
		return v
	}
	return m["v"]
}

func decode(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func decodeAll(docs []bson.M, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("out must be a pointer to a slice, got %T", out)
	}

	slice := rv.Elem()
	result := reflect.MakeSlice(slice.Type(), 0, len(docs))
	for _, doc := range docs {
		el := reflect.New(slice.Type().Elem())
		if err := decode(doc, el.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, el.Elem())
	}
	slice.Set(result)
	return nil
}
