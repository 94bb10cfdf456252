package data_access

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"movie-catalog-backend/common"
	"movie-catalog-backend/models"
)

func newTestDocuments(t *testing.T) *Documents {
	t.Helper()
	docs := NewDocuments(NewMemoryStore())
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	docs.now = func() time.Time { return fixed }
	require.NoError(t, CreateIndexes(context.Background(), docs.Backend()))
	return docs
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "user", CollectionName(models.User{}))
	assert.Equal(t, "movie", CollectionName(&models.Movie{}))
	assert.Equal(t, "listitem", CollectionName(&models.ListItem{}))
	assert.Equal(t, models.ListItemCollection, CollectionName(models.ListItem{}))
	assert.Equal(t, "", CollectionName(nil))
}

func TestDocuments_CreateStampsTimes(t *testing.T) {
	docs := newTestDocuments(t)
	ctx := context.Background()

	id, err := docs.Create(ctx, models.ListItemCollection, &models.ListItem{UserID: "u1", MovieID: "m1"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var item models.ListItem
	require.NoError(t, docs.FindByID(ctx, models.ListItemCollection, id, &item))
	require.NotNil(t, item.CreatedAt)
	require.NotNil(t, item.UpdatedAt)
	assert.True(t, item.CreatedAt.Equal(docs.now()))
}

func TestDocuments_CreateRejectsInvalidRecord(t *testing.T) {
	docs := newTestDocuments(t)
	ctx := context.Background()

	year := 1500
	_, err := docs.Create(ctx, models.MovieCollection, &models.Movie{Title: "Old", Year: &year})
	assert.ErrorIs(t, err, common.ErrValidation)

	n, err := docs.Count(ctx, models.MovieCollection, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestDocuments_CreateDuplicateIsConflict(t *testing.T) {
	docs := newTestDocuments(t)
	ctx := context.Background()

	user := func() *models.User {
		return &models.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "pw", Tokens: []string{}}
	}
	_, err := docs.Create(ctx, models.UserCollection, user())
	require.NoError(t, err)

	_, err = docs.Create(ctx, models.UserCollection, user())
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestDocuments_FindByIDErrors(t *testing.T) {
	docs := newTestDocuments(t)
	ctx := context.Background()

	var movie models.Movie
	err := docs.FindByID(ctx, models.MovieCollection, "not-an-id", &movie)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	err = docs.FindByID(ctx, models.MovieCollection, models.IDFromObjectID(primitive.NewObjectID()), &movie)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDocuments_PushAndAddToSet(t *testing.T) {
	docs := newTestDocuments(t)
	ctx := context.Background()

	id, err := docs.Create(ctx, models.UserCollection, &models.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "pw", Tokens: []string{}})
	require.NoError(t, err)

	require.NoError(t, docs.Push(ctx, models.UserCollection, id, "tokens", "t1"))
	require.NoError(t, docs.AddToSet(ctx, models.UserCollection, id, "tokens", "t1"))
	require.NoError(t, docs.AddToSet(ctx, models.UserCollection, id, "tokens", "t2"))

	var user models.User
	require.NoError(t, docs.FindOne(ctx, models.UserCollection, bson.M{"tokens": "t2"}, &user))
	assert.Equal(t, []string{"t1", "t2"}, user.Tokens)

	err = docs.Push(ctx, models.UserCollection, models.IDFromObjectID(primitive.NewObjectID()), "tokens", "t")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = docs.Push(ctx, models.UserCollection, "bad", "tokens", "t")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestNormalize_RoundTrip(t *testing.T) {
	docs := newTestDocuments(t)
	ctx := context.Background()

	id, err := docs.Create(ctx, models.MovieCollection, &models.Movie{Title: "The Horizon", Genres: []string{"Sci-Fi"}})
	require.NoError(t, err)

	var movie models.Movie
	require.NoError(t, docs.FindByID(ctx, models.MovieCollection, id, &movie))
	normalized := Normalize(&movie)
	assert.Equal(t, id, normalized.ID)

	raw, err := json.Marshal(normalized)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.NotContains(t, out, "_id")
	assert.NotContains(t, out, "OID")
	idValue, ok := out["id"].(string)
	require.True(t, ok, "id must be a string")
	assert.NotEmpty(t, idValue)
}

func TestNormalize_NilAndCollections(t *testing.T) {
	var missing *models.Movie
	assert.Nil(t, Normalize(missing))

	assert.Equal(t, []models.Movie{}, NormalizeAll[models.Movie]([]models.Movie(nil)))

	oids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	items := NormalizeAll([]models.ListItem{{OID: oids[0]}, {OID: oids[1]}})
	assert.Equal(t, models.ID(oids[0].Hex()), items[0].ID)
	assert.Equal(t, models.ID(oids[1].Hex()), items[1].ID)
}
