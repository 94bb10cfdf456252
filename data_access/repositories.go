package data_access

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"movie-catalog-backend/common"
	"movie-catalog-backend/models"
)

type UserRepository struct {
	docs  *Documents
	cache TokenCache
}

type MovieRepository struct {
	docs *Documents
}

type ListItemRepository struct {
	docs *Documents
}

// NewUserRepository creates a user repository. cache may be nil.
func NewUserRepository(docs *Documents, cache TokenCache) *UserRepository {
	return &UserRepository{
		docs:  docs,
		cache: cache,
	}
}

func NewMovieRepository(docs *Documents) *MovieRepository {
	return &MovieRepository{docs: docs}
}

func NewListItemRepository(docs *Documents) *ListItemRepository {
	return &ListItemRepository{docs: docs}
}

// UserRepository methods
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (models.ID, error) {
	return r.docs.Create(ctx, models.UserCollection, user)
}

func (r *UserRepository) FindByID(ctx context.Context, id models.ID) (*models.User, error) {
	var user models.User
	if err := r.docs.FindByID(ctx, models.UserCollection, id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.docs.FindOne(ctx, models.UserCollection, bson.M{"email": email}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByToken returns the user whose token list contains token. Cache failures
// are logged and fall through to the store.
func (r *UserRepository) FindByToken(ctx context.Context, token string) (*models.User, error) {
	logger := zerolog.Ctx(ctx)

	if r.cache != nil {
		id, ok, err := r.cache.Lookup(ctx, token)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("token cache lookup failed")
		case ok:
			user, err := r.FindByID(ctx, id)
			if err == nil && user.HasToken(token) {
				return user, nil
			}
			if err != nil && !errors.Is(err, common.ErrNotFound) && !errors.Is(err, common.ErrInvalidArgument) {
				return nil, err
			}
		}
	}

	var user models.User
	if err := r.docs.FindOne(ctx, models.UserCollection, bson.M{"tokens": token}, &user); err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Remember(ctx, token, models.IDFromObjectID(user.OID)); err != nil {
			logger.Warn().Err(err).Msg("token cache store failed")
		}
	}
	return &user, nil
}

// PushToken appends token to the user's tokens, duplicates included.
func (r *UserRepository) PushToken(ctx context.Context, id models.ID, token string) error {
	return r.docs.Push(ctx, models.UserCollection, id, "tokens", token)
}

// AddToken appends token to the user's tokens unless already present.
func (r *UserRepository) AddToken(ctx context.Context, id models.ID, token string) error {
	return r.docs.AddToSet(ctx, models.UserCollection, id, "tokens", token)
}

// MovieRepository methods
func (r *MovieRepository) CreateMovie(ctx context.Context, movie *models.Movie) (models.ID, error) {
	return r.docs.Create(ctx, models.MovieCollection, movie)
}

func (r *MovieRepository) FindByID(ctx context.Context, id models.ID) (*models.Movie, error) {
	var movie models.Movie
	if err := r.docs.FindByID(ctx, models.MovieCollection, id, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// List returns the movies matching every filter that is set.
func (r *MovieRepository) List(ctx context.Context, filter models.MovieFilter) ([]models.Movie, error) {
	q := bson.M{}
	if filter.Genre != nil {
		q["genres"] = *filter.Genre
	}
	if filter.Featured != nil {
		q["featured"] = *filter.Featured
	}

	var movies []models.Movie
	if err := r.docs.Query(ctx, models.MovieCollection, q, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// FindByIDs returns the movies whose ids are listed, in store order. Unknown
// ids are skipped.
func (r *MovieRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Movie, error) {
	if len(ids) == 0 {
		return []models.Movie{}, nil
	}

	var movies []models.Movie
	if err := r.docs.Query(ctx, models.MovieCollection, bson.M{"_id": bson.M{"$in": ids}}, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *MovieRepository) Count(ctx context.Context) (int64, error) {
	return r.docs.Count(ctx, models.MovieCollection, nil)
}

// ListItemRepository methods
func (r *ListItemRepository) CreateListItem(ctx context.Context, item *models.ListItem) (models.ID, error) {
	return r.docs.Create(ctx, models.ListItemCollection, item)
}

func (r *ListItemRepository) FindByID(ctx context.Context, id models.ID) (*models.ListItem, error) {
	var item models.ListItem
	if err := r.docs.FindByID(ctx, models.ListItemCollection, id, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ListItemRepository) FindPair(ctx context.Context, userID models.ID, movieID string) (*models.ListItem, error) {
	var item models.ListItem
	filter := bson.M{"user_id": string(userID), "movie_id": movieID}
	if err := r.docs.FindOne(ctx, models.ListItemCollection, filter, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ListItemRepository) ListByUser(ctx context.Context, userID models.ID) ([]models.ListItem, error) {
	var items []models.ListItem
	if err := r.docs.Query(ctx, models.ListItemCollection, bson.M{"user_id": string(userID)}, &items); err != nil {
		return nil, err
	}
	return items, nil
}
