package data_access

import (
	"context"

	"movie-catalog-backend/models"
)

// DefaultIndexes back the lookup-before-insert checks on user email and on the
// (user, movie) list pair with unique constraints, and index the token and
// genre lookups.
func DefaultIndexes() []IndexSpec {
	return []IndexSpec{
		{Collection: models.UserCollection, Name: "user_email_unique", Keys: []string{"email"}, Unique: true},
		{Collection: models.UserCollection, Name: "user_tokens", Keys: []string{"tokens"}},
		{Collection: models.MovieCollection, Name: "movie_genres", Keys: []string{"genres"}},
		{Collection: models.ListItemCollection, Name: "listitem_user_movie_unique", Keys: []string{"user_id", "movie_id"}, Unique: true},
	}
}

func CreateIndexes(ctx context.Context, backend Backend) error {
	return backend.EnsureIndexes(ctx, DefaultIndexes())
}
