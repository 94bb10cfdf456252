package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"movie-catalog-backend/common"
	"movie-catalog-backend/data_access"
	"movie-catalog-backend/models"
)

type testEnv struct {
	docs    *data_access.Documents
	auth    *AuthService
	catalog *CatalogService
	list    *ListService
}

func newTestEnvWith(t *testing.T, backend data_access.Backend, scheme AuthScheme) *testEnv {
	t.Helper()
	require.NoError(t, data_access.CreateIndexes(context.Background(), backend))

	docs := data_access.NewDocuments(backend)
	userRepo := data_access.NewUserRepository(docs, nil)
	movieRepo := data_access.NewMovieRepository(docs)
	listRepo := data_access.NewListItemRepository(docs)

	return &testEnv{
		docs:    docs,
		auth:    NewAuthService(userRepo, scheme),
		catalog: NewCatalogService(movieRepo),
		list:    NewListService(userRepo, listRepo, movieRepo, scheme),
	}
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, data_access.NewMemoryStore(), DemoScheme{})
}

func register(t *testing.T, env *testEnv, name, email, password string) *models.AuthResponse {
	t.Helper()
	resp, err := env.auth.Register(context.Background(), &models.RegisterRequest{Name: name, Email: email, Password: password})
	require.NoError(t, err)
	return resp
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp := register(t, env, "Ann", "ann@x.com", "pw")
	assert.Equal(t, "ann@x.com", resp.Token)
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "Ann", resp.User.Name)
	assert.Equal(t, []string{"ann@x.com"}, resp.User.Tokens)
	assert.Equal(t, "pw", resp.User.PasswordHash)

	_, err := env.auth.Login(ctx, &models.LoginRequest{Email: "ann@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = env.auth.Login(ctx, &models.LoginRequest{Email: "nobody@x.com", Password: "pw"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	login, err := env.auth.Login(ctx, &models.LoginRequest{Email: "ann@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, resp.Token, login.Token)
	assert.Equal(t, resp.User.ID, login.User.ID)
	// token already present, login does not add it again
	assert.Equal(t, []string{"ann@x.com"}, login.User.Tokens)

	user, err := env.auth.ResolveToken(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", user.Email)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	register(t, env, "Ann", "ann@x.com", "pw")
	_, err := env.auth.Register(ctx, &models.RegisterRequest{Name: "Other", Email: "ann@x.com", Password: "x"})
	require.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, "Email already registered", err.Error())

	// email match is case-sensitive
	_, err = env.auth.Register(ctx, &models.RegisterRequest{Name: "Ann", Email: "Ann@x.com", Password: "pw"})
	assert.NoError(t, err)
}

func TestAuthService_RegisterInvalidEmail(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.Register(context.Background(), &models.RegisterRequest{Name: "Ann", Email: "nope", Password: "pw"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestAuthService_ResolveUnknownToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.ResolveToken(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = env.auth.ResolveToken(ctx, "")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAuthService_HardenedScheme(t *testing.T) {
	scheme, err := NewAuthScheme(AuthModeHardened, "secret", time.Hour)
	require.NoError(t, err)
	env := newTestEnvWith(t, data_access.NewMemoryStore(), scheme)
	ctx := context.Background()

	resp := register(t, env, "Ann", "ann@x.com", "pw")
	assert.NotEqual(t, "ann@x.com", resp.Token)
	assert.NotEqual(t, "pw", resp.User.PasswordHash)

	_, err = env.auth.Login(ctx, &models.LoginRequest{Email: "ann@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	login, err := env.auth.Login(ctx, &models.LoginRequest{Email: "ann@x.com", Password: "pw"})
	require.NoError(t, err)

	user, err := env.auth.ResolveToken(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", user.Email)

	_, err = env.auth.ResolveToken(ctx, "ann@x.com")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestHardenedScheme_ExpiredToken(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	scheme := &HardenedScheme{secret: []byte("secret"), ttl: time.Hour, now: func() time.Time { return issued }}

	token, err := scheme.IssueToken(&models.User{Email: "ann@x.com", OID: primitive.NewObjectID()})
	require.NoError(t, err)
	require.NoError(t, scheme.VerifyToken(token))

	scheme.now = nil
	assert.Error(t, scheme.VerifyToken(token))

	other := &HardenedScheme{secret: []byte("other"), ttl: time.Hour}
	fresh, err := other.IssueToken(&models.User{Email: "ann@x.com"})
	require.NoError(t, err)
	assert.Error(t, scheme.VerifyToken(fresh))
}

func TestNewAuthScheme(t *testing.T) {
	s, err := NewAuthScheme("", "", 0)
	require.NoError(t, err)
	assert.IsType(t, DemoScheme{}, s)

	_, err = NewAuthScheme(AuthModeHardened, "", time.Hour)
	assert.Error(t, err)

	_, err = NewAuthScheme("magic", "", 0)
	assert.Error(t, err)
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }
func boolPtr(b bool) *bool        { return &b }

func TestCatalogService_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	movie, err := env.catalog.CreateMovie(ctx, &models.MovieCreate{Title: "Solo", Year: intPtr(2001), Rating: floatPtr(6.5)})
	require.NoError(t, err)
	assert.NotEmpty(t, movie.ID)
	assert.Equal(t, []string{}, movie.Genres)
	assert.False(t, movie.Featured)

	got, err := env.catalog.GetMovie(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, movie.ID, got.ID)
	assert.Equal(t, "Solo", got.Title)

	_, err = env.catalog.GetMovie(ctx, "not-an-id")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = env.catalog.GetMovie(ctx, models.IDFromObjectID(primitive.NewObjectID()))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCatalogService_CreateRejectsOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateMovie(ctx, &models.MovieCreate{Title: "Old", Year: intPtr(1500)})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = env.catalog.CreateMovie(ctx, &models.MovieCreate{Title: "Loud", Rating: floatPtr(11)})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = env.catalog.CreateMovie(ctx, &models.MovieCreate{Title: "Short", DurationMinutes: intPtr(0)})
	assert.ErrorIs(t, err, common.ErrValidation)

	movies, err := env.catalog.ListMovies(ctx, models.MovieFilter{})
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestCatalogService_SeedIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.catalog.SeedDemoCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Seeded", first.Message)
	require.NotNil(t, first.Inserted)
	assert.Equal(t, 5, *first.Inserted)
	assert.Nil(t, first.Count)

	second, err := env.catalog.SeedDemoCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Catalog already seeded", second.Message)
	require.NotNil(t, second.Count)
	assert.EqualValues(t, 5, *second.Count)
	assert.Nil(t, second.Inserted)

	all, err := env.catalog.ListMovies(ctx, models.MovieFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "The Horizon", all[0].Title)
}

func TestCatalogService_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.catalog.SeedDemoCatalog(ctx)
	require.NoError(t, err)

	scifi, err := env.catalog.ListMovies(ctx, models.MovieFilter{Genre: strPtr("Sci-Fi")})
	require.NoError(t, err)
	require.Len(t, scifi, 1)
	assert.Contains(t, scifi[0].Genres, "Sci-Fi")

	featured, err := env.catalog.ListMovies(ctx, models.MovieFilter{Featured: boolPtr(true)})
	require.NoError(t, err)
	for _, m := range featured {
		assert.True(t, m.Featured)
	}
	assert.Len(t, featured, 1)

	both, err := env.catalog.ListMovies(ctx, models.MovieFilter{Genre: strPtr("Drama"), Featured: boolPtr(true)})
	require.NoError(t, err)
	assert.Empty(t, both)

	for _, m := range scifi {
		assert.NotEmpty(t, m.ID)
	}
}

// failingBackend fails every InsertOne after the first okInserts.
type failingBackend struct {
	data_access.Backend
	okInserts int
	inserts   int
}

func (f *failingBackend) InsertOne(ctx context.Context, collection string, doc any) (primitive.ObjectID, error) {
	f.inserts++
	if f.inserts > f.okInserts {
		return primitive.NilObjectID, errors.New("store unavailable")
	}
	return f.Backend.InsertOne(ctx, collection, doc)
}

func TestCatalogService_SeedPartialFailureIsNotRolledBack(t *testing.T) {
	backend := &failingBackend{Backend: data_access.NewMemoryStore(), okInserts: 2}
	env := newTestEnvWith(t, backend, DemoScheme{})
	ctx := context.Background()

	_, err := env.catalog.SeedDemoCatalog(ctx)
	require.Error(t, err)

	movies, err := env.catalog.ListMovies(ctx, models.MovieFilter{})
	require.NoError(t, err)
	assert.Len(t, movies, 2)

	// the emptiness guard keeps a retry from completing the catalog
	backend.okInserts = 100
	again, err := env.catalog.SeedDemoCatalog(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, *again.Count)
}

func TestListService_AddIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := register(t, env, "Ann", "ann@x.com", "pw").Token

	first, err := env.list.AddToList(ctx, token, "some-movie")
	require.NoError(t, err)
	second, err := env.list.AddToList(ctx, token, "some-movie")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "some-movie", first.MovieID)

	n, err := env.docs.Count(ctx, models.ListItemCollection, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = env.list.AddToList(ctx, "bad-token", "some-movie")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestListService_GetList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.catalog.SeedDemoCatalog(ctx)
	require.NoError(t, err)

	ann := register(t, env, "Ann", "ann@x.com", "pw").Token
	bo := register(t, env, "Bo", "bo@x.com", "pw").Token

	horizon, err := env.catalog.ListMovies(ctx, models.MovieFilter{Genre: strPtr("Sci-Fi")})
	require.NoError(t, err)
	require.Len(t, horizon, 1)

	_, err = env.list.AddToList(ctx, ann, string(horizon[0].ID))
	require.NoError(t, err)
	_, err = env.list.AddToList(ctx, ann, "not-an-id")
	require.NoError(t, err)
	_, err = env.list.AddToList(ctx, ann, primitive.NewObjectID().Hex())
	require.NoError(t, err)

	movies, err := env.list.GetList(ctx, ann)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "The Horizon", movies[0].Title)
	assert.Equal(t, horizon[0].ID, movies[0].ID)

	empty, err := env.list.GetList(ctx, bo)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = env.list.GetList(ctx, "nobody")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
