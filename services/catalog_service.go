package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"movie-catalog-backend/common"
	"movie-catalog-backend/data_access"
	"movie-catalog-backend/helper"
	"movie-catalog-backend/models"
)

type CatalogService struct {
	movieRepo *data_access.MovieRepository
}

func NewCatalogService(movieRepo *data_access.MovieRepository) *CatalogService {
	return &CatalogService{movieRepo: movieRepo}
}

func (s *CatalogService) CreateMovie(ctx context.Context, req *models.MovieCreate) (*models.Movie, error) {
	movieID, err := s.movieRepo.CreateMovie(ctx, req.ToMovie())
	if err != nil {
		return nil, err
	}

	created, err := s.movieRepo.FindByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return data_access.Normalize(created), nil
}

// ListMovies returns the movies matching all filters that are set, or every
// movie when none are.
func (s *CatalogService) ListMovies(ctx context.Context, filter models.MovieFilter) ([]models.Movie, error) {
	movies, err := s.movieRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return data_access.NormalizeAll(movies), nil
}

func (s *CatalogService) GetMovie(ctx context.Context, id models.ID) (*models.Movie, error) {
	movie, err := s.movieRepo.FindByID(ctx, id)
	switch {
	case errors.Is(err, common.ErrInvalidArgument):
		return nil, common.Errorf(common.ErrInvalidArgument, "Invalid id")
	case errors.Is(err, common.ErrNotFound):
		return nil, common.Errorf(common.ErrNotFound, "Movie not found")
	case err != nil:
		return nil, err
	}
	return data_access.Normalize(movie), nil
}

// SeedDemoCatalog inserts the demo movies into an empty catalog. A non-empty
// catalog is left alone and its size reported. Inserts are not transactional:
// when one fails, the movies inserted before it stay.
func (s *CatalogService) SeedDemoCatalog(ctx context.Context) (*models.SeedResponse, error) {
	logger := zerolog.Ctx(ctx)

	count, err := s.movieRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return &models.SeedResponse{Message: "Catalog already seeded", Count: &count}, nil
	}

	inserted := 0
	for _, movie := range helper.DemoCatalog() {
		if _, err := s.movieRepo.CreateMovie(ctx, movie); err != nil {
			logger.Error().Err(err).Int("inserted", inserted).Str("title", movie.Title).Msg("seeding stopped")
			return nil, fmt.Errorf("seed %q after %d inserts: %w", movie.Title, inserted, err)
		}
		inserted++
	}

	logger.Info().Int("inserted", inserted).Msg("demo catalog seeded")
	return &models.SeedResponse{Message: "Seeded", Inserted: &inserted}, nil
}
