package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"movie-catalog-backend/common"
	"movie-catalog-backend/data_access"
	"movie-catalog-backend/models"
)

type ListService struct {
	userRepo  *data_access.UserRepository
	listRepo  *data_access.ListItemRepository
	movieRepo *data_access.MovieRepository
	scheme    AuthScheme
}

func NewListService(
	userRepo *data_access.UserRepository,
	listRepo *data_access.ListItemRepository,
	movieRepo *data_access.MovieRepository,
	scheme AuthScheme,
) *ListService {
	return &ListService{
		userRepo:  userRepo,
		listRepo:  listRepo,
		movieRepo: movieRepo,
		scheme:    scheme,
	}
}

// AddToList saves movieID on the token holder's list. Adding a pair that is
// already there returns the existing item. movieID is not checked against the
// catalog.
func (s *ListService) AddToList(ctx context.Context, token string, movieID string) (*models.ListItem, error) {
	user, err := resolveToken(ctx, s.userRepo, s.scheme, token)
	if err != nil {
		return nil, err
	}
	userID := models.IDFromObjectID(user.OID)

	existing, err := s.listRepo.FindPair(ctx, userID, movieID)
	if err == nil {
		return data_access.Normalize(existing), nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	itemID, err := s.listRepo.CreateListItem(ctx, &models.ListItem{UserID: userID, MovieID: movieID})
	if errors.Is(err, common.ErrConflict) {
		// lost a race with a concurrent add of the same pair
		existing, err := s.listRepo.FindPair(ctx, userID, movieID)
		if err != nil {
			return nil, err
		}
		return data_access.Normalize(existing), nil
	}
	if err != nil {
		return nil, err
	}

	created, err := s.listRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return data_access.Normalize(created), nil
}

// GetList returns the movies on the token holder's list in store order.
// Items whose movie id is malformed or no longer exists are left out.
func (s *ListService) GetList(ctx context.Context, token string) ([]models.Movie, error) {
	user, err := resolveToken(ctx, s.userRepo, s.scheme, token)
	if err != nil {
		return nil, err
	}

	items, err := s.listRepo.ListByUser(ctx, models.IDFromObjectID(user.OID))
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		oid, err := models.ID(item.MovieID).ObjectID()
		if err != nil {
			continue
		}
		ids = append(ids, oid)
	}

	movies, err := s.movieRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return data_access.NormalizeAll(movies), nil
}
