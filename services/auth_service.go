package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"movie-catalog-backend/common"
	"movie-catalog-backend/data_access"
	"movie-catalog-backend/models"
)

type AuthService struct {
	userRepo *data_access.UserRepository
	scheme   AuthScheme
}

func NewAuthService(userRepo *data_access.UserRepository, scheme AuthScheme) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		scheme:   scheme,
	}
}

func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, common.Errorf(common.ErrConflict, "Email already registered")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hashed, err := s.scheme.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Tokens:       []string{},
	}

	userID, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		// the unique email index caught a concurrent registration
		if errors.Is(err, common.ErrConflict) {
			return nil, common.Errorf(common.ErrConflict, "Email already registered")
		}
		return nil, err
	}

	created, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, err := s.scheme.IssueToken(created)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.PushToken(ctx, userID, token); err != nil {
		return nil, err
	}

	created, err = s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("user_id", userID.String()).Msg("user registered")

	return &models.AuthResponse{
		Token: token,
		User:  data_access.Normalize(created),
	}, nil
}

func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf(common.ErrUnauthorized, "Invalid credentials")
		}
		return nil, err
	}

	if !s.scheme.CheckPassword(user.PasswordHash, req.Password) {
		return nil, common.Errorf(common.ErrUnauthorized, "Invalid credentials")
	}

	token, err := s.scheme.IssueToken(user)
	if err != nil {
		return nil, err
	}

	userID := models.IDFromObjectID(user.OID)
	if err := s.userRepo.AddToken(ctx, userID, token); err != nil {
		return nil, err
	}

	updated, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  data_access.Normalize(updated),
	}, nil
}

// ResolveToken returns the user holding token.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	return resolveToken(ctx, s.userRepo, s.scheme, token)
}

func resolveToken(ctx context.Context, users *data_access.UserRepository, scheme AuthScheme, token string) (*models.User, error) {
	if token == "" {
		return nil, common.Errorf(common.ErrUnauthorized, "Invalid token")
	}
	if err := scheme.VerifyToken(token); err != nil {
		return nil, common.Errorf(common.ErrUnauthorized, "Invalid token")
	}

	user, err := users.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf(common.ErrUnauthorized, "Invalid token")
		}
		return nil, err
	}
	return user, nil
}
