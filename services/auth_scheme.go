package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"movie-catalog-backend/models"
)

const (
	AuthModeDemo     = "demo"
	AuthModeHardened = "hardened"
)

// AuthScheme decides how passwords are stored and which token a successful
// register or login hands out.
type AuthScheme interface {
	HashPassword(password string) (string, error)
	CheckPassword(stored, given string) bool
	IssueToken(user *models.User) (string, error)
	// VerifyToken rejects tokens that are malformed or expired before the
	// token lookup runs.
	VerifyToken(token string) error
}

// NewAuthScheme returns the scheme for mode. The hardened scheme needs a secret.
func NewAuthScheme(mode string, jwtSecret string, tokenTTL time.Duration) (AuthScheme, error) {
	switch mode {
	case "", AuthModeDemo:
		return DemoScheme{}, nil
	case AuthModeHardened:
		if jwtSecret == "" {
			return nil, errors.New("hardened auth mode requires a JWT secret")
		}
		return &HardenedScheme{secret: []byte(jwtSecret), ttl: tokenTTL}, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", mode)
	}
}

// DemoScheme stores the password verbatim and uses the email as the token.
// It is not a security mechanism.
type DemoScheme struct{}

func (DemoScheme) HashPassword(password string) (string, error) {
	return password, nil
}

func (DemoScheme) CheckPassword(stored, given string) bool {
	return stored == given
}

func (DemoScheme) IssueToken(user *models.User) (string, error) {
	return user.Email, nil
}

func (DemoScheme) VerifyToken(string) error {
	return nil
}

// HardenedScheme hashes passwords with bcrypt and issues HS256 JWTs that expire.
type HardenedScheme struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (s *HardenedScheme) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *HardenedScheme) CheckPassword(stored, given string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
}

func (s *HardenedScheme) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	if s.now != nil {
		now = s.now()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.Email,
		ID:        string(models.IDFromObjectID(user.OID)),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	return token.SignedString(s.secret)
}

func (s *HardenedScheme) VerifyToken(tokenString string) error {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if s.now != nil {
		opts = append(opts, jwt.WithTimeFunc(s.now))
	}

	_, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	return err
}
