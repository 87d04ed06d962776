package tokenmanager

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
)

const (
	defaultSigningMethod   = "HS256"
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 30 * 24 * time.Hour
)

type AccessTokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"uid"`
}

// Token manager config with sensible defaults
type Config struct {
	// Secret key to sign access tokens. Required.
	SecretKey string

	// JWT MAC algorithm, defaults to HS256
	Alg string

	// Access and refresh token lifetimes
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type TokenManager struct {
	key         string
	alg         jwt.SigningMethod
	accessTTL   time.Duration
	refreshTTL  time.Duration
	refreshRepo repository.RefreshTokenRepo
}

func New(cfg Config, refreshRepo repository.RefreshTokenRepo) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}
	if refreshRepo == nil {
		return nil, errors.New("refresh token repo must not be nil")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = defaultAccessTokenTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = defaultRefreshTokenTTL
	}

	return &TokenManager{
		key:         cfg.SecretKey,
		alg:         jwt.GetSigningMethod(cfg.Alg),
		accessTTL:   cfg.AccessTTL,
		refreshTTL:  cfg.RefreshTTL,
		refreshRepo: refreshRepo,
	}, nil
}

// GeneratePair issues a signed JWT access token and an opaque single-use
// refresh token persisted in the repo
func (m *TokenManager) GeneratePair(ctx context.Context, user models.User) (models.TokenPair, error) {
	var pair models.TokenPair
	now := time.Now().Truncate(time.Second)

	accessToken := jwt.NewWithClaims(
		m.alg,
		AccessTokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			},
			UserID: user.ID,
		},
	)
	access, err := accessToken.SignedString([]byte(m.key))
	if err != nil {
		return pair, fmt.Errorf("error while signing access token. Err: %w", err)
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return pair, fmt.Errorf("error while generating refresh token. Err: %w", err)
	}
	refresh := hex.EncodeToString(b)

	err = m.refreshRepo.Save(ctx, models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     refresh,
		CreatedAt: now,
		ExpiresAt: now.Add(m.refreshTTL),
	})
	if err != nil {
		return pair, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// ParseAccess validates signature and expiry of the access token string
// and returns its claims
func (m *TokenManager) ParseAccess(tokenString string) (AccessTokenClaims, error) {
	var claims AccessTokenClaims

	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)
	if err != nil || !token.Valid {
		return claims, apperrors.ErrAccessTokenInvalid
	}

	return claims, nil
}

// RotateRefresh marks the given refresh token used and returns its owner id.
// A used or expired token is rejected.
func (m *TokenManager) RotateRefresh(ctx context.Context, refresh string) (uuid.UUID, error) {
	now := time.Now()

	token, err := m.refreshRepo.GetValidToken(ctx, refresh, now)
	if err != nil {
		return uuid.Nil, err
	}

	if err := m.refreshRepo.MarkUsed(ctx, refresh, now); err != nil {
		return uuid.Nil, err
	}

	return token.UserID, nil
}
