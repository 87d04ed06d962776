package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
	"github.com/joel172001/appniania/internal/service/auth/tokenmanager"
)

const refreshCookieName = "refresh_token"

type Config struct {
	// Hasher to use during registration and login.
	// Default bcrypt hasher is used when nil.
	Hasher PasswordHasher
}

type RegisterParams struct {
	Email        string
	Password     string
	FullName     string
	Phone        string
	ReferralCode string
}

type AuthService struct {
	token   *tokenmanager.TokenManager
	hasher  PasswordHasher
	storage repository.Storage
}

func NewService(cfg Config, token *tokenmanager.TokenManager, storage repository.Storage) (*AuthService, error) {
	if token == nil || storage == nil {
		return nil, errors.New("token manager and storage must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	return &AuthService{
		token:   token,
		hasher:  hasher,
		storage: storage,
	}, nil
}

// Register creates the user together with its zero-balance profile, resolves
// the referral code if one was provided and returns a fresh token pair
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (models.User, models.TokenPair, error) {
	var user models.User
	var pair models.TokenPair

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return user, pair, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	code, err := newReferralCode()
	if err != nil {
		return user, pair, fmt.Errorf("can't generate referral code. Err: %w", err)
	}

	err = s.storage.InTx(ctx, func(storage repository.Storage) error {
		user, err = storage.User().CreateUser(ctx, params.Email, hash)
		if err != nil {
			return err
		}

		// An unknown referral code is ignored, same as signup without one
		var referrerID *models.Profile
		if params.ReferralCode != "" {
			referrer, err := storage.Profile().GetProfileByReferralCode(ctx, params.ReferralCode)
			switch {
			case err == nil:
				referrerID = &referrer
			case errors.Is(err, apperrors.ErrProfileNotFound):
			default:
				return err
			}
		}

		profile := models.Profile{
			UserID:        user.ID,
			Email:         params.Email,
			FullName:      params.FullName,
			Phone:         params.Phone,
			ReferralCode:  code,
			Balance:       decimal.Zero,
			TotalInvested: decimal.Zero,
			TotalEarnings: decimal.Zero,
		}
		if referrerID != nil {
			profile.ReferredBy = &referrerID.UserID
		}

		if _, err := storage.Profile().CreateProfile(ctx, profile); err != nil {
			return err
		}

		if referrerID != nil {
			if _, err := storage.Referral().CreateReferral(ctx, referrerID.UserID, user.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return user, pair, err
	}

	pair, err = s.token.GeneratePair(ctx, user)
	if err != nil {
		return user, pair, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (models.TokenPair, error) {
	user, err := s.storage.User().GetUserByEmail(ctx, email)
	if err != nil {
		return models.TokenPair{}, apperrors.ErrUserNotFound
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.TokenPair{}, apperrors.ErrUserNotFound
	}

	pair, err := s.token.GeneratePair(ctx, user)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return pair, nil
}

// RefreshPair rotates the single-use refresh token and issues a new pair
func (s *AuthService) RefreshPair(ctx context.Context, refresh string) (models.TokenPair, error) {
	userID, err := s.token.RotateRefresh(ctx, refresh)
	if err != nil {
		return models.TokenPair{}, err
	}

	user, err := s.storage.User().GetUserByID(ctx, userID)
	if err != nil {
		return models.TokenPair{}, err
	}

	pair, err := s.token.GeneratePair(ctx, user)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return pair, nil
}

// ChangePassword verifies the current password and stores a hash of the new one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current string, newPassword string) error {
	user, err := s.storage.User().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(user.HashedPassword, current); err != nil {
		return apperrors.ErrPasswordMismatch
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("can't use this as password. Err: %w", err)
	}

	return s.storage.User().UpdatePassword(ctx, userID, hash)
}

// SetTokenPairToResponse writes the access token to the Authorization header
// and the refresh token to an http-only cookie
func (s *AuthService) SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair) {
	w.Header().Set("Authorization", "Bearer "+pair.Access)
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.Refresh,
		Path:     "/api/auth",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// SetTokenPairToRequest authorizes an outgoing request, used by tests
func (s *AuthService) SetTokenPairToRequest(r *http.Request, pair models.TokenPair) {
	r.Header.Set("Authorization", "Bearer "+pair.Access)
	r.AddCookie(&http.Cookie{Name: refreshCookieName, Value: pair.Refresh})
}

func (s *AuthService) GetRefreshString(r *http.Request) (string, error) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		return "", apperrors.ErrRefreshTokenNotFound
	}

	return cookie.Value, nil
}

// GetUserFromRequest authenticates the request by its bearer access token
func (s *AuthService) GetUserFromRequest(ctx context.Context, r *http.Request) (models.User, error) {
	var user models.User

	header := r.Header.Get("Authorization")
	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenString == "" {
		return user, apperrors.ErrAccessTokenInvalid
	}

	claims, err := s.token.ParseAccess(tokenString)
	if err != nil {
		return user, err
	}

	return s.storage.User().GetUserByID(ctx, claims.UserID)
}
