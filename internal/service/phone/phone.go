package phone

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
)

const codeTTL = 10 * time.Minute

// PhoneService issues and checks single-use phone verification codes.
// There is no SMS gateway: the generated code is handed back to the caller.
type PhoneService struct {
	storage repository.Storage

	now func() time.Time
}

func NewService(storage repository.Storage) *PhoneService {
	return &PhoneService{
		storage: storage,
		now:     time.Now,
	}
}

// GenerateCode creates a fresh six digit code for the phone number
func (s *PhoneService) GenerateCode(ctx context.Context, phone string) (models.PhoneCode, error) {
	code, err := sixDigits()
	if err != nil {
		return models.PhoneCode{}, fmt.Errorf("generate code: %w", err)
	}

	return s.storage.PhoneCode().CreateCode(ctx, models.PhoneCode{
		Phone:     phone,
		Code:      code,
		ExpiresAt: s.now().Add(codeTTL),
	})
}

// VerifyCode checks the code against the newest active one for the phone,
// burns it and marks the profile phone verified
func (s *PhoneService) VerifyCode(ctx context.Context, phone string, code string) error {
	now := s.now()

	active, err := s.storage.PhoneCode().GetActiveCode(ctx, phone, now)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(active.Code), []byte(code)) != 1 {
		return apperrors.ErrPhoneCodeInvalid
	}

	return s.storage.InTx(ctx, func(st repository.Storage) error {
		if err := st.PhoneCode().MarkUsed(ctx, active.ID, now); err != nil {
			return err
		}
		return st.Profile().MarkPhoneVerified(ctx, phone)
	})
}

func sixDigits() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
