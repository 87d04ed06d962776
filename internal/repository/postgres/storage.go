package postgres

import (
	"context"
	"fmt"

	"github.com/joel172001/appniania/internal/repository"
)

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) repository.Storage {
	return &Storage{db: db}
}

func (s *Storage) User() repository.UserRepo {
	return &UserRepo{DB: s.db}
}

func (s *Storage) Refresh() repository.RefreshTokenRepo {
	return &RefreshTokenRepo{DB: s.db}
}

func (s *Storage) Profile() repository.ProfileRepo {
	return &ProfileRepo{DB: s.db}
}

func (s *Storage) Plan() repository.PlanRepo {
	return &PlanRepo{DB: s.db}
}

func (s *Storage) Investment() repository.InvestmentRepo {
	return &InvestmentRepo{DB: s.db}
}

func (s *Storage) Earning() repository.EarningRepo {
	return &EarningRepo{DB: s.db}
}

func (s *Storage) Transaction() repository.TransactionRepo {
	return &TransactionRepo{DB: s.db}
}

func (s *Storage) Withdrawal() repository.WithdrawalRepo {
	return &WithdrawalRepo{DB: s.db}
}

func (s *Storage) Task() repository.TaskRepo {
	return &TaskRepo{DB: s.db}
}

func (s *Storage) Notification() repository.NotificationRepo {
	return &NotificationRepo{DB: s.db}
}

func (s *Storage) Referral() repository.ReferralRepo {
	return &ReferralRepo{DB: s.db}
}

func (s *Storage) Verification() repository.VerificationRepo {
	return &VerificationRepo{DB: s.db}
}

func (s *Storage) PhoneCode() repository.PhoneCodeRepo {
	return &PhoneCodeRepo{DB: s.db}
}

func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db tx error: %w", err)
	}

	defer func() {
		switch err {
		case nil:
			err = tx.Commit(ctx)
		default:
			_ = tx.Rollback(ctx)
		}
	}()

	err = fn(NewStorage(tx))

	return err
}
