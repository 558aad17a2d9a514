package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brightlend/naming-service/internal/domain"
	"github.com/brightlend/naming-service/internal/repository"
)

// LoanService keeps the off-chain loan book the dashboard reads. The
// lending contract's own accounting lives on-chain and is not mirrored
// here beyond status.
type LoanService struct {
	loanRepo repository.LoanRepository
	userRepo repository.UserRepository
}

func NewLoanService(loanRepo repository.LoanRepository, userRepo repository.UserRepository) *LoanService {
	return &LoanService{
		loanRepo: loanRepo,
		userRepo: userRepo,
	}
}

type CreateLoanInput struct {
	Amount         float64
	InterestRate   float64
	DurationMonths int
}

func (s *LoanService) Create(ctx context.Context, userID uuid.UUID, input CreateLoanInput) (*domain.Loan, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidLoanAmount
	}
	if input.DurationMonths < 1 {
		return nil, domain.ErrInvalidLoanDuration
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, domain.ErrUserNotFound
	}

	loan := &domain.Loan{
		ID:             uuid.New(),
		UserID:         userID,
		Amount:         input.Amount,
		InterestRate:   input.InterestRate,
		DurationMonths: input.DurationMonths,
		Status:         domain.LoanStatusPending,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *LoanService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Loan, error) {
	return s.loanRepo.GetByUserID(ctx, userID)
}
