package postgres

import (
	"context"

	"github.com/brightlend/naming-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type loanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) *loanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	var loan domain.Loan
	err := r.db.WithContext(ctx).First(&loan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Loan, error) {
	var loans []*domain.Loan
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}
