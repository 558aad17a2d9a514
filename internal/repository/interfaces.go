package repository

import (
	"context"

	"github.com/brightlend/naming-service/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByPrivyID(ctx context.Context, privyUserID string) (*domain.User, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Loan, error)
	Update(ctx context.Context, loan *domain.Loan) error
}

type RegistrationRepository interface {
	Create(ctx context.Context, reg *domain.Registration) error
	Update(ctx context.Context, reg *domain.Registration) error
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Registration, error)
}

type Repositories struct {
	User         UserRepository
	Loan         LoanRepository
	Registration RegistrationRepository
}
