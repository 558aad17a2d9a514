package postgres

import (
	"context"

	"github.com/brightlend/naming-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByPrivyID(ctx context.Context, privyUserID string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "privy_user_id = ?", privyUserID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetBySubdomain(ctx context.Context, subdomain string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "ens_subdomain = ?", subdomain).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}
