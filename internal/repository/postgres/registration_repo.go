package postgres

import (
	"context"

	"github.com/brightlend/naming-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *registrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	return r.db.WithContext(ctx).Save(reg).Error
}

func (r *registrationRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Registration, error) {
	var regs []*domain.Registration
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}
