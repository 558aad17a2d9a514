package service

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightlend/naming-service/internal/config"
	"github.com/brightlend/naming-service/internal/domain"
	"github.com/brightlend/naming-service/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewUserService(userRepo repository.UserRepository, cfg *config.Config) *UserService {
	return &UserService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

type SyncInput struct {
	PrivyUserID   string
	WalletAddress string
	Email         string
	PhoneNumber   string
}

type SyncResult struct {
	User        *domain.User
	AccessToken string
}

// Sync upserts the user record for an authenticated wallet session and
// issues an access token. The identity itself is established upstream by
// the embedded-wallet provider; this service only mirrors it.
func (s *UserService) Sync(ctx context.Context, input SyncInput) (*SyncResult, error) {
	if input.PrivyUserID == "" || input.WalletAddress == "" {
		return nil, domain.ErrMissingFields
	}
	if !common.IsHexAddress(input.WalletAddress) {
		return nil, domain.ErrInvalidAddress
	}

	user, err := s.userRepo.GetByPrivyID(ctx, input.PrivyUserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user = &domain.User{
			ID:            uuid.New(),
			PrivyUserID:   input.PrivyUserID,
			WalletAddress: input.WalletAddress,
			Email:         input.Email,
			PhoneNumber:   input.PhoneNumber,
			CreditScore:   500,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	} else {
		user.WalletAddress = input.WalletAddress
		if input.Email != "" {
			user.Email = input.Email
		}
		if input.PhoneNumber != "" {
			user.PhoneNumber = input.PhoneNumber
		}
		user.UpdatedAt = time.Now()
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &SyncResult{
		User:        user,
		AccessToken: accessToken,
	}, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) generateAccessToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"exp": time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *UserService) ValidateToken(tokenString string) (*jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return &claims, nil
	}

	return nil, errors.New("invalid token")
}
