package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PrivyUserID   string    `json:"privyUserId" gorm:"uniqueIndex;not null"`
	WalletAddress string    `json:"walletAddress" gorm:"not null"`
	PhoneNumber   string    `json:"phoneNumber,omitempty"`
	Email         string    `json:"email,omitempty"`
	ENSSubdomain  string    `json:"ensSubdomain,omitempty" gorm:"uniqueIndex:idx_users_ens_subdomain,where:ens_subdomain <> ''"`
	CreditScore   int       `json:"creditScore" gorm:"default:500"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
