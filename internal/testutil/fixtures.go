package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/brightlend/naming-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	privyUserID   string
	walletAddress string
	email         string
	subdomain     string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		privyUserID:   fmt.Sprintf("did:privy:%s", uuid.New().String()[:8]),
		walletAddress: "0x" + uuid.New().String()[:8] + "00000000000000000000000000000000",
	}
}

// WithPrivyID sets the privy user id
func (b *UserBuilder) WithPrivyID(id string) *UserBuilder {
	b.privyUserID = id
	return b
}

// WithWallet sets the wallet address
func (b *UserBuilder) WithWallet(address string) *UserBuilder {
	b.walletAddress = address
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithSubdomain pre-assigns an ENS subdomain
func (b *UserBuilder) WithSubdomain(subdomain string) *UserBuilder {
	b.subdomain = subdomain
	return b
}

// Build creates the user in the database
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:            uuid.New(),
		PrivyUserID:   b.privyUserID,
		WalletAddress: b.walletAddress,
		Email:         b.email,
		ENSSubdomain:  b.subdomain,
		CreditScore:   500,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}
