package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightlend/naming-service/internal/domain"
	"github.com/brightlend/naming-service/internal/ens"
	"github.com/brightlend/naming-service/internal/repository"
)

var ErrNameNotResolved = errors.New("name does not resolve to an address")

// AlreadyRegisteredError is returned when a user already holds a
// subdomain; it carries the existing binding for the caller.
type AlreadyRegisteredError struct {
	Subdomain  string
	FullDomain string
}

func (e *AlreadyRegisteredError) Error() string {
	return "user already has a subdomain assigned"
}

// Registrar is the on-chain side of the registration workflow.
type Registrar interface {
	Register(ctx context.Context, label string, target common.Address) (*ens.RegisterReceipt, error)
	Resolve(ctx context.Context, name string) (common.Address, error)
	ParentDomain() string
}

// NamingService coordinates subdomain registration: input validation,
// idempotency and collision handling, the on-chain sequence, and
// persistence of the resulting binding.
type NamingService struct {
	userRepo  repository.UserRepository
	regRepo   repository.RegistrationRepository
	registrar Registrar
}

func NewNamingService(userRepo repository.UserRepository, regRepo repository.RegistrationRepository, registrar Registrar) *NamingService {
	return &NamingService{
		userRepo:  userRepo,
		regRepo:   regRepo,
		registrar: registrar,
	}
}

type RegisterNameInput struct {
	UserID          string
	WalletAddress   string
	CustomSubdomain string
}

type RegisterNameResult struct {
	Subdomain  string
	FullDomain string
	TxHash     string
}

type registrationDetail struct {
	RequestedLabel string   `json:"requestedLabel,omitempty"`
	FinalLabel     string   `json:"finalLabel"`
	Fallback       bool     `json:"fallback"`
	TxHashes       []string `json:"txHashes,omitempty"`
}

// RegisterName runs one registration attempt to completion. Business
// failures come back as typed errors; an on-chain success is reported as
// success even if the off-chain record update fails afterwards, since
// chain state is authoritative and the user row is only a cache of it.
func (s *NamingService) RegisterName(ctx context.Context, input RegisterNameInput) (*RegisterNameResult, error) {
	if input.UserID == "" || input.WalletAddress == "" {
		return nil, domain.ErrMissingFields
	}
	if !common.IsHexAddress(input.WalletAddress) {
		return nil, domain.ErrInvalidAddress
	}

	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	reg := &domain.Registration{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    domain.RegistrationReceived,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.regRepo.Create(ctx, reg); err != nil {
		log.Printf("ERROR [naming.RegisterName] failed to create registration record: %v", err)
	}

	if user.ENSSubdomain != "" {
		s.failRegistration(ctx, reg, "already registered")
		return nil, &AlreadyRegisteredError{
			Subdomain:  user.ENSSubdomain,
			FullDomain: ens.FullDomain(user.ENSSubdomain, s.registrar.ParentDomain()),
		}
	}

	label := input.CustomSubdomain
	if label == "" {
		label = ens.GenerateLabel(input.WalletAddress)
	}
	if !ens.IsValidLabel(label) {
		s.failRegistration(ctx, reg, "invalid subdomain")
		return nil, domain.ErrInvalidSubdomain
	}
	s.advanceRegistration(ctx, reg, domain.RegistrationValidated)

	detail := registrationDetail{RequestedLabel: input.CustomSubdomain, FinalLabel: label}

	// Collision pre-check against the user store. The fallback label is
	// not re-checked: uniqueness here is best effort, with the unique
	// index on users.ens_subdomain as the backstop.
	existing, err := s.userRepo.GetBySubdomain(ctx, label)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.failRegistration(ctx, reg, err.Error())
		return nil, err
	}
	if existing != nil && existing.ID != userID {
		label = ens.GenerateLabel(input.WalletAddress) + ens.RandomSuffix()
		detail.FinalLabel = label
		detail.Fallback = true
	}
	reg.Subdomain = label
	reg.Detail = mustDetail(detail)
	s.advanceRegistration(ctx, reg, domain.RegistrationDeduplicated)

	s.advanceRegistration(ctx, reg, domain.RegistrationOnChainPending)
	receipt, err := s.registrar.Register(ctx, label, common.HexToAddress(input.WalletAddress))
	if err != nil {
		s.failRegistration(ctx, reg, err.Error())
		return nil, err
	}
	reg.TxHash = receipt.AddrTx.Hex()
	detail.TxHashes = []string{
		receipt.SubnodeOwnerTx.Hex(),
		receipt.ResolverTx.Hex(),
		receipt.AddrTx.Hex(),
	}
	reg.Detail = mustDetail(detail)
	s.advanceRegistration(ctx, reg, domain.RegistrationOnChainConfirmed)

	user.ENSSubdomain = label
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		// On-chain state wins: the registration stands, the user row is
		// now stale and needs out-of-band repair.
		log.Printf("ERROR [naming.RegisterName] subdomain %s registered on-chain but user update failed: %v", label, err)
	} else {
		s.advanceRegistration(ctx, reg, domain.RegistrationPersisted)
	}
	s.advanceRegistration(ctx, reg, domain.RegistrationCompleted)

	return &RegisterNameResult{
		Subdomain:  label,
		FullDomain: ens.FullDomain(label, s.registrar.ParentDomain()),
		TxHash:     reg.TxHash,
	}, nil
}

type Availability struct {
	Available  bool
	Subdomain  string
	FullDomain string
}

// CheckAvailability is advisory only: a label reported available can
// still be lost to a concurrent registration.
func (s *NamingService) CheckAvailability(ctx context.Context, label string) (*Availability, error) {
	if !ens.IsValidLabel(label) {
		return nil, domain.ErrInvalidSubdomain
	}

	_, err := s.userRepo.GetBySubdomain(ctx, label)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Availability{
				Available:  true,
				Subdomain:  label,
				FullDomain: ens.FullDomain(label, s.registrar.ParentDomain()),
			}, nil
		}
		return nil, err
	}

	return &Availability{
		Available:  false,
		Subdomain:  label,
		FullDomain: ens.FullDomain(label, s.registrar.ParentDomain()),
	}, nil
}

// Resolve performs a forward lookup of a full domain name through the
// on-chain resolver.
func (s *NamingService) Resolve(ctx context.Context, name string) (common.Address, error) {
	addr, err := s.registrar.Resolve(ctx, name)
	if err != nil {
		return common.Address{}, err
	}
	if addr == (common.Address{}) {
		return common.Address{}, ErrNameNotResolved
	}
	return addr, nil
}

func (s *NamingService) advanceRegistration(ctx context.Context, reg *domain.Registration, status domain.RegistrationStatus) {
	reg.Status = status
	reg.UpdatedAt = time.Now()
	if err := s.regRepo.Update(ctx, reg); err != nil {
		log.Printf("ERROR [naming.RegisterName] failed to record status %s: %v", status, err)
	}
}

func (s *NamingService) failRegistration(ctx context.Context, reg *domain.Registration, reason string) {
	reg.FailReason = reason
	s.advanceRegistration(ctx, reg, domain.RegistrationFailed)
}

func mustDetail(d registrationDetail) []byte {
	b, _ := json.Marshal(d)
	return b
}
