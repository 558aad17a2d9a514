package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RegistrationStatus tracks a single registration attempt through its
// linear lifecycle. There is no retry state: a failed attempt is terminal
// and the caller must resubmit from scratch.
type RegistrationStatus string

const (
	RegistrationReceived         RegistrationStatus = "received"
	RegistrationValidated        RegistrationStatus = "validated"
	RegistrationDeduplicated     RegistrationStatus = "deduplicated"
	RegistrationOnChainPending   RegistrationStatus = "onchain_pending"
	RegistrationOnChainConfirmed RegistrationStatus = "onchain_confirmed"
	RegistrationPersisted        RegistrationStatus = "persisted"
	RegistrationCompleted        RegistrationStatus = "completed"
	RegistrationFailed           RegistrationStatus = "failed"
)

// Registration is the audit row for one attempt. On-chain state is
// authoritative; these rows exist so a partially completed sequence
// (orphaned subnode, stale off-chain record) can be found and repaired
// out of band.
type Registration struct {
	ID         uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID          `json:"userId" gorm:"type:uuid;not null;index"`
	Subdomain  string             `json:"subdomain"`
	Status     RegistrationStatus `json:"status" gorm:"not null"`
	FailReason string             `json:"failReason,omitempty"`
	TxHash     string             `json:"txHash,omitempty"`
	Detail     datatypes.JSON     `json:"detail,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}
