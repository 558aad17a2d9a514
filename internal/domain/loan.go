package domain

import (
	"time"

	"github.com/google/uuid"
)

type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "pending"
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

type Loan struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID         uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	Amount         float64    `json:"amount" gorm:"not null"`
	InterestRate   float64    `json:"interestRate" gorm:"not null"`
	DurationMonths int        `json:"durationMonths" gorm:"not null"`
	Status         LoanStatus `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
