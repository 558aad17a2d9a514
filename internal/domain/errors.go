package domain

import "errors"

// Registration errors
var (
	ErrMissingFields    = errors.New("userId and walletAddress are required")
	ErrInvalidAddress   = errors.New("invalid wallet address")
	ErrInvalidSubdomain = errors.New("invalid subdomain: 3-32 lowercase letters, digits and inner hyphens")
	ErrUserNotFound     = errors.New("user not found")
)

// Loan errors
var (
	ErrInvalidLoanAmount   = errors.New("loan amount must be positive")
	ErrInvalidLoanDuration = errors.New("loan duration must be at least one month")
	ErrLoanNotFound        = errors.New("loan not found")
)
