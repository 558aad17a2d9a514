package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/brightlend/naming-service/internal/api/middleware"
	"github.com/brightlend/naming-service/internal/domain"
	"github.com/brightlend/naming-service/internal/service"
)

type LoanHandler struct {
	loanService *service.LoanService
}

func NewLoanHandler(loanService *service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

type CreateLoanRequest struct {
	Amount         float64 `json:"amount"`
	InterestRate   float64 `json:"interestRate"`
	DurationMonths int     `json:"durationMonths"`
}

type LoanResponse struct {
	ID             string  `json:"id"`
	Amount         float64 `json:"amount"`
	InterestRate   float64 `json:"interestRate"`
	DurationMonths int     `json:"durationMonths"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"createdAt"`
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	loan, err := h.loanService.Create(r.Context(), userID, service.CreateLoanInput{
		Amount:         req.Amount,
		InterestRate:   req.InterestRate,
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidLoanAmount), errors.Is(err, domain.ErrInvalidLoanDuration):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			log.Printf("ERROR [loan.Create] failed to create loan: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, toLoanResponse(loan))
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	loans, err := h.loanService.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [loan.List] failed to list loans: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]LoanResponse, 0, len(loans))
	for _, loan := range loans {
		resp = append(resp, toLoanResponse(loan))
	}

	writeJSON(w, http.StatusOK, resp)
}

func toLoanResponse(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:             loan.ID.String(),
		Amount:         loan.Amount,
		InterestRate:   loan.InterestRate,
		DurationMonths: loan.DurationMonths,
		Status:         string(loan.Status),
		CreatedAt:      loan.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
