package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/brightlend/naming-service/internal/domain"
	"github.com/brightlend/naming-service/internal/service"
)

type NamingHandler struct {
	namingService *service.NamingService
}

func NewNamingHandler(namingService *service.NamingService) *NamingHandler {
	return &NamingHandler{namingService: namingService}
}

type RegisterNameRequest struct {
	UserID          string `json:"userId"`
	WalletAddress   string `json:"walletAddress"`
	CustomSubdomain string `json:"customSubdomain,omitempty"`
}

// RegistrationResponse is the single response contract for Register:
// success fields or the error field, never both meaningfully set. The
// already-registered conflict additionally echoes the existing binding.
type RegistrationResponse struct {
	Success    bool   `json:"success"`
	Subdomain  string `json:"subdomain,omitempty"`
	FullDomain string `json:"fullDomain,omitempty"`
	TxHash     string `json:"txHash,omitempty"`
	Error      string `json:"error,omitempty"`
}

type AvailabilityResponse struct {
	Available  bool   `json:"available"`
	Subdomain  string `json:"subdomain,omitempty"`
	FullDomain string `json:"fullDomain,omitempty"`
	Error      string `json:"error,omitempty"`
}

type ResolveResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Register claims a subdomain under the parent domain for a user.
func (h *NamingHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, RegistrationResponse{Success: false, Error: "invalid request body"})
		return
	}

	result, err := h.namingService.RegisterName(r.Context(), service.RegisterNameInput{
		UserID:          req.UserID,
		WalletAddress:   req.WalletAddress,
		CustomSubdomain: req.CustomSubdomain,
	})
	if err != nil {
		var already *service.AlreadyRegisteredError
		switch {
		case errors.As(err, &already):
			writeJSON(w, http.StatusConflict, RegistrationResponse{
				Success:    false,
				Subdomain:  already.Subdomain,
				FullDomain: already.FullDomain,
				Error:      already.Error(),
			})
		case errors.Is(err, domain.ErrMissingFields),
			errors.Is(err, domain.ErrInvalidAddress),
			errors.Is(err, domain.ErrInvalidSubdomain):
			writeJSON(w, http.StatusBadRequest, RegistrationResponse{Success: false, Error: err.Error()})
		case errors.Is(err, domain.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, RegistrationResponse{Success: false, Error: err.Error()})
		default:
			log.Printf("ERROR [naming.Register] registration failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, RegistrationResponse{Success: false, Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, RegistrationResponse{
		Success:    true,
		Subdomain:  result.Subdomain,
		FullDomain: result.FullDomain,
		TxHash:     result.TxHash,
	})
}

// CheckAvailability reports whether a label is currently unassigned.
// Advisory only: the answer can be stale by the time a registration runs.
func (h *NamingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get("subdomain")
	if label == "" {
		writeJSON(w, http.StatusBadRequest, AvailabilityResponse{Available: false, Error: "subdomain is required"})
		return
	}

	result, err := h.namingService.CheckAvailability(r.Context(), label)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSubdomain) {
			writeJSON(w, http.StatusBadRequest, AvailabilityResponse{Available: false, Error: err.Error()})
			return
		}
		log.Printf("ERROR [naming.CheckAvailability] lookup failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, AvailabilityResponse{Available: false, Error: "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, AvailabilityResponse{
		Available:  result.Available,
		Subdomain:  result.Subdomain,
		FullDomain: result.FullDomain,
	})
}

// Resolve looks up the address a full domain name points at.
func (h *NamingHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	addr, err := h.namingService.Resolve(r.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrNameNotResolved) {
			http.Error(w, "Name not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [naming.Resolve] resolve failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ResolveResponse{Name: name, Address: addr.Hex()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
