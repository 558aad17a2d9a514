package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/brightlend/naming-service/internal/api/middleware"
	"github.com/brightlend/naming-service/internal/domain"
	"github.com/brightlend/naming-service/internal/ens"
	"github.com/brightlend/naming-service/internal/service"
)

type UserHandler struct {
	userService  *service.UserService
	parentDomain string
}

func NewUserHandler(userService *service.UserService, parentDomain string) *UserHandler {
	return &UserHandler{userService: userService, parentDomain: parentDomain}
}

type SyncRequest struct {
	PrivyUserID   string `json:"privyUserId"`
	WalletAddress string `json:"walletAddress"`
	Email         string `json:"email,omitempty"`
	PhoneNumber   string `json:"phoneNumber,omitempty"`
}

type UserResponse struct {
	ID            string `json:"id"`
	PrivyUserID   string `json:"privyUserId"`
	WalletAddress string `json:"walletAddress"`
	Email         string `json:"email,omitempty"`
	PhoneNumber   string `json:"phoneNumber,omitempty"`
	ENSSubdomain  string `json:"ensSubdomain,omitempty"`
	FullDomain    string `json:"fullDomain,omitempty"`
	CreditScore   int    `json:"creditScore"`
}

type SyncResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

// Sync mirrors an embedded-wallet session into the user store and hands
// back an access token for the protected routes.
func (h *UserHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.PrivyUserID == "" || req.WalletAddress == "" {
		http.Error(w, "privyUserId and walletAddress are required", http.StatusBadRequest)
		return
	}

	result, err := h.userService.Sync(r.Context(), service.SyncInput{
		PrivyUserID:   req.PrivyUserID,
		WalletAddress: req.WalletAddress,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAddress) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR [user.Sync] failed to sync user: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, SyncResponse{
		User:        h.toResponse(result.User),
		AccessToken: result.AccessToken,
	})
}

// Me returns the authenticated user's record.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [user.Me] failed to get user: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(user))
}

func (h *UserHandler) toResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:            user.ID.String(),
		PrivyUserID:   user.PrivyUserID,
		WalletAddress: user.WalletAddress,
		Email:         user.Email,
		PhoneNumber:   user.PhoneNumber,
		ENSSubdomain:  user.ENSSubdomain,
		CreditScore:   user.CreditScore,
	}
	if user.ENSSubdomain != "" {
		resp.FullDomain = ens.FullDomain(user.ENSSubdomain, h.parentDomain)
	}
	return resp
}
