package tokens

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/casafix/home-services-backend/pkg/api"
	"github.com/casafix/home-services-backend/pkg/auth"
	"github.com/casafix/home-services-backend/pkg/models"
)

// TokensHandler mints access tokens. This is a development surface; a real
// deployment would sit behind an identity provider.
type TokensHandler struct {
	Auth *auth.Manager
}

// NewTokensHandler creates a new TokensHandler.
func NewTokensHandler(manager *auth.Manager) *TokensHandler {
	return &TokensHandler{Auth: manager}
}

// IssueToken handles minting a signed token for a user id and role.
func (h *TokensHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req api.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.UserId == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	role := models.Role(req.Role)
	if role != models.RoleCustomer && role != models.RoleProvider {
		http.Error(w, fmt.Sprintf("Unknown role: %s", req.Role), http.StatusBadRequest)
		return
	}

	token, err := h.Auth.CreateToken(req.UserId, role)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to create token: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(api.TokenResponse{Token: token}); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
