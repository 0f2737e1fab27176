package tokens

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casafix/home-services-backend/pkg/api"
	"github.com/casafix/home-services-backend/pkg/auth"
	"github.com/casafix/home-services-backend/pkg/models"
)

func TestIssueToken(t *testing.T) {
	manager := auth.NewManager([]byte("test-secret"), time.Hour)

	t.Run("Success", func(t *testing.T) {
		handler := NewTokensHandler(manager)

		body, _ := json.Marshal(&api.TokenRequest{UserId: "user1", Role: "customer"})
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.IssueToken(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.TokenResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

		// The minted token round-trips through the verifier.
		claims, err := manager.VerifyToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "user1", claims.UserID)
		assert.Equal(t, models.RoleCustomer, claims.Role)
	})

	t.Run("Unknown Role", func(t *testing.T) {
		handler := NewTokensHandler(manager)

		body, _ := json.Marshal(&api.TokenRequest{UserId: "user1", Role: "admin"})
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.IssueToken(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Missing User Id", func(t *testing.T) {
		handler := NewTokensHandler(manager)

		body, _ := json.Marshal(&api.TokenRequest{Role: "customer"})
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.IssueToken(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
