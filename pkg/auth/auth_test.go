package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/casafix/home-services-backend/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewManager([]byte("test-secret"), time.Hour)

	token, err := manager.CreateToken("user-1", models.RoleProvider)
	require.NoError(t, err)

	claims, err := manager.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleProvider, claims.Role)
}

func TestVerifyToken_Invalid(t *testing.T) {
	manager := NewManager([]byte("test-secret"), time.Hour)

	t.Run("Garbage", func(t *testing.T) {
		_, err := manager.VerifyToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		other := NewManager([]byte("other-secret"), time.Hour)
		token, err := other.CreateToken("user-1", models.RoleCustomer)
		require.NoError(t, err)

		_, err = manager.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		expired := NewManager([]byte("test-secret"), -time.Minute)
		token, err := expired.CreateToken("user-1", models.RoleCustomer)
		require.NoError(t, err)

		_, err = manager.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestMiddleware(t *testing.T) {
	manager := NewManager([]byte("test-secret"), time.Hour)

	var gotClaims *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := manager.Middleware(next)

	t.Run("Valid Token", func(t *testing.T) {
		token, err := manager.CreateToken("user-1", models.RoleCustomer)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, "user-1", gotClaims.UserID)
	})

	t.Run("Missing Header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Bad Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
