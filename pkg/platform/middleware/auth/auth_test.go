package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "matchday/pkg/domain"
	"matchday/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return s.claims, s.err
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userID := uuid.New()

	var seen id.UserID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("valid token sets user id", func(t *testing.T) {
		mw := RequireAuth(stubValidator{claims: &JWTClaims{UserID: userID.String()}}, logger)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer token")
		w := httptest.NewRecorder()

		mw(next).ServeHTTP(w, req)

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, id.UserID(userID), seen)
	})

	t.Run("missing header", func(t *testing.T) {
		mw := RequireAuth(stubValidator{}, logger)
		w := httptest.NewRecorder()
		mw(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"unauthorized"`)
	})

	t.Run("invalid token", func(t *testing.T) {
		mw := RequireAuth(stubValidator{err: errors.New("expired")}, logger)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer token")
		w := httptest.NewRecorder()
		mw(next).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("subject is not a uuid", func(t *testing.T) {
		mw := RequireAuth(stubValidator{claims: &JWTClaims{UserID: "alice"}}, logger)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer token")
		w := httptest.NewRecorder()
		mw(next).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
