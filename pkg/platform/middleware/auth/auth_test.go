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

	"veriflow/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (v stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return v.claims, v.err
}

func serve(t *testing.T, v JWTValidator, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var actor string
	h := RequireAuth(v, slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor = requestcontext.UserID(r.Context()).String()
			w.WriteHeader(http.StatusNoContent)
		}),
	)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, actor
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()

	t.Run("missing header", func(t *testing.T) {
		rec, _ := serve(t, stubValidator{}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		rec, _ := serve(t, stubValidator{err: errors.New("bad signature")}, "Bearer x")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non uuid subject", func(t *testing.T) {
		rec, _ := serve(t, stubValidator{claims: &JWTClaims{UserID: "alice"}}, "Bearer x")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token sets actor", func(t *testing.T) {
		rec, actor := serve(t, stubValidator{claims: &JWTClaims{UserID: userID.String()}}, "Bearer x")
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, userID.String(), actor)
	})
}

func TestRequireAuthErrorBody(t *testing.T) {
	rec, _ := serve(t, stubValidator{}, "Basic abc")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`, rec.Body.String())
}
