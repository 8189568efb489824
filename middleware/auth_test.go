package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/middleware"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
)

// fakeValidator aceita só o token mágico "valido".
type fakeValidator struct{}

func (fakeValidator) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	if tokenString != "valido" {
		return nil, fmt.Errorf("bad token")
	}
	return &models.TokenClaims{Username: "admin"}, nil
}

func TestAuthMiddlewareRequire(t *testing.T) {
	mw := middleware.NewAuthMiddleware(fakeValidator{})

	handler := mw.Require(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "admin", claims.Username)
		w.WriteHeader(http.StatusOK)
	})

	call := func(authHeader string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/admin/live/on", nil)
		if authHeader != "" {
			r.Header.Set("Authorization", authHeader)
		}
		w := httptest.NewRecorder()
		handler(w, r)
		return w
	}

	t.Run("valid bearer token passes", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, call("Bearer valido").Code)
	})

	t.Run("missing header is 401", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call("").Code)
	})

	t.Run("wrong scheme is 401", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call("Basic dXNlcg==").Code)
	})

	t.Run("invalid token is 401", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call("Bearer invalido").Code)
	})
}
