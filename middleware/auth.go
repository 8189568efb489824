// Package middleware contém os middlewares HTTP da aplicação.
//
// Um middleware é uma função que embrulha um http.Handler e devolve outro:
// o request passa pela camada de fora antes de chegar ao handler real.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
)

// contextKey é um tipo próprio para as chaves de context — evita colisão
// com chaves de outros pacotes (string crua colidiria).
type contextKey string

const claimsKey contextKey = "adminClaims"

// TokenValidator — o pedaço do auth service que o middleware usa.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
}

// AuthMiddleware protege as rotas do painel admin.
type AuthMiddleware struct {
	validator TokenValidator
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Require exige um Bearer token válido.
//
//	Authorization: Bearer <JWT>
//
// Token ausente, malformado ou expirado → 401 antes de tocar no handler.
// Os claims validados seguem no context para quem precisar do username.
func (m *AuthMiddleware) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "token de acesso ausente")
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "formato do header Authorization inválido")
			return
		}

		claims, err := m.validator.ValidateAccessToken(tokenString)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "token inválido ou expirado")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// ClaimsFromContext recupera os claims colocados pelo Require.
// ok = false significa que a rota não passou pelo middleware.
func ClaimsFromContext(ctx context.Context) (*models.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*models.TokenClaims)
	return claims, ok
}
