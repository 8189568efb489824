// Package handlers contém os HTTP handlers da aplicação.
//
// Handlers são finos de propósito: decodificam o JSON, chamam o service e
// escrevem a resposta. Regra de negócio nenhuma mora aqui — se um handler
// começa a crescer, a lógica pertence ao service.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg/ratelimit"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/services"
)

// AuthHandler — login do administrador.
type AuthHandler struct {
	authService services.AuthService
	limiter     *ratelimit.Limiter // chave = IP
}

// NewAuthHandler cria o handler com rate limit de 5 tentativas por 2 minutos
// por IP — proteção contra brute-force na única porta com senha do sistema.
func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		limiter:     ratelimit.New(5, 2*time.Minute),
	}
}

// Login — POST /api/admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ExtractIP(r)

	if !h.limiter.Allow(ip) {
		seconds := h.limiter.RetryAfterSeconds(ip)
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			"muitas tentativas de login, tente novamente em "+ratelimit.FormatRetryMessage(seconds))
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	token, err := h.authService.Login(&req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	// Login certo zera o contador — o admin legítimo que errou a senha duas
	// vezes não carrega as falhas para o próximo culto.
	h.limiter.Reset(ip)

	pkg.JSON(w, http.StatusOK, map[string]string{"access_token": token})
}

// Close libera o limiter (graceful shutdown).
func (h *AuthHandler) Close() {
	h.limiter.Close()
}
