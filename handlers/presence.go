package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg/ratelimit"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/services"
)

// PresenceHandler — registro, heartbeat, leave e contagem de espectadores.
type PresenceHandler struct {
	presenceService services.PresenceService
	registerLimiter *ratelimit.Limiter // chave = IP
}

// NewPresenceHandler cria o handler.
// O registro é limitado por IP (10 por minuto): uma sessão nova por pessoa é
// o uso normal; dezenas por segundo é alguém inflando a contagem.
func NewPresenceHandler(presenceService services.PresenceService) *PresenceHandler {
	return &PresenceHandler{
		presenceService: presenceService,
		registerLimiter: ratelimit.New(10, time.Minute),
	}
}

// Register — POST /api/live/register.
// Corpo: {"session_id": "...", "display_name": "...", "email": "..."}.
// session_id vazio → sessão nova; preenchido → re-registro idempotente.
func (h *PresenceHandler) Register(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ExtractIP(r)
	if !h.registerLimiter.Allow(ip) {
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests, "muitos registros seguidos, aguarde um pouco")
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	session, err := h.presenceService.Register(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, session)
}

// Heartbeat — POST /api/live/heartbeat.
// 404 em sessão desconhecida é parte do protocolo: o client re-registra
// sozinho com a identidade do localStorage.
func (h *PresenceHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	var req models.SessionIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if err := req.Validate(); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.presenceService.Heartbeat(r.Context(), req.SessionID); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Leave — POST /api/live/leave.
// Sempre 200 para sessão conhecida ou não — o client dispara via sendBeacon
// no fechamento da aba e ninguém está ouvindo a resposta.
func (h *PresenceHandler) Leave(w http.ResponseWriter, r *http.Request) {
	var req models.SessionIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if err := req.Validate(); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.presenceService.Leave(r.Context(), req.SessionID); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Count — GET /api/live/count.
// O "X assistindo agora" da página — poll de 15s.
func (h *PresenceHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.presenceService.CountActive(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]int{"count": count})
}

// ListSessions — GET /api/admin/live/sessions (painel admin).
// ?include_inactive=true mostra também quem saiu ou expirou.
func (h *PresenceHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	sessions, err := h.presenceService.ListSessions(r.Context(), includeInactive)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, sessions)
}

// Purge — POST /api/admin/live/purge (limpeza manual além do janitor).
func (h *PresenceHandler) Purge(w http.ResponseWriter, r *http.Request) {
	purged, err := h.presenceService.PurgeStale(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]int64{"purged": purged})
}

// Close libera o limiter.
func (h *PresenceHandler) Close() {
	h.registerLimiter.Close()
}
