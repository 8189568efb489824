// Package main — registro das rotas HTTP.
//
// initRoutes liga todos os endpoints ao mux e monta a chain de middleware
// das rotas admin.
package main

import (
	"net/http"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/middleware"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/services"
)

// initRoutes registra todos os endpoints.
//
// Método no pattern ("GET /api/...") é do router do Go 1.22+: o próprio
// ServeMux casa o método HTTP, sem if r.Method != ... nos handlers.
func initRoutes(mux *http.ServeMux, h *Handlers, authService services.AuthService) {
	authMw := middleware.NewAuthMiddleware(authService)

	// admin embrulha o handler com a exigência de Bearer token válido.
	admin := func(handler http.HandlerFunc) http.HandlerFunc {
		return authMw.Require(handler)
	}

	// ─── Rotas públicas (páginas do site) ───

	// Estado da transmissão — poll de 10s de toda página aberta
	mux.HandleFunc("GET /api/live/state", h.Broadcast.GetState)

	// Presença dos espectadores
	mux.HandleFunc("POST /api/live/register", h.Presence.Register)
	mux.HandleFunc("POST /api/live/heartbeat", h.Presence.Heartbeat)
	mux.HandleFunc("POST /api/live/leave", h.Presence.Leave)
	mux.HandleFunc("GET /api/live/count", h.Presence.Count)

	// Chat ao vivo
	mux.HandleFunc("GET /api/live/messages", h.Chat.ListMessages)
	mux.HandleFunc("POST /api/live/messages", h.Chat.PostMessage)

	// Aviso "me avise quando começar"
	mux.HandleFunc("POST /api/live/subscribe", h.Notify.Subscribe)
	mux.HandleFunc("POST /api/live/unsubscribe", h.Notify.Unsubscribe)

	// WebSocket — push complementar ao polling
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)

	// Health check (monitoramento do deploy)
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		pkg.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// ─── Rotas admin (Bearer token) ───

	mux.HandleFunc("POST /api/admin/login", h.Auth.Login)
	mux.HandleFunc("POST /api/admin/live/on", admin(h.Broadcast.TurnOn))
	mux.HandleFunc("POST /api/admin/live/off", admin(h.Broadcast.TurnOff))
	mux.HandleFunc("PATCH /api/admin/live/config", admin(h.Broadcast.UpdateConfig))
	mux.HandleFunc("GET /api/admin/live/sessions", admin(h.Presence.ListSessions))
	mux.HandleFunc("POST /api/admin/live/purge", admin(h.Presence.Purge))
}
