package ws

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
)

// TokenValidator valida o JWT do admin que conecta pelo painel.
//
// Por que não usar services.AuthService direto?
// Circular dependency: services usa ws.EventPublisher para broadcast;
// se ws usasse services, fecharia o ciclo ws → services → ws.
// Definimos aqui só o pedaço que o handler precisa (Interface Segregation);
// no wire-up o authService satisfaz a interface implicitamente.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
}

// SessionChecker confirma que um session_id de espectador existe.
// Mesmo racional do TokenValidator — o presence service satisfaz.
type SessionChecker interface {
	SessionExists(ctx context.Context, sessionID string) bool
}

// upgrader promove a conexão HTTP para WebSocket.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CheckOrigin liberado: o CORS das origens já é tratado no rs/cors do
	// router, e o ws não aceita conexão sem sessão válida ou token de admin.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler atende os pedidos de conexão WebSocket.
type Handler struct {
	hub            *Hub
	tokenValidator TokenValidator
	sessionChecker SessionChecker
}

// NewHandler, constructor.
func NewHandler(hub *Hub, tokenValidator TokenValidator, sessionChecker SessionChecker) *Handler {
	return &Handler{
		hub:            hub,
		tokenValidator: tokenValidator,
		sessionChecker: sessionChecker,
	}
}

// HandleConnection autentica, faz o upgrade e registra o client no Hub.
//
// Autenticação vai por query parameter — durante o upgrade o navegador não
// consegue mandar header customizado:
//
//	espectador: ws://server/ws?session_id=<id emitido no register>
//	admin:      ws://server/ws?token=<JWT>
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	isAdmin := false

	if token := r.URL.Query().Get("token"); token != "" {
		claims, err := h.tokenValidator.ValidateAccessToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		// O painel admin entra com um id próprio — não é uma sessão de
		// espectador e não conta na presença.
		sessionID = "admin:" + claims.Username
		isAdmin = true
	} else if sid := r.URL.Query().Get("session_id"); sid != "" {
		if !h.sessionChecker.SessionExists(r.Context(), sid) {
			http.Error(w, "unknown session", http.StatusUnauthorized)
			return
		}
		sessionID = sid
	} else {
		http.Error(w, "missing session_id or token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		sessionID: sessionID,
		isAdmin:   isAdmin,
		send:      make(chan []byte, sendBufferSize),
	}

	h.hub.register <- client

	go client.WritePump()
	go client.ReadPump()

	client.sendEvent(Event{Op: OpReady, Data: ReadyData{SessionID: sessionID}})
}
