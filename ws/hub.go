package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
)

// EventPublisher é a interface que a camada service usa para empurrar
// eventos aos clients conectados.
//
// Dependency Inversion: os services dependem desta interface, não do Hub
// concreto — nos testes entra um publisher fake sem nenhum WebSocket real.
type EventPublisher interface {
	BroadcastToAll(event Event)
}

// Hub é a estrutura central que gerencia todas as conexões WebSocket.
//
// As conexões são indexadas pelo session_id do espectador (a mesma sessão
// pode ter mais de uma aba aberta, então cada id guarda um set de clients).
// O admin conectado pelo painel entra com o id especial do handler.
//
// Os channels register/unregister são lidos pelo event loop de Run() —
// entrada e saída de clients passa por uma única goroutine, e o map é
// protegido por RWMutex para os broadcasts concorrentes.
type Hub struct {
	// clients: sessionID → set de conexões.
	// Go não tem set; map[*Client]bool com valor sempre true faz o papel.
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client

	// seq: contador atômico dos eventos enviados.
	// atomic.Int64 evita race entre broadcasts concorrentes.
	seq atomic.Int64

	// Callbacks de wire-up (preenchidos no main.go, Dependency Inversion:
	// o Hub não conhece services).
	onViewerGone  func(sessionID string)
	onChatMessage func(sessionID, content string) error

	shutdownOnce sync.Once
	shutdown     chan struct{}
}

// NewHub cria um Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		shutdown:   make(chan struct{}),
	}
}

// OnViewerGone registra o callback chamado quando a ÚLTIMA conexão de uma
// sessão cai. É só sinal informativo: queda de ws não diz nada sobre a
// presença — ela segue pelo heartbeat REST e pela janela de staleness.
func (h *Hub) OnViewerGone(fn func(sessionID string)) {
	h.onViewerGone = fn
}

// OnChatMessage registra o callback de mensagem de chat recebida pelo ws.
func (h *Hub) OnChatMessage(fn func(sessionID, content string) error) {
	h.onChatMessage = fn
}

// Run é o event loop do Hub — roda como goroutine (`go hub.Run()`).
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case <-h.shutdown:
			return
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.sessionID]; !ok {
		h.clients[client.sessionID] = make(map[*Client]bool)
	}
	h.clients[client.sessionID][client] = true

	log.Printf("[ws] client connected: session=%s (connections: %d)",
		client.sessionID, len(h.clients[client.sessionID]))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()

	lastConnection := false
	if clients, ok := h.clients[client.sessionID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			close(client.send)
		}
		if len(clients) == 0 {
			delete(h.clients, client.sessionID)
			lastConnection = true
		}
	}
	h.mu.Unlock()

	log.Printf("[ws] client disconnected: session=%s", client.sessionID)

	// Callback fora do lock — ele vai ao banco, e segurar o mutex durante
	// I/O travaria todos os broadcasts.
	if lastConnection && h.onViewerGone != nil && !client.isAdmin {
		go h.onViewerGone(client.sessionID)
	}
}

// BroadcastToAll envia o evento para todas as conexões.
//
// Envio não-bloqueante: se o buffer de um client está cheio (client lento),
// o evento é descartado para ele — o polling REST cobre o que se perdeu.
func (h *Hub) BroadcastToAll(event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event %s: %v", event.Op, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.clients {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				// buffer cheio — descarta para este client
			}
		}
	}
}

// Shutdown fecha todas as conexões e encerra o event loop.
// Chamado no graceful shutdown do main.go.
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		close(h.shutdown)

		h.mu.Lock()
		defer h.mu.Unlock()

		for sessionID, clients := range h.clients {
			for client := range clients {
				close(client.send)
				if client.conn != nil {
					_ = client.conn.Close()
				}
			}
			delete(h.clients, sessionID)
		}
	})
}
