package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// Constantes da conexão WebSocket
const (
	// writeWait: tempo máximo para escrever uma mensagem antes de
	// considerar a conexão problemática e fechá-la.
	writeWait = 10 * time.Second

	// pongWait: prazo para o client mandar heartbeat.
	// 3 heartbeats perdidos (30s × 3 = 90s) → conexão considerada morta.
	pongWait = 90 * time.Second

	// maxMessageSize: mensagens de entrada são pequenas (heartbeat, chat);
	// payload grande não tem o que fazer aqui.
	maxMessageSize = 2048

	// sendBufferSize: buffer do channel de envio por client.
	sendBufferSize = 64
)

// Client representa uma conexão WebSocket.
//
// Padrão gorilla/websocket: duas goroutines por conexão —
// ReadPump lê o que o client manda, WritePump escreve o que o Hub empurra.
// A lib só suporta um leitor e um escritor simultâneos; separando em duas
// goroutines, leitura e escrita nunca se bloqueiam.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID string
	isAdmin   bool

	// send: channel com buffer por onde o Hub entrega os eventos.
	send chan []byte
}

// ReadPump lê as mensagens da conexão até ela cair.
// Roda como goroutine; no fim, desregistra do Hub e fecha a conexão.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[ws] failed to set read deadline for session %s: %v", c.sessionID, err)
		return
	}

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] unexpected close for session %s: %v", c.sessionID, err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			log.Printf("[ws] invalid message from session %s: %v", c.sessionID, err)
			continue
		}

		c.handleEvent(event)
	}
}

// handleEvent despacha os eventos vindos do client.
func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		// Renova o deadline e confirma. O heartbeat do ws é independente do
		// heartbeat REST de presença — este mantém a CONEXÃO viva, aquele
		// mantém a SESSÃO ativa.
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("[ws] failed to set read deadline for session %s: %v", c.sessionID, err)
			return
		}
		c.sendEvent(Event{Op: OpHeartbeatAck})

	case OpChatSend:
		c.handleChatSend(event)

	default:
		log.Printf("[ws] unknown op from session %s: %s", c.sessionID, event.Op)
	}
}

// handleChatSend repassa a mensagem de chat para o callback do wire-up.
// A validação e a gravação acontecem no chat service; o erro volta só para
// este client como evento "error".
func (c *Client) handleChatSend(event Event) {
	if c.hub.onChatMessage == nil {
		return
	}

	dataBytes, err := json.Marshal(event.Data)
	if err != nil {
		return
	}
	var data ChatSendData
	if err := json.Unmarshal(dataBytes, &data); err != nil {
		return
	}

	if err := c.hub.onChatMessage(c.sessionID, data.Content); err != nil {
		c.sendEvent(Event{Op: OpError, Data: ErrorData{Message: err.Error()}})
	}
}

// sendEvent serializa e enfileira um evento só para este client.
func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
		// buffer cheio — descarta
	}
}

// WritePump escreve no socket tudo que chega pelo channel send.
// Quando o Hub fecha o channel (disconnect/shutdown), envia o close frame.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	// channel fechado — despedida educada
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server shutting down"))
}
