// Package ws gerencia as conexões WebSocket e a distribuição de eventos em
// tempo real para as páginas de transmissão.
//
// Arquitetura:
//   - Hub: estrutura central que conhece todas as conexões (Observer pattern)
//   - Client: uma conexão WebSocket (uma aba aberta na página ao vivo)
//   - Event: formato das mensagens trocadas
//
// O WebSocket aqui é um canal de push COMPLEMENTAR: o caminho autoritativo
// continua sendo o polling REST (estado a cada 10s, contagem a cada 15s).
// Quem conecta no ws recebe mudanças de estado, contagem e chat na hora;
// quem não conecta vê tudo do mesmo jeito, só com a latência do poll.
package ws

// Event é uma mensagem trocada pelo WebSocket.
//
// Op: o tipo do evento ("chat_message", "viewer_count", ...).
// Data: payload específico do evento.
// Seq: contador crescente dos eventos enviados — o frontend detecta
// buraco na sequência (seq 5 seguido de 7 → perdeu o 6) e re-sincroniza
// via REST.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Operações Client → Server
const (
	OpHeartbeat = "heartbeat" // "ainda estou aqui" — renova o read deadline
	OpChatSend  = "chat_send" // enviar mensagem no chat da transmissão
)

// Operações Server → Client
const (
	OpReady          = "ready"           // primeiro evento após conectar
	OpHeartbeatAck   = "heartbeat_ack"   // resposta ao heartbeat
	OpBroadcastState = "broadcast_state" // o admin ligou/desligou/reconfigurou a transmissão
	OpViewerCount    = "viewer_count"    // contagem de espectadores mudou
	OpChatMessage    = "chat_message"    // mensagem nova no chat
	OpError          = "error"           // ex.: mensagem de chat rejeitada
)

// ReadyData — payload do evento ready.
type ReadyData struct {
	SessionID string `json:"session_id"`
}

// ViewerCountData — payload do evento viewer_count.
type ViewerCountData struct {
	Count int `json:"count"`
}

// ChatSendData — payload de chat_send (Client → Server).
type ChatSendData struct {
	Content string `json:"content"`
}

// ErrorData — payload do evento error.
type ErrorData struct {
	Message string `json:"message"`
}
