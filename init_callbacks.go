// Package main — wire-up dos callbacks do WebSocket Hub.
//
// Por que os callbacks vivem aqui (package main)?
// O Hub mora no pacote ws, mas as reações mexem no banco via services.
// O Hub não pode depender de services (Dependency Inversion) — então o
// main, que é o ponto de wire-up de todas as camadas, faz a ligação.
//
// Os callbacks rodam em goroutine separada do event loop do Hub
// (removeClient dispara com `go`), então o I/O de banco nunca segura o
// mutex dos broadcasts.
package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/services"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/ws"
)

// registerHubCallbacks liga o Hub aos services.
func registerHubCallbacks(hub *ws.Hub, chatService services.ChatService) {
	hub.OnViewerGone(logViewerGone)
	hub.OnChatMessage(postChatFromWS(chatService))
}

// logViewerGone registra a queda da última conexão ws de uma sessão.
//
// Queda de ws NÃO marca saída: proxies derrubam conexões ociosas o tempo
// todo, e a página pode continuar aberta mandando heartbeats REST — marcar
// leave aqui tiraria um espectador presente do countActive sem volta, já
// que o heartbeat nunca religa o watching. Saída explícita vem do
// POST /api/live/leave; saída silenciosa expira pela janela de staleness.
func logViewerGone(sessionID string) {
	log.Printf("[ws] last connection of session %s closed (presence continues via heartbeat)", sessionID)
}

// postChatFromWS devolve o callback de mensagem de chat recebida pelo ws —
// mesmo caminho de service do POST REST, mesma validação, mesmo rate limit.
// O erro retornado volta só para o remetente como evento "error".
func postChatFromWS(chatService services.ChatService) func(sessionID, content string) error {
	return func(sessionID, content string) error {
		// O admin conectado pelo painel não tem sessão de espectador.
		if strings.HasPrefix(sessionID, "admin:") {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, err := chatService.Post(ctx, &models.PostMessageRequest{
			SessionID: sessionID,
			Content:   content,
		})
		return err
	}
}
