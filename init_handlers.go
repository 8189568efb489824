// Package main — inicialização da camada handler.
//
// initHandlers cria todos os HTTP handlers. Handlers são "thin":
// só parse de HTTP + chamada de service + escrita da resposta.
package main

import (
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/handlers"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/ws"
)

// Handlers é o container com todas as instâncias de handler.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Broadcast *handlers.BroadcastHandler
	Presence  *handlers.PresenceHandler
	Chat      *handlers.ChatHandler
	Notify    *handlers.NotifyHandler
	WS        *ws.Handler
}

// initHandlers cria todos os handlers a partir dos services.
//
// O ws.Handler recebe o auth service como TokenValidator e o presence
// service como SessionChecker — as interfaces pequenas do pacote ws são
// satisfeitas implicitamente.
func initHandlers(svcs *Services, hub *ws.Hub) *Handlers {
	return &Handlers{
		Auth:      handlers.NewAuthHandler(svcs.Auth),
		Broadcast: handlers.NewBroadcastHandler(svcs.Broadcast),
		Presence:  handlers.NewPresenceHandler(svcs.Presence),
		Chat:      handlers.NewChatHandler(svcs.Chat),
		Notify:    handlers.NewNotifyHandler(svcs.Notify),
		WS:        ws.NewHandler(hub, svcs.Auth, svcs.Presence),
	}
}
