// Package main — inicialização da camada service.
//
// initServices cria todos os services com constructor injection: cada um
// recebe as interfaces de repository e as dependências compartilhadas
// (hub, config).
//
// Ordem importa: o notify service nasce antes do broadcast service porque
// o broadcast dispara o aviso "estamos ao vivo" através dele.
package main

import (
	"log"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/config"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg/email"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/services"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/ws"
)

// Services é o container com todas as instâncias de service.
type Services struct {
	Auth      services.AuthService
	Broadcast services.BroadcastService
	Presence  services.PresenceService
	Chat      services.ChatService
	Notify    services.NotifyService
}

// initServices cria todos os services.
//
// Sem RESEND_API_KEY no ambiente, o sender fica nil e o notify service só
// não MANDA email — inscrições continuam sendo gravadas normalmente.
func initServices(repos *Repositories, hub ws.EventPublisher, cfg *config.Config) *Services {
	var sender email.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.Email.SiteURL)
		log.Printf("[main] email notifications enabled (from: %s)", cfg.Email.FromEmail)
	} else {
		log.Printf("[main] RESEND_API_KEY not set — email notifications disabled")
	}

	notifyService := services.NewNotifyService(repos.Subscriber, sender)

	return &Services{
		Auth:      services.NewAuthService(cfg.Admin),
		Broadcast: services.NewBroadcastService(repos.Broadcast, hub, notifyService),
		Presence:  services.NewPresenceService(repos.Viewer, hub, cfg.Presence),
		Chat:      services.NewChatService(repos.Message, repos.Viewer, hub, cfg.Presence),
		Notify:    notifyService,
	}
}
