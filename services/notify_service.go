package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg/cache"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg/email"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/repository"
)

const (
	// notifyDedupTTL — janela em que cada email recebe no máximo UM aviso.
	// O admin liga e desliga a transmissão no teste de som; sem a deduplicação
	// os inscritos receberiam um email por clique.
	notifyDedupTTL = 6 * time.Hour

	// notifySendTimeout — prazo do fan-out inteiro.
	notifySendTimeout = 2 * time.Minute
)

// NotifyService — lista "me avise quando começar" e o fan-out do aviso.
type NotifyService interface {
	// Subscribe inscreve um email. Idempotente.
	Subscribe(ctx context.Context, req *models.SubscribeRequest) error

	// Unsubscribe remove um email (link de descadastro).
	Unsubscribe(ctx context.Context, emailAddr string) error

	// NotifyLive dispara o fan-out em background e retorna na hora —
	// ligar a transmissão não pode esperar uma rodada de SMTP.
	// Satisfaz a interface LiveNotifier do broadcast service.
	NotifyLive(title, description string)

	// Close libera a goroutine do cache de deduplicação.
	Close()
}

type notifyService struct {
	subscriberRepo repository.SubscriberRepository
	sender         email.EmailSender
	recentlySent   *cache.TTLCache[string, bool]
}

// NewNotifyService cria o service de avisos.
// sender nil desliga só o ENVIO (deploy sem RESEND_API_KEY) — inscrever e
// descadastrar continuam funcionando; a lista fica pronta para quando o
// envio for ligado.
func NewNotifyService(subscriberRepo repository.SubscriberRepository, sender email.EmailSender) NotifyService {
	return &notifyService{
		subscriberRepo: subscriberRepo,
		sender:         sender,
		recentlySent:   cache.New[string, bool](notifyDedupTTL, 30*time.Minute),
	}
}

// Subscribe valida e grava o email.
func (s *notifyService) Subscribe(ctx context.Context, req *models.SubscribeRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}

	if err := s.subscriberRepo.Upsert(ctx, req.Email, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store subscriber: %w", err)
	}

	log.Printf("[notify] subscriber added: %s", req.Email)
	return nil
}

// Unsubscribe remove o email. Email desconhecido é no-op — o link de
// descadastro pode ser clicado duas vezes.
func (s *notifyService) Unsubscribe(ctx context.Context, emailAddr string) error {
	if err := s.subscriberRepo.Delete(ctx, emailAddr); err != nil {
		return fmt.Errorf("failed to remove subscriber: %w", err)
	}

	log.Printf("[notify] subscriber removed: %s", emailAddr)
	return nil
}

// NotifyLive — fan-out do "estamos ao vivo" para todos os inscritos.
//
// Roda em goroutine própria com context independente do request: o TurnOn
// do admin já respondeu quando os emails começam a sair. Falha individual
// é logada e não interrompe o restante da lista.
func (s *notifyService) NotifyLive(title, description string) {
	if s.sender == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifySendTimeout)
		defer cancel()

		subscribers, err := s.subscriberRepo.ListAll(ctx)
		if err != nil {
			log.Printf("[notify] failed to list subscribers: %v", err)
			return
		}
		if len(subscribers) == 0 {
			return
		}

		sent := 0
		for _, sub := range subscribers {
			if _, already := s.recentlySent.Get(sub.Email); already {
				continue
			}

			if err := s.sender.SendLiveNotification(ctx, sub.Email, title, description); err != nil {
				log.Printf("[notify] failed to notify %s: %v", sub.Email, err)
				continue
			}

			s.recentlySent.Set(sub.Email, true)
			sent++
		}

		log.Printf("[notify] live notification sent to %d of %d subscriber(s)", sent, len(subscribers))
	}()
}

// Close encerra o cache de deduplicação.
func (s *notifyService) Close() {
	s.recentlySent.Close()
}
