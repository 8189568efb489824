package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/repository"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/ws"
)

// LiveNotifier é o pedaço do notify service que o broadcast service usa:
// disparar o fan-out de "estamos ao vivo" quando o admin liga a transmissão.
// Interface separada para quebrar a dependência direta (e facilitar o fake
// nos testes).
type LiveNotifier interface {
	NotifyLive(title, description string)
}

// BroadcastService — controle do estado global da transmissão.
//
// O estado é um singleton (uma linha no banco). As transições:
//
//	TurnOn:       offline → ao vivo (exige URL de stream; senão ErrInvalidConfig)
//	TurnOff:      ao vivo → offline (idempotente; config preservada)
//	UpdateConfig: PATCH presentacional; nunca toca em is_live
//
// Entre admins concorrentes vale last-write-wins — dois admins é um problema
// de coordenação humana, não de software.
type BroadcastService interface {
	GetState(ctx context.Context) (*models.BroadcastState, error)
	TurnOn(ctx context.Context, req *models.TurnOnRequest) (*models.BroadcastState, error)
	TurnOff(ctx context.Context) (*models.BroadcastState, error)
	UpdateConfig(ctx context.Context, req *models.UpdateConfigRequest) (*models.BroadcastState, error)
}

type broadcastService struct {
	broadcastRepo repository.BroadcastRepository
	publisher     ws.EventPublisher
	notifier      LiveNotifier // pode ser nil (email desligado em dev)
}

// NewBroadcastService cria o service de transmissão.
// notifier nil desliga o aviso por email (deploy sem RESEND_API_KEY).
func NewBroadcastService(broadcastRepo repository.BroadcastRepository, publisher ws.EventPublisher, notifier LiveNotifier) BroadcastService {
	return &broadcastService{
		broadcastRepo: broadcastRepo,
		publisher:     publisher,
		notifier:      notifier,
	}
}

// GetState — o snapshot que a página pública consome a cada poll de 10s.
func (s *broadcastService) GetState(ctx context.Context) (*models.BroadcastState, error) {
	state, err := s.broadcastRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load broadcast state: %w", err)
	}
	return state, nil
}

// TurnOn liga a transmissão.
//
// A validação acontece ANTES de qualquer escrita: se a URL está vazia, o
// estado global permanece exatamente como estava (o invariante "ao vivo ⇒
// URL não-vazia" é imposto aqui, na transição).
func (s *broadcastService) TurnOn(ctx context.Context, req *models.TurnOnRequest) (*models.BroadcastState, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrInvalidConfig, err.Error())
	}

	var description *string
	if req.Description != "" {
		description = &req.Description
	}

	wasLive, err := s.isLive(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.broadcastRepo.SetLive(ctx, req.StreamURL, req.Title, description, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to turn broadcast on: %w", err)
	}

	state, err := s.broadcastRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload broadcast state: %w", err)
	}

	log.Printf("[broadcast] turned ON: title=%q url=%s", req.Title, req.StreamURL)
	s.publisher.BroadcastToAll(ws.Event{Op: ws.OpBroadcastState, Data: state})

	// O fan-out de email só dispara na transição offline → ao vivo.
	// TurnOn repetido (admin clicou duas vezes, ou ajustou a URL religando)
	// não manda a mesma notificação de novo.
	if !wasLive && s.notifier != nil {
		s.notifier.NotifyLive(req.Title, req.Description)
	}

	return state, nil
}

// TurnOff desliga a transmissão. Idempotente: desligar o que já está
// desligado só renova o updated_at.
func (s *broadcastService) TurnOff(ctx context.Context) (*models.BroadcastState, error) {
	if err := s.broadcastRepo.SetOffline(ctx, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to turn broadcast off: %w", err)
	}

	state, err := s.broadcastRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload broadcast state: %w", err)
	}

	log.Printf("[broadcast] turned OFF")
	s.publisher.BroadcastToAll(ws.Event{Op: ws.OpBroadcastState, Data: state})

	return state, nil
}

// UpdateConfig aplica um PATCH parcial nos campos presentacionais.
// Funciona com a transmissão ligada ou desligada; is_live nunca muda por aqui.
func (s *broadcastService) UpdateConfig(ctx context.Context, req *models.UpdateConfigRequest) (*models.BroadcastState, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}

	if err := s.broadcastRepo.UpdateConfig(ctx, req, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to update broadcast config: %w", err)
	}

	state, err := s.broadcastRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload broadcast state: %w", err)
	}

	log.Printf("[broadcast] config updated")
	s.publisher.BroadcastToAll(ws.Event{Op: ws.OpBroadcastState, Data: state})

	return state, nil
}

func (s *broadcastService) isLive(ctx context.Context) (bool, error) {
	state, err := s.broadcastRepo.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load broadcast state: %w", err)
	}
	return state.IsLive, nil
}
