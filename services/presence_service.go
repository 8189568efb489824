// Package services contém a lógica de negócio da aplicação.
//
// A camada service fica entre handlers e repositories:
//   - handlers: traduzem HTTP ↔ structs e nada mais
//   - services: regras de negócio (validação, invariantes, orquestração)
//   - repositories: SQL puro
//
// Cada service é uma interface + struct não-exportada + construtor New*.
// Os handlers dependem da interface; os testes trocam a implementação.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/config"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/repository"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/ws"
)

// PresenceService — presença dos espectadores da transmissão.
//
// Regras centrais:
//   - A identidade é o session_id opaco emitido pelo servidor; o nome de
//     exibição é só apresentação.
//   - "Ativo" é sempre calculado na hora da consulta: watching = true E
//     última atividade dentro da janela de staleness. Nunca gravamos o flag.
//   - Heartbeat e leave são idempotentes e comutam com segurança: um
//     heartbeat atrasado nunca desfaz um leave.
type PresenceService interface {
	// Register cria a sessão (id vazio) ou renova a existente (reconexão).
	// Retorna a sessão gravada — o session_id vai para o localStorage do client.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.ViewerSession, error)

	// Heartbeat renova last_activity_at. Sessão desconhecida → pkg.ErrNotFound
	// (o client reage re-registrando com a identidade guardada).
	Heartbeat(ctx context.Context, sessionID string) error

	// Leave marca a saída explícita. Idempotente; nunca retorna NotFound.
	Leave(ctx context.Context, sessionID string) error

	// CountActive conta os espectadores ativos agora. Recalculado a cada
	// chamada — sessões expiram por passagem de tempo, sem nenhuma escrita.
	CountActive(ctx context.Context) (int, error)

	// ListSessions lista as sessões para o painel admin, com o flag Active
	// calculado pela mesma regra do CountActive.
	ListSessions(ctx context.Context, includeInactive bool) ([]models.ViewerSessionInfo, error)

	// PurgeStale remove sessões sem atividade além da retenção configurada.
	// Retorna quantas saíram. Higiene de armazenamento, não correção.
	PurgeStale(ctx context.Context) (int64, error)

	// SessionExists — usado pelo handler de WebSocket para aceitar a conexão.
	SessionExists(ctx context.Context, sessionID string) bool
}

type presenceService struct {
	viewerRepo repository.ViewerRepository
	publisher  ws.EventPublisher
	cfg        config.PresenceConfig
}

// NewPresenceService cria o service de presença.
func NewPresenceService(viewerRepo repository.ViewerRepository, publisher ws.EventPublisher, cfg config.PresenceConfig) PresenceService {
	return &presenceService{
		viewerRepo: viewerRepo,
		publisher:  publisher,
		cfg:        cfg,
	}
}

// issueSessionID gera um id de sessão novo: 16 bytes aleatórios em hex.
// O id é deliberadamente opaco — nenhum dado embutido (nem timestamp, nem
// nome), para não vazar informação e não criar acoplamento com o formato.
func issueSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Register valida o nome, emite ou reaproveita o id e grava a sessão.
//
// Re-registro (session_id preenchido) é o caminho da reconexão: o upsert
// renova last_activity_at e re-arma watching, mas preserva o joined_at
// original — a pessoa "voltou", não "chegou de novo".
func (s *presenceService) Register(ctx context.Context, req *models.RegisterRequest) (*models.ViewerSession, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}

	sessionID := req.SessionID
	if sessionID == "" {
		var err error
		sessionID, err = issueSessionID()
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	var email *string
	if req.Email != "" {
		email = &req.Email
	}

	session := &models.ViewerSession{
		SessionID:      sessionID,
		DisplayName:    req.DisplayName,
		Email:          email,
		JoinedAt:       now,
		LastActivityAt: now,
		Watching:       true,
	}

	if err := s.viewerRepo.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to register viewer session: %w", err)
	}

	// O upsert preserva o joined_at original no re-registro; relemos para
	// devolver os timestamps reais gravados.
	stored, err := s.viewerRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load registered session: %w", err)
	}

	log.Printf("[presence] session registered: id=%s name=%q", stored.SessionID, stored.DisplayName)
	s.pushViewerCount(ctx)

	return stored, nil
}

// Heartbeat renova só o last_activity_at.
// NUNCA re-arma watching: se a pessoa saiu (leave) e um heartbeat atrasado
// chega depois, a sessão continua contando como saída.
func (s *presenceService) Heartbeat(ctx context.Context, sessionID string) error {
	if err := s.viewerRepo.Touch(ctx, sessionID, time.Now().UTC()); err != nil {
		return err
	}
	return nil
}

// Leave marca a saída. Idempotente por contrato: o client chama via
// sendBeacon no fechamento da aba e pode disparar duas vezes — a segunda
// chamada (ou uma sobre sessão já purgada) é um no-op silencioso.
func (s *presenceService) Leave(ctx context.Context, sessionID string) error {
	if err := s.viewerRepo.MarkLeft(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to mark session as left: %w", err)
	}

	log.Printf("[presence] session left: id=%s", sessionID)
	s.pushViewerCount(ctx)

	return nil
}

// CountActive — o número exibido como "X assistindo agora".
func (s *presenceService) CountActive(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.cfg.StaleWindow)

	count, err := s.viewerRepo.CountActive(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to count active viewers: %w", err)
	}
	return count, nil
}

// ListSessions — visão do painel admin ("quem está assistindo").
func (s *presenceService) ListSessions(ctx context.Context, includeInactive bool) ([]models.ViewerSessionInfo, error) {
	cutoff := time.Now().UTC().Add(-s.cfg.StaleWindow)

	sessions, err := s.viewerRepo.List(ctx, includeInactive, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list viewer sessions: %w", err)
	}
	return sessions, nil
}

// PurgeStale remove sessões além da retenção (padrão 24h).
// O cutoff usa Retention, não StaleWindow: sessão inativa continua visível
// no painel por um tempo antes de sumir fisicamente do banco.
func (s *presenceService) PurgeStale(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.cfg.Retention)

	purged, err := s.viewerRepo.PurgeStale(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale sessions: %w", err)
	}

	if purged > 0 {
		log.Printf("[presence] purged %d stale session(s)", purged)
	}
	return purged, nil
}

// SessionExists — checagem barata para o upgrade de WebSocket.
func (s *presenceService) SessionExists(ctx context.Context, sessionID string) bool {
	_, err := s.viewerRepo.Get(ctx, sessionID)
	return err == nil
}

// pushViewerCount empurra a contagem atual pelo WebSocket.
// Best-effort: o poll REST de 15s é o caminho autoritativo; falha aqui só
// atrasa a atualização de quem está conectado no ws.
func (s *presenceService) pushViewerCount(ctx context.Context) {
	count, err := s.CountActive(ctx)
	if err != nil {
		log.Printf("[presence] failed to compute count for ws push: %v", err)
		return
	}
	s.publisher.BroadcastToAll(ws.Event{Op: ws.OpViewerCount, Data: ws.ViewerCountData{Count: count}})
}
