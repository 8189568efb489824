package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/config"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg/ratelimit"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/repository"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/ws"
)

// Limites do chat.
const (
	// chatHistoryDefault/Max — quantas mensagens o GET /messages devolve.
	chatHistoryDefault = 50
	chatHistoryMax     = 200

	// chatRateMax/Window — mensagens permitidas por sessão por janela.
	// 5 mensagens em 10s segura flood sem atrapalhar conversa normal.
	chatRateMax    = 5
	chatRateWindow = 10 * time.Second
)

// ChatService — chat da transmissão ao vivo.
//
// Só sessões ATIVAS mandam mensagem (registrada, watching, com heartbeat
// recente) — o mesmo critério da contagem de espectadores. O display_name é
// copiado da sessão no momento do envio, nunca confiado do payload.
type ChatService interface {
	// Post grava e distribui uma mensagem.
	// Sessão desconhecida → pkg.ErrNotFound; inativa → pkg.ErrForbidden;
	// flood → pkg.ErrTooManyRequests.
	Post(ctx context.Context, req *models.PostMessageRequest) (*models.LiveMessage, error)

	// ListRecent retorna as últimas mensagens em ordem cronológica.
	// limit <= 0 usa o padrão; valores altos são limitados.
	ListRecent(ctx context.Context, limit int) ([]models.LiveMessage, error)
}

type chatService struct {
	messageRepo repository.MessageRepository
	viewerRepo  repository.ViewerRepository
	publisher   ws.EventPublisher
	limiter     *ratelimit.Limiter // chave = session_id
	cfg         config.PresenceConfig
}

// NewChatService cria o service de chat.
func NewChatService(messageRepo repository.MessageRepository, viewerRepo repository.ViewerRepository, publisher ws.EventPublisher, cfg config.PresenceConfig) ChatService {
	return &chatService{
		messageRepo: messageRepo,
		viewerRepo:  viewerRepo,
		publisher:   publisher,
		limiter:     ratelimit.New(chatRateMax, chatRateWindow),
		cfg:         cfg,
	}
}

// Post valida, confere a sessão, grava e empurra pelo WebSocket.
func (s *chatService) Post(ctx context.Context, req *models.PostMessageRequest) (*models.LiveMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}

	session, err := s.viewerRepo.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	// O mesmo critério de "ativo" da presença: watching + atividade recente.
	// Quem deixou a aba parada além da janela precisa de um heartbeat (ou
	// re-registro) antes de voltar a falar.
	cutoff := time.Now().UTC().Add(-s.cfg.StaleWindow)
	if !session.Watching || session.LastActivityAt.Before(cutoff) {
		return nil, fmt.Errorf("%w: a sessão não está ativa na transmissão", pkg.ErrForbidden)
	}

	if !s.limiter.Allow(req.SessionID) {
		return nil, fmt.Errorf("%w: muitas mensagens seguidas, aguarde um pouco", pkg.ErrTooManyRequests)
	}

	msg := &models.LiveMessage{
		ID:          uuid.NewString(),
		SessionID:   session.SessionID,
		DisplayName: session.DisplayName,
		Content:     req.Content,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.messageRepo.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store chat message: %w", err)
	}

	s.publisher.BroadcastToAll(ws.Event{Op: ws.OpChatMessage, Data: msg})

	return msg, nil
}

// ListRecent — o histórico que a página carrega ao entrar no chat.
func (s *chatService) ListRecent(ctx context.Context, limit int) ([]models.LiveMessage, error) {
	if limit <= 0 {
		limit = chatHistoryDefault
	}
	if limit > chatHistoryMax {
		limit = chatHistoryMax
	}

	messages, err := s.messageRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}
