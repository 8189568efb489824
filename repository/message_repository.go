package repository

import (
	"context"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
)

// MessageRepository — acesso às mensagens do chat ao vivo.
type MessageRepository interface {
	// Insert grava uma mensagem nova.
	Insert(ctx context.Context, msg *models.LiveMessage) error

	// ListRecent retorna as últimas limit mensagens em ordem cronológica
	// (a mais antiga primeiro — pronta para renderizar).
	ListRecent(ctx context.Context, limit int) ([]models.LiveMessage, error)

	// PruneBefore apaga mensagens anteriores ao cutoff (retenção do janitor).
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
