package repository

import (
	"context"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
)

// SubscriberRepository — acesso à lista "avise-me quando começar".
type SubscriberRepository interface {
	// Upsert grava o email. Inscrever duas vezes é idempotente.
	Upsert(ctx context.Context, email string, now time.Time) error

	// ListAll retorna todos os inscritos (fan-out do aviso de transmissão).
	ListAll(ctx context.Context) ([]models.Subscriber, error)

	// Delete remove um inscrito (link de descadastro no email).
	Delete(ctx context.Context, email string) error
}
