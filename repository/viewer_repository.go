package repository

import (
	"context"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
)

// ViewerRepository — acesso às sessões de espectador.
//
// Modelo de concorrência: cada operação é um único statement atômico sobre
// uma linha. Não há read-modify-write — um heartbeat em voo nunca pode
// "ressuscitar" um leave, porque Touch não toca em watching e MarkLeft não
// toca em last_activity_at. Entre sessões diferentes não há ordenação
// nenhuma a garantir.
type ViewerRepository interface {
	// Upsert insere a sessão ou, se o session_id já existe, renova
	// last_activity_at, display_name/email e re-arma watching = 1.
	// joined_at original é preservado no re-registro (reconexão).
	Upsert(ctx context.Context, session *models.ViewerSession) error

	// Get retorna a sessão ou pkg.ErrNotFound.
	Get(ctx context.Context, sessionID string) (*models.ViewerSession, error)

	// Touch renova last_activity_at (heartbeat).
	// Sessão inexistente → pkg.ErrNotFound; NUNCA cria implicitamente.
	Touch(ctx context.Context, sessionID string, now time.Time) error

	// MarkLeft grava watching = 0. Idempotente; sessão ausente é no-op.
	MarkLeft(ctx context.Context, sessionID string) error

	// CountActive conta watching = 1 com atividade após o cutoff.
	// Sempre recalculado na consulta — um contador incremental superestimaria
	// para sempre os espectadores que sumiram sem chamar leave.
	CountActive(ctx context.Context, cutoff time.Time) (int, error)

	// List retorna as sessões ordenadas por joined_at decrescente, cada uma
	// com o flag Active calculado pela mesma regra do CountActive.
	// includeInactive = false filtra para só as ativas.
	List(ctx context.Context, includeInactive bool, cutoff time.Time) ([]models.ViewerSessionInfo, error)

	// PurgeStale apaga sessões com last_activity_at anterior ao cutoff.
	// Higiene, não correção: a classificação ativo/inativo nunca depende
	// do timing do purge.
	PurgeStale(ctx context.Context, cutoff time.Time) (int64, error)
}
