// Package repository define as interfaces de acesso a dados e suas
// implementações SQLite.
//
// Repository Pattern: a camada service fala com interfaces, nunca com SQL.
// Cada entidade tem dois arquivos — a interface (este) e a implementação
// concreta (sqlite_*.go). Testes podem substituir a implementação inteira
// sem tocar nos services.
package repository

import (
	"context"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
)

// BroadcastRepository — acesso à linha única de broadcast_state.
//
// Todas as mutações são um único UPDATE atômico na linha singleton; entre
// admins concorrentes vale last-write-wins (updated_at registra o vencedor).
type BroadcastRepository interface {
	// Get lê o estado atual. A linha existe desde a migration — não há NotFound.
	Get(ctx context.Context) (*models.BroadcastState, error)

	// SetLive liga a transmissão gravando URL, título e descrição juntos.
	// A validação (URL não-vazia) acontece antes, no service.
	SetLive(ctx context.Context, streamURL, title string, description *string, now time.Time) error

	// SetOffline desliga a transmissão sem limpar a configuração —
	// religar reaproveita URL e título anteriores.
	SetOffline(ctx context.Context, now time.Time) error

	// UpdateConfig aplica um PATCH parcial nos campos presentacionais.
	// Nunca toca em is_live.
	UpdateConfig(ctx context.Context, req *models.UpdateConfigRequest, now time.Time) error
}
