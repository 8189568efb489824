package services_test

import (
	"io/fs"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/config"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/database"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/ws"
)

// newTestDB abre um SQLite temporário com as migrations reais.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), migrationsFS)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

// fakePublisher captura os eventos que os services empurrariam pelo ws.
type fakePublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (f *fakePublisher) BroadcastToAll(event ws.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

// eventsByOp retorna os eventos capturados com o op dado.
func (f *fakePublisher) eventsByOp(op string) []ws.Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []ws.Event
	for _, e := range f.events {
		if e.Op == op {
			out = append(out, e)
		}
	}
	return out
}

// testPresenceConfig — janela de 2min, igual ao padrão de produção.
func testPresenceConfig() config.PresenceConfig {
	return config.PresenceConfig{
		StaleWindow:   2 * time.Minute,
		Retention:     24 * time.Hour,
		PurgeInterval: time.Hour,
	}
}
