package main

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/config"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/database"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/repository"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/services"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/ws"
)

type silentPublisher struct{}

func (silentPublisher) BroadcastToAll(event ws.Event) {}

func newCallbackFixture(t *testing.T) (services.PresenceService, services.ChatService) {
	t.Helper()

	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), migrationsFS)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.PresenceConfig{
		StaleWindow:   2 * time.Minute,
		Retention:     24 * time.Hour,
		PurgeInterval: time.Hour,
	}

	viewerRepo := repository.NewSQLiteViewerRepo(db.Conn)
	messageRepo := repository.NewSQLiteMessageRepo(db.Conn)

	presence := services.NewPresenceService(viewerRepo, silentPublisher{}, cfg)
	chat := services.NewChatService(messageRepo, viewerRepo, silentPublisher{}, cfg)
	return presence, chat
}

// Queda da última conexão ws não pode tirar o espectador do countActive:
// a página continua aberta mandando heartbeats REST, e o heartbeat nunca
// religa o watching — um leave aqui seria definitivo.
func TestViewerGoneKeepsPresence(t *testing.T) {
	presence, _ := newCallbackFixture(t)
	ctx := context.Background()

	session, err := presence.Register(ctx, &models.RegisterRequest{DisplayName: "Maria Silva"})
	require.NoError(t, err)

	logViewerGone(session.SessionID)

	require.NoError(t, presence.Heartbeat(ctx, session.SessionID))

	count, err := presence.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestChatCallbackFromWS(t *testing.T) {
	presence, chat := newCallbackFixture(t)
	ctx := context.Background()
	cb := postChatFromWS(chat)

	t.Run("admin connection is skipped", func(t *testing.T) {
		assert.NoError(t, cb("admin:painel", "aviso do painel"))
	})

	t.Run("viewer message goes through the chat service", func(t *testing.T) {
		session, err := presence.Register(ctx, &models.RegisterRequest{DisplayName: "Maria"})
		require.NoError(t, err)

		require.NoError(t, cb(session.SessionID, "Amém!"))

		messages, err := chat.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "Amém!", messages[0].Content)
	})

	t.Run("unknown session is rejected", func(t *testing.T) {
		assert.Error(t, cb("fantasma", "oi"))
	})
}
