package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/repository"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/services"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/ws"
)

func newChatFixture(t *testing.T) (services.ChatService, services.PresenceService, repository.ViewerRepository, *fakePublisher) {
	t.Helper()

	db := newTestDB(t)
	viewerRepo := repository.NewSQLiteViewerRepo(db.Conn)
	messageRepo := repository.NewSQLiteMessageRepo(db.Conn)
	publisher := &fakePublisher{}
	cfg := testPresenceConfig()

	chat := services.NewChatService(messageRepo, viewerRepo, publisher, cfg)
	presence := services.NewPresenceService(viewerRepo, publisher, cfg)

	return chat, presence, viewerRepo, publisher
}

func TestChatPost(t *testing.T) {
	ctx := context.Background()

	t.Run("active session posts and the message is pushed", func(t *testing.T) {
		chat, presence, _, publisher := newChatFixture(t)

		session, err := presence.Register(ctx, &models.RegisterRequest{DisplayName: "Maria"})
		require.NoError(t, err)

		msg, err := chat.Post(ctx, &models.PostMessageRequest{
			SessionID: session.SessionID,
			Content:   "Amém!",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, msg.ID)
		assert.Equal(t, "Maria", msg.DisplayName, "display name comes from the session, not the payload")
		assert.Equal(t, "Amém!", msg.Content)
		assert.Len(t, publisher.eventsByOp(ws.OpChatMessage), 1)
	})

	t.Run("unknown session is ErrNotFound", func(t *testing.T) {
		chat, _, _, _ := newChatFixture(t)

		_, err := chat.Post(ctx, &models.PostMessageRequest{SessionID: "ghost", Content: "oi"})
		assert.ErrorIs(t, err, pkg.ErrNotFound)
	})

	t.Run("left session is ErrForbidden", func(t *testing.T) {
		chat, presence, _, _ := newChatFixture(t)

		session, err := presence.Register(ctx, &models.RegisterRequest{DisplayName: "Ana"})
		require.NoError(t, err)
		require.NoError(t, presence.Leave(ctx, session.SessionID))

		_, err = chat.Post(ctx, &models.PostMessageRequest{SessionID: session.SessionID, Content: "oi"})
		assert.ErrorIs(t, err, pkg.ErrForbidden)
	})

	t.Run("stale session is ErrForbidden", func(t *testing.T) {
		chat, presence, viewerRepo, _ := newChatFixture(t)

		session, err := presence.Register(ctx, &models.RegisterRequest{DisplayName: "Bia"})
		require.NoError(t, err)
		require.NoError(t, viewerRepo.Touch(ctx, session.SessionID, time.Now().UTC().Add(-10*time.Minute)))

		_, err = chat.Post(ctx, &models.PostMessageRequest{SessionID: session.SessionID, Content: "oi"})
		assert.ErrorIs(t, err, pkg.ErrForbidden)
	})

	t.Run("profanity is ErrValidation", func(t *testing.T) {
		chat, presence, _, _ := newChatFixture(t)

		session, err := presence.Register(ctx, &models.RegisterRequest{DisplayName: "Carla"})
		require.NoError(t, err)

		_, err = chat.Post(ctx, &models.PostMessageRequest{SessionID: session.SessionID, Content: "que merda"})
		assert.ErrorIs(t, err, pkg.ErrValidation)
	})

	t.Run("flood hits the rate limit", func(t *testing.T) {
		chat, presence, _, _ := newChatFixture(t)

		session, err := presence.Register(ctx, &models.RegisterRequest{DisplayName: "Dora"})
		require.NoError(t, err)

		var lastErr error
		for i := 0; i < 10; i++ {
			_, lastErr = chat.Post(ctx, &models.PostMessageRequest{
				SessionID: session.SessionID,
				Content:   fmt.Sprintf("mensagem %d", i),
			})
			if lastErr != nil {
				break
			}
		}
		assert.ErrorIs(t, lastErr, pkg.ErrTooManyRequests)
	})
}

func TestChatListRecent(t *testing.T) {
	ctx := context.Background()
	chat, presence, _, _ := newChatFixture(t)

	session, err := presence.Register(ctx, &models.RegisterRequest{DisplayName: "Maria"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := chat.Post(ctx, &models.PostMessageRequest{
			SessionID: session.SessionID,
			Content:   fmt.Sprintf("mensagem %d", i),
		})
		require.NoError(t, err)
	}

	t.Run("returns chronological order", func(t *testing.T) {
		messages, err := chat.ListRecent(ctx, 0) // 0 → limite padrão
		require.NoError(t, err)
		require.Len(t, messages, 3)
		assert.Equal(t, "mensagem 0", messages[0].Content)
		assert.Equal(t, "mensagem 2", messages[2].Content)
	})

	t.Run("respects the limit", func(t *testing.T) {
		messages, err := chat.ListRecent(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, messages, 2)
	})
}
