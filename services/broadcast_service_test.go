package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/repository"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/services"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/ws"
)

// fakeNotifier registra as chamadas de NotifyLive.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeNotifier) NotifyLive(title, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, title)
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newBroadcastService(t *testing.T) (services.BroadcastService, *fakePublisher, *fakeNotifier) {
	t.Helper()

	db := newTestDB(t)
	repo := repository.NewSQLiteBroadcastRepo(db.Conn)
	publisher := &fakePublisher{}
	notifier := &fakeNotifier{}
	svc := services.NewBroadcastService(repo, publisher, notifier)

	return svc, publisher, notifier
}

func TestBroadcastTurnOn(t *testing.T) {
	t.Run("empty url fails and leaves the state untouched", func(t *testing.T) {
		svc, publisher, notifier := newBroadcastService(t)
		ctx := context.Background()

		_, err := svc.TurnOn(ctx, &models.TurnOnRequest{Title: "Culto"})
		assert.ErrorIs(t, err, pkg.ErrInvalidConfig)

		state, err := svc.GetState(ctx)
		require.NoError(t, err)
		assert.False(t, state.IsLive)
		assert.Empty(t, publisher.eventsByOp(ws.OpBroadcastState))
		assert.Zero(t, notifier.callCount())
	})

	t.Run("success goes live, pushes state and notifies once", func(t *testing.T) {
		svc, publisher, notifier := newBroadcastService(t)
		ctx := context.Background()

		state, err := svc.TurnOn(ctx, &models.TurnOnRequest{
			StreamURL: "https://stream.example.com/live.m3u8",
			Title:     "Culto de Domingo",
		})
		require.NoError(t, err)
		assert.True(t, state.IsLive)
		require.NotNil(t, state.StreamURL)

		assert.Len(t, publisher.eventsByOp(ws.OpBroadcastState), 1)
		assert.Equal(t, 1, notifier.callCount())
	})

	t.Run("turning on while already live does not re-notify", func(t *testing.T) {
		svc, _, notifier := newBroadcastService(t)
		ctx := context.Background()

		req := &models.TurnOnRequest{StreamURL: "https://s/1.m3u8", Title: "Culto"}
		_, err := svc.TurnOn(ctx, req)
		require.NoError(t, err)

		// O admin ajusta a URL religando — a transição não aconteceu
		req2 := &models.TurnOnRequest{StreamURL: "https://s/2.m3u8", Title: "Culto"}
		_, err = svc.TurnOn(ctx, req2)
		require.NoError(t, err)

		assert.Equal(t, 1, notifier.callCount())
	})
}

func TestBroadcastTurnOff(t *testing.T) {
	svc, publisher, _ := newBroadcastService(t)
	ctx := context.Background()

	_, err := svc.TurnOn(ctx, &models.TurnOnRequest{StreamURL: "https://s/1.m3u8", Title: "Culto"})
	require.NoError(t, err)

	t.Run("goes offline keeping the config", func(t *testing.T) {
		state, err := svc.TurnOff(ctx)
		require.NoError(t, err)
		assert.False(t, state.IsLive)
		require.NotNil(t, state.StreamURL) // religar reaproveita
		assert.Len(t, publisher.eventsByOp(ws.OpBroadcastState), 2)
	})

	t.Run("turning off twice is harmless", func(t *testing.T) {
		state, err := svc.TurnOff(ctx)
		require.NoError(t, err)
		assert.False(t, state.IsLive)
	})
}

func TestBroadcastUpdateConfig(t *testing.T) {
	svc, _, _ := newBroadcastService(t)
	ctx := context.Background()

	strPtr := func(s string) *string { return &s }

	t.Run("patch never flips is_live", func(t *testing.T) {
		_, err := svc.TurnOn(ctx, &models.TurnOnRequest{StreamURL: "https://s/1.m3u8", Title: "Culto"})
		require.NoError(t, err)

		state, err := svc.UpdateConfig(ctx, &models.UpdateConfigRequest{Title: strPtr("Culto — Santa Ceia")})
		require.NoError(t, err)
		assert.True(t, state.IsLive)
		assert.Equal(t, "Culto — Santa Ceia", state.Title)
	})

	t.Run("invalid patch wraps ErrValidation", func(t *testing.T) {
		_, err := svc.UpdateConfig(ctx, &models.UpdateConfigRequest{Title: strPtr("  ")})
		assert.ErrorIs(t, err, pkg.ErrValidation)
	})
}
