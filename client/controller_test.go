package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/client"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
)

// fakeServer simula o lado servidor da presença, com as sessões em memória.
type fakeServer struct {
	mu       sync.Mutex
	sessions map[string]string // sessionID → displayName
	nextID   int

	leaves          atomic.Int32
	heartbeats      atomic.Int32
	registersWithID atomic.Int32 // registros que chegaram com session_id preenchido

	stateDelay time.Duration // atraso artificial do GET /state
}

func newFakeServer() *fakeServer {
	return &fakeServer{sessions: map[string]string{}}
}

// forget simula o purge do lado do servidor.
func (f *fakeServer) forget(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sessionID)
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/live/register", func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		// O Controller nunca deve reenviar um id antigo — cada visita
		// registra uma sessão nova.
		if req.SessionID != "" {
			f.registersWithID.Add(1)
		}

		f.mu.Lock()
		f.nextID++
		id := fmt.Sprintf("sess-%d", f.nextID)
		f.sessions[id] = req.DisplayName
		f.mu.Unlock()

		writeEnvelope(w, http.StatusOK, models.ViewerSession{
			SessionID:   id,
			DisplayName: req.DisplayName,
			Watching:    true,
		}, "")
	})

	mux.HandleFunc("POST /api/live/heartbeat", func(w http.ResponseWriter, r *http.Request) {
		var req models.SessionIDRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		f.mu.Lock()
		_, ok := f.sessions[req.SessionID]
		f.mu.Unlock()

		if !ok {
			writeEnvelope(w, http.StatusNotFound, nil, "not found")
			return
		}
		f.heartbeats.Add(1)
		writeEnvelope(w, http.StatusOK, map[string]bool{"ok": true}, "")
	})

	mux.HandleFunc("POST /api/live/leave", func(w http.ResponseWriter, r *http.Request) {
		f.leaves.Add(1)
		writeEnvelope(w, http.StatusOK, map[string]bool{"ok": true}, "")
	})

	mux.HandleFunc("GET /api/live/state", func(w http.ResponseWriter, r *http.Request) {
		if f.stateDelay > 0 {
			time.Sleep(f.stateDelay)
		}
		writeEnvelope(w, http.StatusOK, models.BroadcastState{IsLive: true, UpdatedAt: time.Now().UTC()}, "")
	})

	mux.HandleFunc("GET /api/live/count", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]int{"count": 1}, "")
	})

	return mux
}

func TestControllerJoin(t *testing.T) {
	fake := newFakeServer()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	store := client.NewMemoryIdentityStore()
	api := client.New(srv.URL)

	t.Run("first join registers and persists the name", func(t *testing.T) {
		ctrl := client.NewController(api, store, client.ControllerOptions{})
		require.NoError(t, ctrl.Join(context.Background(), "Maria Silva", ""))
		assert.Equal(t, "sess-1", ctrl.SessionID())

		identity, ok, err := store.Load()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Maria Silva", identity.DisplayName)
	})

	t.Run("rejoin with empty name reuses the name but gets a fresh session", func(t *testing.T) {
		ctrl := client.NewController(api, store, client.ControllerOptions{})
		require.NoError(t, ctrl.Join(context.Background(), "", ""))

		assert.Equal(t, "sess-2", ctrl.SessionID(), "each visit is a new session")

		fake.mu.Lock()
		name := fake.sessions["sess-2"]
		fake.mu.Unlock()
		assert.Equal(t, "Maria Silva", name)
	})

	t.Run("register never carries an old session id", func(t *testing.T) {
		assert.Zero(t, fake.registersWithID.Load())
	})

	t.Run("join with empty name and no stored identity fails", func(t *testing.T) {
		ctrl := client.NewController(api, client.NewMemoryIdentityStore(), client.ControllerOptions{})
		assert.Error(t, ctrl.Join(context.Background(), "", ""))
	})
}

func TestControllerLoops(t *testing.T) {
	fake := newFakeServer()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	store := client.NewMemoryIdentityStore()
	api := client.New(srv.URL)

	var stateCalls, countCalls atomic.Int32

	ctrl := client.NewController(api, store, client.ControllerOptions{
		StateInterval:     20 * time.Millisecond,
		CountInterval:     20 * time.Millisecond,
		HeartbeatInterval: 20 * time.Millisecond,
		OnState:           func(state *models.BroadcastState) { stateCalls.Add(1) },
		OnCount:           func(count int) { countCalls.Add(1) },
	})

	require.NoError(t, ctrl.Join(context.Background(), "Maria", ""))
	ctrl.Start(context.Background())

	time.Sleep(100 * time.Millisecond)
	ctrl.Stop()

	t.Run("callbacks fired on first observation", func(t *testing.T) {
		assert.GreaterOrEqual(t, stateCalls.Load(), int32(1))
		assert.GreaterOrEqual(t, countCalls.Load(), int32(1))
	})

	t.Run("stop sends the best-effort leave", func(t *testing.T) {
		assert.GreaterOrEqual(t, fake.leaves.Load(), int32(1))
	})

	t.Run("stop twice is safe", func(t *testing.T) {
		ctrl.Stop()
	})
}

func TestControllerSlowStatePollDoesNotDelayHeartbeat(t *testing.T) {
	fake := newFakeServer()
	fake.stateDelay = 300 * time.Millisecond
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	store := client.NewMemoryIdentityStore()
	api := client.New(srv.URL)

	ctrl := client.NewController(api, store, client.ControllerOptions{
		StateInterval:     10 * time.Millisecond, // fila de polls lentos
		CountInterval:     time.Hour,
		HeartbeatInterval: 20 * time.Millisecond,
	})

	require.NoError(t, ctrl.Join(context.Background(), "Maria", ""))
	ctrl.Start(context.Background())
	defer ctrl.Stop()

	// Com os loops em goroutines separadas, o heartbeat anda no próprio
	// ritmo mesmo com o GET /state demorando 300ms por chamada.
	require.Eventually(t, func() bool {
		return fake.heartbeats.Load() >= 15
	}, 2*time.Second, 10*time.Millisecond,
		"heartbeats must keep their own pace while state polls are slow")
}

func TestControllerReRegistersOnPurgedSession(t *testing.T) {
	fake := newFakeServer()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	store := client.NewMemoryIdentityStore()
	api := client.New(srv.URL)

	ctrl := client.NewController(api, store, client.ControllerOptions{
		StateInterval:     time.Hour, // só o heartbeat interessa aqui
		CountInterval:     time.Hour,
		HeartbeatInterval: 20 * time.Millisecond,
	})

	require.NoError(t, ctrl.Join(context.Background(), "Maria", ""))
	oldID := ctrl.SessionID()

	// O servidor purga a sessão — o próximo heartbeat leva 404 e o
	// Controller deve registrar uma sessão NOVA com a identidade guardada.
	fake.forget(oldID)

	ctrl.Start(context.Background())
	defer ctrl.Stop()

	require.Eventually(t, func() bool {
		id := ctrl.SessionID()
		return id != "" && id != oldID
	}, 2*time.Second, 10*time.Millisecond, "a new session must be registered")

	newID := ctrl.SessionID()

	fake.mu.Lock()
	name, ok := fake.sessions[newID]
	_, oldRevived := fake.sessions[oldID]
	fake.mu.Unlock()

	require.True(t, ok)
	assert.Equal(t, "Maria", name, "the stored name survives the re-register")
	assert.False(t, oldRevived, "a purged session id must never come back")
	assert.Zero(t, fake.registersWithID.Load())
}
