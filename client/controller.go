package client

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
)

// Intervalos padrão dos loops do Controller — os mesmos da página web:
// estado mais frequente que contagem (mudança de estado é o que importa),
// heartbeat folgado o bastante para a janela de staleness de 2min do
// servidor tolerar perdas.
const (
	DefaultStateInterval     = 10 * time.Second
	DefaultCountInterval     = 15 * time.Second
	DefaultHeartbeatInterval = 30 * time.Second
)

// ControllerOptions configura o Controller. Zero value usa os padrões.
type ControllerOptions struct {
	StateInterval     time.Duration
	CountInterval     time.Duration
	HeartbeatInterval time.Duration

	// OnState é chamado a cada mudança observada no estado da transmissão
	// (e uma vez com o estado inicial). Opcional.
	OnState func(state *models.BroadcastState)

	// OnCount é chamado a cada mudança na contagem de espectadores. Opcional.
	OnCount func(count int)
}

// Controller administra o ciclo de vida de UM espectador:
//
//	ctrl := client.NewController(apiClient, store, opts)
//	if err := ctrl.Join(ctx, "Maria Silva", ""); err != nil { ... }
//	ctrl.Start(ctx)   // loops de estado, contagem e heartbeat
//	...
//	ctrl.Stop()       // leave best-effort + encerra os loops
//
// Comportamentos herdados da página web:
//   - Identidade persistida: Join com nome vazio reusa o nome/email salvos.
//   - Sessão nova a cada visita: o registro nunca manda um id antigo — o
//     servidor emite um id fresco, e um id purgado jamais reaparece.
//   - Re-registro transparente: heartbeat respondido com NotFound (sessão
//     purgada no servidor) → registra uma sessão nova com a identidade
//     guardada, sem intervenção de quem usa.
//   - Cada loop é independente: falha de uma rodada de poll só loga e
//     espera o próximo tick.
type Controller struct {
	api   *Client
	store IdentityStore
	opts  ControllerOptions

	mu        sync.Mutex
	identity  Identity
	sessionID string
	joined    bool

	lastState *models.BroadcastState
	lastCount int
	hasCount  bool

	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewController cria o Controller (ainda parado).
func NewController(api *Client, store IdentityStore, opts ControllerOptions) *Controller {
	if opts.StateInterval <= 0 {
		opts.StateInterval = DefaultStateInterval
	}
	if opts.CountInterval <= 0 {
		opts.CountInterval = DefaultCountInterval
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = DefaultHeartbeatInterval
	}

	return &Controller{
		api:   api,
		store: store,
		opts:  opts,
	}
}

// Join registra a presença do espectador.
//
// displayName vazio → reusa o nome/email salvos no store (reentrada).
// displayName preenchido → registra com esse nome.
//
// O registro sempre vai sem session_id: o servidor emite um id novo para
// cada visita. O id vive só em memória — persistir e reenviar um id velho
// ressuscitaria uma sessão purgada.
func (c *Controller) Join(ctx context.Context, displayName, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, hasStored, err := c.store.Load()
	if err != nil {
		return err
	}

	if displayName == "" {
		if !hasStored {
			return errors.New("nenhuma identidade salva — informe o nome de exibição")
		}
		displayName = stored.DisplayName
		if email == "" {
			email = stored.Email
		}
	}

	session, err := c.api.Register(ctx, &models.RegisterRequest{
		DisplayName: displayName,
		Email:       email,
	})
	if err != nil {
		return err
	}

	c.identity = Identity{
		DisplayName: session.DisplayName,
		Email:       email,
	}
	c.sessionID = session.SessionID
	c.joined = true

	if err := c.store.Save(c.identity); err != nil {
		log.Printf("[controller] failed to persist identity: %v", err)
	}

	return nil
}

// Start sobe os três loops. O ctx cancela tudo (alternativa ao Stop).
// Chamar Start sem Join funciona — estado e contagem são públicos; o loop
// de heartbeat só roda depois de um Join.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return
	}
	c.started = true

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.run(loopCtx)
}

// Stop encerra os loops, espera eles terminarem e manda o leave best-effort.
// Seguro chamar mais de uma vez.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	c.started = false
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	cancel()
	<-done

	c.leaveBestEffort()
}

// SessionID retorna o id da sessão atual ("" antes do Join).
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// run sobe uma goroutine por preocupação. Cada ticker anda sozinho: um
// GetState lento (servidor ocupado, rede ruim) não atrasa o tick do
// heartbeat, que é o que mantém a sessão viva.
func (c *Controller) run(ctx context.Context) {
	defer close(c.done)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		// Primeira rodada na hora — a página não espera 10s para saber se
		// a transmissão está no ar.
		c.pollState(ctx)
		c.loop(ctx, c.opts.StateInterval, c.pollState)
	}()
	go func() {
		defer wg.Done()
		c.pollCount(ctx)
		c.loop(ctx, c.opts.CountInterval, c.pollCount)
	}()
	go func() {
		defer wg.Done()
		c.loop(ctx, c.opts.HeartbeatInterval, c.heartbeat)
	}()

	wg.Wait()
}

// loop chama fn a cada intervalo até o ctx cancelar.
func (c *Controller) loop(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// pollState busca o estado e notifica só quando algo mudou.
func (c *Controller) pollState(ctx context.Context) {
	state, err := c.api.GetState(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("[controller] state poll failed: %v", err)
		}
		return
	}

	c.mu.Lock()
	changed := c.lastState == nil || !c.lastState.UpdatedAt.Equal(state.UpdatedAt)
	c.lastState = state
	onState := c.opts.OnState
	c.mu.Unlock()

	if changed && onState != nil {
		onState(state)
	}
}

// pollCount busca a contagem e notifica só quando mudou.
func (c *Controller) pollCount(ctx context.Context) {
	count, err := c.api.GetCount(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("[controller] count poll failed: %v", err)
		}
		return
	}

	c.mu.Lock()
	changed := !c.hasCount || c.lastCount != count
	c.lastCount = count
	c.hasCount = true
	onCount := c.opts.OnCount
	c.mu.Unlock()

	if changed && onCount != nil {
		onCount(count)
	}
}

// heartbeat renova a presença; NotFound dispara o re-registro transparente.
func (c *Controller) heartbeat(ctx context.Context) {
	c.mu.Lock()
	joined := c.joined
	sessionID := c.sessionID
	c.mu.Unlock()

	if !joined {
		return
	}

	err := c.api.Heartbeat(ctx, sessionID)
	if err == nil {
		return
	}
	if ctx.Err() != nil {
		return
	}

	if errors.Is(err, pkg.ErrNotFound) {
		// O servidor purgou a sessão (ficamos muito tempo fora, ou o banco
		// foi recriado). O nome salvo ainda vale — registra uma sessão NOVA
		// com ele; o id purgado fica purgado para sempre.
		log.Printf("[controller] session expired on server, re-registering")
		if joinErr := c.Join(ctx, "", ""); joinErr != nil {
			log.Printf("[controller] re-register failed: %v", joinErr)
		}
		return
	}

	log.Printf("[controller] heartbeat failed: %v", err)
}

// leaveBestEffort avisa a saída com um prazo curto e context próprio —
// o ctx dos loops já está cancelado neste ponto.
func (c *Controller) leaveBestEffort() {
	c.mu.Lock()
	joined := c.joined
	sessionID := c.sessionID
	c.mu.Unlock()

	if !joined {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := c.api.Leave(ctx, sessionID); err != nil {
		// Best-effort por contrato: se não chegou, a janela de staleness
		// do servidor expira a sessão sozinha.
		log.Printf("[controller] leave failed (will expire server-side): %v", err)
	}
}
