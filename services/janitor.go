package services

import (
	"context"
	"log"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/config"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/repository"
)

// Janitor — limpeza periódica do banco.
//
// A cada intervalo (padrão 1h):
//   - apaga sessões de espectador sem atividade além da retenção
//   - apaga mensagens de chat além da retenção
//
// Importante: o janitor é HIGIENE, nunca correção. A classificação
// ativo/inativo é calculada nas consultas pela janela de staleness; a
// contagem fica certa mesmo que o purge nunca rode. O que ele evita é o
// arquivo SQLite crescer para sempre com sessões de cultos passados.
type Janitor struct {
	presence    PresenceService
	messageRepo repository.MessageRepository
	cfg         config.PresenceConfig

	stop chan struct{}
	done chan struct{}
}

// NewJanitor cria o janitor (ainda parado — chame Start).
func NewJanitor(presence PresenceService, messageRepo repository.MessageRepository, cfg config.PresenceConfig) *Janitor {
	return &Janitor{
		presence:    presence,
		messageRepo: messageRepo,
		cfg:         cfg,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start inicia o loop em uma goroutine. A primeira varredura roda na hora —
// útil quando o servidor reinicia depois de dias parado.
func (j *Janitor) Start() {
	go j.run()
	log.Printf("[janitor] started (interval: %s, retention: %s)", j.cfg.PurgeInterval, j.cfg.Retention)
}

// Stop encerra o loop e espera a varredura em andamento terminar.
func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
	log.Printf("[janitor] stopped")
}

func (j *Janitor) run() {
	defer close(j.done)

	ticker := time.NewTicker(j.cfg.PurgeInterval)
	defer ticker.Stop()

	j.sweep()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.stop:
			return
		}
	}
}

// sweep faz uma varredura completa. Cada passo loga o próprio erro e segue —
// falha ao purgar sessões não impede a poda do chat.
func (j *Janitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := j.presence.PurgeStale(ctx); err != nil {
		log.Printf("[janitor] session purge failed: %v", err)
	}

	cutoff := time.Now().UTC().Add(-j.cfg.Retention)
	pruned, err := j.messageRepo.PruneBefore(ctx, cutoff)
	if err != nil {
		log.Printf("[janitor] message prune failed: %v", err)
	} else if pruned > 0 {
		log.Printf("[janitor] pruned %d old chat message(s)", pruned)
	}
}
