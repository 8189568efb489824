// Package cache — cache TTL genérico em memória.
//
// TTLCache guarda valores que expiram sozinhos depois de um tempo fixo.
// Uso atual: deduplicação do aviso "estamos ao vivo" — cada endereço de
// email recebe no máximo um aviso por janela, mesmo que o admin ligue e
// desligue a transmissão várias vezes seguidas (teste de som, queda de luz).
//
// Thread safety: sync.RWMutex — várias goroutines podem ler ao mesmo tempo
// (RLock); escrita bloqueia tudo (Lock).
package cache

import (
	"sync"
	"time"
)

// entry é um registro do cache: o valor e quando ele expira.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache é um cache genérico com expiração automática.
//
// Generics (Go 1.18+): K e V são parâmetros de tipo, fixados na criação:
//
//	c := cache.New[string, bool](6*time.Hour, 30*time.Minute)
//	c.Set("maria@example.com", true)
//	_, ok := c.Get("maria@example.com")
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration

	stopCleanup chan struct{}
}

// New cria um TTLCache e inicia a goroutine de limpeza periódica.
//
// ttl: tempo de vida de cada entrada.
// cleanupInterval: frequência da remoção física das entradas expiradas.
// Get nunca retorna entrada vencida mesmo antes da limpeza — a limpeza
// existe só para devolver memória.
func New[K comparable, V any](ttl, cleanupInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		entries:     make(map[K]entry[V]),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-c.stopCleanup:
				return
			}
		}
	}()

	return c
}

// Get retorna o valor da chave e se ele existe (e ainda não expirou).
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set grava o valor com o TTL padrão do cache.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete remove a chave imediatamente.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Close encerra a goroutine de limpeza.
func (c *TTLCache[K, V]) Close() {
	close(c.stopCleanup)
}

func (c *TTLCache[K, V]) evictExpired() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
