// Package ratelimit — rate limiting por chave (IP ou sessão) com janela deslizante.
//
// Usos no projeto:
//   - login do admin: proteção contra brute-force (chave = IP)
//   - registro de espectador: impede inflar a contagem criando sessões em massa
//   - chat ao vivo: limita mensagens por sessão
//
// Por que in-memory?
//   - Gravar no SQLite a cada request criaria I/O e contenção desnecessários.
//   - Deploy é de instância única; não vale a dependência de um Redis.
//   - sync.Mutex protege o map; uma goroutine de limpeza evita vazamento de memória.
//
// Por que um pacote separado?
// handlers e services usam o limiter sem criar ciclo de import —
// ratelimit não depende de nenhum pacote do projeto (leaf dependency).
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// bucket guarda o contador de uma chave e o início da janela atual.
//
// Algoritmo de janela deslizante (simplificado):
//   - primeira chamada: windowStart = agora, count = 1
//   - chamadas seguintes dentro da janela: count++
//   - janela expirada: reinicia (windowStart = agora, count = 1)
type bucket struct {
	count       int
	windowStart time.Time
}

// Limiter limita chamadas por chave dentro de uma janela de tempo.
//
// Uso:
//
//	limiter := ratelimit.New(5, 2*time.Minute)
//	if !limiter.Allow(ip) { /* 429 */ }
type Limiter struct {
	mu          sync.Mutex
	buckets     map[string]*bucket
	maxAttempts int
	window      time.Duration
	stopCleanup chan struct{}
}

// New cria um Limiter e inicia a goroutine de limpeza em background.
//
// maxAttempts: chamadas permitidas por janela (ex.: 5).
// window: duração da janela (ex.: 2*time.Minute).
//
// A limpeza roda a cada minuto e remove buckets expirados — sem ela, o map
// cresceria para sempre em um servidor de longa duração.
func New(maxAttempts int, window time.Duration) *Limiter {
	l := &Limiter{
		buckets:     make(map[string]*bucket),
		maxAttempts: maxAttempts,
		window:      window,
		stopCleanup: make(chan struct{}),
	}

	go l.cleanupLoop()

	return l
}

// Allow registra uma tentativa para a chave e retorna se ela é permitida.
// false → o caller deve responder 429 Too Many Requests.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, exists := l.buckets[key]
	if !exists {
		l.buckets[key] = &bucket{count: 1, windowStart: now}
		return true
	}

	if now.Sub(b.windowStart) > l.window {
		// Janela expirou — começa uma nova
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	return b.count <= l.maxAttempts
}

// Reset zera o contador de uma chave.
// Chamado após login bem-sucedido do admin — o usuário legítimo não deve
// carregar tentativas falhas para as próximas sessões.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// RetryAfterSeconds retorna quantos segundos faltam para a janela da chave
// expirar. Usado no header HTTP Retry-After.
func (l *Limiter) RetryAfterSeconds(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, exists := l.buckets[key]
	if !exists {
		return 0
	}

	remaining := l.window - time.Since(b.windowStart)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1 // +1 para o client não voltar cedo demais
}

// Close encerra a goroutine de limpeza.
func (l *Limiter) Close() {
	close(l.stopCleanup)
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *Limiter) cleanup() {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if now.Sub(b.windowStart) > l.window {
			delete(l.buckets, key)
		}
	}
}

// ExtractIP extrai o IP do client de um request HTTP.
//
// Ordem de prioridade:
//  1. X-Forwarded-For (atrás de reverse proxy — primeiro IP da lista)
//  2. X-Real-IP (nginx e similares)
//  3. RemoteAddr (conexão direta)
//
// Em produção o serviço roda atrás de nginx, então RemoteAddr seria sempre
// o IP do proxy — os headers vêm primeiro.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// "client, proxy1, proxy2" — o primeiro valor é o client real
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage converte segundos em texto legível para a mensagem de 429.
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minuto(s)", seconds/60)
	}
	return fmt.Sprintf("%d segundo(s)", seconds)
}
