// Package pkg guarda utilitários compartilhados do projeto.
// Este arquivo define os erros de domínio.
//
// Em Go, erros são valores simples (structs que carregam uma string).
// Com errors.New() definimos erros sentinela — a comparação é feita
// por referência via errors.Is(), nunca por comparação de string:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
//
// Isso permite que a camada de handler (e o pacote client) decida o que
// fazer com cada classe de erro sem string matching frágil.
package pkg

import "errors"

// Erros de domínio.
// A camada service retorna esses erros (normalmente com fmt.Errorf("%w: ...")
// para anexar contexto); a camada handler mapeia para status HTTP.
var (
	// ErrValidation — dado de entrada rejeitado (ex.: nome de exibição inválido).
	// Sempre mostrado ao usuário; nunca re-tentado automaticamente.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidConfig — tentativa de ligar a transmissão sem URL de stream.
	// Mostrado ao administrador; o estado global permanece intocado.
	ErrInvalidConfig = errors.New("invalid broadcast config")

	// ErrNotFound — heartbeat/leave em sessão desconhecida (ex.: já purgada).
	// O client se recupera sozinho re-registrando; nunca chega ao usuário.
	ErrNotFound = errors.New("not found")

	// ErrTooManyRequests — rate limit estourado (chat, registro, login).
	ErrTooManyRequests = errors.New("too many requests")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)
