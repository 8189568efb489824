package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg/moderation"
)

// ViewerSession é a presença registrada de um espectador na transmissão.
//
// A unidade de identidade é SEMPRE o session_id emitido pelo servidor, nunca
// o nome de exibição: "a mesma pessoa" voltando amanhã é uma sessão nova.
// Presença é por conexão, não por pessoa.
//
// Invariantes:
//   - last_activity_at >= joined_at, sempre.
//   - ativa ⟺ watching = true E (agora − last_activity_at) ≤ janela de staleness.
//     A classificação é calculada na consulta, nunca gravada — uma flag "ativa"
//     armazenada ficaria obsoleta sem nenhuma escrita acontecer.
type ViewerSession struct {
	SessionID      string    `json:"session_id"`
	DisplayName    string    `json:"display_name"`
	Email          *string   `json:"email,omitempty"`
	JoinedAt       time.Time `json:"joined_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	Watching       bool      `json:"watching"`
}

// ViewerSessionInfo é a sessão enriquecida com o status calculado,
// usada na listagem do painel admin.
type ViewerSessionInfo struct {
	ViewerSession
	Active bool `json:"active"`
}

// RegisterRequest — payload de POST /api/live/register.
//
// SessionID vazio → o servidor emite um novo id (primeira visita).
// SessionID preenchido → re-registro idempotente (reconexão com identidade
// conhecida): o registro existente tem os timestamps renovados.
type RegisterRequest struct {
	SessionID   string `json:"session_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Validate aplica as regras do nome de exibição:
//   - 2 a 50 caracteres (runas, não bytes — "José" são 4)
//   - pelo menos uma letra ("123" não vale)
//   - sem palavrões (lista do pacote moderation)
//
// As mensagens são escritas para o usuário final: a violação volta como
// ErrValidation e a página mostra o texto direto no formulário.
func (r *RegisterRequest) Validate() error {
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.Email = strings.TrimSpace(r.Email)

	nameLen := utf8.RuneCountInString(r.DisplayName)
	if nameLen < 2 || nameLen > 50 {
		return fmt.Errorf("o nome deve ter entre 2 e 50 caracteres")
	}

	hasLetter := false
	for _, ch := range r.DisplayName {
		if unicode.IsLetter(ch) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return fmt.Errorf("o nome deve conter pelo menos uma letra")
	}

	if moderation.ContainsProfanity(r.DisplayName) {
		return fmt.Errorf("este nome não é permitido")
	}

	if r.Email != "" {
		if utf8.RuneCountInString(r.Email) > 254 || !strings.Contains(r.Email, "@") {
			return fmt.Errorf("email inválido")
		}
	}

	return nil
}

// SessionIDRequest — payload de heartbeat e leave: só o id da sessão.
type SessionIDRequest struct {
	SessionID string `json:"session_id"`
}

// Validate — id vazio nem chega ao banco.
func (r *SessionIDRequest) Validate() error {
	r.SessionID = strings.TrimSpace(r.SessionID)
	if r.SessionID == "" {
		return fmt.Errorf("session_id é obrigatório")
	}
	return nil
}
