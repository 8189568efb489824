package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Subscriber é um email inscrito no aviso "me avise quando começar".
type Subscriber struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SubscribeRequest — payload de POST /api/live/subscribe.
type SubscribeRequest struct {
	Email string `json:"email"`
}

// Validate usa net/mail para validar o formato do endereço.
// mail.ParseAddress aceita "Nome <a@b>"; normalizamos para só o endereço.
func (r *SubscribeRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email == "" {
		return fmt.Errorf("informe um email")
	}
	addr, err := mail.ParseAddress(r.Email)
	if err != nil {
		return fmt.Errorf("email inválido")
	}
	r.Email = addr.Address
	return nil
}
