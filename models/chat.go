package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg/moderation"
)

// LiveMessage é uma mensagem do chat da transmissão ao vivo.
//
// O display_name é desnormalizado (copiado da sessão no momento do envio):
// o chat é efêmero e lido com muito mais frequência do que escrito — um JOIN
// por poll não compensa. O janitor apaga mensagens além da retenção; histórico
// permanente de chat está fora do escopo do produto.
type LiveMessage struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	DisplayName string    `json:"display_name"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// PostMessageRequest — payload de POST /api/live/messages.
// Só sessões ativas podem mandar mensagem (verificado no service).
type PostMessageRequest struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
}

// Validate — conteúdo de 1 a 500 runas, sem palavrões.
func (r *PostMessageRequest) Validate() error {
	r.SessionID = strings.TrimSpace(r.SessionID)
	r.Content = strings.TrimSpace(r.Content)

	if r.SessionID == "" {
		return fmt.Errorf("session_id é obrigatório")
	}
	if r.Content == "" {
		return fmt.Errorf("a mensagem não pode ficar vazia")
	}
	if utf8.RuneCountInString(r.Content) > 500 {
		return fmt.Errorf("a mensagem deve ter no máximo 500 caracteres")
	}
	if moderation.ContainsProfanity(r.Content) {
		return fmt.Errorf("a mensagem contém palavras não permitidas")
	}
	return nil
}
