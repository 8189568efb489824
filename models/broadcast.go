// Package models define os modelos de domínio (estruturas de dados) da aplicação.
//
// Um model é o equivalente Go de uma tabela do banco e, ao mesmo tempo,
// o formato dos dados que entram e saem pela API. As tags `json:"..."`
// controlam a serialização; a validação de request vive em métodos
// Validate() junto do próprio request.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// NextEvent descreve o próximo evento agendado, exibido na página quando a
// transmissão está offline ("próximo culto: domingo às 18h").
type NextEvent struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
}

// BroadcastState é o estado global da transmissão — um singleton: existe
// exatamente uma linha no banco, criada na migration e nunca deletada.
//
// Invariante: is_live = true implica stream_url não-vazia NO MOMENTO em que
// a transmissão foi ligada. A regra é imposta na operação TurnOn do service,
// não continuamente — desligar não limpa a URL (religar reaproveita a config).
type BroadcastState struct {
	IsLive          bool       `json:"is_live"`
	StreamURL       *string    `json:"stream_url"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	OfflineMessage  string     `json:"offline_message"`
	NextEvent       *NextEvent `json:"next_event"`
	ShowViewerCount bool       `json:"show_viewer_count"`
	BadgeColor      string     `json:"badge_color"` // presentacional — repassada sem interpretação
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TurnOnRequest — payload de POST /api/admin/live/on.
type TurnOnRequest struct {
	StreamURL   string `json:"stream_url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Validate confere o mínimo para ligar a transmissão.
// URL vazia é o erro clássico: o admin clicou "ligar" sem colar o
// link do stream — nesse caso o estado global não pode mudar.
func (r *TurnOnRequest) Validate() error {
	r.StreamURL = strings.TrimSpace(r.StreamURL)
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)

	if r.StreamURL == "" {
		return fmt.Errorf("informe a URL do stream antes de ligar a transmissão")
	}
	if r.Title == "" {
		return fmt.Errorf("informe o título da transmissão")
	}
	if utf8.RuneCountInString(r.Title) > 200 {
		return fmt.Errorf("o título deve ter no máximo 200 caracteres")
	}
	return nil
}

// UpdateConfigRequest — payload de PATCH /api/admin/live/config.
//
// Todos os campos são ponteiros: nil significa "não mexer". Assim um PATCH
// parcial atualiza só o que veio no JSON, sem tocar no resto — e nunca toca
// em is_live, que só muda pelas transições explícitas on/off.
type UpdateConfigRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	OfflineMessage  *string    `json:"offline_message"`
	NextEvent       *NextEvent `json:"next_event"`
	ClearNextEvent  bool       `json:"clear_next_event"`
	ShowViewerCount *bool      `json:"show_viewer_count"`
	BadgeColor      *string    `json:"badge_color"`
}

// Validate confere limites de tamanho dos campos presentes.
func (r *UpdateConfigRequest) Validate() error {
	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
		if *r.Title == "" {
			return fmt.Errorf("o título não pode ficar vazio")
		}
		if utf8.RuneCountInString(*r.Title) > 200 {
			return fmt.Errorf("o título deve ter no máximo 200 caracteres")
		}
	}
	if r.OfflineMessage != nil {
		*r.OfflineMessage = strings.TrimSpace(*r.OfflineMessage)
		if utf8.RuneCountInString(*r.OfflineMessage) > 500 {
			return fmt.Errorf("a mensagem offline deve ter no máximo 500 caracteres")
		}
	}
	if r.NextEvent != nil {
		r.NextEvent.Title = strings.TrimSpace(r.NextEvent.Title)
		if r.NextEvent.Title == "" {
			return fmt.Errorf("o próximo evento precisa de um título")
		}
		if r.NextEvent.StartsAt.IsZero() {
			return fmt.Errorf("o próximo evento precisa de data e hora")
		}
	}
	return nil
}
