// Package client é a biblioteca Go que consome a API de transmissão ao vivo.
//
// Dois níveis de uso:
//   - Client: chamadas diretas tipadas (GetState, Register, Heartbeat, ...)
//   - Controller: o ciclo de vida completo de um espectador — polling de
//     estado e contagem, heartbeat periódico, re-registro automático e
//     leave na saída. É o que um frontend Go (ou um teste de carga) usa.
//
// Os erros voltam como os sentinelas do pacote pkg (ErrNotFound,
// ErrValidation, ...) — o caller decide com errors.Is, nunca olhando
// status HTTP cru.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/models"
	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg"
)

// Client fala com a API REST do serviço de transmissão.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New cria um Client.
// baseURL: endereço do serviço, sem barra final (ex.: "https://api.avivanacoes.com.br").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewWithHTTPClient cria um Client com um *http.Client customizado
// (testes e configurações de proxy/TLS específicas).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// GetState busca o estado atual da transmissão.
func (c *Client) GetState(ctx context.Context) (*models.BroadcastState, error) {
	var state models.BroadcastState
	if err := c.do(ctx, http.MethodGet, "/api/live/state", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Register registra (ou re-registra) a presença do espectador.
// req.SessionID vazio → o servidor emite um id novo, retornado na sessão.
func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) (*models.ViewerSession, error) {
	var session models.ViewerSession
	if err := c.do(ctx, http.MethodPost, "/api/live/register", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Heartbeat renova a presença. pkg.ErrNotFound → a sessão foi purgada;
// o caller (normalmente o Controller) deve re-registrar.
func (c *Client) Heartbeat(ctx context.Context, sessionID string) error {
	req := models.SessionIDRequest{SessionID: sessionID}
	return c.do(ctx, http.MethodPost, "/api/live/heartbeat", &req, nil)
}

// Leave marca a saída explícita. Idempotente do lado do servidor.
func (c *Client) Leave(ctx context.Context, sessionID string) error {
	req := models.SessionIDRequest{SessionID: sessionID}
	return c.do(ctx, http.MethodPost, "/api/live/leave", &req, nil)
}

// GetCount busca a contagem de espectadores ativos.
func (c *Client) GetCount(ctx context.Context) (int, error) {
	var payload struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/live/count", nil, &payload); err != nil {
		return 0, err
	}
	return payload.Count, nil
}

// ListMessages busca as últimas mensagens do chat.
func (c *Client) ListMessages(ctx context.Context, limit int) ([]models.LiveMessage, error) {
	path := "/api/live/messages"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var messages []models.LiveMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// PostMessage manda uma mensagem no chat.
func (c *Client) PostMessage(ctx context.Context, req *models.PostMessageRequest) (*models.LiveMessage, error) {
	var msg models.LiveMessage
	if err := c.do(ctx, http.MethodPost, "/api/live/messages", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Subscribe inscreve um email no aviso "estamos ao vivo".
func (c *Client) Subscribe(ctx context.Context, emailAddr string) error {
	req := models.SubscribeRequest{Email: emailAddr}
	return c.do(ctx, http.MethodPost, "/api/live/subscribe", &req, nil)
}

// do monta, envia e decodifica uma chamada.
// out nil descarta o payload de sucesso (só interessa o erro).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope pkg.APIResponse
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("invalid response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= 400 || !envelope.Success {
		return classifyError(resp.StatusCode, envelope.Error)
	}

	if out != nil {
		// envelope.Data veio como any; re-serializa para tipar no destino.
		dataBytes, err := json.Marshal(envelope.Data)
		if err != nil {
			return fmt.Errorf("failed to re-encode response data: %w", err)
		}
		if err := json.Unmarshal(dataBytes, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}

// classifyError converte status HTTP nos sentinelas de domínio — o inverso
// exato do mapeamento que o servidor faz ao responder.
func classifyError(status int, message string) error {
	if message == "" {
		message = http.StatusText(status)
	}

	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", pkg.ErrValidation, message)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", pkg.ErrUnauthorized, message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", pkg.ErrForbidden, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", pkg.ErrNotFound, message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", pkg.ErrTooManyRequests, message)
	default:
		return fmt.Errorf("%w: %s", pkg.ErrInternal, message)
	}
}
