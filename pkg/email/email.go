// Package email — camada de abstração para envio de email.
//
// O EmailSender esconde o provedor concreto (Dependency Inversion): hoje a
// implementação usa a API do Resend; trocar de provedor é escrever outra
// implementação e ajustar o wire-up no main.go.
//
// O pacote expõe duas coisas:
//  1. EmailSender interface — os services dependem dela
//  2. NewResendSender — construtor usado no wire-up
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"
)

// EmailSender envia os emails transacionais do serviço de transmissão.
type EmailSender interface {
	// SendLiveNotification avisa um inscrito que a transmissão começou.
	// title/description vêm do BroadcastState no momento do turnOn.
	SendLiveNotification(ctx context.Context, toEmail, title, description string) error
}

// resendSender — implementação de EmailSender sobre a API do Resend.
type resendSender struct {
	client    *resend.Client
	fromEmail string // remetente (ex.: avisos@avivanacoes.com.br)
	siteURL   string // URL pública do site — o link "assistir agora"
}

// NewResendSender cria um EmailSender usando o Resend.
//
// apiKey: chave do dashboard do Resend (formato re_xxxxxxxx).
// fromEmail: remetente — precisa estar sob domínio verificado no Resend.
// siteURL: URL pública da página de transmissão ao vivo.
func NewResendSender(apiKey, fromEmail, siteURL string) EmailSender {
	return &resendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		siteURL:   siteURL,
	}
}

// SendLiveNotification envia o aviso de "estamos ao vivo".
//
// HTML simples de tabela — emails não suportam CSS moderno, então o layout
// segue o mesmo estilo dos demais emails do site.
func (s *resendSender) SendLiveNotification(ctx context.Context, toEmail, title, description string) error {
	watchLink := fmt.Sprintf("%s/aovivo", s.siteURL)

	descriptionHTML := ""
	if description != "" {
		descriptionHTML = fmt.Sprintf(
			`<p style="color:#475569;font-size:15px;line-height:1.6;margin:0 0 24px 0;">%s</p>`,
			description)
	}

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#f1f5f9;font-family:Arial,Helvetica,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#f1f5f9;padding:40px 0;">
    <tr>
      <td align="center">
        <table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:40px;">
          <tr>
            <td>
              <h1 style="color:#1e293b;font-size:24px;margin:0 0 8px 0;">Aviva Nações</h1>
              <h2 style="color:#1e293b;font-size:18px;margin:0 0 24px 0;">Estamos ao vivo: %s</h2>
              %s
              <table cellpadding="0" cellspacing="0" style="margin:0 0 24px 0;">
                <tr>
                  <td style="background-color:#dc2626;border-radius:6px;padding:12px 32px;">
                    <a href="%s" style="color:#ffffff;font-size:15px;font-weight:bold;text-decoration:none;">Assistir agora</a>
                  </td>
                </tr>
              </table>
              <p style="color:#94a3b8;font-size:13px;line-height:1.5;margin:0;">
                Você recebeu este aviso porque pediu para ser notificado quando a transmissão começar.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`, title, descriptionHTML, watchLink)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Aviva Nações <%s>", s.fromEmail),
		To:      []string{toEmail},
		Subject: fmt.Sprintf("Estamos ao vivo — %s", title),
		Html:    html,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send live notification email: %w", err)
	}

	return nil
}
