package email

import (
	"fmt"

	"github.com/classbridge/classbridge-backend/internal/config"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendgridSender delivers email through the SendGrid API.
type SendgridSender struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

// NewSendgridSender creates a SendgridSender from config.
func NewSendgridSender(cfg *config.Config) *SendgridSender {
	return &SendgridSender{
		client: sendgrid.NewSendClient(cfg.SendgridAPIKey),
		from:   sgmail.NewEmail(cfg.EmailFromName, cfg.EmailFromAddr),
	}
}

// Send delivers a single message.
func (s *SendgridSender) Send(msg Message) error {
	to := sgmail.NewEmail(msg.ToName, msg.ToEmail)
	m := sgmail.NewSingleEmail(s.from, msg.Subject, to, msg.Body, "")

	resp, err := s.client.Send(m)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// NewSender picks the email backend from config.
func NewSender(cfg *config.Config, console *ConsoleSender) Sender {
	if cfg.EmailDriver == "sendgrid" && cfg.SendgridAPIKey != "" {
		return NewSendgridSender(cfg)
	}
	return console
}
