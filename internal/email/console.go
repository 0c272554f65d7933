package email

import "github.com/rs/zerolog"

// ConsoleSender logs outbound email instead of delivering it. Dev default.
type ConsoleSender struct {
	log zerolog.Logger
}

// NewConsoleSender creates a ConsoleSender.
func NewConsoleSender(log zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{log: log.With().Str("component", "console_email").Logger()}
}

// Send logs the message.
func (s *ConsoleSender) Send(msg Message) error {
	s.log.Info().
		Str("to", msg.ToEmail).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("Email (console driver)")
	return nil
}
