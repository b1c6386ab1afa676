package email

import (
	"context"
	"errors"
)

// Sender define la interfaz para envío de correos transaccionales. La falla de
// entrega nunca es fatal para la operación que la dispara.
type Sender interface {
	SendVerificationEmail(ctx context.Context, toEmail, name, token string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, name, token string) error
	SendEmailChangeEmail(ctx context.Context, toEmail, name, token string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) err() error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}

func (s *disabledSender) SendVerificationEmail(_ context.Context, _, _, _ string) error {
	return s.err()
}

func (s *disabledSender) SendPasswordResetEmail(_ context.Context, _, _, _ string) error {
	return s.err()
}

func (s *disabledSender) SendEmailChangeEmail(_ context.Context, _, _, _ string) error {
	return s.err()
}
