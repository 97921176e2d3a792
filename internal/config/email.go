package config

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer delivers a single message. Implementations exist for plain SMTP and
// the Resend API; MAIL_PROVIDER picks one at startup.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.FromEmail,
	}
}

func (m *SMTPMailer) SendEmail(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(cfg *Config) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   cfg.FromEmail,
	}
}

func (m *ResendMailer) SendEmail(to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}
	if _, err := m.client.Emails.Send(params); err != nil {
		return fmt.Errorf("resend send to %s: %w", to, err)
	}
	return nil
}

// NewMailer selects the transport from MAIL_PROVIDER.
func NewMailer(lc fx.Lifecycle, cfg *Config, log *zap.Logger) Mailer {
	var mailer Mailer
	switch cfg.MailProvider {
	case "resend":
		mailer = NewResendMailer(cfg)
	default:
		mailer = NewSMTPMailer(cfg)
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Email service initialized", zap.String("provider", cfg.MailProvider))
			return nil
		},
	})
	return mailer
}
