// Package email provides the outbound email sender used for borrower
// notifications.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	portssvc "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/services"
	"github.com/Caqil/iprofit-admin-sub008/internal/platform/config"
)

// smtpSender delivers mail through a plain SMTP relay.
type smtpSender struct {
	addr string
	auth smtp.Auth
	from string
}

// logSender is the fallback when no SMTP host is configured: messages are
// logged instead of sent, which keeps local development working.
type logSender struct{}

// NewSenderFromConfig returns an SMTP-backed sender, or a logging stand-in
// when SMTP_HOST is not set.
func NewSenderFromConfig(cfg *config.Config) portssvc.EmailSender {
	if cfg.SMTPHost == "" {
		return logSender{}
	}

	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	return &smtpSender{
		addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth: auth,
		from: cfg.SMTPFrom,
	}
}

func (s *smtpSender) Send(ctx context.Context, to string, subject string, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.from, to, subject, body,
	))

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", s.addr, err)
	}
	return nil
}

func (logSender) Send(ctx context.Context, to string, subject string, body string) error {
	slog.InfoContext(ctx, "Email delivery skipped (no SMTP host configured)",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}
