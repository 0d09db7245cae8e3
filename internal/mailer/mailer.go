// Package mailer is the outbound notification sink. Delivery is fire
// and forget: callers log failures and never roll back on them.
package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"
)

type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender delivers through a plain SMTP relay.
type SMTPSender struct {
	addr string
	from string
}

func NewSMTPSender(host string, port int, from string) *SMTPSender {
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.from, to, subject, body)
	if err := smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them.
// Used in development when no SMTP relay is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(to, subject, body string) error {
	s.logger.Info("outbound email (log sink)", "to", to, "subject", subject, "body", body)
	return nil
}
