package notify

import (
	"context"

	"gopkg.in/gomail.v2"
)

// Sender is the SMTP transport boundary; tests swap in fakes.
type Sender interface {
	Send(ctx context.Context, recipient, subject, bodyHTML string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, username, password, from string) Sender {
	return &smtpSender{dialer: gomail.NewDialer(host, port, username, password), from: from}
}

func (s *smtpSender) Send(ctx context.Context, recipient, subject, bodyHTML string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", bodyHTML)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
