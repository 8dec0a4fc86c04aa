package notify

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
)

// Email is one outbound message.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// SMTPMailer sends via a plain SMTP relay.
type SMTPMailer struct {
	Addr string // host:port
	Host string // host only, for PLAIN auth
	From string
	User string
	Pass string
}

// Send delivers one message. Auth is skipped when no user is configured.
func (m *SMTPMailer) Send(ctx context.Context, e Email) error {
	msg := "From: " + m.From + "\r\n" +
		"To: " + e.To + "\r\n" +
		"Subject: " + e.Subject + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" + e.Body

	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	if err := smtp.SendMail(m.Addr, auth, m.From, []string{e.To}, []byte(msg)); err != nil {
		return fmt.Errorf("send to %s: %w", e.To, err)
	}
	return nil
}

// LogMailer prints messages instead of delivering them; used when SMTP is
// not configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, e Email) error {
	log.Printf("mail (dry-run) to=%s subject=%q bytes=%d", e.To, e.Subject, len(e.Body))
	return nil
}
