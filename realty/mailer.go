package realty

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Email is an outbound HTML message.
type Email struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
}

// Mailer delivers email to clients.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// SMTPOptions configures an SMTPMailer.
type SMTPOptions struct {
	Host       string
	Port       int
	Username   string
	Password   string
	SenderName string
}

// SMTPMailer sends HTML mail over authenticated SMTP with STARTTLS, the way
// Gmail's relay expects.
type SMTPMailer struct {
	opts SMTPOptions
}

// NewSMTPMailer constructs a mailer; defaults target Gmail's relay.
func NewSMTPMailer(username, password string, optFns ...func(o *SMTPOptions)) *SMTPMailer {
	opts := SMTPOptions{
		Host:     "smtp.gmail.com",
		Port:     587,
		Username: username,
		Password: password,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &SMTPMailer{opts: opts}
}

// Send implements Mailer.
func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := m.opts.Username
	if m.opts.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", m.opts.SenderName, m.opts.Username)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", email.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", email.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(email.HTMLBody)

	addr := fmt.Sprintf("%s:%d", m.opts.Host, m.opts.Port)
	auth := smtp.PlainAuth("", m.opts.Username, m.opts.Password, m.opts.Host)
	if err := smtp.SendMail(addr, auth, m.opts.Username, []string{email.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send email to %s: %w", email.To, err)
	}
	return nil
}
