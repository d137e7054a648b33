// Package mailer delivers the account mails over SMTP, plain text with an
// HTML alternative.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/wneessen/go-mail"

	"github.com/dracker/dracker/internal/auth"
)

// Config holds the SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Mailer sends through a shared SMTP client.
type Mailer struct {
	client   *mail.Client
	from     string
	fromName string
}

var _ auth.MailDispatcher = (*Mailer)(nil)

// New builds the SMTP backed dispatcher.
func New(cfg Config) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build SMTP client")
	}

	return &Mailer{
		client:   client,
		from:     cfg.From,
		fromName: cfg.FromName,
	}, nil
}

// SendWelcome mails the post-signup invitation with a set-password link.
func (m *Mailer) SendWelcome(ctx context.Context, to, name, link string) error {
	subject := fmt.Sprintf("Welcome to %s", m.fromName)
	message := "You've been invited to join our platform."
	return m.send(ctx, to, name, subject, message, link)
}

// SendPasswordReset mails the reset link.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, name, link string) error {
	subject := fmt.Sprintf("%s Password Reset", m.fromName)
	message := "You requested a password reset link."
	return m.send(ctx, to, name, subject, message, link)
}

func (m *Mailer) send(ctx context.Context, to, name, subject, message, link string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "invalid from address")
	}
	if err := msg.To(to); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid recipient address")
	}

	text := fmt.Sprintf(
		"Hi %s,\n%s, Set password here: %s\nCheers,\n%s Team",
		name, message, link, m.fromName,
	)

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, renderHTML(map[string]string{
		"{user_name}": name,
		"{app_name}":  m.fromName,
		"{message}":   message,
		"{subject}":   subject,
		"{link}":      link,
	}))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to send mail")
	}
	return nil
}

func renderHTML(vars map[string]string) string {
	out := htmlTemplate
	for k, v := range vars {
		out = strings.ReplaceAll(out, k, v)
	}
	return out
}
