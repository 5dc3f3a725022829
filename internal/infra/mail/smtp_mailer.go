// Package mail provides the SMTP implementation of the domain's MailService.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"text/template"

	"gatekeeper/config"
	"gatekeeper/internal/domain/service"

	"github.com/pkg/errors"
)

// Token-carrying mail bodies, keyed by the domain template identifiers.
// The token is the only dynamic context a template receives.
var templates = map[string]*template.Template{
	service.TemplateEmailConfirmation: template.Must(template.New(service.TemplateEmailConfirmation).Parse(
		"Welcome!\r\n\r\nPlease confirm your email address with the following token:\r\n\r\n{{.Token}}\r\n")),
	service.TemplateRecoverPassword: template.Must(template.New(service.TemplateRecoverPassword).Parse(
		"A password reset was requested for your account.\r\n\r\nUse the following token to choose a new password:\r\n\r\n{{.Token}}\r\n\r\nIf you did not request this, you can ignore this message.\r\n")),
}

// smtpMailer delivers notification mails over SMTP with PLAIN auth.
type smtpMailer struct {
	addr     string
	host     string
	username string
	password string
	from     string
	logger   *slog.Logger
}

// NewSMTPMailer is the constructor for smtpMailer.
func NewSMTPMailer(cfg *config.Config, logger *slog.Logger) (service.MailService, error) {
	if cfg.Mail == nil || cfg.Mail.Host == "" {
		return nil, errors.New("mail transport must be configured")
	}

	return &smtpMailer{
		addr:     net.JoinHostPort(cfg.Mail.Host, strconv.Itoa(cfg.Mail.Port)),
		host:     cfg.Mail.Host,
		username: cfg.Mail.Username,
		password: cfg.Mail.Password,
		from:     cfg.Mail.From,
		logger:   logger,
	}, nil
}

// Send builds the message for the mail's template and hands it to the SMTP
// server. The context only gates the attempt; net/smtp has no mid-send
// cancellation.
func (m *smtpMailer) Send(ctx context.Context, mail *service.Mail) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "mail send canceled")
	}

	from := mail.From
	if from == "" {
		from = m.from
	}

	msg, err := buildMessage(from, mail)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(m.addr, auth, from, []string{mail.To}, msg); err != nil {
		return errors.Wrapf(err, "failed to send %s mail", mail.Template)
	}

	m.logger.Debug("Mail sent", slog.String("template", mail.Template), slog.String("to", mail.To))

	return nil
}

// buildMessage renders the RFC 5322 message for a mail.
func buildMessage(from string, mail *service.Mail) ([]byte, error) {
	tmpl, ok := templates[mail.Template]
	if !ok {
		return nil, errors.Errorf("unknown mail template: %s", mail.Template)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", mail.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mail.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")

	if err := tmpl.Execute(&buf, struct{ Token string }{Token: mail.Token}); err != nil {
		return nil, errors.Wrap(err, "failed to render mail template")
	}

	return buf.Bytes(), nil
}
