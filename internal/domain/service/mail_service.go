package service

import "context"

// Mail template identifiers understood by MailService implementations.
const (
	// TemplateEmailConfirmation carries a confirmation token after signup.
	TemplateEmailConfirmation = "email-confirmation"
	// TemplateRecoverPassword carries a recovery token after a reset request.
	TemplateRecoverPassword = "recover-password"
)

// Mail describes an outbound notification message. The token is rendered
// into the template body; it is the only dynamic context a template needs.
type Mail struct {
	To       string
	From     string
	Subject  string
	Template string
	Token    string
}

// MailService delivers notification mails. Delivery is fire-and-forget from
// the domain's point of view: a failure surfaces to the caller but never
// rolls back already-persisted account state.
type MailService interface {
	Send(ctx context.Context, mail *Mail) error
}
