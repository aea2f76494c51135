// Package email sends operational notification emails over SMTP.
package email

import (
	"context"
	"fmt"
	"strings"

	"staffing_ops_backend/platform/config"
	"staffing_ops_backend/platform/logger"

	"github.com/wneessen/go-mail"
)

// Sender delivers operational emails. When email is disabled in config, every
// send is a logged no-op so callers never need to branch.
type Sender struct {
	cfg config.EmailConfig
	log *logger.Logger
}

// NewSender creates a new email sender.
func NewSender(cfg config.EmailConfig, log *logger.Logger) *Sender {
	return &Sender{cfg: cfg, log: log}
}

// SendSyncFailure notifies the operations mailbox that the nightly CRM sync
// failed.
func (s *Sender) SendSyncFailure(ctx context.Context, reason string) error {
	to := s.cfg.GetOpsEmailAddress()
	if to == "" {
		s.log.Warn("sync failure email skipped: no ops address configured")
		return nil
	}

	subject := "CRM sync failed"
	body := fmt.Sprintf("The external CRM synchronization failed.\n\nReason: %s\n\nDashboards may show stale data until the next successful run.", reason)
	return s.send(ctx, to, subject, body)
}

// SendTodoCreated notifies an assignee about a new data-completeness
// follow-up item.
func (s *Sender) SendTodoCreated(ctx context.Context, assigneeEmail, clientName string, missingFields []string) error {
	subject := fmt.Sprintf("Follow-up: complete contact details for %s", clientName)
	body := fmt.Sprintf("Client %q is missing required contact details: %s.\n\nA follow-up item has been added to your list.",
		clientName, strings.Join(missingFields, ", "))
	return s.send(ctx, assigneeEmail, subject, body)
}

func (s *Sender) send(ctx context.Context, to, subject, body string) error {
	if !s.cfg.GetEmailEnabled() {
		s.log.Info("email disabled, skipping send", "to", to, "subject", subject)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.GetEmailFromName(), s.cfg.GetEmailFromAddress()); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.GetSMTPPort()),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.GetSMTPUsername() != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.GetSMTPUsername()),
			mail.WithPassword(s.cfg.GetSMTPPassword()),
		)
	}

	client, err := mail.NewClient(s.cfg.GetSMTPHost(), opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	s.log.Info("email sent", "to", to, "subject", subject)
	return nil
}
