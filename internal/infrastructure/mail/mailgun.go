package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/parnasoft/blog-platform/internal/core/ports"
)

const sendTimeout = 10 * time.Second

// MailgunMailer delivers notifications through the Mailgun API.
type MailgunMailer struct {
	mg   *mailgun.MailgunImpl
	from string
}

// NewMailgunMailer creates a mailer for the given Mailgun domain.
func NewMailgunMailer(domain, apiKey, from string) *MailgunMailer {
	return &MailgunMailer{
		mg:   mailgun.NewMailgun(domain, apiKey),
		from: from,
	}
}

// Send delivers a single message synchronously.
func (m *MailgunMailer) Send(ctx context.Context, job ports.MailJob) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	msg := m.mg.NewMessage(m.from, job.Subject, job.Body, job.To)
	if _, _, err := m.mg.Send(ctx, msg); err != nil {
		return fmt.Errorf("mailgun send: %w", err)
	}
	return nil
}
