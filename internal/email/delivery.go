package email

import (
	"context"
	"time"
)

// EmailSender delivers one plain text message. SESClient is the production
// implementation; tests substitute fakes.
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
	SendFrom(ctx context.Context, recipient, subject, body, sender string) error
}

var _ EmailSender = (*SESClient)(nil)

// newEmailContext bounds one delivery. Cancelling the request that raised
// the notice does not abort it.
func newEmailContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
