// Package notify defines the outbound notification contract used by the
// workflow services. Delivery is best-effort: dispatch failures are logged
// by the caller and never affect the state mutation that triggered them.
package notify

import (
	"context"

	"github.com/sekijum/difyhub/internal/logging"
)

// Kind tags the template a message should be rendered with.
type Kind string

const (
	KindDeveloperRequestApproved Kind = "developer-request-approved"
	KindDeveloperRequestRejected Kind = "developer-request-rejected"
	KindAppPublished             Kind = "app-published"
	KindAppPrivate               Kind = "app-private"
	KindAppSuspended             Kind = "app-suspended"
	KindAppArchived              Kind = "app-archived"
)

// Message is one notification with its template kind and rendering context.
type Message struct {
	Kind           Kind
	RecipientEmail string
	RecipientName  string
	AppName        string
	Reason         string
}

// Dispatcher delivers a single message. Implementations wrap whatever
// channel actually sends it (SMTP relay, webhook, queue).
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message) error
}

// LogDispatcher writes rendered messages to the structured log instead of
// delivering them. It is the default wiring for environments without an
// outbound mail channel.
type LogDispatcher struct {
	logger logging.Logger
}

func NewLogDispatcher(logger logging.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, msg Message) error {
	subject, body := Render(msg)
	d.logger.Info(ctx, "notification",
		"kind", string(msg.Kind),
		"recipient", msg.RecipientEmail,
		"subject", subject,
		"body", body,
	)
	return nil
}
