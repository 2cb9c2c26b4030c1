// Package provider defines the interface for email delivery backends.
package provider

import (
	"context"

	"quoteform-backend/internal/mailer"
)

// Sender is the interface that email delivery backends must implement.
// Each backend handles the actual delivery of an outbound message to the
// target service (HTTPS email API, SES, SMTP, stdout).
type Sender interface {
	// Send delivers an outbound message through this backend. It returns
	// the delivery identifier assigned by the backend, which may be empty
	// when the backend does not issue one.
	Send(ctx context.Context, msg *mailer.Message) (string, error)

	// Name returns the human-readable name of this backend.
	Name() string
}
