package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send one email via an external
// provider.
type SendRequest struct {
	To      []string // recipient addresses
	From    string   // sender address (e.g. "Academia <noreply@academiadecombate.com>")
	Subject string
	HTML    string // HTML body
	ReplyTo string // reply-to address, usually the enquirer
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // provider's message ID for tracking
	SentAt    time.Time // when the send was accepted
}

// Sender is the interface for sending emails via an external provider.
// The only producer today is the public contact form.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
