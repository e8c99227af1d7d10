// internal/message/message.go
//
// Outbound messaging stub.
//
// Context
//   The forms subsystem and the emergency-alert page enqueue outbound jobs
//   (emails, webhooks, neighborhood alerts).  Until a real queue/worker
//   pool is wired in, this stub logs the payload and returns nil so callers
//   proceed without blocking.
//
//   Replace the body of each Enqueue* function with code that publishes to
//   your queue of choice (e.g., Redis, NATS, SQS) when ready.
//
//------------------------------------------------------------------------------

package message

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Email represents a basic outbound email job.
type Email struct {
	To      []string
	Subject string
	Text    string
	HTML    string // optional – not used by stub
}

// Alert is a neighborhood emergency notification fanned out to security
// staff and nearby members.
type Alert struct {
	RaisedBy string // user ID of the member raising the alert
	Location string // free-text, usually the member's home address
	Note     string // optional detail
}

// EnqueueEmail logs the email payload.  Swap with real queue publisher later.
func EnqueueEmail(_ context.Context, msg Email) error {
	zap.S().Infow("queue email",
		"to", msg.To, "subject", msg.Subject, "len", len(msg.Text))
	return nil
}

// EnqueueWebhook logs the HTTP request details.  Swap with real queue later.
//
// Caller constructs the *http.Request with full context (headers, JSON body).
func EnqueueWebhook(_ context.Context, req *http.Request) error {
	zap.S().Infow("queue webhook",
		"method", req.Method, "url", req.URL.String(), "headers", len(req.Header))
	return nil
}

// EnqueueAlert logs the emergency alert.  Swap with real fan-out later.
func EnqueueAlert(_ context.Context, a Alert) error {
	zap.S().Warnw("queue emergency alert",
		"raised_by", a.RaisedBy, "location", a.Location, "note", a.Note)
	return nil
}
