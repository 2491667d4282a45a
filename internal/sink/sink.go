// Package sink holds the outbound collaborator boundaries of the pipeline:
// email, webhook, and the local toast surface. Implementations do their own
// transport; policy (timeout, no-retry) lives with the dispatcher.
package sink

import "context"

// EmailSink delivers one rendered message to one address.
type EmailSink interface {
	Send(ctx context.Context, to, subject, body string) error
}

// WebhookEvent is the wire payload posted to the configured webhook.
type WebhookEvent struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"data"`
}

// WebhookSink posts a status change event to an external endpoint.
type WebhookSink interface {
	Send(ctx context.Context, event WebhookEvent) error
}

// ToastSink is the local in-app display surface. The router's local message
// is handed to it verbatim.
type ToastSink interface {
	Show(toastType, title, message string, durationSeconds int)
}
