package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fireline-notifier/internal/alert"
	stderrors "fireline-notifier/internal/common/errors"
	"fireline-notifier/internal/common/logger"
	"fireline-notifier/internal/common/metrics"
	"fireline-notifier/internal/router"
	"fireline-notifier/internal/sink"
)

// Channel names for metrics and alerts.
const (
	ChannelEmail   = "email"
	ChannelWebhook = "webhook"
)

// DispatcherConfig bounds one outbound call.
type DispatcherConfig struct {
	Timeout time.Duration // hard per-call timeout
}

// Dispatcher delivers the external side of a RoutingDecision. Policy: every
// outbound call gets a hard timeout, and a timed-out or failed call is
// dropped, never retried. Losing a notification is preferred over sending
// it twice or blocking the workflow.
type Dispatcher struct {
	email   sink.EmailSink
	webhook sink.WebhookSink
	dedup   SharedDedup
	alerts  *alert.Notifier
	cfg     DispatcherConfig
	logger  logger.Logger
}

func NewDispatcher(email sink.EmailSink, webhook sink.WebhookSink, dedup SharedDedup, alerts *alert.Notifier, cfg DispatcherConfig, log logger.Logger) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Dispatcher{
		email:   email,
		webhook: webhook,
		dedup:   dedup,
		alerts:  alerts,
		cfg:     cfg,
		logger:  log,
	}
}

// Dispatch sends the external recipients of decision and, when configured,
// the webhook event. It returns the count of successful sends; failures are
// logged, counted, and alerted but never returned as errors; the event is
// already committed from the caller's perspective.
func (d *Dispatcher) Dispatch(ctx context.Context, event router.NotificationEvent, decision router.RoutingDecision, fingerprint string) int {
	if !decision.ShouldDispatchExternally {
		return 0
	}

	if d.sharedDuplicate(ctx, event, fingerprint) {
		return 0
	}

	sent := 0

	if d.email != nil {
		for _, recipient := range decision.ExternalRecipients {
			if d.sendEmail(ctx, event, recipient) {
				sent++
			}
		}
	}

	if d.webhook != nil {
		if d.sendWebhook(ctx, event) {
			sent++
		}
	}

	return sent
}

// sharedDuplicate consults the cross-instance dedup store when one is
// configured. Store errors fail open: availability of the user-facing flow
// beats strict suppression.
func (d *Dispatcher) sharedDuplicate(ctx context.Context, event router.NotificationEvent, fingerprint string) bool {
	if d.dedup == nil {
		return false
	}

	seen, err := d.dedup.Seen(ctx, fingerprint)
	if err != nil {
		d.logger.Warn("shared dedup unavailable, proceeding", map[string]interface{}{
			"error":     err,
			"projectId": event.ProjectID,
		})
		return false
	}
	if seen {
		metrics.NotificationsDenied.WithLabelValues(string(DenyDuplicate)).Inc()
		d.logger.Info("duplicate event suppressed by shared dedup", map[string]interface{}{
			"projectId":   event.ProjectID,
			"fingerprint": fingerprint,
		})
	}
	return seen
}

func (d *Dispatcher) sendEmail(ctx context.Context, event router.NotificationEvent, recipient router.Recipient) bool {
	callCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	err := d.email.Send(callCtx, recipient.Address, recipient.Message.Subject, recipient.Message.Body)
	if err != nil {
		d.recordFailure(event, ChannelEmail, err)
		return false
	}

	metrics.NotificationsDispatched.WithLabelValues(ChannelEmail).Inc()
	d.logger.Info("notification email sent", map[string]interface{}{
		"projectId": event.ProjectID,
		"newStatus": event.NewStatus,
		"role":      recipient.Role,
	})
	return true
}

func (d *Dispatcher) sendWebhook(ctx context.Context, event router.NotificationEvent) bool {
	callCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	err := d.webhook.Send(callCtx, sink.WebhookEvent{
		Event: fmt.Sprintf("project.status.%d", event.NewStatus),
		Payload: map[string]interface{}{
			"eventId":   event.EventID,
			"projectId": event.ProjectID,
			"oldStatus": event.OldStatus,
			"newStatus": event.NewStatus,
			"timestamp": event.Timestamp.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		d.recordFailure(event, ChannelWebhook, err)
		return false
	}

	metrics.NotificationsDispatched.WithLabelValues(ChannelWebhook).Inc()
	return true
}

// recordFailure classifies the error, logs it for operator visibility, and
// raises an alert. The event is marked failed and not retried.
func (d *Dispatcher) recordFailure(event router.NotificationEvent, channel string, err error) {
	var stdErr *stderrors.StandardError
	if errors.Is(err, context.DeadlineExceeded) {
		stdErr = stderrors.NewDispatchTimeoutError(channel)
	} else {
		stdErr = stderrors.NewDispatchTransportError(channel, err)
	}

	metrics.NotificationsFailed.WithLabelValues(channel, string(stdErr.Code)).Inc()
	d.logger.Error("dispatch failed, dropping notification", map[string]interface{}{
		"projectId": event.ProjectID,
		"newStatus": event.NewStatus,
		"channel":   channel,
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	})
	d.alerts.DispatchDropped(event.ProjectID, event.NewStatus, channel, string(stdErr.Code))
}
