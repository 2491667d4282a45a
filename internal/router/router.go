// Package router decides, for one status change event, which message the
// acting user sees locally and which roles receive an external notification.
package router

import (
	"fireline-notifier/internal/catalog"
	"fireline-notifier/internal/common/logger"
	"fireline-notifier/internal/common/metrics"
	"fireline-notifier/internal/template"
)

// fallbackLocalMessage is shown when the catalog has no entry for the new
// status. The user always sees some local message.
const fallbackLocalMessage = "Status Update"

// Recipient is one external notification target.
type Recipient struct {
	Role    catalog.Role             `json:"role"`
	Address string                   `json:"address"`
	Message template.RenderedMessage `json:"message"`
}

// RoutingDecision is the outcome of routing one event.
type RoutingDecision struct {
	LocalMessage             template.RenderedMessage `json:"localMessage"`
	ExternalRecipients       []Recipient              `json:"externalRecipients,omitempty"`
	ShouldDispatchExternally bool                     `json:"shouldDispatchExternally"`
	// CountdownSeconds carries the duration of the COUNTDOWN element in the
	// local message, 0 when the template has none.
	CountdownSeconds int `json:"countdownSeconds,omitempty"`
}

// AddressResolver resolves the outbound address for a role. The default
// implementation reads the event context; deployments with a directory
// service plug in their own.
type AddressResolver interface {
	Resolve(role catalog.Role, event NotificationEvent) (string, bool)
}

// ContextResolver reads recipient addresses from the event context data.
type ContextResolver struct{}

var roleAddressTokens = map[catalog.Role]string{
	catalog.RoleAdmin:  "ADMIN_EMAIL",
	catalog.RoleStaff:  "STAFF_EMAIL",
	catalog.RoleClient: template.TokenClientEmail,
}

func (ContextResolver) Resolve(role catalog.Role, event NotificationEvent) (string, bool) {
	addr := event.Context(roleAddressTokens[role])
	return addr, addr != ""
}

type Router struct {
	resolver AddressResolver
	logger   logger.Logger
}

func New(resolver AddressResolver, log logger.Logger) *Router {
	if resolver == nil {
		resolver = ContextResolver{}
	}
	return &Router{resolver: resolver, logger: log}
}

// Route builds the RoutingDecision for event against cat. It never returns
// an error: catalog misses and unresolved recipients degrade the decision
// instead of surfacing to the UI layer.
func (r *Router) Route(event NotificationEvent, cat *catalog.Catalog) RoutingDecision {
	entry, ok := cat.Lookup(event.NewStatus)
	if !ok {
		metrics.CatalogLookupMisses.Inc()
		r.logger.Warn("unknown status code, dispatch skipped", map[string]interface{}{
			"projectId":  event.ProjectID,
			"newStatus":  event.NewStatus,
			"actingRole": event.ActingRole,
		})
		return RoutingDecision{
			LocalMessage:             template.RenderedMessage{Body: fallbackLocalMessage},
			ShouldDispatchExternally: false,
		}
	}

	ctx := r.renderContext(event, entry)

	decision := RoutingDecision{
		LocalMessage:     r.localMessage(event, entry, ctx),
		CountdownSeconds: countdownSeconds(ctx),
	}

	if event.NewStatus == catalog.ReservedStatusCode {
		return decision
	}

	// The client is the contractual counterparty for every status change:
	// always an external recipient, regardless of NotifyRoles.
	r.addRecipient(&decision, catalog.RoleClient, event, entry, ctx)

	for _, role := range []catalog.Role{catalog.RoleAdmin, catalog.RoleStaff} {
		if entry.Notifies(role) {
			r.addRecipient(&decision, role, event, entry, ctx)
		}
	}

	decision.ShouldDispatchExternally = len(decision.ExternalRecipients) > 0
	return decision
}

// renderContext copies the event context and injects the role-agnostic
// derived tokens the templates expect.
func (r *Router) renderContext(event NotificationEvent, entry catalog.StatusEntry) map[string]string {
	ctx := make(map[string]string, len(event.ContextData)+1)
	for k, v := range event.ContextData {
		ctx[k] = v
	}
	if _, ok := ctx[template.TokenStatusName]; !ok {
		ctx[template.TokenStatusName] = entry.Name(event.ActingRole)
	}
	return ctx
}

func (r *Router) localMessage(event NotificationEvent, entry catalog.StatusEntry, ctx map[string]string) template.RenderedMessage {
	tmpl := entry.ToastClient
	if event.ActingRole.IsStaffSide() {
		tmpl = entry.ToastAdmin
	}
	if tmpl == "" {
		return template.RenderedMessage{Body: fallbackLocalMessage}
	}

	msg := template.Render(tmpl, ctx)
	if n := len(msg.UnresolvedPlaceholders); n > 0 {
		metrics.UnresolvedPlaceholders.Add(float64(n))
	}
	return msg
}

func (r *Router) addRecipient(decision *RoutingDecision, role catalog.Role, event NotificationEvent, entry catalog.StatusEntry, ctx map[string]string) {
	addr, ok := r.resolver.Resolve(role, event)
	if !ok {
		// Dropped, not retried. Other recipients proceed.
		metrics.RecipientsDropped.WithLabelValues(string(role)).Inc()
		r.logger.Warn("recipient dropped, no resolvable address", map[string]interface{}{
			"projectId": event.ProjectID,
			"newStatus": event.NewStatus,
			"role":      role,
		})
		return
	}

	subject, content := entry.ClientEmailSubject, entry.ClientEmailContent
	if role.IsStaffSide() {
		subject, content = entry.AdminEmailSubject, entry.AdminEmailContent
	}
	if subject == "" && content == "" {
		// No template configured for this role/status; nothing to send.
		return
	}

	// External recipients see their own role's status name.
	recipientCtx := ctx
	if name := entry.Name(role); name != ctx[template.TokenStatusName] {
		recipientCtx = make(map[string]string, len(ctx))
		for k, v := range ctx {
			recipientCtx[k] = v
		}
		recipientCtx[template.TokenStatusName] = name
	}

	msg := template.RenderWithSubject(subject, content, recipientCtx)
	if n := len(msg.UnresolvedPlaceholders); n > 0 {
		metrics.UnresolvedPlaceholders.Add(float64(n))
	}

	decision.ExternalRecipients = append(decision.ExternalRecipients, Recipient{
		Role:    role,
		Address: addr,
		Message: msg,
	})
}

// countdownSeconds parses the COUNTDOWN context value, 0 when absent.
func countdownSeconds(ctx map[string]string) int {
	v := ctx[template.TokenCountdown]
	if v == "" {
		return 0
	}
	secs := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return 0
		}
		secs = secs*10 + int(c-'0')
	}
	return secs
}
