package router

import (
	"time"

	"fireline-notifier/internal/catalog"
)

// NotificationEvent is one status transition attempt. Events are transient;
// the pipeline never persists them.
type NotificationEvent struct {
	EventID     string            `json:"eventId"`
	ProjectID   int64             `json:"projectId"`
	OldStatus   int               `json:"oldStatus"`
	NewStatus   int               `json:"newStatus"`
	ActingRole  catalog.Role      `json:"actingRole"`
	Timestamp   time.Time         `json:"timestamp"`
	ContextData map[string]string `json:"contextData,omitempty"`
}

// Context returns the context value for key, with "" for absent keys.
func (e NotificationEvent) Context(key string) string {
	if e.ContextData == nil {
		return ""
	}
	return e.ContextData[key]
}
