package server

import (
	"encoding/json"
	"net/http"

	"fireline-notifier/internal/catalog"
	"fireline-notifier/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"
)

// bindValidated decodes an already schema-validated payload into its typed
// request struct.
func bindValidated(raw map[string]interface{}, out interface{}) error {
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, out)
}

// statusEventRequest is the ingest payload for one status transition.
type statusEventRequest struct {
	ProjectID  int64             `json:"projectId"`
	OldStatus  int               `json:"oldStatus"`
	NewStatus  int               `json:"newStatus"`
	ActingRole string            `json:"actingRole"`
	Context    map[string]string `json:"context,omitempty"`
}

// statusEventSchema validates the raw payload before it becomes an event.
var statusEventSchema = map[string]interface{}{
	"type":                 "object",
	"required":             []interface{}{"projectId", "newStatus", "actingRole"},
	"additionalProperties": false,
	"properties": map[string]interface{}{
		"projectId": map[string]interface{}{
			"type":    "integer",
			"minimum": 1,
		},
		"oldStatus": map[string]interface{}{
			"type":    "integer",
			"minimum": 0,
		},
		"newStatus": map[string]interface{}{
			"type":    "integer",
			"minimum": 0,
		},
		"actingRole": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"admin", "staff", "client"},
		},
		"context": map[string]interface{}{
			"type": "object",
			"additionalProperties": map[string]interface{}{
				"type": "string",
			},
		},
	},
}

func validateStatusEvent(payload map[string]interface{}) []string {
	schemaLoader := gojsonschema.NewGoLoader(statusEventSchema)
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return []string{err.Error()}
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = desc.String()
	}
	return errs
}

func (s *Server) handleStatusEvent(c *gin.Context) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if errs := validateStatusEvent(raw); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": errs})
		return
	}

	var req statusEventRequest
	if err := bindValidated(raw, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, _ := catalog.ParseRole(req.ActingRole)

	event := router.NotificationEvent{
		ProjectID:   req.ProjectID,
		OldStatus:   req.OldStatus,
		NewStatus:   req.NewStatus,
		ActingRole:  role,
		ContextData: req.Context,
	}

	result, err := s.service.HandleStatusChange(c.Request.Context(), event)
	if err != nil {
		s.logger.Error("status event rejected", map[string]interface{}{
			"error":     err,
			"projectId": req.ProjectID,
		})
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleCatalog(c *gin.Context) {
	roleParam := c.DefaultQuery("role", "client")
	role, ok := catalog.ParseRole(roleParam)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role: " + roleParam})
		return
	}

	entries := s.service.Catalog().ByRole(role)

	type catalogEntry struct {
		StatusCode int    `json:"statusCode"`
		Name       string `json:"name"`
		Tab        string `json:"tab"`
		Action     string `json:"action,omitempty"`
	}

	out := make([]catalogEntry, 0, len(entries))
	for _, e := range entries {
		ce := catalogEntry{
			StatusCode: e.StatusCode,
			Name:       e.Name(role),
			Tab:        e.Tab(role),
		}
		if role.IsStaffSide() {
			ce.Action = e.AdminAction
		}
		out = append(out, ce)
	}

	c.JSON(http.StatusOK, gin.H{"role": role, "statuses": out})
}

func (s *Server) handleCatalogReload(c *gin.Context) {
	if err := s.service.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}
