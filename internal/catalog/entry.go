package catalog

// Role identifies which message variant a user sees and whether they are a
// notification target.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleClient Role = "client"
)

// ParseRole maps a wire-level role string onto a Role.
func ParseRole(s string) (Role, bool) {
	switch s {
	case string(RoleAdmin):
		return RoleAdmin, true
	case string(RoleStaff):
		return RoleStaff, true
	case string(RoleClient):
		return RoleClient, true
	}
	return "", false
}

// IsStaffSide reports whether the role sees admin-variant messages.
func (r Role) IsStaffSide() bool {
	return r == RoleAdmin || r == RoleStaff
}

// ReservedStatusCode is excluded from role listings and never dispatched.
const ReservedStatusCode = 0

// StatusEntry is one row of the workflow status catalog. Templates are
// unrendered strings carrying {{TOKEN}} placeholders.
type StatusEntry struct {
	StatusCode  int    `json:"statusCode"`
	AdminName   string `json:"adminName"`
	ClientName  string `json:"clientName"`
	AdminTab    string `json:"adminTab,omitempty"`
	ClientTab   string `json:"clientTab,omitempty"`
	AdminAction string `json:"adminAction,omitempty"`

	AdminEmailSubject  string `json:"adminEmailSubject,omitempty"`
	AdminEmailContent  string `json:"adminEmailContent,omitempty"`
	ClientEmailSubject string `json:"clientEmailSubject,omitempty"`
	ClientEmailContent string `json:"clientEmailContent,omitempty"`

	ToastAdmin  string `json:"toastAdmin,omitempty"`
	ToastClient string `json:"toastClient,omitempty"`

	NotifyRoles []Role `json:"notifyRoles,omitempty"`
}

// Name returns the role-specific display name, falling back to the other
// variant when one side is unset.
func (e StatusEntry) Name(role Role) string {
	if role.IsStaffSide() {
		if e.AdminName != "" {
			return e.AdminName
		}
		return e.ClientName
	}
	if e.ClientName != "" {
		return e.ClientName
	}
	return e.AdminName
}

// Tab returns the role-specific UI tab assignment.
func (e StatusEntry) Tab(role Role) string {
	if role.IsStaffSide() {
		return e.AdminTab
	}
	return e.ClientTab
}

// Notifies reports whether the entry nominates role for external notification.
func (e StatusEntry) Notifies(role Role) bool {
	for _, r := range e.NotifyRoles {
		if r == role {
			return true
		}
	}
	return false
}
