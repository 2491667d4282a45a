package catalog

// Builtin returns the seed status table shipped with the product. The
// administrative configuration screen overwrites these rows; they exist so a
// fresh install can route notifications before any configuration happens.
func Builtin() []StatusEntry {
	return []StatusEntry{
		{
			StatusCode: ReservedStatusCode,
			AdminName:  "Unassigned",
			ClientName: "Unassigned",
		},
		{
			StatusCode:         10,
			AdminName:          "New Submission",
			ClientName:         "Submitted",
			AdminTab:           "incoming",
			ClientTab:          "active",
			AdminAction:        "Review the submitted project documents",
			AdminEmailSubject:  "New project submitted: {{PROJECT_ADDRESS}}",
			AdminEmailContent:  "{{CLIENT_NAME}} submitted a project at {{PROJECT_ADDRESS}}. Review is due within {{EST_TIME}}.",
			ClientEmailSubject: "We received your project",
			ClientEmailContent: "Hi {{CLIENT_NAME}}, your project at {{PROJECT_ADDRESS}} was received and is now {{STATUS_NAME}}.",
			ToastAdmin:         "New submission for {{PROJECT_ADDRESS}}",
			ToastClient:        "Project submitted. Status: {{STATUS_NAME}}",
			NotifyRoles:        []Role{RoleAdmin},
		},
		{
			StatusCode:         20,
			AdminName:          "Under Review",
			ClientName:         "In Review",
			AdminTab:           "working",
			ClientTab:          "active",
			AdminAction:        "Complete the fire-protection plan review",
			AdminEmailSubject:  "Review started: {{PROJECT_ADDRESS}}",
			AdminEmailContent:  "Review of {{PROJECT_ADDRESS}} for {{CLIENT_NAME}} is underway.",
			ClientEmailSubject: "Your project is in review",
			ClientEmailContent: "Hi {{CLIENT_NAME}}, your project at {{PROJECT_ADDRESS}} is now {{STATUS_NAME}}. Estimated completion: {{EST_TIME}}.",
			ToastAdmin:         "Review started for {{PROJECT_ADDRESS}}",
			ToastClient:        "Now {{STATUS_NAME}} {{COUNTDOWN}}",
			NotifyRoles:        []Role{RoleStaff},
		},
		{
			StatusCode:         30,
			AdminName:          "Revisions Requested",
			ClientName:         "Changes Needed",
			AdminTab:           "waiting",
			ClientTab:          "attention",
			AdminAction:        "Wait for the client to upload revised plans",
			AdminEmailSubject:  "Revisions requested: {{PROJECT_ADDRESS}}",
			AdminEmailContent:  "Revision notes sent to {{CLIENT_NAME}} ({{CLIENT_EMAIL}}) for {{PROJECT_ADDRESS}}.",
			ClientEmailSubject: "Action needed on your project",
			ClientEmailContent: "Hi {{CLIENT_NAME}}, your project at {{PROJECT_ADDRESS}} needs changes before it can proceed.",
			ToastAdmin:         "Revision request sent for {{PROJECT_ADDRESS}}",
			ToastClient:        "Changes needed for {{PROJECT_ADDRESS}}",
			NotifyRoles:        []Role{RoleAdmin},
		},
		{
			StatusCode:         40,
			AdminName:          "Approved",
			ClientName:         "Approved",
			AdminTab:           "working",
			ClientTab:          "active",
			AdminAction:        "Schedule the site installation",
			AdminEmailSubject:  "Approved: {{PROJECT_ADDRESS}}",
			AdminEmailContent:  "{{PROJECT_ADDRESS}} is approved. Schedule installation with {{CLIENT_NAME}}.",
			ClientEmailSubject: "Your project was approved",
			ClientEmailContent: "Hi {{CLIENT_NAME}}, great news: your project at {{PROJECT_ADDRESS}} is {{STATUS_NAME}}.",
			ToastAdmin:         "{{PROJECT_ADDRESS}} approved",
			ToastClient:        "Project approved!",
			NotifyRoles:        []Role{RoleAdmin, RoleStaff},
		},
		{
			StatusCode:         50,
			AdminName:          "Installation Scheduled",
			ClientName:         "Scheduled",
			AdminTab:           "working",
			ClientTab:          "active",
			AdminAction:        "Dispatch the installation crew",
			AdminEmailSubject:  "Installation scheduled: {{PROJECT_ADDRESS}}",
			AdminEmailContent:  "Crew scheduled for {{PROJECT_ADDRESS}}. Window: {{EST_TIME}}.",
			ClientEmailSubject: "Installation scheduled",
			ClientEmailContent: "Hi {{CLIENT_NAME}}, installation at {{PROJECT_ADDRESS}} is scheduled. Expected window: {{EST_TIME}}.",
			ToastAdmin:         "Installation scheduled for {{PROJECT_ADDRESS}}",
			ToastClient:        "Installation scheduled {{COUNTDOWN}}",
			NotifyRoles:        []Role{RoleStaff},
		},
		{
			StatusCode:         60,
			AdminName:          "Completed",
			ClientName:         "Completed",
			AdminTab:           "done",
			ClientTab:          "closed",
			AdminAction:        "Close out the project file",
			AdminEmailSubject:  "Completed: {{PROJECT_ADDRESS}}",
			AdminEmailContent:  "{{PROJECT_ADDRESS}} for {{CLIENT_NAME}} is complete.",
			ClientEmailSubject: "Your project is complete",
			ClientEmailContent: "Hi {{CLIENT_NAME}}, work at {{PROJECT_ADDRESS}} is finished. Thank you for choosing us.",
			ToastAdmin:         "{{PROJECT_ADDRESS}} completed",
			ToastClient:        "Project complete",
			NotifyRoles:        []Role{RoleAdmin},
		},
		{
			StatusCode:         90,
			AdminName:          "Cancelled",
			ClientName:         "Cancelled",
			AdminTab:           "done",
			ClientTab:          "closed",
			AdminAction:        "Archive the project",
			AdminEmailSubject:  "Cancelled: {{PROJECT_ADDRESS}}",
			AdminEmailContent:  "{{PROJECT_ADDRESS}} was cancelled by {{CLIENT_NAME}}.",
			ClientEmailSubject: "Your project was cancelled",
			ClientEmailContent: "Hi {{CLIENT_NAME}}, your project at {{PROJECT_ADDRESS}} has been cancelled.",
			ToastAdmin:         "{{PROJECT_ADDRESS}} cancelled",
			ToastClient:        "Project cancelled",
			NotifyRoles:        []Role{RoleAdmin, RoleStaff},
		},
	}
}
