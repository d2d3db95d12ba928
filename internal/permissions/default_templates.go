package permissions

// Names of the built-in role templates.
const (
	TemplateFullAccess     = "Full Access"
	TemplatePastor         = "Pastor"
	TemplateSecretary      = "Secretary"
	TemplateMinistryLeader = "Ministry Leader"
	TemplateFinanceManager = "Finance Manager"
	TemplateViewOnly       = "View Only"
)

// DefaultTemplates returns the built-in role presets for DefaultCatalog.
func DefaultTemplates() *TemplateRegistry {
	reg := NewTemplateRegistry()
	for _, t := range []Template{
		{
			Name:        TemplateFullAccess,
			Description: "Every permission in the system",
			Resolver:    AllPermissions{},
		},
		{
			Name:        TemplatePastor,
			Description: "Full ministry access; settings limited to read-only views",
			Resolver: ExcludeCategories{
				Exclude: []string{"settings"},
				Allow:   []string{"settings.general.view", "settings.roles.view", "settings.users.view"},
			},
		},
		{
			Name:        TemplateSecretary,
			Description: "Church office administration",
			Resolver: IncludeCategories{
				Include: []string{"members", "attendance", "events", "communications"},
				Extra:   []string{"dashboard.view", "groups.view", "reports.view", "reports.membership.view"},
			},
		},
		{
			Name:        TemplateMinistryLeader,
			Description: "Runs groups and events, records attendance",
			Resolver: IncludeCategories{
				Include: []string{"groups", "events"},
				Extra:   []string{"dashboard.view", "members.view", "attendance.view", "attendance.record", "communications.email.send"},
			},
		},
		{
			Name:        TemplateFinanceManager,
			Description: "Full finance access with giving reports",
			Resolver: CategoryWithExtras{
				Category: "finance",
				Extra:    []string{"dashboard.view", "members.view", "reports.view", "reports.financial.view", "reports.export"},
			},
		},
		{
			Name:        TemplateViewOnly,
			Description: "Read-only access to every area",
			Resolver:    MatchSubstring{Substr: "view"},
		},
	} {
		if err := reg.Register(t); err != nil {
			panic(err)
		}
	}
	return reg
}
