package permissions

// DefaultCatalog returns the built-in church back-office permission catalog.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog(defaultCategories())
	if err != nil {
		panic(err)
	}
	return catalog
}

func defaultCategories() []Category {
	return []Category{
		{
			ID:          "dashboard",
			Name:        "Dashboard",
			Description: "Overview widgets and at-a-glance statistics",
			Permissions: []Descriptor{
				{ID: "dashboard.view", Name: "View Dashboard", Description: "See the back-office dashboard and summary widgets"},
				{ID: "dashboard.widgets.customize", Name: "Customize Widgets", Description: "Arrange and configure dashboard widgets"},
			},
		},
		{
			ID:          "members",
			Name:        "Member Management",
			Description: "Member directory, households and pastoral notes",
			Permissions: []Descriptor{
				{ID: "members.view", Name: "View Members", Description: "Browse the member directory and profiles"},
				{ID: "members.create", Name: "Add Members", Description: "Register new members and visitors"},
				{ID: "members.edit", Name: "Edit Members", Description: "Update member profiles and contact details"},
				{ID: "members.delete", Name: "Delete Members", Description: "Remove member records"},
				{ID: "members.import", Name: "Import Members", Description: "Bulk import members from spreadsheets"},
				{ID: "members.export", Name: "Export Members", Description: "Download the member directory"},
				{ID: "members.families.manage", Name: "Manage Households", Description: "Link members into households and families"},
				{ID: "members.notes.view", Name: "View Pastoral Notes", Description: "Read confidential pastoral care notes"},
				{ID: "members.notes.edit", Name: "Edit Pastoral Notes", Description: "Write confidential pastoral care notes"},
			},
		},
		{
			ID:          "groups",
			Name:        "Groups & Ministries",
			Description: "Small groups, ministries and their leadership",
			Permissions: []Descriptor{
				{ID: "groups.view", Name: "View Groups", Description: "See small groups and ministries"},
				{ID: "groups.create", Name: "Create Groups", Description: "Start new small groups and ministries"},
				{ID: "groups.edit", Name: "Edit Groups", Description: "Change group details and meeting times"},
				{ID: "groups.delete", Name: "Delete Groups", Description: "Archive or remove groups"},
				{ID: "groups.members.manage", Name: "Manage Group Members", Description: "Add and remove people from groups"},
				{ID: "groups.leaders.assign", Name: "Assign Leaders", Description: "Appoint group and ministry leaders"},
			},
		},
		{
			ID:          "attendance",
			Name:        "Attendance Tracking",
			Description: "Service and group attendance records",
			Permissions: []Descriptor{
				{ID: "attendance.view", Name: "View Attendance", Description: "See attendance history for services and groups"},
				{ID: "attendance.record", Name: "Record Attendance", Description: "Take attendance for a service or meeting"},
				{ID: "attendance.edit", Name: "Edit Attendance", Description: "Correct recorded attendance"},
				{ID: "attendance.checkin.manage", Name: "Manage Check-in", Description: "Run kiosks and child check-in stations"},
				{ID: "attendance.reports.view", Name: "View Attendance Reports", Description: "See attendance trends and summaries"},
			},
		},
		{
			ID:          "events",
			Name:        "Event Management",
			Description: "Calendar, registrations and volunteer scheduling",
			Permissions: []Descriptor{
				{ID: "events.view", Name: "View Events", Description: "See the church calendar and event details"},
				{ID: "events.create", Name: "Create Events", Description: "Publish new events"},
				{ID: "events.edit", Name: "Edit Events", Description: "Change event details"},
				{ID: "events.delete", Name: "Delete Events", Description: "Cancel and remove events"},
				{ID: "events.registrations.manage", Name: "Manage Registrations", Description: "Approve and edit event registrations"},
				{ID: "events.volunteers.schedule", Name: "Schedule Volunteers", Description: "Assign volunteers to event roles"},
			},
		},
		{
			ID:          "assets",
			Name:        "Asset Management",
			Description: "Buildings, equipment and inventory",
			Permissions: []Descriptor{
				{ID: "assets.view", Name: "View Assets", Description: "Browse equipment and facility records"},
				{ID: "assets.create", Name: "Add Assets", Description: "Register new equipment"},
				{ID: "assets.edit", Name: "Edit Assets", Description: "Update asset details and locations"},
				{ID: "assets.delete", Name: "Delete Assets", Description: "Dispose of asset records"},
				{ID: "assets.maintenance.manage", Name: "Manage Maintenance", Description: "Schedule and log maintenance work"},
				{ID: "assets.checkout.manage", Name: "Manage Checkout", Description: "Lend equipment and track returns"},
			},
		},
		{
			ID:          "finance",
			Name:        "Finance Management",
			Description: "Giving, budgets, expenses and statements",
			Permissions: []Descriptor{
				{ID: "finance.view", Name: "View Finance Overview", Description: "See giving totals and account balances"},
				{ID: "finance.donations.record", Name: "Record Donations", Description: "Enter gifts and offering batches"},
				{ID: "finance.donations.edit", Name: "Edit Donations", Description: "Correct recorded gifts"},
				{ID: "finance.pledges.manage", Name: "Manage Pledges", Description: "Track pledge campaigns and commitments"},
				{ID: "finance.budgets.view", Name: "View Budgets", Description: "See ministry budgets"},
				{ID: "finance.budgets.edit", Name: "Edit Budgets", Description: "Create and change ministry budgets"},
				{ID: "finance.expenses.submit", Name: "Submit Expenses", Description: "File expense reimbursement requests"},
				{ID: "finance.expenses.approve", Name: "Approve Expenses", Description: "Approve or reject expense requests"},
				{ID: "finance.statements.generate", Name: "Generate Statements", Description: "Produce contribution statements for donors"},
				{ID: "finance.reports.view", Name: "View Financial Reports", Description: "See income and expense reports"},
			},
		},
		{
			ID:          "communications",
			Name:        "Communications",
			Description: "Email, SMS, announcements and prayer requests",
			Permissions: []Descriptor{
				{ID: "communications.view", Name: "View Communications", Description: "See sent messages and announcements"},
				{ID: "communications.email.send", Name: "Send Email", Description: "Send email to members and groups"},
				{ID: "communications.sms.send", Name: "Send SMS", Description: "Send text messages to members and groups"},
				{ID: "communications.announcements.manage", Name: "Manage Announcements", Description: "Publish bulletin and website announcements"},
				{ID: "communications.templates.manage", Name: "Manage Templates", Description: "Edit reusable message templates"},
				{ID: "communications.prayer.manage", Name: "Manage Prayer Requests", Description: "Moderate and share prayer requests"},
			},
		},
		{
			ID:          "reports",
			Name:        "Reports & Analytics",
			Description: "Cross-module reporting",
			Permissions: []Descriptor{
				{ID: "reports.view", Name: "View Reports", Description: "Open the reports area"},
				{ID: "reports.membership.view", Name: "View Membership Reports", Description: "See growth and retention reports"},
				{ID: "reports.financial.view", Name: "View Giving Reports", Description: "See giving trends and donor reports"},
				{ID: "reports.custom.build", Name: "Build Custom Reports", Description: "Design ad hoc reports"},
				{ID: "reports.export", Name: "Export Reports", Description: "Download reports as files"},
			},
		},
		{
			ID:          "settings",
			Name:        "System Settings",
			Description: "Church profile, roles, users and integrations",
			Permissions: []Descriptor{
				{ID: "settings.general.view", Name: "View Settings", Description: "See church profile and preferences"},
				{ID: "settings.general.edit", Name: "Edit Settings", Description: "Change church profile and preferences"},
				{ID: "settings.roles.view", Name: "View Roles", Description: "See roles and their permissions"},
				{ID: "settings.roles.edit", Name: "Edit Roles", Description: "Create roles and change their permissions"},
				{ID: "settings.users.view", Name: "View Users", Description: "See back-office user accounts"},
				{ID: "settings.users.manage", Name: "Manage Users", Description: "Invite, disable and assign roles to users"},
				{ID: "settings.integrations.manage", Name: "Manage Integrations", Description: "Connect payment and messaging providers"},
				{ID: "settings.audit.view", Name: "View Audit Log", Description: "Review the audit trail"},
				{ID: "settings.backup.manage", Name: "Manage Backups", Description: "Export and restore church data"},
			},
		},
	}
}
