// Package rbac holds the authoritative role/permission registry.
// All lookups are pure reads over tables fixed at init; an unknown
// role resolves to zero permissions, no menu items, and the default
// dashboard path. Nothing here touches the network or the database.
package rbac

// Role is one of a closed enumeration of primary roles. Every profile
// carries exactly one.
type Role string

const (
	RoleSuperAdmin           Role = "super_admin"
	RoleAdmin                Role = "admin"
	RoleProjectManager       Role = "project_manager"
	RoleQualityManager       Role = "quality_manager"
	RoleTechnician           Role = "technician"
	RoleSupervisor           Role = "supervisor"
	RoleConsultantEngineer   Role = "consultant_engineer"
	RoleConsultantTechnician Role = "consultant_technician"

	// RoleUnknown is the safe variant for unrecognized or empty role
	// strings. It maps to no permissions.
	RoleUnknown Role = ""
)

// Permission is a capability token granted through a role.
type Permission string

const (
	PermManageCompany      Permission = "manage_company"
	PermManageCompanyUsers Permission = "manage_company_users"
	PermManageProjects     Permission = "manage_projects"
	PermViewProjects       Permission = "view_projects"
	PermCreateReports      Permission = "create_reports"
	PermEditReports        Permission = "edit_reports"
	PermApproveReports     Permission = "approve_reports"
	PermRejectReports      Permission = "reject_reports"
	PermViewReports        Permission = "view_reports"
	PermManageTemplates    Permission = "manage_templates"
	PermViewDashboard      Permission = "view_dashboard"
	PermManageDocuments    Permission = "manage_documents"
	PermViewDocuments      Permission = "view_documents"
	PermManageRoads        Permission = "manage_roads"
	PermManageLayers       Permission = "manage_layers"
	PermViewAnalytics      Permission = "view_analytics"
	PermManageSubscription Permission = "manage_subscription"
	PermManagePlatform     Permission = "manage_platform"
)

// AllPermissions lists every defined permission. super_admin's set is
// spelled out from this list rather than implied by construction.
var AllPermissions = []Permission{
	PermManageCompany,
	PermManageCompanyUsers,
	PermManageProjects,
	PermViewProjects,
	PermCreateReports,
	PermEditReports,
	PermApproveReports,
	PermRejectReports,
	PermViewReports,
	PermManageTemplates,
	PermViewDashboard,
	PermManageDocuments,
	PermViewDocuments,
	PermManageRoads,
	PermManageLayers,
	PermViewAnalytics,
	PermManageSubscription,
	PermManagePlatform,
}

// rolePermissions is the single authoritative role → permission table.
var rolePermissions = map[Role][]Permission{
	RoleSuperAdmin: AllPermissions,
	RoleAdmin: {
		PermManageCompany,
		PermManageCompanyUsers,
		PermManageProjects,
		PermViewProjects,
		PermCreateReports,
		PermEditReports,
		PermApproveReports,
		PermRejectReports,
		PermViewReports,
		PermManageTemplates,
		PermViewDashboard,
		PermManageDocuments,
		PermViewDocuments,
		PermManageRoads,
		PermManageLayers,
		PermViewAnalytics,
		PermManageSubscription,
	},
	RoleProjectManager: {
		PermManageProjects,
		PermViewProjects,
		PermCreateReports,
		PermEditReports,
		PermViewReports,
		PermManageTemplates,
		PermViewDashboard,
		PermManageDocuments,
		PermViewDocuments,
		PermManageRoads,
		PermManageLayers,
		PermViewAnalytics,
	},
	RoleQualityManager: {
		PermViewProjects,
		PermEditReports,
		PermApproveReports,
		PermRejectReports,
		PermViewReports,
		PermManageTemplates,
		PermViewDashboard,
		PermViewDocuments,
		PermViewAnalytics,
	},
	RoleTechnician: {
		PermViewProjects,
		PermCreateReports,
		PermEditReports,
		PermViewReports,
		PermViewDashboard,
		PermViewDocuments,
	},
	RoleSupervisor: {
		PermViewProjects,
		PermCreateReports,
		PermEditReports,
		PermViewReports,
		PermViewDashboard,
		PermManageDocuments,
		PermViewDocuments,
		PermViewAnalytics,
	},
	RoleConsultantEngineer: {
		PermViewProjects,
		PermApproveReports,
		PermRejectReports,
		PermViewReports,
		PermViewDashboard,
		PermViewDocuments,
		PermViewAnalytics,
	},
	RoleConsultantTechnician: {
		PermViewProjects,
		PermViewReports,
		PermViewDashboard,
		PermViewDocuments,
	},
}

// MenuItem is a navigation entry visible to a role.
type MenuItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

var menuCatalog = map[string]MenuItem{
	"dashboard":    {ID: "dashboard", Label: "Dashboard", Path: "/dashboard"},
	"projects":     {ID: "projects", Label: "Projects", Path: "/projects"},
	"reports":      {ID: "reports", Label: "Test Reports", Path: "/reports"},
	"approvals":    {ID: "approvals", Label: "Approvals", Path: "/approvals"},
	"templates":    {ID: "templates", Label: "Templates", Path: "/templates"},
	"documents":    {ID: "documents", Label: "Documents", Path: "/documents"},
	"team":         {ID: "team", Label: "Team", Path: "/team"},
	"analytics":    {ID: "analytics", Label: "Analytics", Path: "/analytics"},
	"subscription": {ID: "subscription", Label: "Subscription", Path: "/subscription"},
	"platform":     {ID: "platform", Label: "Platform Admin", Path: "/platform"},
}

// menuPermission maps each menu entry to the permission that reveals it.
var menuPermission = map[string]Permission{
	"dashboard":    PermViewDashboard,
	"projects":     PermViewProjects,
	"reports":      PermViewReports,
	"approvals":    PermApproveReports,
	"templates":    PermManageTemplates,
	"documents":    PermViewDocuments,
	"team":         PermManageCompanyUsers,
	"analytics":    PermViewAnalytics,
	"subscription": PermManageSubscription,
	"platform":     PermManagePlatform,
}

// menuOrder fixes the display order of menu entries.
var menuOrder = []string{
	"dashboard", "projects", "reports", "approvals", "templates",
	"documents", "team", "analytics", "subscription", "platform",
}

// dashboardPaths maps roles to their post-login redirect.
var dashboardPaths = map[Role]string{
	RoleSuperAdmin:           "/platform",
	RoleAdmin:                "/dashboard/admin",
	RoleProjectManager:       "/dashboard/projects",
	RoleQualityManager:       "/dashboard/approvals",
	RoleTechnician:           "/dashboard/reports",
	RoleSupervisor:           "/dashboard/reports",
	RoleConsultantEngineer:   "/dashboard/approvals",
	RoleConsultantTechnician: "/dashboard/reports",
}

// DefaultDashboardPath is returned for unknown roles.
const DefaultDashboardPath = "/dashboard"

// ParseRole converts a free-text role column value into a Role.
// Unrecognized input yields RoleUnknown, never a panic.
func ParseRole(s string) Role {
	r := Role(s)
	if _, ok := rolePermissions[r]; ok {
		return r
	}
	return RoleUnknown
}

// Roles returns every defined role.
func Roles() []Role {
	return []Role{
		RoleSuperAdmin,
		RoleAdmin,
		RoleProjectManager,
		RoleQualityManager,
		RoleTechnician,
		RoleSupervisor,
		RoleConsultantEngineer,
		RoleConsultantTechnician,
	}
}

// ValidRole reports whether s names a defined role.
func ValidRole(s string) bool {
	_, ok := rolePermissions[Role(s)]
	return ok
}

// PermissionsFor returns the role's permission set. Unknown roles get
// an empty set. The returned slice is a copy; callers may not mutate
// the registry.
func PermissionsFor(role Role) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether the role's static set contains perm.
func HasPermission(role Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the role holds at least one of perms.
func HasAnyPermission(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role holds every one of perms.
func HasAllPermissions(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if !HasPermission(role, p) {
			return false
		}
	}
	return true
}

// MenuFor returns the menu items visible to the role, in display order.
func MenuFor(role Role) []MenuItem {
	var items []MenuItem
	for _, id := range menuOrder {
		if HasPermission(role, menuPermission[id]) {
			items = append(items, menuCatalog[id])
		}
	}
	return items
}

// CanSeeMenuItem reports whether the role may see the menu entry.
func CanSeeMenuItem(role Role, menuID string) bool {
	perm, ok := menuPermission[menuID]
	if !ok {
		return false
	}
	return HasPermission(role, perm)
}

// DashboardPath returns the post-login redirect for the role, or the
// default path for unknown roles.
func DashboardPath(role Role) string {
	if p, ok := dashboardPaths[role]; ok {
		return p
	}
	return DefaultDashboardPath
}
