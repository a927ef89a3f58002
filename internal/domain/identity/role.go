package identity

// Role represents the access level of a user within the HR workflow.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleManager    Role = "manager"
	RoleHRAdmin    Role = "hr_admin"
	RoleSuperAdmin Role = "super_admin"
)

// Capability names an operation a role may perform. Authorization decisions
// are made against this table instead of repeating role lists in handlers.
type Capability string

const (
	CapRequestCreate    Capability = "requests.create"
	CapRequestDecide    Capability = "requests.decide"
	CapRequestDecideAny Capability = "requests.decide_any" // decide without manager-match
	CapRequestViewAll   Capability = "requests.view_all"
	CapReportViewOthers Capability = "reports.view_others"
	CapReportViewAll    Capability = "reports.view_all"
	CapUserManage       Capability = "users.manage"
	CapUserActivate     Capability = "users.activate"
	CapUserViewInactive Capability = "users.view_inactive"
)

// roleCapabilities is the role × capability grant table.
var roleCapabilities = map[Role]map[Capability]bool{
	RoleEmployee: {
		CapRequestCreate: true,
	},
	RoleManager: {
		CapRequestCreate:    true,
		CapRequestDecide:    true,
		CapReportViewOthers: true,
	},
	RoleHRAdmin: {
		CapRequestCreate:    true,
		CapRequestDecide:    true,
		CapRequestDecideAny: true,
		CapRequestViewAll:   true,
		CapReportViewOthers: true,
		CapReportViewAll:    true,
		CapUserManage:       true,
	},
	RoleSuperAdmin: {
		CapRequestCreate:    true,
		CapRequestDecide:    true,
		CapRequestDecideAny: true,
		CapRequestViewAll:   true,
		CapReportViewOthers: true,
		CapReportViewAll:    true,
		CapUserManage:       true,
		CapUserActivate:     true,
		CapUserViewInactive: true,
	},
}

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role grants the given capability.
func (r Role) Can(capability Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	return caps[capability]
}

// IsManagerial reports whether the role can appear as an approver
// in the manager selection list.
func (r Role) IsManagerial() bool {
	return r == RoleManager || r == RoleHRAdmin || r == RoleSuperAdmin
}
