package entity

// Permission is a named capability granted to roles
type Permission struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Permission) TableName() string {
	return "permissions"
}

// Capabilities checked by the HTTP layer before a usecase runs
const (
	PermissionAppointmentBook    = "appointment:book"
	PermissionAppointmentView    = "appointment:view_slots"
	PermissionPatientProfile     = "patient:profile"
	PermissionDoctorManage       = "doctor:manage"
	PermissionDoctorUpdate       = "doctor:update"
	PermissionDoctorSchedule     = "doctor:schedule"
	PermissionSubscriptionManage = "subscription:manage"
	PermissionSubscriptionSelf   = "subscription:self"
	PermissionAuditRead          = "audit:read"
)

// RolePermissions maps a role ID to the capabilities it is granted
type RolePermissions map[int][]string

// Has reports whether the role is granted the capability
func (rp RolePermissions) Has(roleID int, permission string) bool {
	for _, p := range rp[roleID] {
		if p == permission {
			return true
		}
	}
	return false
}

// DefaultRolePermissions is the capability set seeded for each role.
// The server loads the live table from role_permissions at startup.
var DefaultRolePermissions = RolePermissions{
	RoleIDAdmin: {
		PermissionAppointmentView,
		PermissionDoctorManage,
		PermissionDoctorUpdate,
		PermissionSubscriptionManage,
		PermissionAuditRead,
	},
	RoleIDDoctor: {
		PermissionAppointmentView,
		PermissionDoctorUpdate,
		PermissionDoctorSchedule,
		PermissionSubscriptionSelf,
	},
	RoleIDPatient: {
		PermissionAppointmentView,
		PermissionAppointmentBook,
		PermissionPatientProfile,
	},
}

// RoleHasPermission reports whether the role is granted the capability
func RoleHasPermission(roleID int, permission string) bool {
	return DefaultRolePermissions.Has(roleID, permission)
}
