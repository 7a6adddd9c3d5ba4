package model

// AdminRole is the fixed role assigned to an admin.
type AdminRole string

const (
	RoleOwner  AdminRole = "owner"
	RoleEditor AdminRole = "editor"
	RoleViewer AdminRole = "viewer"
)

var rolePermissions = map[AdminRole][]Permission{
	RoleOwner: AllPermissions,
	RoleEditor: {
		PermissionBrandsRead,
		PermissionQuizzesRead,
		PermissionQuizzesWrite,
		PermissionQuizzesPublish,
		PermissionMediaRead,
		PermissionMediaUpload,
		PermissionSubmissionsRead,
	},
	RoleViewer: {
		PermissionBrandsRead,
		PermissionQuizzesRead,
		PermissionMediaRead,
	},
}

// Valid reports whether r is a known role.
func (r AdminRole) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permissions returns the permission codes granted to the role.
// Unknown roles get none.
func (r AdminRole) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
