package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionBrandsRead allows viewing brands.
	PermissionBrandsRead Permission = "brands:read"

	// PermissionBrandsWrite allows creating, updating, and deleting brands.
	PermissionBrandsWrite Permission = "brands:write"

	// PermissionQuizzesRead allows viewing quizzes and everything nested under them.
	PermissionQuizzesRead Permission = "quizzes:read"

	// PermissionQuizzesWrite allows editing quizzes, versions, steps, fields, options and grouped inputs.
	PermissionQuizzesWrite Permission = "quizzes:write"

	// PermissionQuizzesPublish allows publishing and archiving quizzes.
	PermissionQuizzesPublish Permission = "quizzes:publish"

	PermissionMediaRead   Permission = "media:read"
	PermissionMediaUpload Permission = "media:upload"

	// PermissionSubmissionsRead allows viewing collected quiz submissions.
	PermissionSubmissionsRead Permission = "submissions:read"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionBrandsRead,
	PermissionBrandsWrite,
	PermissionQuizzesRead,
	PermissionQuizzesWrite,
	PermissionQuizzesPublish,
	PermissionMediaRead,
	PermissionMediaUpload,
	PermissionSubmissionsRead,
}
