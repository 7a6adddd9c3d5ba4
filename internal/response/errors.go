package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrRefreshInvalid     ErrCode = "REFRESH_TOKEN_INVALID"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"
	ErrActionForbidden  ErrCode = "ACTION_FORBIDDEN"

	// ─── Grid layout ───────────────────────────────────────────────────
	ErrGridCollision ErrCode = "GRID_COLLISION"
	ErrGridFull      ErrCode = "GRID_FULL"

	// ─── Quiz authoring ────────────────────────────────────────────────
	ErrDuplicateFieldKey     ErrCode = "DUPLICATE_FIELD_KEY"
	ErrDuplicateOptionValue  ErrCode = "DUPLICATE_OPTION_VALUE"
	ErrFieldKindMismatch     ErrCode = "FIELD_KIND_MISMATCH"
	ErrTrafficWeightExceeded ErrCode = "TRAFFIC_WEIGHT_EXCEEDED"
	ErrDefaultVersionLocked  ErrCode = "DEFAULT_VERSION_LOCKED"
	ErrQuizNotPublishable    ErrCode = "QUIZ_NOT_PUBLISHABLE"
	ErrQuizNotPublished      ErrCode = "QUIZ_NOT_PUBLISHED"
	ErrInvalidStepOrder      ErrCode = "INVALID_STEP_ORDER"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrRefreshInvalid:
		return "Your session has expired. Please sign in again."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid or expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You are not allowed to access this resource."
	case ErrPermissionDenied:
		return "Permission denied."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrDependencyExists:
		return "Resource is still referenced by other data."
	case ErrActionForbidden:
		return "This action is not allowed."

	// ─── Grid layout ───────────────────────────────────────────────────
	case ErrGridCollision:
		return "Grid collision detected."
	case ErrGridFull:
		return "No free cell is available on this grid."

	// ─── Quiz authoring ────────────────────────────────────────────────
	case ErrDuplicateFieldKey:
		return "A field with this key already exists in this version."
	case ErrDuplicateOptionValue:
		return "An option with this value already exists on this field."
	case ErrFieldKindMismatch:
		return "This operation is not supported for the field type."
	case ErrTrafficWeightExceeded:
		return "Traffic weights of a quiz's versions cannot exceed 100."
	case ErrDefaultVersionLocked:
		return "The default version cannot be removed while other versions exist."
	case ErrQuizNotPublishable:
		return "The quiz needs exactly one default version before it can be published."
	case ErrQuizNotPublished:
		return "This quiz is not published."
	case ErrInvalidStepOrder:
		return "Step order must list every step of the version exactly once."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File size exceeds the limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
