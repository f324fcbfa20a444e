package constants

const (
	// Session
	SessionCookieName = "employee_session"
	ContextKeyUserID  = "user_id"
	ContextKeyRole    = "role"

	// Passwords
	MinPasswordLength = 8
	// DefaultEmployeePassword is assigned when an admin or manager creates an
	// employee record for an identity that did not exist yet.
	DefaultEmployeePassword = "DefaultPassword1!"

	// Pagination
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)
