package httpapi

// Response detail strings. The exact wording is part of the external
// contract; clients match on these verbatim.
const (
	msgInvalidToken          = "Invalid token"
	msgTokenExpired          = "Token expired"
	msgCouldNotValidate      = "Could not validate credentials"
	msgInvalidResponseBody   = "Invalid response body"
	msgInternalServerError   = "Internal server error"
	msgUserNotFound          = "User not found"
	msgIncorrectPassword     = "Incorrect password"
	msgPasswordChanged       = "Password changed successfully"
	msgOrganizationExists    = "Organization already exists"
	msgUsernameExists        = "Username already exists"
	msgEmailExists           = "Email already exists"
	msgOrganizationNotFound  = "Organization not found"
	msgRoleNotFound          = "Role not found"
	msgSubjectNotFound       = "Subject not found"
	msgSubjectAlreadyCreated = "Subject already created"
	msgRateLimitExceeded     = "Rate limit exceeded"
)
