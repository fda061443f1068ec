package response

// Shared failure wording. Invalid credentials and unauthenticated use fixed
// strings so the response never leaks whether an account exists.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgUnauthenticated    = "Unauthenticated"
	MsgForbidden          = "Forbidden"
	MsgNotFound           = "Resource not found"
	MsgValidation         = "The given data was invalid"
	MsgUnexpected         = "Something went wrong"
)
