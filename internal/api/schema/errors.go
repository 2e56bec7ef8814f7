package schema

var emptyMap = map[string]interface{}{}

var (
	ErrInternal = &Error{
		Type:    "generic.internal",
		Message: "An internal error occurred.",
		Details: emptyMap,
	}
	ErrNotFound = &Error{
		Type:    "generic.notFound",
		Message: "Resource not found.",
		Details: emptyMap,
	}
	ErrMethodNotAllowed = &Error{
		Type:    "generic.methodNotAllowed",
		Message: "Method not allowed.",
		Details: emptyMap,
	}

	ErrInvitationFailed = &Error{
		Type:    "login.invitationFailed",
		Message: "The handshake invitation could not be created.",
		Details: emptyMap,
	}
	ErrInvalidProvider = &Error{
		Type:    "login.invalidProvider",
		Message: "The specified provider name is not one of the known handshake providers.",
		Details: emptyMap,
	}
	ErrConnectionNotFound = &Error{
		Type:    "login.connectionNotFound",
		Message: "The specified connection is not known to the specified provider.",
		Details: emptyMap,
	}
	ErrConnectionNotActive = &Error{
		Type:    "login.connectionNotActive",
		Message: "The specified connection has not reached the active state yet.",
		Details: emptyMap,
	}
	ErrLoginFailed = &Error{
		Type:    "login.failed",
		Message: "The login could not be completed.",
		Details: emptyMap,
	}
)

// ErrorResponse represents the response structure sent by the API whenever errors occurred
type ErrorResponse struct {
	Status int      `json:"status"`
	Errors []*Error `json:"errors"`
}

// Error represents a single error present in the ErrorResponse
type Error struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
}
