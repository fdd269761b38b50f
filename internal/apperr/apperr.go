package apperr

import "encoding/json"

// Error kinds shared across operations. Identity operations use their own
// provider-specific kinds inline, since each maps its own error set.
const (
	KindValidation           = "ValidationError"
	KindInternal             = "InternalError"
	KindIncompleteResponse   = "IncompleteResponse"
	KindPayPalAPI            = "PayPalAPIError"
	KindAccessToken          = "AccessTokenError"
	KindTimeout              = "TimeoutError"
	KindConnection           = "ConnectionError"
	KindRequest              = "RequestError"
	KindProductCreation      = "ProductCreationError"
	KindPlanCreation         = "PlanCreationError"
	KindSubscriptionCreation = "SubscriptionCreationError"
)

// Error carries everything a handler needs to shape an HTTP response:
// the status code, a machine-readable kind, a caller-facing message and,
// for upstream API failures, the provider's raw error payload.
type Error struct {
	Status  int
	Kind    string
	Message string
	Details json.RawMessage
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, kind, message string) *Error {
	return &Error{
		Status:  status,
		Kind:    kind,
		Message: message,
	}
}
