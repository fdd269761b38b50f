package models

// Request is the parsed inbound envelope. The router fills it once per
// invocation; fields irrelevant to the matched route are simply left empty.
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   Body
}

// Body is the superset of JSON body fields any route may read.
type Body struct {
	Email            string            `json:"email"`
	Password         string            `json:"password"`
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	ConfirmationCode string            `json:"confirmation_code"`
	AccessToken      string            `json:"access_token"`
	NewPassword      string            `json:"new_password"`
	AttributeUpdates map[string]string `json:"attribute_updates"`
	Message          string            `json:"message"`
	CustomID         string            `json:"custom_id"`
	Amount           float64           `json:"amount"`
	Currency         string            `json:"currency"`
}
