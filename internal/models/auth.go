package models

type SignUpRequest struct {
	Email     string `validate:"required"`
	Password  string `validate:"required"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
}

type ConfirmRequest struct {
	Email string `validate:"required"`
}

type ConfirmEmailRequest struct {
	AccessToken      string `validate:"required"`
	ConfirmationCode string `validate:"required"`
}

type ResendConfirmationRequest struct {
	AccessToken string `validate:"required"`
}

type LoginRequest struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `validate:"required"`
}

type ConfirmForgotPasswordRequest struct {
	Email            string `validate:"required"`
	ConfirmationCode string `validate:"required"`
	NewPassword      string `validate:"required"`
}

type GetUserRequest struct {
	Email string `validate:"required"`
}

type UpdateUserRequest struct {
	Email            string            `validate:"required"`
	AttributeUpdates map[string]string `validate:"required,min=1"`
}

type DeleteUserRequest struct {
	Email string `validate:"required"`
}

// LoginResult carries the provider tokens plus the subject decoded from the
// ID token.
type LoginResult struct {
	UserID       string
	IDToken      string
	AccessToken  string
	RefreshToken string
}
