package handler

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/rcw/client-backend/internal/models"
	"github.com/rcw/client-backend/internal/service"
	"github.com/rcw/client-backend/pkg/utils"
)

type AuthHandler struct {
	auth      *service.AuthService
	validator *utils.Validator
}

func NewAuthHandler(auth *service.AuthService, validator *utils.Validator) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		validator: validator,
	}
}

func (h *AuthHandler) SignUp(ctx context.Context, req models.Request) events.APIGatewayProxyResponse {
	body := models.SignUpRequest{
		Email:     req.Body.Email,
		Password:  req.Body.Password,
		FirstName: req.Body.FirstName,
		LastName:  req.Body.LastName,
	}
	if err := h.validator.Struct(body); err != nil {
		return models.ValidationFailed("Email, password, first name, and last name are required")
	}

	if aerr := h.auth.SignUp(ctx, body.Email, body.Password, body.FirstName, body.LastName); aerr != nil {
		return models.FromError(aerr)
	}
	return models.Message(http.StatusOK, "User signed up successfully")
}

func (h *AuthHandler) Confirm(ctx context.Context, req models.Request) events.APIGatewayProxyResponse {
	body := models.ConfirmRequest{Email: req.Body.Email}
	if err := h.validator.Struct(body); err != nil {
		return models.ValidationFailed("Email is required")
	}

	if aerr := h.auth.ConfirmUser(ctx, body.Email); aerr != nil {
		return models.FromError(aerr)
	}
	return models.Message(http.StatusOK, "User confirmed successfully")
}

func (h *AuthHandler) ConfirmEmail(ctx context.Context, req models.Request) events.APIGatewayProxyResponse {
	body := models.ConfirmEmailRequest{
		AccessToken:      req.Body.AccessToken,
		ConfirmationCode: req.Body.ConfirmationCode,
	}
	if err := h.validator.Struct(body); err != nil {
		return models.ValidationFailed("Access token and confirmation code are required")
	}

	if aerr := h.auth.ConfirmEmail(ctx, body.AccessToken, body.ConfirmationCode); aerr != nil {
		return models.FromError(aerr)
	}
	return models.Message(http.StatusOK, "Email confirmed successfully.")
}

func (h *AuthHandler) ResendConfirmation(ctx context.Context, req models.Request) events.APIGatewayProxyResponse {
	body := models.ResendConfirmationRequest{AccessToken: req.Body.AccessToken}
	if err := h.validator.Struct(body); err != nil {
		return models.ValidationFailed("Access token is required")
	}

	if aerr := h.auth.ResendConfirmation(ctx, body.AccessToken); aerr != nil {
		return models.FromError(aerr)
	}
	return models.Message(http.StatusOK, "Verification code sent successfully.")
}

func (h *AuthHandler) Login(ctx context.Context, req models.Request) events.APIGatewayProxyResponse {
	body := models.LoginRequest{
		Email:    req.Body.Email,
		Password: req.Body.Password,
	}
	if err := h.validator.Struct(body); err != nil {
		return models.ValidationFailed("Email and password are required")
	}

	result, aerr := h.auth.Login(ctx, body.Email, body.Password)
	if aerr != nil {
		return models.FromError(aerr)
	}
	return models.JSON(http.StatusOK, map[string]string{
		"message":       "User logged in successfully",
		"user_id":       result.UserID,
		"id_token":      result.IDToken,
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
	})
}

func (h *AuthHandler) ForgotPassword(ctx context.Context, req models.Request) events.APIGatewayProxyResponse {
	body := models.ForgotPasswordRequest{Email: req.Body.Email}
	if err := h.validator.Struct(body); err != nil {
		return models.ValidationFailed("Email is required")
	}

	if aerr := h.auth.ForgotPassword(ctx, body.Email); aerr != nil {
		return models.FromError(aerr)
	}
	return models.Message(http.StatusOK, "Password reset initiated. Check your email for the code.")
}

func (h *AuthHandler) ConfirmForgotPassword(ctx context.Context, req models.Request) events.APIGatewayProxyResponse {
	body := models.ConfirmForgotPasswordRequest{
		Email:            req.Body.Email,
		ConfirmationCode: req.Body.ConfirmationCode,
		NewPassword:      req.Body.NewPassword,
	}
	if err := h.validator.Struct(body); err != nil {
		return models.ValidationFailed("Email, confirmation code, and new password are required")
	}

	if aerr := h.auth.ConfirmForgotPassword(ctx, body.Email, body.ConfirmationCode, body.NewPassword); aerr != nil {
		return models.FromError(aerr)
	}
	return models.Message(http.StatusOK, "Password reset successfully.")
}

func (h *AuthHandler) GetUser(ctx context.Context, req models.Request) events.APIGatewayProxyResponse {
	body := models.GetUserRequest{Email: req.Query["email"]}
	if err := h.validator.Struct(body); err != nil {
		return models.ValidationFailed("Missing required 'email' query parameter")
	}

	attributes, aerr := h.auth.GetUser(ctx, body.Email)
	if aerr != nil {
		return models.FromError(aerr)
	}
	return models.JSON(http.StatusOK, map[string]interface{}{
		"message":         "User data retrieved successfully",
		"user_attributes": attributes,
	})
}

func (h *AuthHandler) UpdateUser(ctx context.Context, req models.Request) events.APIGatewayProxyResponse {
	body := models.UpdateUserRequest{
		Email:            req.Body.Email,
		AttributeUpdates: req.Body.AttributeUpdates,
	}
	if err := h.validator.Struct(body); err != nil {
		return models.ValidationFailed("Email and attribute updates are required")
	}

	if aerr := h.auth.UpdateUser(ctx, body.Email, body.AttributeUpdates); aerr != nil {
		return models.FromError(aerr)
	}
	return models.Message(http.StatusOK, "User attributes updated successfully")
}

func (h *AuthHandler) DeleteUser(ctx context.Context, req models.Request) events.APIGatewayProxyResponse {
	body := models.DeleteUserRequest{Email: req.Query["email"]}
	if err := h.validator.Struct(body); err != nil {
		return models.ValidationFailed("Email is required")
	}

	if aerr := h.auth.DeleteUser(ctx, body.Email); aerr != nil {
		return models.FromError(aerr)
	}
	return models.Message(http.StatusOK, "User deleted successfully")
}
