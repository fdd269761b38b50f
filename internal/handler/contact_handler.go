package handler

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/rcw/client-backend/internal/models"
	"github.com/rcw/client-backend/internal/service"
	"github.com/rcw/client-backend/pkg/utils"
)

type ContactHandler struct {
	contact   *service.ContactService
	validator *utils.Validator
}

func NewContactHandler(contact *service.ContactService, validator *utils.Validator) *ContactHandler {
	return &ContactHandler{
		contact:   contact,
		validator: validator,
	}
}

func (h *ContactHandler) ContactUs(ctx context.Context, req models.Request) events.APIGatewayProxyResponse {
	body := models.ContactRequest{
		FirstName: req.Body.FirstName,
		Email:     req.Body.Email,
		Message:   req.Body.Message,
	}
	if err := h.validator.Struct(body); err != nil {
		return models.ValidationFailed("All fields are required: name, email, and message.")
	}

	if aerr := h.contact.Send(ctx, body.FirstName, body.Email, body.Message); aerr != nil {
		return models.FromError(aerr)
	}
	return models.Message(http.StatusOK, "Message sent successfully.")
}
