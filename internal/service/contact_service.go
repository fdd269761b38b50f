package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"github.com/rcw/client-backend/internal/apperr"
	"github.com/rcw/client-backend/pkg/email"
)

// ContactService sends contact-form submissions to the configured recipient.
type ContactService struct {
	client    email.API
	sender    string
	recipient string
	logger    *zap.Logger
}

func NewContactService(client email.API, sender, recipient string, logger *zap.Logger) *ContactService {
	return &ContactService{
		client:    client,
		sender:    sender,
		recipient: recipient,
		logger:    logger,
	}
}

func (s *ContactService) Send(ctx context.Context, firstName, fromEmail, message string) *apperr.Error {
	body := fmt.Sprintf("Name: %s\nEmail: %s\nMessage: %s", firstName, fromEmail, message)

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{s.recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String("Contact Us Form Submission")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	if err == nil {
		return nil
	}

	var (
		rejected     *types.MessageRejected
		notVerified  *types.MailFromDomainNotVerifiedException
		badConfigSet *types.ConfigurationSetDoesNotExistException
	)
	switch {
	case errors.As(err, &rejected):
		s.logger.Error("contact message rejected", zap.Error(err))
		return apperr.New(http.StatusBadRequest, "MessageRejected", "The email message was rejected. Please ensure the provided email address is valid.")
	case errors.As(err, &notVerified):
		s.logger.Error("contact sender not verified", zap.Error(err))
		return apperr.New(http.StatusBadRequest, "EmailNotVerified", "The sender's email address has not been verified. Please contact support for assistance.")
	case errors.As(err, &badConfigSet):
		s.logger.Error("contact configuration set missing", zap.Error(err))
		return apperr.New(http.StatusInternalServerError, "ConfigurationError", "There was a configuration issue with the email service. Please try again later.")
	}
	s.logger.Error("contact_us failed", zap.Error(err))
	return apperr.New(http.StatusInternalServerError, apperr.KindInternal, "An unexpected error occurred while sending your message. Please try again later.")
}
