package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/rcw/client-backend/internal/apperr"
	"github.com/rcw/client-backend/internal/models"
	"github.com/rcw/client-backend/pkg/paypal"
)

type PaymentHandler struct {
	paypal *paypal.Client
	logger *zap.Logger
}

func NewPaymentHandler(client *paypal.Client, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paypal: client,
		logger: logger,
	}
}

// CreateOrder creates a one-off capture order.
func (h *PaymentHandler) CreateOrder(ctx context.Context, req models.Request) events.APIGatewayProxyResponse {
	body := models.CreateOrderRequest{
		Amount:   req.Body.Amount,
		CustomID: req.Body.CustomID,
		Currency: req.Body.Currency,
	}
	if body.Currency == "" {
		body.Currency = "USD"
	}
	if body.Amount <= 0 {
		return models.ValidationFailed("The amount must be greater than zero.")
	}
	if strings.TrimSpace(body.CustomID) == "" {
		return models.ValidationFailed("The Custom ID must be a non-empty string.")
	}

	orderID, aerr := h.paypal.CreateOrder(ctx, body.Amount, body.CustomID, body.Currency)
	if aerr != nil {
		return models.FromError(aerr)
	}

	return models.JSON(http.StatusOK, map[string]string{
		"id":      orderID,
		"message": "PayPal order created successfully.",
	})
}

// CreateSubscription runs the three-stage provisioning sequence: product,
// then plan, then subscription. Each stage needs the identifier produced by
// the previous one and fetches its own bearer token. There are no retries and
// no rollback: a failure at a later stage leaves the earlier artifacts in the
// provider, and the response names only the stage that failed.
func (h *PaymentHandler) CreateSubscription(ctx context.Context, req models.Request) events.APIGatewayProxyResponse {
	body := models.CreateSubscriptionRequest{
		Amount:   req.Body.Amount,
		CustomID: req.Body.CustomID,
	}
	if body.Amount <= 0 {
		return models.ValidationFailed("Amount must be greater than zero.")
	}
	if strings.TrimSpace(body.CustomID) == "" {
		return models.ValidationFailed("Custom ID must be a non-empty string.")
	}

	productID, aerr := h.paypal.CreateProduct(ctx)
	if aerr != nil {
		return models.FromError(h.stageError(aerr, apperr.KindProductCreation, "Failed to create PayPal product."))
	}

	planID, aerr := h.paypal.CreatePlan(ctx, productID, body.Amount)
	if aerr != nil {
		return models.FromError(h.stageError(aerr, apperr.KindPlanCreation, "Failed to create PayPal plan."))
	}

	subscription, aerr := h.paypal.CreateSubscription(ctx, planID, body.CustomID)
	if aerr != nil {
		return models.FromError(h.stageError(aerr, apperr.KindSubscriptionCreation, "Failed to create PayPal subscription."))
	}

	approvalURL := subscription.ApprovalURL()
	if approvalURL == "" {
		h.logger.Error("approval url missing from paypal response",
			zap.String("subscription_id", subscription.ID))
		return models.FromError(apperr.New(http.StatusInternalServerError, apperr.KindIncompleteResponse,
			"Approval URL is missing from the PayPal response."))
	}

	return models.JSON(http.StatusOK, map[string]string{
		"subscription_id": subscription.ID,
		"approval_url":    approvalURL,
		"message":         "PayPal subscription created successfully.",
	})
}

// stageError tags a stage failure with the stage's own kind. Validation and
// incomplete-response failures keep their original kind: they already say
// precisely what went wrong.
func (h *PaymentHandler) stageError(aerr *apperr.Error, kind, message string) *apperr.Error {
	if aerr.Kind == apperr.KindValidation || aerr.Kind == apperr.KindIncompleteResponse {
		return aerr
	}
	h.logger.Error("subscription provisioning stage failed",
		zap.String("stage", kind),
		zap.String("cause", aerr.Message))
	return apperr.New(http.StatusInternalServerError, kind, message)
}
