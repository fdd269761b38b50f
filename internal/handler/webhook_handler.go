package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/rcw/client-backend/pkg/paypal"
)

// RowAppender is the spreadsheet sink for completed payments.
type RowAppender interface {
	AppendRow(ctx context.Context, values []interface{}) error
}

// WebhookHandler consumes payment-provider webhook callbacks and logs
// completed sales to a spreadsheet. Unlike the API handler, its responses
// carry no CORS headers: the only caller is the provider.
type WebhookHandler struct {
	paypal    *paypal.Client
	sink      RowAppender
	webhookID string
	logger    *zap.Logger
}

func NewWebhookHandler(client *paypal.Client, sink RowAppender, webhookID string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		paypal:    client,
		sink:      sink,
		webhookID: webhookID,
		logger:    logger,
	}
}

type webhookEvent struct {
	EventType string `json:"event_type"`
	Resource  struct {
		ID     string `json:"id"`
		Amount struct {
			Value        string `json:"value"`
			CurrencyCode string `json:"currency_code"`
		} `json:"amount"`
		Payer struct {
			EmailAddress string `json:"email_address"`
		} `json:"payer"`
		CreateTime string `json:"create_time"`
	} `json:"resource"`
}

func (h *WebhookHandler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	valid, aerr := h.paypal.VerifyWebhookSignature(ctx, h.webhookID, event.Headers, json.RawMessage(event.Body))
	if aerr != nil {
		h.logger.Error("webhook verification call failed", zap.String("cause", aerr.Message))
		return respond(http.StatusInternalServerError, "An error occurred while verifying the webhook."), nil
	}
	if !valid {
		return respond(http.StatusBadRequest, "Invalid webhook signature."), nil
	}

	var evt webhookEvent
	if err := json.Unmarshal([]byte(event.Body), &evt); err != nil {
		h.logger.Error("failed to parse webhook event", zap.Error(err))
		return respond(http.StatusBadRequest, "Malformed webhook event."), nil
	}

	if evt.EventType != "PAYMENT.SALE.COMPLETED" {
		return respond(http.StatusOK, "Event type not processed."), nil
	}

	row := []interface{}{
		evt.Resource.ID,
		evt.Resource.Payer.EmailAddress,
		evt.Resource.Amount.Value,
		evt.Resource.Amount.CurrencyCode,
		evt.Resource.CreateTime,
	}
	if err := h.sink.AppendRow(ctx, row); err != nil {
		h.logger.Error("failed to store payment row", zap.Error(err))
		return respond(http.StatusInternalServerError, "An error occurred while processing the payment."), nil
	}

	return respond(http.StatusOK, "Payment processed and data stored successfully."), nil
}

func respond(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"message": message})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
