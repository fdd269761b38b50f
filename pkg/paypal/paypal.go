package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rcw/client-backend/internal/apperr"
)

// DefaultBaseURL points at the sandbox environment.
const DefaultBaseURL = "https://api-m.sandbox.paypal.com"

const requestTimeout = 10 * time.Second

// Client is a thin wrapper over PayPal's REST API. Every call exchanges the
// configured credentials for a fresh bearer token first; tokens are never
// cached across calls.
type Client struct {
	baseURL    string
	clientID   string
	secret     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, clientID, secret string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

// Subscription is the final artifact of the provisioning sequence.
type Subscription struct {
	ID    string `json:"id"`
	Links []Link `json:"links"`
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// ApprovalURL returns the link the end user must visit to authorize the
// subscription, or "" if the provider omitted it.
func (s *Subscription) ApprovalURL() string {
	for _, link := range s.Links {
		if link.Rel == "approve" {
			return link.Href
		}
	}
	return ""
}

// AccessToken exchanges the client credentials for a short-lived bearer token.
func (c *Client) AccessToken(ctx context.Context) (string, *apperr.Error) {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperr.New(http.StatusInternalServerError, apperr.KindRequest, "An unexpected error occurred while connecting to the PayPal API.")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en_US")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.transportError("token exchange", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.transportError("token exchange", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("paypal token exchange failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("details", body))
		return "", &apperr.Error{
			Status:  resp.StatusCode,
			Kind:    apperr.KindPayPalAPI,
			Message: "Failed to retrieve PayPal access token.",
			Details: json.RawMessage(body),
		}
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &token); err != nil || token.AccessToken == "" {
		c.logger.Error("paypal token response missing access_token")
		return "", apperr.New(http.StatusInternalServerError, apperr.KindAccessToken, "Failed to retrieve PayPal access token.")
	}
	return token.AccessToken, nil
}

// CreateOrder creates a one-off capture order and returns its identifier.
// The correlation id is attached as an opaque custom_id passthrough.
func (c *Client) CreateOrder(ctx context.Context, amount float64, customID, currency string) (string, *apperr.Error) {
	token, aerr := c.AccessToken(ctx)
	if aerr != nil {
		return "", aerr
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": currency,
					"value":         decimal.NewFromFloat(amount).StringFixed(2),
				},
				"custom_id": customID,
			},
		},
	}

	status, body, aerr := c.post(ctx, token, "/v2/checkout/orders", payload)
	if aerr != nil {
		return "", aerr
	}
	if status != http.StatusCreated {
		return "", c.apiError("order", status, body)
	}

	var order struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &order); err != nil || order.ID == "" {
		c.logger.Error("paypal order response missing id field")
		return "", apperr.New(http.StatusInternalServerError, apperr.KindIncompleteResponse, "PayPal order creation succeeded, but the response is incomplete.")
	}
	return order.ID, nil
}

// CreateProduct creates the fixed donation product and returns its identifier.
// A product is created fresh on every provisioning run; existing products are
// never looked up or reused.
func (c *Client) CreateProduct(ctx context.Context) (string, *apperr.Error) {
	token, aerr := c.AccessToken(ctx)
	if aerr != nil {
		return "", aerr
	}

	payload := map[string]string{
		"name":        "Donation Product",
		"description": "A product for donation subscriptions.",
		"type":        "SERVICE",
		"category":    "CHARITY",
	}

	status, body, aerr := c.post(ctx, token, "/v1/catalogs/products", payload)
	if aerr != nil {
		return "", aerr
	}
	if status != http.StatusCreated {
		return "", c.apiError("product", status, body)
	}

	var product struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &product); err != nil || product.ID == "" {
		c.logger.Error("paypal product created, but no product id returned")
		return "", apperr.New(http.StatusInternalServerError, apperr.KindIncompleteResponse, "Product creation succeeded, but the response is incomplete.")
	}
	return product.ID, nil
}

// CreatePlan creates a weekly recurring billing plan tied to productID and
// returns the plan identifier.
func (c *Client) CreatePlan(ctx context.Context, productID string, amount float64) (string, *apperr.Error) {
	if productID == "" {
		return "", apperr.New(http.StatusBadRequest, apperr.KindValidation, "Product ID is required to create a PayPal plan.")
	}
	if amount <= 0 {
		return "", apperr.New(http.StatusBadRequest, apperr.KindValidation, "Amount must be greater than zero.")
	}

	token, aerr := c.AccessToken(ctx)
	if aerr != nil {
		return "", aerr
	}

	payload := map[string]interface{}{
		"product_id":  productID,
		"name":        "Weekly Donation Plan",
		"description": "A plan for weekly donations.",
		"status":      "ACTIVE",
		"billing_cycles": []map[string]interface{}{
			{
				"frequency": map[string]interface{}{
					"interval_unit":  "WEEK",
					"interval_count": 1,
				},
				"tenure_type":  "REGULAR",
				"sequence":     1,
				"total_cycles": 0,
				"pricing_scheme": map[string]interface{}{
					"fixed_price": map[string]string{
						"value":         decimal.NewFromFloat(amount).StringFixed(2),
						"currency_code": "USD",
					},
				},
			},
		},
		"payment_preferences": map[string]interface{}{
			"auto_bill_outstanding": true,
			"setup_fee": map[string]string{
				"value":         "0.00",
				"currency_code": "USD",
			},
			"setup_fee_failure_action":  "CONTINUE",
			"payment_failure_threshold": 3,
		},
	}

	status, body, aerr := c.post(ctx, token, "/v1/billing/plans", payload)
	if aerr != nil {
		return "", aerr
	}
	if status != http.StatusCreated {
		return "", c.apiError("plan", status, body)
	}

	var plan struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &plan); err != nil || plan.ID == "" {
		c.logger.Error("paypal plan created, but no plan id returned")
		return "", apperr.New(http.StatusInternalServerError, apperr.KindIncompleteResponse, "Plan creation succeeded, but the response is incomplete.")
	}
	return plan.ID, nil
}

// CreateSubscription creates a subscription on planID carrying customID for
// webhook correlation.
func (c *Client) CreateSubscription(ctx context.Context, planID, customID string) (*Subscription, *apperr.Error) {
	if planID == "" {
		return nil, apperr.New(http.StatusBadRequest, apperr.KindValidation, "Plan ID is required to create a PayPal subscription.")
	}
	if customID == "" {
		return nil, apperr.New(http.StatusBadRequest, apperr.KindValidation, "Custom ID is required to create a PayPal subscription.")
	}

	token, aerr := c.AccessToken(ctx)
	if aerr != nil {
		return nil, aerr
	}

	payload := map[string]string{
		"plan_id":   planID,
		"custom_id": customID,
	}

	status, body, aerr := c.post(ctx, token, "/v1/billing/subscriptions", payload)
	if aerr != nil {
		return nil, aerr
	}
	if status != http.StatusCreated {
		return nil, c.apiError("subscription", status, body)
	}

	var subscription Subscription
	if err := json.Unmarshal(body, &subscription); err != nil || subscription.ID == "" {
		c.logger.Error("paypal subscription response missing id field")
		return nil, apperr.New(http.StatusInternalServerError, apperr.KindIncompleteResponse, "Subscription ID is missing from the PayPal response.")
	}
	return &subscription, nil
}

// VerifyWebhookSignature checks an inbound webhook notification against
// PayPal's verification endpoint. headers must hold the transmission headers
// exactly as received.
func (c *Client) VerifyWebhookSignature(ctx context.Context, webhookID string, headers map[string]string, event json.RawMessage) (bool, *apperr.Error) {
	token, aerr := c.AccessToken(ctx)
	if aerr != nil {
		return false, aerr
	}

	header := func(name string) string {
		for k, v := range headers {
			if strings.EqualFold(k, name) {
				return v
			}
		}
		return ""
	}

	payload := map[string]interface{}{
		"auth_algo":         header("Paypal-Auth-Algo"),
		"cert_url":          header("Paypal-Cert-Url"),
		"transmission_id":   header("Paypal-Transmission-Id"),
		"transmission_sig":  header("Paypal-Transmission-Sig"),
		"transmission_time": header("Paypal-Transmission-Time"),
		"webhook_id":        webhookID,
		"webhook_event":     event,
	}

	status, body, aerr := c.post(ctx, token, "/v1/notifications/verify-webhook-signature", payload)
	if aerr != nil {
		return false, aerr
	}
	if status != http.StatusOK {
		c.logger.Error("paypal webhook verification failed",
			zap.Int("status", status),
			zap.ByteString("details", body))
		return false, &apperr.Error{
			Status:  status,
			Kind:    apperr.KindPayPalAPI,
			Message: "Failed to verify the webhook signature.",
			Details: json.RawMessage(body),
		}
	}

	var verification struct {
		VerificationStatus string `json:"verification_status"`
	}
	if err := json.Unmarshal(body, &verification); err != nil {
		return false, apperr.New(http.StatusInternalServerError, apperr.KindIncompleteResponse, "Webhook verification succeeded, but the response is incomplete.")
	}
	return verification.VerificationStatus == "SUCCESS", nil
}

func (c *Client) post(ctx context.Context, token, path string, payload interface{}) (int, []byte, *apperr.Error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, apperr.New(http.StatusInternalServerError, apperr.KindInternal, "An internal server error occurred")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, apperr.New(http.StatusInternalServerError, apperr.KindRequest, "An unexpected error occurred while connecting to the PayPal API.")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, c.transportError(path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, c.transportError(path, err)
	}
	return resp.StatusCode, body, nil
}

// apiError forwards a non-success application-level reply: the provider's
// status code, its error name/description and the raw payload for diagnostics.
func (c *Client) apiError(what string, status int, body []byte) *apperr.Error {
	var details struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &details)
	if details.Name == "" {
		details.Name = "Unknown error"
	}
	if details.Message == "" {
		details.Message = "No description"
	}

	c.logger.Error("paypal api call failed",
		zap.String("call", what),
		zap.Int("status", status),
		zap.ByteString("details", body))

	return &apperr.Error{
		Status:  status,
		Kind:    apperr.KindPayPalAPI,
		Message: fmt.Sprintf("Failed to create PayPal %s: %s - %s.", what, details.Name, details.Message),
		Details: json.RawMessage(body),
	}
}

// transportError classifies failures that never produced an application-level
// reply: timeout, connection failure, anything else.
func (c *Client) transportError(what string, err error) *apperr.Error {
	c.logger.Error("paypal request failed", zap.String("call", what), zap.Error(err))

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return apperr.New(http.StatusGatewayTimeout, apperr.KindTimeout, "The request to the PayPal API timed out. Please try again later.")
		}
		var opErr *net.OpError
		if errors.As(urlErr.Err, &opErr) {
			return apperr.New(http.StatusServiceUnavailable, apperr.KindConnection, "Unable to connect to the PayPal API. Please check your network and try again.")
		}
	}
	return apperr.New(http.StatusInternalServerError, apperr.KindRequest, "An unexpected error occurred while connecting to the PayPal API.")
}
