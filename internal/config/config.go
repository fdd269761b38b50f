package config

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Config holds everything the API handler needs: identity pool/client ids,
// payment credentials and the contact-form addresses. Secrets come from the
// parameter store, keyed by deployment environment, and are read once per
// cold start.
type Config struct {
	Environment    string
	UserPoolID     string
	ClientID       string
	PayPalClientID string
	PayPalSecret   string
	SenderEmail    string
	RecipientEmail string
}

// WebhookConfig is the webhook handler's slice of configuration.
type WebhookConfig struct {
	Environment     string
	PayPalClientID  string
	PayPalSecret    string
	PayPalWebhookID string
	SpreadsheetID   string
	ServiceAccount  []byte
}

type paramReader struct {
	client *ssm.Client
	prefix string
}

func newParamReader(awsCfg aws.Config) *paramReader {
	return &paramReader{
		client: ssm.NewFromConfig(awsCfg),
		prefix: fmt.Sprintf("/rcw-client-backend-%s/", os.Getenv("ENVIRONMENT")),
	}
}

func (r *paramReader) get(ctx context.Context, name string) (string, error) {
	out, err := r.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(r.prefix + name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("read parameter %s: %w", name, err)
	}
	return aws.ToString(out.Parameter.Value), nil
}

func Load(ctx context.Context, awsCfg aws.Config) (*Config, error) {
	reader := newParamReader(awsCfg)
	cfg := &Config{Environment: os.Getenv("ENVIRONMENT")}

	for _, param := range []struct {
		name string
		dst  *string
	}{
		{"COGNITO_USER_POOL_ID", &cfg.UserPoolID},
		{"COGNITO_CLIENT_ID", &cfg.ClientID},
		{"PAYPAL_CLIENT_ID", &cfg.PayPalClientID},
		{"PAYPAL_SECRET", &cfg.PayPalSecret},
		{"SESIdentitySenderParameter", &cfg.SenderEmail},
		{"SESRecipientParameter", &cfg.RecipientEmail},
	} {
		value, err := reader.get(ctx, param.name)
		if err != nil {
			return nil, err
		}
		*param.dst = value
	}
	return cfg, nil
}

func LoadWebhook(ctx context.Context, awsCfg aws.Config) (*WebhookConfig, error) {
	reader := newParamReader(awsCfg)
	cfg := &WebhookConfig{
		Environment:     os.Getenv("ENVIRONMENT"),
		PayPalWebhookID: os.Getenv("PAYPAL_WEBHOOK_ID"),
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
	}

	for _, param := range []struct {
		name string
		dst  *string
	}{
		{"PAYPAL_CLIENT_ID", &cfg.PayPalClientID},
		{"PAYPAL_SECRET", &cfg.PayPalSecret},
	} {
		value, err := reader.get(ctx, param.name)
		if err != nil {
			return nil, err
		}
		*param.dst = value
	}

	// The service-account key arrives base64-encoded in the environment.
	key, err := base64.StdEncoding.DecodeString(os.Getenv("GOOGLE_SERVICE_ACCOUNT"))
	if err != nil {
		return nil, fmt.Errorf("decode GOOGLE_SERVICE_ACCOUNT: %w", err)
	}
	cfg.ServiceAccount = key

	return cfg, nil
}
