package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rcw/client-backend/internal/config"
	"github.com/rcw/client-backend/internal/handler"
	"github.com/rcw/client-backend/pkg/paypal"
	"github.com/rcw/client-backend/pkg/sheets"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Fatal("failed to load aws config", zap.Error(err))
	}

	cfg, err := config.LoadWebhook(ctx, awsCfg)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	sheetsClient, err := sheets.NewClient(ctx, cfg.ServiceAccount, cfg.SpreadsheetID)
	if err != nil {
		logger.Fatal("failed to initialize sheets client", zap.Error(err))
	}

	paypalClient := paypal.NewClient(paypal.DefaultBaseURL, cfg.PayPalClientID, cfg.PayPalSecret, logger)

	h := handler.NewWebhookHandler(paypalClient, sheetsClient, cfg.PayPalWebhookID, logger)

	lambda.Start(h.Handle)
}
