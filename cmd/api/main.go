package main

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rcw/client-backend/internal/config"
	"github.com/rcw/client-backend/internal/handler"
	"github.com/rcw/client-backend/internal/router"
	"github.com/rcw/client-backend/internal/service"
	"github.com/rcw/client-backend/pkg/cognito"
	"github.com/rcw/client-backend/pkg/email"
	"github.com/rcw/client-backend/pkg/paypal"
	"github.com/rcw/client-backend/pkg/utils"
)

func main() {
	// Load .env for local runs; in Lambda the environment is already set.
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

	cfg, err := config.Load(ctx, awsCfg)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Provider clients, constructed once per cold start and shared by every
	// invocation the process serves.
	cognitoClient := cognito.NewClient(awsCfg)
	sesClient := email.NewClient(awsCfg)
	paypalClient := paypal.NewClient(paypal.DefaultBaseURL, cfg.PayPalClientID, cfg.PayPalSecret, logger)

	authService := service.NewAuthService(cognitoClient, cfg.UserPoolID, cfg.ClientID, logger)
	contactService := service.NewContactService(sesClient, cfg.SenderEmail, cfg.RecipientEmail, logger)

	validator := utils.NewValidator()

	authHandler := handler.NewAuthHandler(authService, validator)
	contactHandler := handler.NewContactHandler(contactService, validator)
	paymentHandler := handler.NewPaymentHandler(paypalClient, logger)

	r := router.New(logger)
	r.Register(http.MethodPost, "/signup", authHandler.SignUp)
	r.Register(http.MethodPost, "/confirm", authHandler.Confirm)
	r.Register(http.MethodPost, "/confirm-email", authHandler.ConfirmEmail)
	r.Register(http.MethodPost, "/confirm-email-resend", authHandler.ResendConfirmation)
	r.Register(http.MethodPost, "/login", authHandler.Login)
	r.Register(http.MethodPost, "/forgot-password", authHandler.ForgotPassword)
	r.Register(http.MethodPost, "/confirm-forgot-password", authHandler.ConfirmForgotPassword)
	r.Register(http.MethodGet, "/user", authHandler.GetUser)
	r.Register(http.MethodPatch, "/user", authHandler.UpdateUser)
	r.Register(http.MethodDelete, "/user", authHandler.DeleteUser)
	r.Register(http.MethodPost, "/contact-us", contactHandler.ContactUs)
	r.Register(http.MethodPost, "/create-paypal-order", paymentHandler.CreateOrder)
	r.Register(http.MethodPost, "/create-paypal-subscription", paymentHandler.CreateSubscription)

	lambda.Start(r.Handle)
}
