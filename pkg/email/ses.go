package email

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// API is the slice of the SES client the notification operation uses.
type API interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

var _ API = (*ses.Client)(nil)

func NewClient(cfg aws.Config) *ses.Client {
	return ses.NewFromConfig(cfg)
}
