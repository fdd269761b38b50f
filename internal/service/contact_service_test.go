package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSES struct {
	err   error
	calls int
	last  *ses.SendEmailInput
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.calls++
	f.last = params
	return &ses.SendEmailOutput{}, f.err
}

func TestContactSendBuildsMessage(t *testing.T) {
	fake := &fakeSES{}
	svc := NewContactService(fake, "sender@example.org", "team@example.org", zap.NewNop())

	aerr := svc.Send(context.Background(), "Ada", "ada@example.org", "hello there")
	require.Nil(t, aerr)
	require.Equal(t, 1, fake.calls)

	assert.Equal(t, "sender@example.org", aws.ToString(fake.last.Source))
	assert.Equal(t, []string{"team@example.org"}, fake.last.Destination.ToAddresses)
	assert.Equal(t, "Contact Us Form Submission", aws.ToString(fake.last.Message.Subject.Data))
	assert.Equal(t, "Name: Ada\nEmail: ada@example.org\nMessage: hello there",
		aws.ToString(fake.last.Message.Body.Text.Data))
}

func TestContactSendErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"rejected", &types.MessageRejected{}, http.StatusBadRequest, "MessageRejected"},
		{"sender not verified", &types.MailFromDomainNotVerifiedException{}, http.StatusBadRequest, "EmailNotVerified"},
		{"configuration set missing", &types.ConfigurationSetDoesNotExistException{}, http.StatusInternalServerError, "ConfigurationError"},
		{"anything else", assert.AnError, http.StatusInternalServerError, "InternalError"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewContactService(&fakeSES{err: tc.err}, "s@e.org", "r@e.org", zap.NewNop())
			aerr := svc.Send(context.Background(), "Ada", "ada@example.org", "hi")
			require.NotNil(t, aerr)
			assert.Equal(t, tc.wantStatus, aerr.Status)
			assert.Equal(t, tc.wantKind, aerr.Kind)
		})
	}
}
