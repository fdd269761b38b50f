package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCognito returns the configured error (or success output) and counts
// calls per operation.
type fakeCognito struct {
	err   error
	auth  *types.AuthenticationResultType
	attrs []types.AttributeType
	calls map[string]int
}

func newFakeCognito(err error) *fakeCognito {
	return &fakeCognito{err: err, calls: make(map[string]int)}
}

func (f *fakeCognito) SignUp(ctx context.Context, params *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error) {
	f.calls["SignUp"]++
	return &cip.SignUpOutput{}, f.err
}

func (f *fakeCognito) AdminConfirmSignUp(ctx context.Context, params *cip.AdminConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.AdminConfirmSignUpOutput, error) {
	f.calls["AdminConfirmSignUp"]++
	return &cip.AdminConfirmSignUpOutput{}, f.err
}

func (f *fakeCognito) VerifyUserAttribute(ctx context.Context, params *cip.VerifyUserAttributeInput, optFns ...func(*cip.Options)) (*cip.VerifyUserAttributeOutput, error) {
	f.calls["VerifyUserAttribute"]++
	return &cip.VerifyUserAttributeOutput{}, f.err
}

func (f *fakeCognito) GetUserAttributeVerificationCode(ctx context.Context, params *cip.GetUserAttributeVerificationCodeInput, optFns ...func(*cip.Options)) (*cip.GetUserAttributeVerificationCodeOutput, error) {
	f.calls["GetUserAttributeVerificationCode"]++
	return &cip.GetUserAttributeVerificationCodeOutput{}, f.err
}

func (f *fakeCognito) InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error) {
	f.calls["InitiateAuth"]++
	if f.err != nil {
		return nil, f.err
	}
	return &cip.InitiateAuthOutput{AuthenticationResult: f.auth}, nil
}

func (f *fakeCognito) ForgotPassword(ctx context.Context, params *cip.ForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ForgotPasswordOutput, error) {
	f.calls["ForgotPassword"]++
	return &cip.ForgotPasswordOutput{}, f.err
}

func (f *fakeCognito) ConfirmForgotPassword(ctx context.Context, params *cip.ConfirmForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ConfirmForgotPasswordOutput, error) {
	f.calls["ConfirmForgotPassword"]++
	return &cip.ConfirmForgotPasswordOutput{}, f.err
}

func (f *fakeCognito) AdminGetUser(ctx context.Context, params *cip.AdminGetUserInput, optFns ...func(*cip.Options)) (*cip.AdminGetUserOutput, error) {
	f.calls["AdminGetUser"]++
	if f.err != nil {
		return nil, f.err
	}
	return &cip.AdminGetUserOutput{UserAttributes: f.attrs}, nil
}

func (f *fakeCognito) AdminUpdateUserAttributes(ctx context.Context, params *cip.AdminUpdateUserAttributesInput, optFns ...func(*cip.Options)) (*cip.AdminUpdateUserAttributesOutput, error) {
	f.calls["AdminUpdateUserAttributes"]++
	return &cip.AdminUpdateUserAttributesOutput{}, f.err
}

func (f *fakeCognito) AdminDeleteUser(ctx context.Context, params *cip.AdminDeleteUserInput, optFns ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error) {
	f.calls["AdminDeleteUser"]++
	return &cip.AdminDeleteUserOutput{}, f.err
}

func newTestAuthService(client *fakeCognito) *AuthService {
	return NewAuthService(client, "pool-1", "client-1", zap.NewNop())
}

func TestSignUpUsernameExists(t *testing.T) {
	fake := newFakeCognito(&types.UsernameExistsException{Message: aws.String("exists")})
	svc := newTestAuthService(fake)

	aerr := svc.SignUp(context.Background(), "a@b.c", "pw", "Ada", "Lovelace")
	require.NotNil(t, aerr)
	assert.Equal(t, http.StatusConflict, aerr.Status)
	assert.Equal(t, "UserAlreadyExists", aerr.Kind)
}

func TestSignUpInvalidPasswordForwardsProviderMessage(t *testing.T) {
	fake := newFakeCognito(&types.InvalidPasswordException{Message: aws.String("Password did not conform with policy")})
	svc := newTestAuthService(fake)

	aerr := svc.SignUp(context.Background(), "a@b.c", "pw", "Ada", "Lovelace")
	require.NotNil(t, aerr)
	assert.Equal(t, http.StatusBadRequest, aerr.Status)
	assert.Equal(t, "InvalidPassword", aerr.Kind)
	assert.Equal(t, "Password did not conform with policy", aerr.Message)
}

func TestSignUpUnmappedErrorIsInternal(t *testing.T) {
	fake := newFakeCognito(&types.InternalErrorException{Message: aws.String("boom")})
	svc := newTestAuthService(fake)

	aerr := svc.SignUp(context.Background(), "a@b.c", "pw", "Ada", "Lovelace")
	require.NotNil(t, aerr)
	assert.Equal(t, http.StatusInternalServerError, aerr.Status)
	assert.Equal(t, "InternalError", aerr.Kind)
	// The provider's message must not leak.
	assert.NotContains(t, aerr.Message, "boom")
}

// Login maps NotAuthorized to 401, confirm maps it to 403. The asymmetry is
// deliberate: bad credentials versus missing permission.
func TestNotAuthorizedStatusDiffersByOperation(t *testing.T) {
	fake := newFakeCognito(&types.NotAuthorizedException{Message: aws.String("no")})
	svc := newTestAuthService(fake)

	_, loginErr := svc.Login(context.Background(), "a@b.c", "pw")
	require.NotNil(t, loginErr)
	assert.Equal(t, http.StatusUnauthorized, loginErr.Status)
	assert.Equal(t, "NotAuthorized", loginErr.Kind)

	confirmErr := svc.ConfirmUser(context.Background(), "a@b.c")
	require.NotNil(t, confirmErr)
	assert.Equal(t, http.StatusForbidden, confirmErr.Status)
	assert.Equal(t, "NotAuthorized", confirmErr.Kind)
}

func TestLoginDecodesSubjectWithoutVerification(t *testing.T) {
	idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-123"}).
		SignedString([]byte("a-key-the-service-never-sees"))
	require.NoError(t, err)

	fake := newFakeCognito(nil)
	fake.auth = &types.AuthenticationResultType{
		IdToken:      aws.String(idToken),
		AccessToken:  aws.String("access"),
		RefreshToken: aws.String("refresh"),
	}
	svc := newTestAuthService(fake)

	result, aerr := svc.Login(context.Background(), "a@b.c", "pw")
	require.Nil(t, aerr)
	assert.Equal(t, "user-123", result.UserID)
	assert.Equal(t, idToken, result.IDToken)
	assert.Equal(t, "access", result.AccessToken)
	assert.Equal(t, "refresh", result.RefreshToken)
}

func TestLoginUserNotFound(t *testing.T) {
	fake := newFakeCognito(&types.UserNotFoundException{Message: aws.String("absent")})
	svc := newTestAuthService(fake)

	_, aerr := svc.Login(context.Background(), "a@b.c", "pw")
	require.NotNil(t, aerr)
	assert.Equal(t, http.StatusNotFound, aerr.Status)
	assert.Equal(t, "UserNotFound", aerr.Kind)
}

func TestConfirmEmailErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"code mismatch", &types.CodeMismatchException{}, http.StatusBadRequest, "CodeMismatch"},
		{"expired code", &types.ExpiredCodeException{}, http.StatusBadRequest, "ExpiredCode"},
		{"not authorized", &types.NotAuthorizedException{}, http.StatusForbidden, "NotAuthorized"},
		{"user not found", &types.UserNotFoundException{}, http.StatusNotFound, "UserNotFound"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestAuthService(newFakeCognito(tc.err))
			aerr := svc.ConfirmEmail(context.Background(), "token", "123456")
			require.NotNil(t, aerr)
			assert.Equal(t, tc.wantStatus, aerr.Status)
			assert.Equal(t, tc.wantKind, aerr.Kind)
		})
	}
}

func TestResendConfirmationLimitExceeded(t *testing.T) {
	svc := newTestAuthService(newFakeCognito(&types.LimitExceededException{}))
	aerr := svc.ResendConfirmation(context.Background(), "token")
	require.NotNil(t, aerr)
	assert.Equal(t, http.StatusTooManyRequests, aerr.Status)
	assert.Equal(t, "LimitExceeded", aerr.Kind)
}

func TestForgotPasswordErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"user not found", &types.UserNotFoundException{}, http.StatusNotFound, "UserNotFound"},
		{"limit exceeded", &types.LimitExceededException{}, http.StatusTooManyRequests, "LimitExceeded"},
		{"not authorized", &types.NotAuthorizedException{Message: aws.String("reset blocked")}, http.StatusForbidden, "NotAuthorized"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestAuthService(newFakeCognito(tc.err))
			aerr := svc.ForgotPassword(context.Background(), "a@b.c")
			require.NotNil(t, aerr)
			assert.Equal(t, tc.wantStatus, aerr.Status)
			assert.Equal(t, tc.wantKind, aerr.Kind)
		})
	}
}

func TestConfirmForgotPasswordInvalidPasswordMessage(t *testing.T) {
	svc := newTestAuthService(newFakeCognito(&types.InvalidPasswordException{Message: aws.String("too short")}))
	aerr := svc.ConfirmForgotPassword(context.Background(), "a@b.c", "123456", "pw")
	require.NotNil(t, aerr)
	assert.Equal(t, http.StatusBadRequest, aerr.Status)
	assert.Equal(t, "InvalidPassword", aerr.Kind)
	assert.Contains(t, aerr.Message, "too short")
}

func TestGetUserFlattensAttributes(t *testing.T) {
	fake := newFakeCognito(nil)
	fake.attrs = []types.AttributeType{
		{Name: aws.String("email"), Value: aws.String("a@b.c")},
		{Name: aws.String("custom:firstName"), Value: aws.String("Ada")},
	}
	svc := newTestAuthService(fake)

	attributes, aerr := svc.GetUser(context.Background(), "a@b.c")
	require.Nil(t, aerr)
	assert.Equal(t, map[string]string{
		"email":            "a@b.c",
		"custom:firstName": "Ada",
	}, attributes)
}

func TestUpdateUserInvalidParameterForwardsMessage(t *testing.T) {
	svc := newTestAuthService(newFakeCognito(&types.InvalidParameterException{Message: aws.String("bad attribute")}))
	aerr := svc.UpdateUser(context.Background(), "a@b.c", map[string]string{"custom:firstName": "Ada"})
	require.NotNil(t, aerr)
	assert.Equal(t, http.StatusBadRequest, aerr.Status)
	assert.Equal(t, "InvalidParameter", aerr.Kind)
	assert.Contains(t, aerr.Message, "bad attribute")
}

func TestDeleteUserNotAuthorized(t *testing.T) {
	svc := newTestAuthService(newFakeCognito(&types.NotAuthorizedException{}))
	aerr := svc.DeleteUser(context.Background(), "a@b.c")
	require.NotNil(t, aerr)
	assert.Equal(t, http.StatusForbidden, aerr.Status)
	assert.Equal(t, "NotAuthorized", aerr.Kind)
}
