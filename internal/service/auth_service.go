package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"go.uber.org/zap"

	"github.com/rcw/client-backend/internal/apperr"
	"github.com/rcw/client-backend/internal/models"
	"github.com/rcw/client-backend/pkg/cognito"
	jwtpkg "github.com/rcw/client-backend/pkg/jwt"
)

// AuthService wraps the identity provider. Each operation issues exactly one
// provider call and owns its own error-kind to status mapping: the provider
// raises different error sets per operation and some status choices
// intentionally differ between them, so the mappings are not centralized.
type AuthService struct {
	client     cognito.API
	userPoolID string
	clientID   string
	logger     *zap.Logger
}

func NewAuthService(client cognito.API, userPoolID, clientID string, logger *zap.Logger) *AuthService {
	return &AuthService{
		client:     client,
		userPoolID: userPoolID,
		clientID:   clientID,
		logger:     logger,
	}
}

func (s *AuthService) SignUp(ctx context.Context, email, password, firstName, lastName string) *apperr.Error {
	_, err := s.client.SignUp(ctx, &cip.SignUpInput{
		ClientId: aws.String(s.clientID),
		Username: aws.String(email),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("custom:firstName"), Value: aws.String(firstName)},
			{Name: aws.String("custom:lastName"), Value: aws.String(lastName)},
		},
	})
	if err == nil {
		return nil
	}

	var (
		usernameExists   *types.UsernameExistsException
		aliasExists      *types.AliasExistsException
		invalidPassword  *types.InvalidPasswordException
		invalidParameter *types.InvalidParameterException
		tooManyRequests  *types.TooManyRequestsException
		codeDelivery     *types.CodeDeliveryFailureException
		lambdaValidation *types.UserLambdaValidationException
	)
	switch {
	case errors.As(err, &usernameExists):
		return apperr.New(http.StatusConflict, "UserAlreadyExists", "User already exists")
	case errors.As(err, &aliasExists):
		return apperr.New(http.StatusConflict, "AliasExists", "A user with this email or phone number already exists.")
	case errors.As(err, &invalidPassword):
		return apperr.New(http.StatusBadRequest, "InvalidPassword", invalidPassword.ErrorMessage())
	case errors.As(err, &invalidParameter):
		return apperr.New(http.StatusBadRequest, "InvalidParameter", invalidParameter.ErrorMessage())
	case errors.As(err, &tooManyRequests):
		return apperr.New(http.StatusTooManyRequests, "TooManyRequests", "Too many requests. Please try again later.")
	case errors.As(err, &codeDelivery):
		return apperr.New(http.StatusInternalServerError, "CodeDeliveryFailure", "Failed to send confirmation code. Please try again.")
	case errors.As(err, &lambdaValidation):
		return apperr.New(http.StatusBadRequest, "LambdaValidationFailed", lambdaValidation.ErrorMessage())
	}
	s.logger.Error("sign_up failed", zap.Error(err))
	return apperr.New(http.StatusInternalServerError, apperr.KindInternal, "An internal server error occurred")
}

func (s *AuthService) ConfirmUser(ctx context.Context, email string) *apperr.Error {
	_, err := s.client.AdminConfirmSignUp(ctx, &cip.AdminConfirmSignUpInput{
		UserPoolId: aws.String(s.userPoolID),
		Username:   aws.String(email),
	})
	if err == nil {
		return nil
	}

	var (
		userNotFound  *types.UserNotFoundException
		notAuthorized *types.NotAuthorizedException
	)
	switch {
	case errors.As(err, &userNotFound):
		return apperr.New(http.StatusNotFound, "UserNotFound", "We could not find a user with this email address.")
	case errors.As(err, &notAuthorized):
		// 403 here, not 401: confirming is a permission question, not a
		// credentials question.
		return apperr.New(http.StatusForbidden, "NotAuthorized", "You do not have the necessary permissions to confirm this user.")
	}
	s.logger.Error("confirm_user failed", zap.Error(err))
	return apperr.New(http.StatusInternalServerError, apperr.KindInternal, "Something went wrong while confirming the user. Please try again later.")
}

func (s *AuthService) ConfirmEmail(ctx context.Context, accessToken, code string) *apperr.Error {
	_, err := s.client.VerifyUserAttribute(ctx, &cip.VerifyUserAttributeInput{
		AccessToken:   aws.String(accessToken),
		AttributeName: aws.String("email"),
		Code:          aws.String(code),
	})
	if err == nil {
		return nil
	}

	var (
		codeMismatch  *types.CodeMismatchException
		expiredCode   *types.ExpiredCodeException
		notAuthorized *types.NotAuthorizedException
		userNotFound  *types.UserNotFoundException
	)
	switch {
	case errors.As(err, &codeMismatch):
		return apperr.New(http.StatusBadRequest, "CodeMismatch", "The confirmation code you entered is incorrect. Please check and try again.")
	case errors.As(err, &expiredCode):
		return apperr.New(http.StatusBadRequest, "ExpiredCode", "The confirmation code has expired. Please request a new code and try again.")
	case errors.As(err, &notAuthorized):
		return apperr.New(http.StatusForbidden, "NotAuthorized", "You are not authorized to perform this action. Please ensure you are logged in and try again.")
	case errors.As(err, &userNotFound):
		return apperr.New(http.StatusNotFound, "UserNotFound", "We couldn't find a user associated with this request. Please check your details and try again.")
	}
	s.logger.Error("confirm_email failed", zap.Error(err))
	return apperr.New(http.StatusInternalServerError, apperr.KindInternal, "An unexpected error occurred while confirming your email. Please try again later.")
}

func (s *AuthService) ResendConfirmation(ctx context.Context, accessToken string) *apperr.Error {
	_, err := s.client.GetUserAttributeVerificationCode(ctx, &cip.GetUserAttributeVerificationCodeInput{
		AccessToken:   aws.String(accessToken),
		AttributeName: aws.String("email"),
	})
	if err == nil {
		return nil
	}

	var (
		limitExceeded *types.LimitExceededException
		notAuthorized *types.NotAuthorizedException
		userNotFound  *types.UserNotFoundException
	)
	switch {
	case errors.As(err, &limitExceeded):
		return apperr.New(http.StatusTooManyRequests, "LimitExceeded", "You have exceeded the number of allowed attempts. Please wait before trying again.")
	case errors.As(err, &notAuthorized):
		return apperr.New(http.StatusForbidden, "NotAuthorized", "You are not authorized to request a new verification code. Please log in and try again.")
	case errors.As(err, &userNotFound):
		return apperr.New(http.StatusNotFound, "UserNotFound", "We could not find a user associated with this request. Please check your details and try again.")
	}
	s.logger.Error("confirm_email_resend failed", zap.Error(err))
	return apperr.New(http.StatusInternalServerError, apperr.KindInternal, "An unexpected error occurred while trying to resend the verification code. Please try again later.")
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResult, *apperr.Error) {
	out, err := s.client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		ClientId: aws.String(s.clientID),
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		var (
			notAuthorized *types.NotAuthorizedException
			userNotFound  *types.UserNotFoundException
		)
		switch {
		case errors.As(err, &notAuthorized):
			// 401 here, unlike the confirm operations: bad credentials.
			return nil, apperr.New(http.StatusUnauthorized, "NotAuthorized", "The email or password provided is incorrect. Please try again.")
		case errors.As(err, &userNotFound):
			return nil, apperr.New(http.StatusNotFound, "UserNotFound", "We couldn't find a user with this email address. Please check the email entered or sign up if you don't have an account.")
		}
		s.logger.Error("log_in failed", zap.Error(err))
		return nil, apperr.New(http.StatusInternalServerError, apperr.KindInternal, "An unexpected error occurred while attempting to log in. Please try again later.")
	}

	if out.AuthenticationResult == nil {
		s.logger.Error("log_in succeeded without an authentication result")
		return nil, apperr.New(http.StatusInternalServerError, apperr.KindIncompleteResponse, "Login succeeded, but the response is incomplete.")
	}

	idToken := aws.ToString(out.AuthenticationResult.IdToken)

	// The ID token was just obtained from the provider over an authenticated
	// channel; the subject is decoded without signature verification and used
	// for informational purposes only.
	userID, err := jwtpkg.SubjectClaim(idToken)
	if err != nil {
		s.logger.Error("failed to decode id token", zap.Error(err))
		return nil, apperr.New(http.StatusInternalServerError, apperr.KindInternal, "An unexpected error occurred while attempting to log in. Please try again later.")
	}

	return &models.LoginResult{
		UserID:       userID,
		IDToken:      idToken,
		AccessToken:  aws.ToString(out.AuthenticationResult.AccessToken),
		RefreshToken: aws.ToString(out.AuthenticationResult.RefreshToken),
	}, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) *apperr.Error {
	_, err := s.client.ForgotPassword(ctx, &cip.ForgotPasswordInput{
		ClientId: aws.String(s.clientID),
		Username: aws.String(email),
	})
	if err == nil {
		return nil
	}

	var (
		userNotFound  *types.UserNotFoundException
		limitExceeded *types.LimitExceededException
		notAuthorized *types.NotAuthorizedException
	)
	switch {
	case errors.As(err, &userNotFound):
		return apperr.New(http.StatusNotFound, "UserNotFound", "We could not find an account associated with this email address.")
	case errors.As(err, &limitExceeded):
		return apperr.New(http.StatusTooManyRequests, "LimitExceeded", "You have exceeded the number of allowed attempts. Please wait a while before trying again.")
	case errors.As(err, &notAuthorized):
		return apperr.New(http.StatusForbidden, "NotAuthorized", notAuthorized.ErrorMessage())
	}
	s.logger.Error("forgot_password failed", zap.Error(err))
	return apperr.New(http.StatusInternalServerError, apperr.KindInternal, "An unexpected error occurred while initiating the password reset. Please try again later.")
}

func (s *AuthService) ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) *apperr.Error {
	_, err := s.client.ConfirmForgotPassword(ctx, &cip.ConfirmForgotPasswordInput{
		ClientId:         aws.String(s.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
		Password:         aws.String(newPassword),
	})
	if err == nil {
		return nil
	}

	var (
		codeMismatch    *types.CodeMismatchException
		expiredCode     *types.ExpiredCodeException
		invalidPassword *types.InvalidPasswordException
		userNotFound    *types.UserNotFoundException
		limitExceeded   *types.LimitExceededException
	)
	switch {
	case errors.As(err, &codeMismatch):
		return apperr.New(http.StatusBadRequest, "CodeMismatch", "The confirmation code you entered is incorrect. Please check the code and try again.")
	case errors.As(err, &expiredCode):
		return apperr.New(http.StatusBadRequest, "ExpiredCode", "The confirmation code has expired. Please request a new code and try again.")
	case errors.As(err, &invalidPassword):
		return apperr.New(http.StatusBadRequest, "InvalidPassword",
			fmt.Sprintf("Your new password is invalid: %s. Please ensure it meets the required criteria.", invalidPassword.ErrorMessage()))
	case errors.As(err, &userNotFound):
		return apperr.New(http.StatusNotFound, "UserNotFound", "We could not find an account associated with this email address. Please check your details.")
	case errors.As(err, &limitExceeded):
		return apperr.New(http.StatusTooManyRequests, "LimitExceeded", "You have made too many attempts. Please wait a while before trying again.")
	}
	s.logger.Error("confirm_forgot_password failed", zap.Error(err))
	return apperr.New(http.StatusInternalServerError, apperr.KindInternal, "An unexpected error occurred while resetting your password. Please try again later.")
}

// GetUser returns the user's provider attributes flattened into a name→value
// map. The full identity record stays in the provider; nothing is cached.
func (s *AuthService) GetUser(ctx context.Context, email string) (map[string]string, *apperr.Error) {
	out, err := s.client.AdminGetUser(ctx, &cip.AdminGetUserInput{
		UserPoolId: aws.String(s.userPoolID),
		Username:   aws.String(email),
	})
	if err != nil {
		var (
			userNotFound     *types.UserNotFoundException
			invalidParameter *types.InvalidParameterException
			tooManyRequests  *types.TooManyRequestsException
		)
		switch {
		case errors.As(err, &userNotFound):
			return nil, apperr.New(http.StatusNotFound, "UserNotFound", "The requested user could not be found. Please check the provided details and try again.")
		case errors.As(err, &invalidParameter):
			return nil, apperr.New(http.StatusBadRequest, "InvalidParameter", "The input parameters are invalid. Please verify the information and try again.")
		case errors.As(err, &tooManyRequests):
			return nil, apperr.New(http.StatusTooManyRequests, "TooManyRequests", "Too many requests have been made in a short period. Please wait a while before retrying.")
		}
		s.logger.Error("get_user failed", zap.Error(err))
		return nil, apperr.New(http.StatusInternalServerError, apperr.KindInternal, "An unexpected error occurred while retrieving the user. Please try again later.")
	}

	attributes := make(map[string]string, len(out.UserAttributes))
	for _, attr := range out.UserAttributes {
		attributes[aws.ToString(attr.Name)] = aws.ToString(attr.Value)
	}
	return attributes, nil
}

func (s *AuthService) UpdateUser(ctx context.Context, email string, updates map[string]string) *apperr.Error {
	attributes := make([]types.AttributeType, 0, len(updates))
	for name, value := range updates {
		attributes = append(attributes, types.AttributeType{
			Name:  aws.String(name),
			Value: aws.String(value),
		})
	}

	_, err := s.client.AdminUpdateUserAttributes(ctx, &cip.AdminUpdateUserAttributesInput{
		UserPoolId:     aws.String(s.userPoolID),
		Username:       aws.String(email),
		UserAttributes: attributes,
	})
	if err == nil {
		return nil
	}

	var (
		userNotFound     *types.UserNotFoundException
		invalidParameter *types.InvalidParameterException
		notAuthorized    *types.NotAuthorizedException
	)
	switch {
	case errors.As(err, &userNotFound):
		return apperr.New(http.StatusNotFound, "UserNotFound", "No user was found with the provided email address.")
	case errors.As(err, &invalidParameter):
		return apperr.New(http.StatusBadRequest, "InvalidParameter",
			fmt.Sprintf("Invalid parameter: %s. Please verify your input and try again.", invalidParameter.ErrorMessage()))
	case errors.As(err, &notAuthorized):
		return apperr.New(http.StatusForbidden, "NotAuthorized", "You are not authorized to update this user's attributes. Please check your permissions.")
	}
	s.logger.Error("update_user failed", zap.Error(err))
	return apperr.New(http.StatusInternalServerError, apperr.KindInternal, "An unexpected error occurred while updating the user attributes. Please try again later.")
}

func (s *AuthService) DeleteUser(ctx context.Context, email string) *apperr.Error {
	_, err := s.client.AdminDeleteUser(ctx, &cip.AdminDeleteUserInput{
		UserPoolId: aws.String(s.userPoolID),
		Username:   aws.String(email),
	})
	if err == nil {
		return nil
	}

	var (
		userNotFound  *types.UserNotFoundException
		notAuthorized *types.NotAuthorizedException
	)
	switch {
	case errors.As(err, &userNotFound):
		return apperr.New(http.StatusNotFound, "UserNotFound", "No user was found with the provided email address. Please check and try again.")
	case errors.As(err, &notAuthorized):
		return apperr.New(http.StatusForbidden, "NotAuthorized", "You are not authorized to delete this user. Please check your permissions.")
	}
	s.logger.Error("delete_user failed", zap.Error(err))
	return apperr.New(http.StatusInternalServerError, apperr.KindInternal, "An unexpected error occurred while attempting to delete the user. Please try again later.")
}
