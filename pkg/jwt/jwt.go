package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// SubjectClaim decodes the subject claim of a token without verifying its
// signature. The only caller is the login flow, which decodes an ID token
// obtained from the identity provider in the same call; tokens from any other
// source must not be passed here.
func SubjectClaim(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", err
	}
	return claims.GetSubject()
}
