package utils

import (
	"errors"
	"time"

	"ofo/internal/config"
	"ofo/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer          = "ofo-api"
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

var ErrSecretNotConfigured = errors.New("JWT_SECRET not configured")

func jwtSecret() ([]byte, error) {
	secret := config.GetEnv("JWT_SECRET", "")
	if secret == "" {
		return nil, ErrSecretNotConfigured
	}
	return []byte(secret), nil
}

// ClaimsFor builds the claims issued to user.
func ClaimsFor(user *models.User) *models.UserClaims {
	return &models.UserClaims{
		UserID:       user.UserID,
		PhoneNumber:  user.PhoneNumber,
		Role:         user.Role,
		Permissions:  models.GetDefaultPermissions(user.Role),
		TokenVersion: user.TokenVersion,
	}
}

func sign(claims *models.UserClaims, ttl time.Duration, now time.Time, secret []byte) (string, error) {
	c := *claims
	c.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   claims.UserID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}

// GenerateTokens generates an access token and a refresh token for the given user claims.
// The JWT secret is expected to be set in the environment variable JWT_SECRET.
func GenerateTokens(claims *models.UserClaims) (accessToken string, refreshToken string, err error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	if accessToken, err = sign(claims, accessTokenTTL, now, secret); err != nil {
		return "", "", err
	}

	refresh := *claims
	refresh.Permissions = nil
	if refreshToken, err = sign(&refresh, refreshTokenTTL, now, secret); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// ParseToken parses and validates a JWT token string.
// It returns the token if valid, or an error if something is wrong.
func ParseToken(tokenStr string) (*jwt.Token, *models.UserClaims, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, nil, err
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, nil, errors.New("invalid token claims")
	}

	return token, claims, nil
}
