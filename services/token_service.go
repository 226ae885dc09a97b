package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"clinic-server/config"
	"clinic-server/models"
	"clinic-server/types"
)

// TokenService mints and verifies the two signed tokens: a short-lived
// access token carrying {id, role} and a long-lived refresh token carrying
// {id} only. The two are signed with distinct secrets.
type TokenService struct{}

// NewTokenService creates a new token service
func NewTokenService() *TokenService {
	return &TokenService{}
}

// TokenPair represents a pair of access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// GenerateTokenPair generates both access and refresh tokens for a user
func (ts *TokenService) GenerateTokenPair(user *models.User) (*TokenPair, error) {
	accessToken, expiresIn, err := ts.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := ts.generateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		TokenType:    "Bearer",
	}, nil
}

// GenerateAccessToken generates a short-lived access token
func (ts *TokenService) GenerateAccessToken(user *models.User) (string, int64, error) {
	expiry := time.Duration(config.AppConfig.JWT.AccessExpiryMin) * time.Minute

	claims := &types.AccessClaims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "clinic-server",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(config.AppConfig.JWT.AccessSecret))
	if err != nil {
		return "", 0, err
	}

	return tokenString, int64(expiry.Seconds()), nil
}

// generateRefreshToken generates a long-lived refresh token
func (ts *TokenService) generateRefreshToken(userID uint) (string, error) {
	expiry := time.Duration(config.AppConfig.JWT.RefreshExpiryHours) * time.Hour

	claims := &types.RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "clinic-server",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWT.RefreshSecret))
}

// ValidateAccessToken validates an access token and returns its claims
func (ts *TokenService) ValidateAccessToken(tokenString string) (*types.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &types.AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWT.AccessSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*types.AccessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// ValidateRefreshToken validates a refresh token and returns the user ID
func (ts *TokenService) ValidateRefreshToken(tokenString string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &types.RefreshClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWT.RefreshSecret), nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*types.RefreshClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token claims")
	}

	return claims.UserID, nil
}
