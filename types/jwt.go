package types

import "github.com/golang-jwt/jwt/v5"

// AccessClaims represents the access token claims: identity plus role,
// so handlers can authorize without a user lookup on every request.
type AccessClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims represents the refresh token claims. Identity only: the
// role is re-resolved from the database when the token is redeemed.
type RefreshClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}
