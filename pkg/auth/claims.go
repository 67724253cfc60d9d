package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	WalletAddress string
	JTI           string
}

// AccessTokenClaims represents the typed JWT issued to wallet sessions.
type AccessTokenClaims struct {
	WalletAddress string `json:"wallet"`
	jwt.RegisteredClaims
}
