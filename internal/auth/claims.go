package auth

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims carried by access tokens.
type Claims struct {
	jwt.RegisteredClaims
	ScreenName string `json:"screen_name"`
	Scope      string `json:"scope"`
}
