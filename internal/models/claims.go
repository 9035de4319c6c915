package models

import "github.com/golang-jwt/jwt/v5"

// Claims are the JWT claims issued to the admin API.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
