package types

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims
type Claims struct {
	PorterID uint   `json:"porter_id"`
	Role     string `json:"role"` // "porter" or "admin"
	jwt.RegisteredClaims
}
