package types

import "github.com/golang-jwt/jwt/v4"

// Claims is the session token payload. Subject holds the user id; the jti is
// the redis session key, so deleting it revokes the token before expiry.
type Claims struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}
