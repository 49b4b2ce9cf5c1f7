package models

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a bearer token checked by route authorization.
//
// It embeds [jwt.RegisteredClaims] for standard claim access (subject,
// expiry, issuer) and adds the list of granted claims.
type Claims struct {
	jwt.RegisteredClaims

	// Claims are the permissions granted to the bearer.
	Claims []string `json:"claims"`
}

// Missing returns the entries of required that c does not grant.
func (c *Claims) Missing(required []string) []string {
	var missing []string
	for _, r := range required {
		if !slices.Contains(c.Claims, r) {
			missing = append(missing, r)
		}
	}
	return missing
}
