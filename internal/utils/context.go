package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a type used for context keys to avoid conflicts with other packages' context keys.
type contextKey struct {
	name string
}

// Returns string representation of the context key.
func (c *contextKey) String() string {
	return c.name
}

// ClaimsKey is the context key used for storing JWT claims in a request context.
// It ensures that the key is unique to avoid conflicts with other context keys.
var ClaimsKey = &contextKey{"claims"}
var TraceIdKey = &contextKey{"traceId"}

// GetClaims returns the JWT claims the auth gate attached to the request, or
// false if the gate never ran. Handlers read identity exclusively from here,
// never from client-supplied fields.
func GetClaims(c *gin.Context) (jwt.MapClaims, bool) {
	value, exists := c.Get(ClaimsKey.String())
	if !exists {
		return nil, false
	}

	claims, ok := value.(jwt.MapClaims)
	return claims, ok
}
