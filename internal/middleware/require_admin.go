package middleware

import (
	"errors"
	"net/http"

	"campus-forum/internal/schemas"
	"campus-forum/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequireAdmin is the role gate. It must be composed after the auth gate and
// fails closed: absent claims or any role other than admin are rejected. It
// never assumes the auth gate ran, so a misordered route cannot default-allow.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := utils.GetClaims(c)
		if !ok {
			utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no identity attached to request"))
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)
		if schemas.ParseRole(role) != schemas.RoleAdmin {
			utils.WriteAndLogError(c, schemas.AdminRequired, http.StatusForbidden, errors.New("admin role required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
