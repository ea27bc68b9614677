package managers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"campus-forum/internal/schemas"
	"campus-forum/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTMgr handles session token generation and validation and provides the
// auth gate middleware that protects routes.
type JWTMgr interface {
	GenerateJWT(userId, username string, role schemas.Role) (string, error)
	ValidateJWT(tokenString string) (jwt.Claims, error)
	JWTMiddleware() gin.HandlerFunc
}

// JWTManager signs and verifies tokens with a server-held HMAC secret.
// Tokens are stateless: once issued they stay valid until their expiry, there
// is no server-side revocation list. That is an accepted limitation of this
// design, not a bug.
type JWTManager struct {
	secret []byte
}

const tokenLifetime = 24 * time.Hour

var errInvalidToken = errors.New("invalid token")

// NewJWTManager creates a new JWTManager with the given secret.
func NewJWTManager(secret []byte) JWTMgr {
	return &JWTManager{secret: secret}
}

// NewJWTManagerFromEnv creates a new JWTManager with the secret from the
// JWT_SECRET environment variable.
func NewJWTManagerFromEnv() (JWTMgr, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}

	return NewJWTManager([]byte(secret)), nil
}

// GenerateJWT generates a signed token embedding the user's id, username and
// role, expiring 24 hours after issuance.
func (jm *JWTManager) GenerateJWT(userId, username string, role schemas.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":      "campus-forum",
		"iat":      now.Unix(),
		"exp":      now.Add(tokenLifetime).Unix(),
		"sub":      userId,
		"username": username,
		"role":     string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jm.secret)
}

// ValidateJWT validates the given token and returns the claims if valid.
// Malformed tokens, signature mismatches and expired tokens are all rejected.
func (jm *JWTManager) ValidateJWT(tokenString string) (jwt.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}

		return jm.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	return token.Claims, nil
}

// JWTMiddleware is the auth gate. CORS preflight requests pass through
// untouched; every other request needs a valid bearer token, whose claims are
// attached to the request context for the handlers.
func (jm *JWTManager) JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("missing or malformed authorization header"))
			c.Abort()
			return
		}

		claims, err := jm.ValidateJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		mapClaims, ok := claims.(jwt.MapClaims)
		if !ok {
			utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, errInvalidToken)
			c.Abort()
			return
		}

		c.Set(utils.ClaimsKey.String(), mapClaims)
		c.Next()
	}
}
