package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fastcart-api/internal/transport/http/response"
)

const ContextUserIDKey = "user_id"

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Authenticate(token string) (string, error)
}

// AuthJWT rejects requests without a valid bearer token: 401 when the
// credential is missing, 403 when it does not verify.
func AuthJWT(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.AbortError(c, http.StatusUnauthorized, "Authorization header missing")
			return
		}
		authenticate(c, verifier, authHeader)
	}
}

// OptionalAuthJWT lets anonymous requests through but still verifies a
// token when one is presented.
func OptionalAuthJWT(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.Next()
			return
		}
		authenticate(c, verifier, authHeader)
	}
}

func authenticate(c *gin.Context, verifier TokenVerifier, authHeader string) {
	parts := strings.Fields(authHeader)
	if len(parts) < 2 {
		response.AbortError(c, http.StatusUnauthorized, "Token missing")
		return
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		response.AbortError(c, http.StatusUnauthorized, "Invalid authorization scheme")
		return
	}

	userID, err := verifier.Authenticate(parts[1])
	if err != nil {
		response.AbortError(c, http.StatusForbidden, "Invalid or expired token")
		return
	}

	c.Set(ContextUserIDKey, userID)
	c.Next()
}

// UserID returns the authenticated user id, if any.
func UserID(c *gin.Context) (string, bool) {
	raw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	userID, ok := raw.(string)
	return userID, ok && userID != ""
}
