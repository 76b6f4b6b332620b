package auth

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/question-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// Context keys set by the middlewares in this package.
const (
	UserIDKey   = "user_id"
	UserNameKey = "user_name"
)

const (
	devUserHeader = "X-User-ID"
	devUserID     = "local-dev"
)

// Middleware rejects requests without a valid bearer token and stores the
// caller's identity on the gin context.
func Middleware(parser TokenParser, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var identity *Identity
			identity, err = parser.ParseToken(token)
			if err == nil {
				c.Set(UserIDKey, identity.UserID)
				c.Set(UserNameKey, identity.Name)
				c.Next()
				return
			}
		}

		logger.Warn("Rejected request", "path", c.Request.URL.Path, "error", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": "User not authenticated",
			"details": err.Error(),
		})
	}
}

// DevMiddleware trusts the X-User-ID header. Only for running without an
// identity provider.
func DevMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(devUserHeader))
		if userID == "" {
			userID = devUserID
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
