package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anragu/poolpal/internal/auth"
	"github.com/anragu/poolpal/internal/models"
)

const (
	// uidKey is the gin context key for the authenticated user's uid.
	uidKey = "auth.uid"
	// emailKey is the gin context key for the authenticated user's email.
	emailKey = "auth.email"
)

// GetUID extracts the authenticated user's uid from the request context.
// Returns empty string if the request is unauthenticated.
func GetUID(c *gin.Context) string {
	uid, _ := c.Value(uidKey).(string)
	return uid
}

// GetEmail extracts the authenticated user's email from the request
// context.
func GetEmail(c *gin.Context) string {
	email, _ := c.Value(emailKey).(string)
	return email
}

// RequireAuth validates the bearer token and stores the session identity in
// the request context. Requests without a valid token are rejected.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		claims, err := jwtManager.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(uidKey, claims.UID)
		c.Set(emailKey, claims.Email)
		c.Next()
	}
}

// UserLoader is the subset of storage the verified-email gate needs.
type UserLoader interface {
	GetUserByID(ctx context.Context, uid string) (*models.User, error)
}

// RequireVerified gates the fully-authenticated route class: the session
// user must exist and have a confirmed email address. Runs after
// RequireAuth.
func RequireVerified(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.GetUserByID(c.Request.Context(), GetUID(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
			return
		}
		if !user.EmailVerified {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "email address not verified"})
			return
		}
		c.Next()
	}
}

// bearerToken pulls the token from the Authorization header, falling back
// to the token query parameter for WebSocket upgrades (browsers cannot set
// headers on those).
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.Split(header, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1], true
		}
		return "", false
	}
	if token := c.Query("token"); token != "" {
		return token, true
	}
	return "", false
}
