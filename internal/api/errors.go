package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anragu/poolpal/internal/auth"
	"github.com/anragu/poolpal/internal/service"
)

// writeError maps domain sentinels to HTTP statuses. Anything unmapped is
// treated as an internal failure and logged rather than leaked.
func writeError(c *gin.Context, err error) {
	if rl, ok := service.IsRateLimited(err); ok {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":          rl.Error(),
			"days_remaining": rl.DaysRemaining,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrSelfRequest),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, auth.ErrWeakPassword):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrAlreadyFriends),
		errors.Is(err, service.ErrAlreadyRequested),
		errors.Is(err, service.ErrAlreadyPending),
		errors.Is(err, auth.ErrEmailExists):
		status = http.StatusConflict
	case errors.Is(err, service.ErrWrongCredential),
		errors.Is(err, service.ErrReauthRequired),
		errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFriends),
		errors.Is(err, service.ErrNotMember):
		status = http.StatusForbidden
	case errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.Error("request handler failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
