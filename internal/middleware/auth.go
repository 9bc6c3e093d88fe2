package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fasopay/fasopay_backend/internal/core/domain"
	"github.com/fasopay/fasopay_backend/internal/utils"
)

const callerCtxKey = contextKey("caller")

// AuthMiddleware validates the Bearer token and injects the caller identity
// into the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := utils.ParseAndValidateJWT(parts[1], jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		kind := domain.OwnerClient
		if claims.Role == string(domain.OwnerAdmin) {
			kind = domain.OwnerAdmin
		}
		caller := domain.OwnerRef{Kind: kind, ID: claims.Subject}

		requestLogger := logger.With(
			slog.String("caller_id", caller.ID),
			slog.String("caller_kind", string(caller.Kind)),
		)

		ctx := context.WithValue(c.Request.Context(), callerCtxKey, caller)
		ctx = context.WithValue(ctx, loggerCtxKey, requestLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetCallerFromCtx retrieves the authenticated caller from the context.
func GetCallerFromCtx(ctx context.Context) (domain.OwnerRef, bool) {
	caller, ok := ctx.Value(callerCtxKey).(domain.OwnerRef)
	return caller, ok
}
