package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/foodgram/backend/internal/infrastructure/auth"
	"github.com/foodgram/backend/internal/infrastructure/logger"
	"github.com/foodgram/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTUserIDKey  = "jwt_user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

var errMissingToken = errors.New("missing authorization header")

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// TokenBlacklist is optional; revoked tokens are rejected when set
	TokenBlacklist auth.TokenBlacklist
	Logger         *zap.Logger
}

// RequireAuth rejects requests without a valid access token. API routes
// use OptionalAuth plus RequireUser instead; RequireAuth guards endpoints
// mounted outside the API group.
func RequireAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := cfg.authenticate(c)
		if err != nil {
			cfg.reject(c, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through but still rejects a token
// that is present and invalid, so a stale client sees 401 instead of
// silently becoming anonymous.
func OptionalAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := cfg.authenticate(c)
		if errors.Is(err, errMissingToken) {
			c.Next()
			return
		}
		if err != nil {
			cfg.reject(c, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// RequireUser rejects requests that an earlier OptionalAuth left anonymous
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithHelp(
				dto.ErrCodeUnauthorized, "Authentication credentials were not provided", GetRequestID(c),
				"send an Authorization: Bearer <token> header"))
			return
		}
		c.Next()
	}
}

func (cfg JWTMiddlewareConfig) authenticate(c *gin.Context) (*auth.Claims, error) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" {
		return nil, errMissingToken
	}
	token, ok := strings.CutPrefix(header, BearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return nil, auth.ErrInvalidToken
	}

	claims, err := cfg.JWTService.ValidateAccessToken(strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}

	if cfg.TokenBlacklist == nil {
		return claims, nil
	}

	// Blacklist lookups fail open.
	ctx := c.Request.Context()
	if claims.ID != "" {
		revoked, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			cfg.log().Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
		} else if revoked {
			return nil, auth.ErrTokenBlacklisted
		}
	}
	invalidated, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		cfg.log().Error("Failed to check user token invalidation", zap.String("user_id", claims.UserID), zap.Error(err))
	} else if invalidated {
		return nil, auth.ErrTokenBlacklisted
	}
	return claims, nil
}

func (cfg JWTMiddlewareConfig) log() *zap.Logger {
	if cfg.Logger == nil {
		return zap.NewNop()
	}
	return cfg.Logger
}

func (cfg JWTMiddlewareConfig) reject(c *gin.Context, err error) {
	cfg.log().Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path))

	code, message := dto.ErrCodeUnauthorized, "Authentication credentials were not provided"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, errMissingToken):
	default:
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTUserIDKey, claims.UserID)

	ctx := c.Request.Context()
	ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID)
	c.Request = c.Request.WithContext(ctx)
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// CurrentUserID returns the authenticated user, or uuid.Nil for anonymous
// requests
func CurrentUserID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(GetJWTUserID(c))
	if err != nil {
		return uuid.Nil
	}
	return id
}
