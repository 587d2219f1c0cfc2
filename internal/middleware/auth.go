package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/pro-scheduler/internal/config"
	"github.com/BruksfildServices01/pro-scheduler/internal/domain/identity"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		p, code := parseBearer(authHeader, cfg.JWTSecret)
		if code != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code})
			return
		}

		setPrincipal(c, p)
		c.Next()
	}
}

// OptionalAuth attaches the principal when a valid token is sent and lets
// anonymous requests through. A malformed token is ignored.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if p, code := parseBearer(authHeader, cfg.JWTSecret); code == "" {
				setPrincipal(c, p)
			}
		}
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok || p.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// PrincipalFrom reads the caller set by the auth middlewares.
func PrincipalFrom(c *gin.Context) (identity.Principal, bool) {
	userID := c.GetString(ContextUserID)
	if userID == "" {
		return identity.Principal{}, false
	}
	return identity.Principal{UserID: userID, Role: c.GetString(ContextUserRole)}, true
}

func setPrincipal(c *gin.Context, p identity.Principal) {
	c.Set(ContextUserID, p.UserID)
	c.Set(ContextUserRole, p.Role)
}

func parseBearer(authHeader, secret string) (identity.Principal, string) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return identity.Principal{}, "invalid_authorization_header"
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return identity.Principal{}, "invalid_token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return identity.Principal{}, "invalid_token_claims"
	}

	userID, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || role == "" {
		return identity.Principal{}, "invalid_token_payload"
	}

	return identity.Principal{UserID: userID, Role: role}, ""
}
