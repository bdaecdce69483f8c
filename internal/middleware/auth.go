package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"inventra/internal/model"
	"inventra/internal/token"
	"inventra/pkg/response"
)

// Context keys set by the auth middleware.
const (
	CtxUsername = "username"
	CtxRole     = "userRole"
)

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies
// so the dashboard can avoid storing tokens in javascript-visible state.
func SetTokenCookies(c *gin.Context, pair token.Pair) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", pair.AccessToken, 3600*24, "/", "", secure, true)
	c.SetCookie("refresh_token", pair.RefreshToken, 3600*24*7, "/", "", secure, true)
}

// extractToken pulls the raw access token from the access_token cookie or
// the Authorization header.
func extractToken(c *gin.Context) (string, bool) {
	if tokenString, err := c.Cookie("access_token"); err == nil && tokenString != "" {
		return tokenString, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth validates the access token and stores the caller's username
// and role on the context. Any valid role passes.
func RequireAuth(tokens *token.Manager) gin.HandlerFunc {
	return requireRoles(tokens)
}

// RequireRole validates the access token and additionally checks that the
// caller's role is in the allowed list.
func RequireRole(tokens *token.Manager, allowedRoles ...model.Role) gin.HandlerFunc {
	return requireRoles(tokens, allowedRoles...)
}

func requireRoles(tokens *token.Manager, allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Err("INVALID_TOKEN", "authorization is missing or malformed"))
			return
		}

		claims, err := tokens.ParseAccess(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Err("INVALID_TOKEN", "invalid or expired token"))
			return
		}

		if len(allowedRoles) > 0 {
			allowed := false
			for _, role := range allowedRoles {
				if claims.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, response.Err("PERMISSION_DENIED", "access denied: insufficient permissions"))
				return
			}
		}

		c.Set(CtxUsername, claims.Username)
		c.Set(CtxRole, string(claims.Role))
		c.Next()
	}
}
