package middleware

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"minicms/services"

	"github.com/gin-gonic/gin"
)

const (
	TokenCookie    = "token"
	adminKey       = "admin"
	authEnabledKey = "auth_enabled"
)

// Session records whether admin login is configured and, when the request
// carries a valid token, who is logged in. It never rejects a request.
func Session(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(authEnabledKey, authService.Enabled())
		if authService.Enabled() {
			if tokenString := requestToken(c); tokenString != "" {
				if claims, err := authService.ValidateToken(tokenString); err == nil {
					c.Set(adminKey, claims.Username)
				}
			}
		}
		c.Next()
	}
}

// AdminRequired lets a request through only with a valid admin token, taken
// from the token cookie or an Authorization: Bearer header. Browsers are
// redirected to the login page; API clients get 401. When admin login is not
// configured every request passes.
func AdminRequired(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authService.Enabled() {
			c.Next()
			return
		}

		if IsAdmin(c) {
			c.Next()
			return
		}

		if tokenString := requestToken(c); tokenString != "" {
			claims, err := authService.ValidateToken(tokenString)
			if err == nil {
				c.Set(adminKey, claims.Username)
				c.Next()
				return
			}
			log.Printf("[%s] Token validation error: %v", GetRequestID(c), err)
		}

		if wantsHTML(c) {
			c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin login required"})
		c.Abort()
	}
}

// IsAdmin reports whether the request carries a valid admin token.
func IsAdmin(c *gin.Context) bool {
	return c.GetString(adminKey) != ""
}

func AuthEnabled(c *gin.Context) bool {
	return c.GetBool(authEnabledKey)
}

func requestToken(c *gin.Context) string {
	if tokenString := bearerToken(c); tokenString != "" {
		return tokenString
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func wantsHTML(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return false
	}
	return strings.Contains(c.GetHeader("Accept"), "text/html") || c.Request.Method == http.MethodGet
}
