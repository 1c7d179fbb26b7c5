package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"minicms/middleware"
	"minicms/services"

	"github.com/gin-gonic/gin"
)

const tokenCookieMaxAge = 12 * 60 * 60

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	if !h.authService.Enabled() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	c.HTML(http.StatusOK, "login.html", page(c, gin.H{
		"title": "Log in",
		"next":  safeNext(c.Query("next")),
	}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	next := safeNext(c.PostForm("next"))

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, next, "Username and password are required")
		return
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		log.Printf("[%s] Failed admin login for %q", middleware.GetRequestID(c), req.Username)
		h.renderLogin(c, http.StatusUnauthorized, next, "Invalid username or password")
		return
	}
	if err != nil {
		renderStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, tokenCookieMaxAge, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, next)
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, next, message string) {
	c.HTML(status, "login.html", page(c, gin.H{
		"title": "Log in",
		"next":  next,
		"error": message,
	}))
}

// LoginAPI issues a token for clients that send it as a bearer header.
func (h *AuthHandler) LoginAPI(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
