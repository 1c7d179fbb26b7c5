package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"minicms/middleware"
	"minicms/services"

	"github.com/gin-gonic/gin"
)

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage hides storage details behind a generic message.
func clientMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "Internal server error"
	}
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	if status == http.StatusNotFound {
		return "Not found"
	}
	return err.Error()
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", middleware.GetRequestID(c), c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": clientMessage(err, status)})
}

func renderError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", middleware.GetRequestID(c), c.Request.Method, c.Request.URL.Path, err)
	}
	renderStatus(c, status, clientMessage(err, status))
}

func renderStatus(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", page(c, gin.H{
		"title":   http.StatusText(status),
		"status":  status,
		"message": message,
	}))
}

// page adds the values every layout needs.
func page(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["authEnabled"] = middleware.AuthEnabled(c)
	data["isAdmin"] = middleware.IsAdmin(c)
	return data
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseIDList keeps the numeric entries of a comma separated list such as "1, 2,x".
func parseIDList(value string) []uint {
	var ids []uint
	for _, part := range strings.Split(value, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}
