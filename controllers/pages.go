package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/adarshh12/grocery-inventory/logger"
	"github.com/adarshh12/grocery-inventory/middleware"
	"github.com/gin-gonic/gin"
)

const flashCookieName = "flash"

// Flash is a one-time notification shown on the next rendered page
type Flash struct {
	Kind    string
	Message string
}

// setFlash stores a notification for the page the client is redirected to
func setFlash(c *gin.Context, kind, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, kind+"|"+message, 60, "/", "", middleware.SecureCookies(), true)
}

// popFlash returns and clears the pending notification, if any
func popFlash(c *gin.Context) *Flash {
	value, err := c.Cookie(flashCookieName)
	if err != nil || value == "" {
		return nil
	}
	c.SetCookie(flashCookieName, "", -1, "/", "", middleware.SecureCookies(), true)

	kind, message, found := strings.Cut(value, "|")
	if !found {
		return nil
	}
	return &Flash{Kind: kind, Message: message}
}

// render writes page with the current user and pending flash filled in
func render(c *gin.Context, status int, page string, data gin.H) {
	if user, err := middleware.GetCurrentUser(c); err == nil {
		data["User"] = user
	}
	if _, set := data["Flash"]; !set {
		data["Flash"] = popFlash(c)
	}
	c.HTML(status, page, data)
}

func notFound(c *gin.Context, message string) {
	middleware.AbortWithPage(c, http.StatusNotFound, "Not found", message)
}

// serverError logs err and shows a generic error page
func serverError(c *gin.Context, msg string, err error) {
	logger.Error(c, msg, err)
	middleware.AbortWithPage(c, http.StatusInternalServerError, "Server error", "Something went wrong. Please try again.")
}

// NotFound handles unknown routes
func NotFound(c *gin.Context) {
	notFound(c, "The page you requested does not exist.")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
