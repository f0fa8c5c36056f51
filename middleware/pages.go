package middleware

import (
	"github.com/gin-gonic/gin"
)

// AbortWithPage renders the error page with status and stops the chain
func AbortWithPage(c *gin.Context, status int, title, message string) {
	user, _ := GetCurrentUser(c)
	c.HTML(status, "error.html", gin.H{
		"Title":   title,
		"Message": message,
		"User":    user,
	})
	c.Abort()
}
