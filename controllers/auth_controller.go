package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/adarshh12/grocery-inventory/config"
	"github.com/adarshh12/grocery-inventory/logger"
	"github.com/adarshh12/grocery-inventory/middleware"
	"github.com/adarshh12/grocery-inventory/services"
	"github.com/adarshh12/grocery-inventory/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterForm represents the sign-up form
type RegisterForm struct {
	Username  string `form:"username" binding:"required,max=150,username"`
	Email     string `form:"email" binding:"required,email"`
	Password1 string `form:"password1" binding:"required,min=8"`
	Password2 string `form:"password2" binding:"required,eqfield=Password1"`
}

// LoginForm represents the login form
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

// ShowRegister handles GET /register/
func ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{
		"Title":  "Register",
		"Form":   RegisterForm{},
		"Errors": utils.FieldErrors{},
	})
}

// Register handles POST /register/ - creates a regular account
func Register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		renderRegister(c, http.StatusBadRequest, form, utils.BindingErrors(err))
		return
	}

	_, err := services.NewAuthService(config.GetDB()).Register(c.Request.Context(), services.RegisterInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password1,
	})
	if errors.Is(err, services.ErrUsernameTaken) {
		errs := utils.FieldErrors{}
		errs.Add("username", "A user with that username already exists.")
		renderRegister(c, http.StatusBadRequest, form, errs)
		return
	}
	if err != nil {
		serverError(c, "Failed to register user", err)
		return
	}

	logger.Info(c, "User registered", zap.String("username", form.Username))
	setFlash(c, "success", "Your account was created. Please log in.")
	c.Redirect(http.StatusFound, "/login/")
}

func renderRegister(c *gin.Context, status int, form RegisterForm, errs utils.FieldErrors) {
	form.Password1, form.Password2 = "", ""
	render(c, status, "register.html", gin.H{
		"Title":  "Register",
		"Form":   form,
		"Errors": errs,
	})
}

// ShowLogin handles GET /login/
func ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{
		"Title":    "Log in",
		"Username": "",
		"Next":     safeNext(c.Query("next")),
		"Errors":   utils.FieldErrors{},
	})
}

// Login handles POST /login/ - checks credentials and starts a session
func Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		renderLogin(c, http.StatusBadRequest, form, utils.BindingErrors(err))
		return
	}

	user, err := services.NewAuthService(config.GetDB()).Authenticate(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		logger.Warn(c, "Failed login", zap.String("username", form.Username))
		errs := utils.FieldErrors{}
		errs.AddForm("Please enter a correct username and password. Note that both fields may be case-sensitive.")
		renderLogin(c, http.StatusUnauthorized, form, errs)
		return
	}
	if err != nil {
		serverError(c, "Failed to authenticate user", err)
		return
	}

	session, err := services.GetSessionService().Issue(user)
	if err != nil {
		serverError(c, "Failed to issue session", err)
		return
	}
	middleware.SetSessionCookie(c, session)
	logger.Info(c, "User logged in", zap.Uint("user_id", user.ID))

	target := safeNext(form.Next)
	if target == "" {
		target = "/user-dashboard/"
		if middleware.CanAdminister(user) {
			target = "/products/"
		}
	}
	c.Redirect(http.StatusFound, target)
}

func renderLogin(c *gin.Context, status int, form LoginForm, errs utils.FieldErrors) {
	render(c, status, "login.html", gin.H{
		"Title":    "Log in",
		"Username": form.Username,
		"Next":     safeNext(form.Next),
		"Errors":   errs,
	})
}

// Logout handles GET and POST /logout/ - revokes the session
func Logout(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		serverError(c, "Session claims missing on logout", err)
		return
	}

	expiresAt := time.Unix(claims.RegisteredClaims.Expiry, 0)
	if err := services.GetSessionService().Revoke(c.Request.Context(), claims.RegisteredClaims.ID, expiresAt); err != nil {
		serverError(c, "Failed to revoke session", err)
		return
	}

	middleware.ClearSessionCookie(c)
	setFlash(c, "info", "You have been logged out.")
	c.Redirect(http.StatusFound, "/login/")
}

// safeNext only allows local redirect targets
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return ""
	}
	return next
}
