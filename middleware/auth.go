package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/adarshh12/grocery-inventory/config"
	"github.com/adarshh12/grocery-inventory/logger"
	"github.com/adarshh12/grocery-inventory/models"
	"github.com/adarshh12/grocery-inventory/services"
	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	claimsKey      = "validated_claims"
	currentUserKey = "current_user"
)

// SessionClaims contains the custom data carried by a session token.
type SessionClaims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"admin"`
}

// Validate satisfies validator.CustomClaims. Role decisions are made from
// the database row, not from the token.
func (c SessionClaims) Validate(ctx context.Context) error {
	return nil
}

// RequireSession validates the session cookie, rejects logged-out sessions
// and loads the current user. Requests without a usable session are
// redirected to the login page.
func RequireSession(sessions *services.SessionService) gin.HandlerFunc {
	return sessionMiddleware(sessions, false)
}

// OptionalSession loads the current user when the request carries a valid
// session and lets anonymous requests through. Stale session cookies are
// cleared.
func OptionalSession(sessions *services.SessionService) gin.HandlerFunc {
	return sessionMiddleware(sessions, true)
}

func sessionMiddleware(sessions *services.SessionService, optional bool) gin.HandlerFunc {
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return sessions.Secret(), nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		services.SessionIssuer,
		[]string{services.SessionAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &SessionClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		logger.Log.Fatal("Failed to set up the session validator", zap.Error(err))
	}

	reject := func(w http.ResponseWriter, r *http.Request) {
		if !optional {
			redirectToLogin(w, r)
		}
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		if !errors.Is(err, jwtmiddleware.ErrJWTMissing) && !errors.Is(err, http.ErrNoCookie) {
			logger.Warn(r.Context(), "Rejected session token", zap.Error(err))
		}
		reject(w, r)
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithTokenExtractor(jwtmiddleware.CookieTokenExtractor(services.SessionCookieName)),
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		authenticated := false

		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			revoked, err := sessions.IsRevoked(r.Context(), token.RegisteredClaims.ID)
			if err != nil {
				logger.Error(c, "Failed to check session revocation", err)
				AbortWithPage(c, http.StatusInternalServerError, "Server error", "Something went wrong. Please try again.")
				return
			}
			if revoked {
				ClearSessionCookie(c)
				reject(w, r)
				return
			}

			id, err := strconv.ParseUint(token.RegisteredClaims.Subject, 10, 64)
			if err != nil {
				reject(w, r)
				return
			}

			user, err := services.NewAuthService(config.GetDB()).GetUser(r.Context(), uint(id))
			if errors.Is(err, services.ErrUserNotFound) {
				ClearSessionCookie(c)
				reject(w, r)
				return
			}
			if err != nil {
				logger.Error(c, "Failed to load session user", err)
				AbortWithPage(c, http.StatusInternalServerError, "Server error", "Something went wrong. Please try again.")
				return
			}

			c.Set(claimsKey, token)
			c.Set(currentUserKey, user)
			c.Request = r
			authenticated = true
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		if c.IsAborted() || (!authenticated && !optional) {
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects users that are not administrators with a 403 page.
// It must run after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetCurrentUser(c)
		if err != nil {
			AbortWithPage(c, http.StatusForbidden, "Forbidden", "You do not have permission to view this page.")
			return
		}

		if !CanAdminister(user) {
			logger.Warn(c, "Non-admin user denied", zap.Uint("user_id", user.ID), zap.String("path", c.Request.URL.Path))
			AbortWithPage(c, http.StatusForbidden, "Forbidden", "You do not have permission to view this page.")
			return
		}

		c.Next()
	}
}

// CanAdminister reports whether user may manage products and reports
func CanAdminister(user *models.User) bool {
	return user != nil && user.IsAdmin
}

// GetCurrentUser returns the user loaded by RequireSession
func GetCurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_USER", Message: "User not found in context"}
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil, &AuthError{Code: "INVALID_USER", Message: "User is not in the expected format"}
	}

	return user, nil
}

// GetClaims extracts the validated session claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(claimsKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// SetSessionCookie stores an issued session in the browser
func SetSessionCookie(c *gin.Context, session *services.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(services.SessionCookieName, session.Token, maxAge, "/", "", SecureCookies(), true)
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(services.SessionCookieName, "", -1, "/", "", SecureCookies(), true)
}

// SecureCookies reports whether cookies should carry the Secure attribute
func SecureCookies() bool {
	cfg := config.GetConfig()
	return cfg != nil && cfg.CookieSecure
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := "/login/"
	if r.Method == http.MethodGet && r.URL.Path != "/" {
		target += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
