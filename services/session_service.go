package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adarshh12/grocery-inventory/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// SessionCookieName is the cookie carrying the session token
	SessionCookieName = "session"
	// SessionIssuer is the iss claim of every session token
	SessionIssuer = "grocery-inventory"
	// SessionAudience is the aud claim of every session token
	SessionAudience = "grocery-inventory-web"
)

// SessionTokenClaims is the payload of a session token
type SessionTokenClaims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Session describes an issued session token
type Session struct {
	ID        string
	Token     string
	ExpiresAt time.Time
}

// SessionService issues HS256 session tokens and tracks logouts
type SessionService struct {
	secret []byte
	ttl    time.Duration
	store  SessionStore
	now    func() time.Time
}

var sessionServiceInstance *SessionService

// NewSessionService creates a session service signing with secret
func NewSessionService(secret string, ttl time.Duration, store SessionStore) *SessionService {
	return &SessionService{
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
		now:    time.Now,
	}
}

// GetSessionService returns the process-wide session service
func GetSessionService() *SessionService {
	return sessionServiceInstance
}

// SetSessionService sets the process-wide session service
func SetSessionService(s *SessionService) {
	sessionServiceInstance = s
}

// Secret returns the HS256 signing key
func (s *SessionService) Secret() []byte {
	return s.secret
}

// Issue signs a new session token for user
func (s *SessionService) Issue(user *models.User) (*Session, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	id := uuid.NewString()

	claims := SessionTokenClaims{
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    SessionIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Audience:  jwt.ClaimStrings{SessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &Session{ID: id, Token: token, ExpiresAt: expiresAt}, nil
}

// Revoke invalidates a session until its token would have expired anyway
func (s *SessionService) Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.store.Revoke(ctx, sessionID, ttl)
}

// IsRevoked reports whether the session was logged out
func (s *SessionService) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	return s.store.IsRevoked(ctx, sessionID)
}
