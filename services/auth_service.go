package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adarshh12/grocery-inventory/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordCost is the bcrypt cost used for new password hashes
var PasswordCost = bcrypt.DefaultCost

// RegisterInput holds the fields of a new account
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthService manages accounts and password checks
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates an auth service over db
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Register creates a regular (non-admin) account
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.createUser(ctx, in, false)
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput, admin bool) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		IsAdmin:      admin,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.User{}).Where("username = ?", in.Username).Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if existing > 0 {
			return ErrUsernameTaken
		}

		if err := tx.Create(&user).Error; err != nil {
			// A concurrent registration can still hit the unique index
			if isUniqueViolation(err) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("failed to create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Authenticate returns the user when username and password match
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUser returns the user with the given id or ErrUserNotFound
func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return &user, nil
}

// EnsureAdmin creates the administrator account or promotes and re-keys an
// existing account with the same username.
func (s *AuthService) EnsureAdmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", in.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.createUser(ctx, in, true)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	updates := map[string]interface{}{
		"is_admin":      true,
		"password_hash": string(hash),
	}
	if in.Email != "" {
		updates["email"] = in.Email
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to promote user %s: %w", in.Username, err)
	}

	return s.GetUser(ctx, user.ID)
}

// isUniqueViolation matches duplicate-key errors from both PostgreSQL and SQLite
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
