package testutil

import (
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/adarshh12/grocery-inventory/config"
	"github.com/adarshh12/grocery-inventory/models"
	"github.com/adarshh12/grocery-inventory/services"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestSessionSecret is a 32-byte HS256 key for tests
const TestSessionSecret = "test-session-secret-0123456789abcdef"

// TestPassword is the password of every user created by CreateUser
const TestPassword = "StrongPass!2024"

// RequireTestEnvironment fails the test when run against production settings
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env == "production" {
		t.Fatalf("SAFETY CHECK FAILED: tests must not run with GO_ENV=%q", env)
	}
}

// NewTestDB opens a migrated in-memory SQLite database and installs it as config.DB
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	RequireTestEnvironment(t)

	db, err := config.OpenDatabase("sqlite://:memory:")
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	original := config.GetDB()
	config.SetDB(db)
	t.Cleanup(func() {
		config.SetDB(original)
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// TestConfig returns a valid configuration for router tests
func TestConfig() *config.Config {
	return &config.Config{
		DatabaseURL:        "sqlite://:memory:",
		Port:               "0",
		GoEnv:              "test",
		LogLevel:           "error",
		SessionSecret:      TestSessionSecret,
		SessionTTL:         time.Hour,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		LoginRatePerMinute: 600,
		LoginRateBurst:     100,
	}
}

// UseSessionService installs a session service backed by a fresh memory store
func UseSessionService(t *testing.T) *services.SessionService {
	t.Helper()

	original := services.GetSessionService()
	svc := services.NewSessionService(TestSessionSecret, time.Hour, services.NewMemorySessionStore())
	services.SetSessionService(svc)
	t.Cleanup(func() { services.SetSessionService(original) })
	return svc
}

// CreateUser inserts a user whose password is TestPassword
func CreateUser(t *testing.T, db *gorm.DB, username string, admin bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsAdmin:      admin,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return &user
}

// CreateProduct inserts a product priced at price
func CreateProduct(t *testing.T, db *gorm.DB, name, price string, quantity, threshold int) *models.Product {
	t.Helper()

	product := models.Product{
		Name:              name,
		Category:          "Grocery",
		Price:             decimal.RequireFromString(price),
		Quantity:          quantity,
		LowStockThreshold: threshold,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to create product %s: %v", name, err)
	}
	return &product
}

// SessionCookie issues a session for user and returns it as a request cookie
func SessionCookie(t *testing.T, svc *services.SessionService, user *models.User) *http.Cookie {
	t.Helper()

	session, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("Failed to issue session: %v", err)
	}
	return &http.Cookie{Name: services.SessionCookieName, Value: session.Token}
}

// ReloadProduct reads the product's current row
func ReloadProduct(t *testing.T, db *gorm.DB, id uint) models.Product {
	t.Helper()

	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		t.Fatalf("Failed to reload product %d: %v", id, err)
	}
	return product
}

// CountOrders returns the number of order rows
func CountOrders(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.Order{}).Count(&n).Error; err != nil {
		t.Fatalf("Failed to count orders: %v", err)
	}
	return n
}
