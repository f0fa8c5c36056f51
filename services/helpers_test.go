package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/adarshh12/grocery-inventory/config"
	"github.com/adarshh12/grocery-inventory/models"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// setupFileTestDB opens a SQLite file through the application's connection settings
func setupFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.OpenDatabase("sqlite://" + filepath.Join(t.TempDir(), "inventory.db"))
	if err != nil {
		t.Fatalf("Failed to open test database file: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, admin bool) *models.User {
	t.Helper()

	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: "x", IsAdmin: admin}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return &user
}

func createTestProduct(t *testing.T, db *gorm.DB, name, price string, quantity int) *models.Product {
	t.Helper()

	product := models.Product{
		Name:              name,
		Category:          "Pantry",
		Price:             decimal.RequireFromString(price),
		Quantity:          quantity,
		LowStockThreshold: models.DefaultLowStockThreshold,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	return &product
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
