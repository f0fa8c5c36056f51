package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adarshh12/grocery-inventory/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductInput carries the editable fields of a product
type ProductInput struct {
	Name              string
	Category          string
	Price             decimal.Decimal
	Quantity          int
	LowStockThreshold int
}

// OrderRequest is a user's request to buy Quantity units of a product
type OrderRequest struct {
	ProductID    uint
	Quantity     int
	CustomerName string
}

// InventoryService owns products and the stock they carry
type InventoryService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewInventoryService creates an inventory service over db
func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db, now: time.Now}
}

// WithClock replaces the time source used to stamp orders
func (s *InventoryService) WithClock(now func() time.Time) *InventoryService {
	s.now = now
	return s
}

// ListProducts returns every product ordered by name
func (s *InventoryService) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("name, id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct returns the product with the given id or ErrProductNotFound
func (s *InventoryService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product %d: %w", id, err)
	}
	return &product, nil
}

// CreateProduct stores a new product
func (s *InventoryService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	product := models.Product{
		Name:              in.Name,
		Category:          in.Category,
		Price:             in.Price,
		Quantity:          in.Quantity,
		LowStockThreshold: in.LowStockThreshold,
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// UpdateProduct overwrites every editable field of an existing product
func (s *InventoryService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	// Map updates so zero quantities and thresholds are written too
	updates := map[string]interface{}{
		"name":                in.Name,
		"category":            in.Category,
		"price":               in.Price,
		"quantity":            in.Quantity,
		"low_stock_threshold": in.LowStockThreshold,
	}
	if err := s.db.WithContext(ctx).Model(product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}

	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a product together with its orders
func (s *InventoryService) DeleteProduct(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.Order{}).Error; err != nil {
			return fmt.Errorf("failed to delete orders of product %d: %w", id, err)
		}
		result := tx.Delete(&models.Product{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete product %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

// LowStockProducts returns products whose quantity is at or below their threshold
func (s *InventoryService) LowStockProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("quantity <= low_stock_threshold").
		Order("name, id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock products: %w", err)
	}
	return products, nil
}

// PlaceOrder checks stock, decrements it and records the order in one transaction.
// Stock rejections are returned as *StockError and leave the database untouched.
func (s *InventoryService) PlaceOrder(ctx context.Context, user *models.User, req OrderRequest) (*models.Order, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := forUpdate(tx).First(&product, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to load product %d: %w", req.ProductID, err)
		}

		if product.Quantity == 0 || req.Quantity > product.Quantity {
			return &StockError{ProductName: product.Name, Available: product.Quantity}
		}

		// Conditional decrement: never lets a concurrent writer push stock below zero
		result := tx.Model(&models.Product{}).
			Where("id = ? AND quantity >= ?", product.ID, req.Quantity).
			Update("quantity", gorm.Expr("quantity - ?", req.Quantity))
		if result.Error != nil {
			return fmt.Errorf("failed to decrement stock of product %d: %w", product.ID, result.Error)
		}
		if result.RowsAffected != 1 {
			if err := tx.First(&product, product.ID).Error; err != nil {
				return fmt.Errorf("failed to reload product %d: %w", product.ID, err)
			}
			return &StockError{ProductName: product.Name, Available: product.Quantity}
		}

		order = models.Order{
			ProductID:    product.ID,
			UserID:       user.ID,
			Quantity:     req.Quantity,
			CustomerName: req.CustomerName,
			OrderDate:    s.now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		product.Quantity -= req.Quantity
		order.Product = product
		order.User = *user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// forUpdate adds a row lock on dialects that support one
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
