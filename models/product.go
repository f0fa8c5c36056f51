package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold applies when a product form leaves the threshold empty
const DefaultLowStockThreshold = 10

// Product represents an inventory item
type Product struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"size:100;not null" json:"name"`
	Category          string          `gorm:"size:100;not null" json:"category"`
	Price             decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"price"`
	Quantity          int             `gorm:"not null;check:quantity >= 0" json:"quantity"`
	LowStockThreshold int             `gorm:"not null;check:low_stock_threshold >= 0" json:"low_stock_threshold"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether the product is at or below its alert threshold
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

// IsOutOfStock reports whether no units are left
func (p Product) IsOutOfStock() bool {
	return p.Quantity == 0
}
