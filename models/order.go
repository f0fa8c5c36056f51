package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a purchase of a quantity of one product
type Order struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    uint      `gorm:"not null;index" json:"product_id"` // foreign key to products table
	Product      Product   `gorm:"foreignKey:ProductID" json:"product"`
	UserID       uint      `gorm:"not null;index" json:"user_id"` // foreign key to users table
	User         User      `gorm:"foreignKey:UserID" json:"-"`
	Quantity     int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	CustomerName string    `gorm:"size:100;not null" json:"customer_name"`
	OrderDate    time.Time `gorm:"<-:create;not null;index" json:"order_date"` // written once, on insert
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// Total returns quantity × unit price. Product must be loaded.
func (o Order) Total() decimal.Decimal {
	return o.Product.Price.Mul(decimal.NewFromInt(int64(o.Quantity)))
}
