package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
	assert.Equal(t, "products", Product{}.TableName())
	assert.Equal(t, "orders", Order{}.TableName())
	assert.Equal(t, "reports", Report{}.TableName())
}

func TestProductStockFlags(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		threshold int
		wantLow   bool
		wantEmpty bool
	}{
		{"above threshold", 11, 10, false, false},
		{"at threshold", 10, 10, true, false},
		{"below threshold", 3, 10, true, false},
		{"empty", 0, 10, true, true},
		{"zero threshold with stock", 1, 0, false, false},
		{"zero threshold empty", 0, 0, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Quantity: tt.quantity, LowStockThreshold: tt.threshold}
			assert.Equal(t, tt.wantLow, p.IsLowStock())
			assert.Equal(t, tt.wantEmpty, p.IsOutOfStock())
		})
	}
}

func TestOrderTotal(t *testing.T) {
	order := Order{
		Quantity: 3,
		Product:  Product{Price: decimal.RequireFromString("10.25")},
	}
	assert.Equal(t, "30.75", order.Total().StringFixed(2))
}

func TestAllModels(t *testing.T) {
	assert.Len(t, All(), 4)
}
