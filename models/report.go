package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report is a persisted snapshot of one day's order count and revenue
type Report struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ReportDate  time.Time       `gorm:"type:date;not null;index" json:"report_date"`
	TotalOrders int64           `gorm:"not null" json:"total_orders"`
	TotalSales  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_sales"`
	ArchiveKey  *string         `json:"archive_key,omitempty"` // nullable, set when copied to S3
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName specifies the table name for the Report model
func (Report) TableName() string {
	return "reports"
}

// All lists every model in migration order
func All() []interface{} {
	return []interface{}{&User{}, &Product{}, &Order{}, &Report{}}
}
