package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Refund returns some or all of a sale's lines. Total = Σ(price × quantity)
// of its items.
type Refund struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Reason    string          `gorm:"not null"`
	CreatedBy *uuid.UUID      `gorm:"type:uuid"`
	Date      time.Time       `gorm:"index;not null"`
	CreatedAt time.Time

	Items []RefundItem `gorm:"foreignKey:RefundID"`
}

// RefundItem copies the snapshot of the sale line it refunds.
type RefundItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RefundID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	SaleItemID  *uuid.UUID      `gorm:"type:uuid;index"`
	ProductID   *uuid.UUID      `gorm:"type:uuid"`
	ProductName string          `gorm:"not null"`
	Quantity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Cost        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (i RefundItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i RefundItem) LineCost() decimal.Decimal {
	return i.Cost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
