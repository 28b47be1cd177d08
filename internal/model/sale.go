package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods.
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentUPI    = "upi"
	PaymentCredit = "credit"
)

// Sale is a completed checkout. CustomerID is set iff PaymentMethod is credit.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Date          time.Time       `gorm:"index;not null"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index"`
	Refunded      bool            `gorm:"not null;default:false"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt     time.Time

	Items    []SaleItem      `gorm:"foreignKey:SaleID"`
	Customer *CreditCustomer `gorm:"foreignKey:CustomerID"`
}

// SaleItem is one line of a sale. ProductName, Price and Cost are snapshots
// taken at checkout and never follow later product edits.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID   *uuid.UUID      `gorm:"type:uuid"`
	ProductName string          `gorm:"not null"`
	Quantity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Cost        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// LineTotal is Price × Quantity.
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineCost is Cost × Quantity.
func (i SaleItem) LineCost() decimal.Decimal {
	return i.Cost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
