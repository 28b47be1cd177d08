package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Stock is decremented by completed sales and
// restored by refunds issued with restock.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string          `gorm:"index;not null"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Cost      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Stock     int             `gorm:"not null;default:0"`
	Company   *string
	Category  *string
	Image     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
