package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShopSettings is a singleton row.
type ShopSettings struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string          `gorm:"not null;default:'My Shop'"`
	Logo         *string
	Currency     string          `gorm:"not null;default:'₹'"`
	TaxRate      decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	PrinterName  *string
	PrinterWidth *string `gorm:"default:'80mm'"`
	AutoPrint    bool    `gorm:"not null;default:false"`
	UpdatedAt    time.Time
}

// TableName keeps the singular table name used by the schema.
func (ShopSettings) TableName() string { return "shop_settings" }

// DefaultShopSettings is returned when no row exists yet.
func DefaultShopSettings() ShopSettings {
	width := "80mm"
	return ShopSettings{
		Name:         "My Shop",
		Currency:     "₹",
		TaxRate:      decimal.Zero,
		PrinterWidth: &width,
	}
}
