package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Filter ──────────────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales. From and To are
// inclusive calendar days.
type SaleFilter struct {
	From          time.Time `form:"from" time_format:"2006-01-02"`
	To            time.Time `form:"to"   time_format:"2006-01-02"`
	PaymentMethod string    `form:"payment_method" validate:"omitempty,oneof=cash card upi credit"`
	CustomerID    string    `form:"customer_id"    validate:"omitempty,uuid"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CheckoutItem is one cart line. Price and Cost default to the product's
// current values when omitted.
type CheckoutItem struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity"   validate:"required,min=1"`
	Price     *decimal.Decimal `json:"price"      validate:"omitempty,min=0"`
	Cost      *decimal.Decimal `json:"cost"       validate:"omitempty,min=0"`
}

type CheckoutRequest struct {
	Items         []CheckoutItem   `json:"items"          validate:"required,min=1,dive"`
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=cash card upi credit"`
	CustomerID    *string          `json:"customer_id"    validate:"omitempty,uuid"`
	CashReceived  *decimal.Decimal `json:"cash_received"  validate:"omitempty,min=0"`
	CustomerEmail *string          `json:"customer_email" validate:"omitempty,email"`
}

type UpdateSaleRequest struct {
	Refunded *bool `json:"refunded" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   *string         `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	Date          string             `json:"date"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	CustomerID    *string            `json:"customer_id"`
	Refunded      bool               `json:"refunded"`
	CreatedBy     *string            `json:"created_by"`
	Items         []SaleItemResponse `json:"items"`
}

// CheckoutResponse adds the cash change to the created sale. Change is set
// only for cash sales that supplied cash_received.
type CheckoutResponse struct {
	SaleResponse
	Change *decimal.Decimal `json:"change,omitempty"`
}
