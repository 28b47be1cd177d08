package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RefundFilter struct {
	From   time.Time `form:"from" time_format:"2006-01-02"`
	To     time.Time `form:"to"   time_format:"2006-01-02"`
	SaleID string    `form:"sale_id" validate:"omitempty,uuid"`
}

type RefundItemRequest struct {
	SaleItemID string `json:"sale_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity"     validate:"required,min=1"`
}

type CreateRefundRequest struct {
	SaleID  string              `json:"sale_id" validate:"required,uuid"`
	Items   []RefundItemRequest `json:"items"   validate:"required,min=1,dive"`
	Reason  string              `json:"reason"  validate:"required,max=500"`
	Restock bool                `json:"restock"`
}

type RefundItemResponse struct {
	ID          string          `json:"id"`
	SaleItemID  *string         `json:"sale_item_id"`
	ProductID   *string         `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
}

type RefundResponse struct {
	ID        string               `json:"id"`
	SaleID    string               `json:"sale_id"`
	Total     decimal.Decimal      `json:"total"`
	Reason    string               `json:"reason"`
	CreatedBy *string              `json:"created_by"`
	Date      string               `json:"date"`
	Items     []RefundItemResponse `json:"items"`
}
