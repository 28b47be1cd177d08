package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name     string          `json:"name"     validate:"required,max=200"`
	Price    decimal.Decimal `json:"price"    validate:"min=0"`
	Cost     decimal.Decimal `json:"cost"     validate:"min=0"`
	Stock    int             `json:"stock"    validate:"min=0"`
	Company  *string         `json:"company"`
	Category *string         `json:"category"`
	Image    *string         `json:"image"`
}

// UpdateProductRequest is a partial update: nil fields are left unchanged.
type UpdateProductRequest struct {
	Name     *string          `json:"name"     validate:"omitempty,min=1,max=200"`
	Price    *decimal.Decimal `json:"price"    validate:"omitempty,min=0"`
	Cost     *decimal.Decimal `json:"cost"     validate:"omitempty,min=0"`
	Stock    *int             `json:"stock"    validate:"omitempty,min=0"`
	Company  *string          `json:"company"`
	Category *string          `json:"category"`
	Image    *string          `json:"image"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ProductFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Company  string `form:"company"`
	LowStock bool   `form:"low_stock"`
	// Threshold is filled by the service from LOW_STOCK_THRESHOLD.
	Threshold int `form:"-"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
	Stock     int             `json:"stock"`
	Company   *string         `json:"company"`
	Category  *string         `json:"category"`
	Image     *string         `json:"image"`
	CreatedAt string          `json:"created_at"`
}

// ImportRowError explains why a CSV row was skipped. Line is 1-based and
// counts the header.
type ImportRowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Total    int              `json:"total"`
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors"`
}

// Skip records a skipped row.
func (r *ImportResult) Skip(line int, reason string) {
	r.Skipped++
	r.Errors = append(r.Errors, ImportRowError{Line: line, Reason: reason})
}
