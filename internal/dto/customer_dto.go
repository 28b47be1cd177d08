package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	Name        string           `json:"name"         validate:"required,max=200"`
	Phone       string           `json:"phone"        validate:"required,max=40"`
	Email       *string          `json:"email"        validate:"omitempty,email"`
	TotalCredit *decimal.Decimal `json:"total_credit" validate:"omitempty,min=0"`
}

// UpdateCustomerRequest edits the customer in place. TotalCredit is a manual
// balance correction and does not create a ledger entry.
type UpdateCustomerRequest struct {
	Name        *string          `json:"name"         validate:"omitempty,min=1,max=200"`
	Phone       *string          `json:"phone"        validate:"omitempty,min=1,max=40"`
	Email       *string          `json:"email"        validate:"omitempty,email"`
	TotalCredit *decimal.Decimal `json:"total_credit" validate:"omitempty,min=0"`
}

type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Description string          `json:"description" validate:"max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CreditTransactionResponse struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

type CustomerResponse struct {
	ID           string                      `json:"id"`
	Name         string                      `json:"name"`
	Phone        string                      `json:"phone"`
	Email        *string                     `json:"email"`
	TotalCredit  decimal.Decimal             `json:"total_credit"`
	CreatedAt    string                      `json:"created_at"`
	Transactions []CreditTransactionResponse `json:"transactions"`
}

// BalanceDrift is a customer whose stored balance disagrees with its ledger.
type BalanceDrift struct {
	CustomerID    string          `json:"customer_id"`
	Name          string          `json:"name"`
	StoredBalance decimal.Decimal `json:"stored_balance"`
	LedgerBalance decimal.Decimal `json:"ledger_balance"`
	Difference    decimal.Decimal `json:"difference"`
}
