package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Credit transaction types.
const (
	CreditTxSale    = "sale"
	CreditTxPayment = "payment"
)

// CreditCustomer is a customer allowed to buy on credit (udhar).
// TotalCredit is the running balance owed; it is only changed inside the same
// transaction that appends the matching CreditTransaction, or by an explicit
// in-place edit.
type CreditCustomer struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string          `gorm:"index;not null"`
	Phone       string          `gorm:"not null"`
	Email       *string
	TotalCredit decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Transactions []CreditTransaction `gorm:"foreignKey:CustomerID"`
}

// CreditTransaction is an append-only ledger entry.
// Type: "sale" adds to the balance, "payment" subtracts from it.
type CreditTransaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Type        string          `gorm:"type:varchar(20);not null"`
	Description string          `gorm:"not null"`
	Date        time.Time       `gorm:"not null"`
}

// Signed returns the entry's effect on the customer balance.
func (t CreditTransaction) Signed() decimal.Decimal {
	if t.Type == CreditTxPayment {
		return t.Amount.Neg()
	}
	return t.Amount
}
