package service

import (
	"errors"
	"fmt"

	"shoppos/internal/repository"

	"gorm.io/gorm"
)

// Domain errors. Handlers map these to HTTP statuses; anything else is a 500.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidRole        = errors.New("unknown role")

	ErrEmptyCart             = errors.New("cart is empty")
	ErrCustomerRequired      = errors.New("credit sales require a customer")
	ErrCustomerOnlyForCredit = errors.New("a customer can only be attached to credit sales")
	ErrInsufficientCash      = errors.New("cash received is less than the total")
	ErrInsufficientStock     = repository.ErrInsufficientStock

	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrAmountExceedsBalance = errors.New("amount exceeds outstanding balance")

	ErrReasonRequired  = errors.New("refund reason is required")
	ErrNoRefundItems   = errors.New("select at least one item to refund")
	ErrUnknownSaleItem = errors.New("item does not belong to this sale")
	ErrRefundQuantity  = errors.New("refund quantity exceeds refundable quantity")
	ErrAlreadyRefunded = errors.New("sale is already fully refunded")

	ErrNothingSelected  = errors.New("select at least one data type to reset")
	ErrInvalidRange     = errors.New("invalid date range")
	ErrConnectionFailed = errors.New("could not connect to database")
)

// notFound converts gorm.ErrRecordNotFound into ErrNotFound naming what was
// missing; other errors pass through unchanged.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
