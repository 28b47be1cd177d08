package repository

import "errors"

// ErrInsufficientStock is returned by DecrementStockTx when the guarded update
// matched no row: the product is missing or has less stock than requested.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrDuplicateUsername is returned by CreateWithRole when another profile
// already holds the username, including one committed by a concurrent sign-up.
var ErrDuplicateUsername = errors.New("duplicate username")
