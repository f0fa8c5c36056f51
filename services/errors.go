package services

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("a user with that username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer")
	ErrSessionRevoked     = errors.New("session has been revoked")
)

// StockError rejects an order the current stock cannot cover
type StockError struct {
	ProductName string
	Available   int
}

func (e *StockError) Error() string {
	if e.OutOfStock() {
		return fmt.Sprintf("'%s' is out of stock.", e.ProductName)
	}
	return fmt.Sprintf("Only %d units of '%s' are available.", e.Available, e.ProductName)
}

// OutOfStock reports whether the product had no units at all
func (e *StockError) OutOfStock() bool {
	return e.Available == 0
}
