package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPaymentInvalid      = errors.New("payment invalid")
	ErrPaymentInsufficient = errors.New("payment amount below order total")
)

// NotFoundError reports an unknown customer/product/order/supplier.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %d not found", e.Entity, e.ID) }

type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string { return e.Reason }

type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (need %d, have %d)",
		e.ProductID, e.Requested, e.Available)
}

// PricingError marks a malformed pricing request (empty order, bad quantity).
// Business-rule non-applicability is never a PricingError.
type PricingError struct {
	Reason string
}

func (e *PricingError) Error() string { return "pricing: " + e.Reason }
