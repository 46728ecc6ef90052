package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyItems    = errors.New("items must be a non-empty list")
	ErrUserNotFound  = errors.New("user not found")
	ErrOrderNotFound = errors.New("order not found")
	ErrForbidden     = errors.New("order belongs to another user")
	ErrStockConflict = errors.New("stock changed since validation")
)

// InvalidItemError marks a checkout item referencing an unknown product
// or carrying a non-positive quantity.
type InvalidItemError struct {
	ProductID uuid.UUID
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InsufficientStockError marks a checkout item exceeding available stock.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductName)
}

type Order struct {
	ID            string          `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Shipping      ShippingDetails `json:"shipping"`
	TotalAmount   int64           `json:"total_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	SnapToken     string          `json:"snap_token,omitempty"`
	Items         []Item          `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Item is one order line. Price is the unit price snapshotted at
// order-creation time, decoupled from later catalog changes.
type Item struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Quantity    int       `json:"quantity"`
	Price       int64     `json:"price"`
}

type ShippingDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

// CheckoutItem is one requested line of a checkout attempt.
// Prices are never accepted from the client.
type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CheckoutResult is returned to the client to start the hosted payment.
type CheckoutResult struct {
	OrderID     string `json:"order_id"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// ListFilter scopes and paginates order queries.
type ListFilter struct {
	UserID   *uuid.UUID
	Status   *PaymentStatus
	Page     int
	PageSize int
}

// Page is one page of orders plus pagination metadata.
type Page struct {
	Orders     []Order `json:"orders"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}
