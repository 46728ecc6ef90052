package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotEmpty = errors.New("category still has products")
	ErrUnknownCategory  = errors.New("unknown category")

	ErrNameRequired     = errors.New("name is required")
	ErrNegativePrice    = errors.New("price must not be negative")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Products  []Product `json:"products,omitempty"`
}

type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Quantity    int       `json:"quantity"`
	Image       string    `json:"image"`
	CategoryID  uuid.UUID `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryInput is the create/update payload for categories.
type CategoryInput struct {
	Name string `json:"name"`
}

func (in *CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// ProductInput is the create payload for products.
type ProductInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Quantity    int       `json:"quantity"`
	Image       string    `json:"image"`
	CategoryID  uuid.UUID `json:"category_id"`
}

func (in *ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if in.Price < 0 {
		return ErrNegativePrice
	}
	if in.Quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// ProductUpdate is the partial-update payload for products.
// Stock can never be set negative through a direct update.
type ProductUpdate struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Price       *int64     `json:"price"`
	Quantity    *int       `json:"quantity"`
	Image       *string    `json:"image"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

func (in *ProductUpdate) Validate() error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return ErrNameRequired
	}
	if in.Price != nil && *in.Price < 0 {
		return ErrNegativePrice
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}
