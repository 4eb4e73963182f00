package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock quantity")
)

type Product struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Name              string
	PriceCents        int64
	AvailableQuantity int
	Description       string
	Category          string
	Features          []ProductFeature
	Images            []ProductImage
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

type ProductFeature struct {
	ID          uuid.UUID
	Name        string
	Description string
}

type ProductImage struct {
	ID          uuid.UUID
	URL         string
	Description string
}

// ProductFields selects what an update writes besides name, price,
// description and category. Stock is only touched when asked for, so an edit
// never restores units taken by an order committed in between.
type ProductFields struct {
	Stock    bool
	Features bool
	Images   bool
}

type ProductNotFoundError struct {
	ProductID uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with id %s not found", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error { return ErrProductNotFound }

type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("requested quantity (%d) exceeds available stock (%d) for product %s",
		e.Requested, e.Available, e.ProductID)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ProductReader resolves the products referenced by an order. Soft-deleted
// products are never returned.
type ProductReader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
}

type ProductRepository interface {
	ProductReader
	NextID() (uuid.UUID, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product, fields ProductFields) error
	Find(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
