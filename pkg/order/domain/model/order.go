package model

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrPersistenceConflict = errors.New("order conflicts with a concurrent change")
)

type OrderStatus int

const (
	InProgress OrderStatus = iota
	Completed
	Cancelled
)

var orderStatusNames = map[OrderStatus]string{
	InProgress: "IN_PROGRESS",
	Completed:  "COMPLETED",
	Cancelled:  "CANCELLED",
}

func (s OrderStatus) String() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusNames[s]
	return ok
}

func ParseOrderStatus(value string) (OrderStatus, error) {
	for status, name := range orderStatusNames {
		if name == value {
			return status, nil
		}
	}
	return 0, ErrInvalidOrderStatus
}

type Order struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	User       *User
	TotalCents int64
	Status     OrderStatus
	Items      []OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// OrderItem keeps the product price at the moment the order was placed.
type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	Quantity       int
	SalePriceCents int64
}

func (i OrderItem) SubtotalCents() int64 {
	return int64(i.Quantity) * i.SalePriceCents
}

// RequestedItem is one line of a create-order request.
type RequestedItem struct {
	ProductID uuid.UUID
	Quantity  int
}

type StockChange struct {
	ProductID uuid.UUID
	Quantity  int
}

// StockChanges sums item quantities per product, sorted by product id so that
// concurrent commits lock product rows in the same order.
func (o *Order) StockChanges() []StockChange {
	totals := make(map[uuid.UUID]int)
	for _, item := range o.Items {
		totals[item.ProductID] += item.Quantity
	}

	changes := make([]StockChange, 0, len(totals))
	for productID, quantity := range totals {
		changes = append(changes, StockChange{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].ProductID.String() < changes[j].ProductID.String()
	})
	return changes
}

func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.SubtotalCents()
	}
	return total
}

// OrderPersister writes an order, its items and the stock decrements of the
// referenced products as one atomic unit.
type OrderPersister interface {
	Commit(ctx context.Context, order *Order, products []Product) error
}

type OrderRepository interface {
	NextID() (uuid.UUID, error)
	Find(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
	UpdateStatus(ctx context.Context, order *Order) error
}
