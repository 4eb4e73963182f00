package model

import "github.com/google/uuid"

type OrderCreated struct {
	OrderID    uuid.UUID
	UserID     uuid.UUID
	TotalCents int64
	ItemCount  int
}

func (e OrderCreated) Type() string { return "OrderCreated" }

type OrderStatusChanged struct {
	OrderID   uuid.UUID
	OldStatus OrderStatus
	NewStatus OrderStatus
}

func (e OrderStatusChanged) Type() string { return "OrderStatusChanged" }

type UserRegistered struct {
	UserID uuid.UUID
	Email  string
}

func (e UserRegistered) Type() string { return "UserRegistered" }

type UserRemoved struct {
	UserID uuid.UUID
}

func (e UserRemoved) Type() string { return "UserRemoved" }

type ProductCreated struct {
	ProductID uuid.UUID
	Name      string
}

func (e ProductCreated) Type() string { return "ProductCreated" }

type ProductUpdated struct {
	ProductID uuid.UUID
}

func (e ProductUpdated) Type() string { return "ProductUpdated" }

type ProductRemoved struct {
	ProductID uuid.UUID
}

func (e ProductRemoved) Type() string { return "ProductRemoved" }
