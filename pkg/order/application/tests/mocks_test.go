package tests

import (
	"context"

	"github.com/google/uuid"

	"orderservice/pkg/common/domain"
	"orderservice/pkg/order/domain/model"
)

type mockUserRepository struct {
	store map[uuid.UUID]*model.User
}

func (m *mockUserRepository) NextID() (uuid.UUID, error) { return uuid.New(), nil }

func (m *mockUserRepository) Create(_ context.Context, user *model.User) error {
	clone := *user
	m.store[user.ID] = &clone
	return nil
}

func (m *mockUserRepository) Update(_ context.Context, user *model.User) error {
	if _, ok := m.store[user.ID]; !ok {
		return model.ErrUserNotFound
	}
	clone := *user
	m.store[user.ID] = &clone
	return nil
}

func (m *mockUserRepository) Find(_ context.Context, id uuid.UUID) (*model.User, error) {
	if user, ok := m.store[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range m.store {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) List(_ context.Context) ([]model.User, error) {
	users := make([]model.User, 0, len(m.store))
	for _, user := range m.store {
		users = append(users, *user)
	}
	return users, nil
}

func (m *mockUserRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(m.store, id)
	return nil
}

type mockProductRepository struct {
	store        map[uuid.UUID]*model.Product
	beforeUpdate func()
}

func (m *mockProductRepository) NextID() (uuid.UUID, error) { return uuid.New(), nil }

func (m *mockProductRepository) Create(_ context.Context, product *model.Product) error {
	clone := *product
	m.store[product.ID] = &clone
	return nil
}

// Update mirrors the column selection of the database repository.
func (m *mockProductRepository) Update(_ context.Context, product *model.Product, fields model.ProductFields) error {
	if m.beforeUpdate != nil {
		m.beforeUpdate()
	}
	stored, ok := m.store[product.ID]
	if !ok {
		return model.ErrProductNotFound
	}
	stored.Name = product.Name
	stored.PriceCents = product.PriceCents
	stored.Description = product.Description
	stored.Category = product.Category
	stored.UpdatedAt = product.UpdatedAt
	if fields.Stock {
		stored.AvailableQuantity = product.AvailableQuantity
	}
	if fields.Features {
		stored.Features = product.Features
	}
	if fields.Images {
		stored.Images = product.Images
	}
	return nil
}

func (m *mockProductRepository) Find(_ context.Context, id uuid.UUID) (*model.Product, error) {
	if product, ok := m.store[id]; ok {
		clone := *product
		return &clone, nil
	}
	return nil, model.ErrProductNotFound
}

func (m *mockProductRepository) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	for _, id := range ids {
		if product, ok := m.store[id]; ok {
			products = append(products, *product)
		}
	}
	return products, nil
}

func (m *mockProductRepository) List(_ context.Context) ([]model.Product, error) {
	products := make([]model.Product, 0, len(m.store))
	for _, product := range m.store {
		products = append(products, *product)
	}
	return products, nil
}

func (m *mockProductRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return model.ErrProductNotFound
	}
	delete(m.store, id)
	return nil
}

type mockPasswordManager struct{}

func (mockPasswordManager) Hash(plainTextPassword string) (string, error) {
	return "hashed:" + plainTextPassword, nil
}

type mockEventDispatcher struct {
	events []domain.Event
}

func (m *mockEventDispatcher) Dispatch(event domain.Event) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventDispatcher) Reset() {
	m.events = nil
}
