package tests

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"orderservice/pkg/common/domain"
	"orderservice/pkg/order/domain/model"
)

type mockStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*model.User
	products map[uuid.UUID]*model.Product
	orders   map[uuid.UUID]*model.Order

	productLookups int
	commits        int
	clock          time.Time
}

func newMockStore() *mockStore {
	return &mockStore{
		users:    make(map[uuid.UUID]*model.User),
		products: make(map[uuid.UUID]*model.Product),
		orders:   make(map[uuid.UUID]*model.Order),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockStore) addUser(name string) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	user := &model.User{ID: uuid.New(), Name: name, Email: name + "@example.com"}
	m.users[user.ID] = user
	return user
}

func (m *mockStore) addProduct(name string, priceCents int64, quantity int) model.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	product := &model.Product{ID: uuid.New(), Name: name, PriceCents: priceCents, AvailableQuantity: quantity}
	m.products[product.ID] = product
	return *product
}

func (m *mockStore) stockOf(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].AvailableQuantity
}

func (m *mockStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type mockUserReader struct{ store *mockStore }

func (r *mockUserReader) Find(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user, ok := r.store.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, model.ErrUserNotFound
}

type mockProductReader struct{ store *mockStore }

func (r *mockProductReader) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.productLookups++
	var products []model.Product
	for _, id := range ids {
		if product, ok := r.store.products[id]; ok {
			products = append(products, *product)
		}
	}
	return products, nil
}

// mockOrderRepository applies stock changes only while enough units are
// left, the same guarantee the database gives.
type mockOrderRepository struct{ store *mockStore }

func (r *mockOrderRepository) NextID() (uuid.UUID, error) { return uuid.New(), nil }

func (r *mockOrderRepository) Commit(_ context.Context, order *model.Order, _ []model.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	changes := order.StockChanges()
	for _, change := range changes {
		product, ok := r.store.products[change.ProductID]
		if !ok || product.AvailableQuantity < change.Quantity {
			return model.ErrPersistenceConflict
		}
	}
	for _, change := range changes {
		r.store.products[change.ProductID].AvailableQuantity -= change.Quantity
	}
	r.store.commits++
	r.store.clock = r.store.clock.Add(time.Second)
	order.CreatedAt = r.store.clock
	order.UpdatedAt = r.store.clock
	clone := *order
	clone.User = nil
	r.store.orders[order.ID] = &clone
	return nil
}

func (r *mockOrderRepository) Find(_ context.Context, id uuid.UUID) (*model.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if order, ok := r.store.orders[id]; ok {
		clone := *order
		return &clone, nil
	}
	return nil, model.ErrOrderNotFound
}

func (r *mockOrderRepository) FindByUser(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var orders []model.Order
	for _, order := range r.store.orders {
		if order.UserID == userID {
			orders = append(orders, *order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.Before(orders[j].CreatedAt)
		}
		return orders[i].ID.String() < orders[j].ID.String()
	})
	return orders, nil
}

func (r *mockOrderRepository) UpdateStatus(_ context.Context, order *model.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.orders[order.ID]
	if !ok {
		return model.ErrOrderNotFound
	}
	existing.Status = order.Status
	existing.UpdatedAt = order.UpdatedAt
	return nil
}

type mockEventDispatcher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (m *mockEventDispatcher) Dispatch(event domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventDispatcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
