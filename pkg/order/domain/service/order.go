package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"orderservice/pkg/common/domain"
	"orderservice/pkg/order/domain/model"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, items []model.RequestedItem) (*model.Order, error)
	ListOrdersForUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

func NewOrderService(
	users model.UserReader,
	products model.ProductReader,
	persister model.OrderPersister,
	orders model.OrderRepository,
	dispatcher domain.EventDispatcher,
) OrderService {
	return &orderService{
		users:      users,
		products:   products,
		persister:  persister,
		orders:     orders,
		dispatcher: dispatcher,
	}
}

type orderService struct {
	users      model.UserReader
	products   model.ProductReader
	persister  model.OrderPersister
	orders     model.OrderRepository
	dispatcher domain.EventDispatcher
}

func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, items []model.RequestedItem) (*model.Order, error) {
	if err := ValidateRequestedItems(items).Err(); err != nil {
		return nil, err
	}

	user, err := s.users.Find(ctx, userID)
	if err != nil {
		return nil, err
	}

	products, err := s.products.FindByIDs(ctx, distinctProductIDs(items))
	if err != nil {
		return nil, err
	}

	order, mutated, err := BuildOrder(s.orders.NextID, user, items, products)
	if err != nil {
		return nil, err
	}

	if err := s.persister.Commit(ctx, order, mutated); err != nil {
		return nil, err
	}

	s.dispatch(model.OrderCreated{
		OrderID:    order.ID,
		UserID:     user.ID,
		TotalCents: order.TotalCents,
		ItemCount:  len(order.Items),
	})
	return order, nil
}

func (s *orderService) ListOrdersForUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	user, err := s.users.Find(ctx, userID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].User = user
	}
	return orders, nil
}

func (s *orderService) FindOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return s.orders.Find(ctx, orderID)
}

// UpdateOrderStatus does not restrict transitions: every status can be reached
// from every other one.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidOrderStatus
	}

	order, err := s.orders.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}

	oldStatus := order.Status
	order.Status = status
	order.UpdatedAt = time.Now().UTC()

	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	s.dispatch(model.OrderStatusChanged{OrderID: order.ID, OldStatus: oldStatus, NewStatus: status})
	return order, nil
}

func (s *orderService) dispatch(event domain.Event) {
	if err := s.dispatcher.Dispatch(event); err != nil {
		log.WithError(err).WithField("event", event.Type()).Error("failed to dispatch event")
	}
}
