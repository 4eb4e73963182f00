package service

import (
	"github.com/google/uuid"

	"orderservice/pkg/order/domain/model"
)

type IDGenerator func() (uuid.UUID, error)

// BuildOrder assembles a new order aggregate from the requested items and the
// products they reference. Items are checked in request order and the first
// failing item determines the error. The returned products are copies with
// their stock already reduced by the ordered quantities; the inputs are left
// untouched. BuildOrder performs no I/O.
func BuildOrder(nextID IDGenerator, user *model.User, requested []model.RequestedItem, products []model.Product) (*model.Order, []model.Product, error) {
	if err := ValidateRequestedItems(requested).Err(); err != nil {
		return nil, nil, err
	}

	stock := make(map[uuid.UUID]*model.Product, len(products))
	mutated := make([]model.Product, 0, len(products))
	for _, product := range products {
		if _, seen := stock[product.ID]; seen {
			continue
		}
		mutated = append(mutated, product)
		stock[product.ID] = &mutated[len(mutated)-1]
	}

	orderID, err := nextID()
	if err != nil {
		return nil, nil, err
	}

	items := make([]model.OrderItem, 0, len(requested))
	touched := make(map[uuid.UUID]bool, len(requested))
	for _, req := range requested {
		product, ok := stock[req.ProductID]
		if !ok {
			return nil, nil, &model.ProductNotFoundError{ProductID: req.ProductID}
		}
		if req.Quantity > product.AvailableQuantity {
			return nil, nil, &model.InsufficientStockError{
				ProductID: req.ProductID,
				Requested: req.Quantity,
				Available: product.AvailableQuantity,
			}
		}

		itemID, err := nextID()
		if err != nil {
			return nil, nil, err
		}

		items = append(items, model.OrderItem{
			ID:             itemID,
			OrderID:        orderID,
			ProductID:      product.ID,
			Quantity:       req.Quantity,
			SalePriceCents: product.PriceCents,
		})
		product.AvailableQuantity -= req.Quantity
		touched[product.ID] = true
	}

	order := &model.Order{
		ID:     orderID,
		UserID: user.ID,
		User:   user,
		Status: model.InProgress,
		Items:  items,
	}
	order.TotalCents = order.CalculateTotal()

	referenced := make([]model.Product, 0, len(touched))
	for _, product := range mutated {
		if touched[product.ID] {
			referenced = append(referenced, product)
		}
	}

	return order, referenced, nil
}
