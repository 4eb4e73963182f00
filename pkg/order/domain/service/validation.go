package service

import (
	"fmt"

	"github.com/google/uuid"

	"orderservice/pkg/order/domain/model"
)

// ValidateRequestedItems checks the shape of a create-order request before any
// lookup happens. Every problem is reported, not only the first one.
func ValidateRequestedItems(items []model.RequestedItem) model.ValidationErrors {
	var errs model.ValidationErrors
	if len(items) == 0 {
		errs.Add("items", "must contain at least 1 item")
		return errs
	}

	for i, item := range items {
		if item.ProductID == uuid.Nil {
			errs.Add(fmt.Sprintf("items[%d].productId", i), "must be a valid UUID")
		}
		if item.Quantity <= 0 {
			errs.Add(fmt.Sprintf("items[%d].quantity", i), "must be a positive integer")
		}
	}
	return errs
}

func distinctProductIDs(items []model.RequestedItem) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		ids = append(ids, item.ProductID)
	}
	return ids
}
