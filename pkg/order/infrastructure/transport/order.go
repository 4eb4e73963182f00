package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"orderservice/pkg/order/domain/model"
)

type createOrderInput struct {
	Items []struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
}

type updateOrderInput struct {
	Status string `json:"status"`
}

type orderUserOutput struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type orderItemOutput struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	SalePrice int64     `json:"salePrice"`
}

type orderOutput struct {
	ID         uuid.UUID         `json:"id"`
	TotalValue int64             `json:"totalValue"`
	Status     string            `json:"status"`
	User       *orderUserOutput  `json:"user,omitempty"`
	Items      []orderItemOutput `json:"items,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

func toOrderOutput(order *model.Order) orderOutput {
	out := orderOutput{
		ID:         order.ID,
		TotalValue: order.TotalCents,
		Status:     order.Status.String(),
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	if order.User != nil {
		out.User = &orderUserOutput{ID: order.User.ID, Name: order.User.Name}
	}
	for _, item := range order.Items {
		out.Items = append(out.Items, orderItemOutput{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			SalePrice: item.SalePriceCents,
		})
	}
	return out
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input createOrderInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	var errs model.ValidationErrors
	items := make([]model.RequestedItem, 0, len(input.Items))
	for i, item := range input.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			errs.Add(fmt.Sprintf("items[%d].productId", i), "must be a valid UUID")
			continue
		}
		items = append(items, model.RequestedItem{ProductID: productID, Quantity: item.Quantity})
	}
	if err := errs.Err(); err != nil {
		writeError(w, r, err)
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), userID, items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderOutput(order))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	orders, err := h.orders.ListOrdersForUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]orderOutput, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderOutput(&orders[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	order, err := h.orders.FindOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderOutput(order))
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input updateOrderInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	status, err := model.ParseOrderStatus(input.Status)
	if err != nil {
		writeError(w, r, badRequest("status", "must be one of IN_PROGRESS, COMPLETED, CANCELLED"))
		return
	}

	order, err := h.orders.UpdateOrderStatus(r.Context(), orderID, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderOutput(order))
}
