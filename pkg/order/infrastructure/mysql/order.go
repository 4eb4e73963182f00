package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"orderservice/pkg/order/domain/model"
)

const orderColumns = `id, user_id, total_value, status, created_at, updated_at, deleted_at`

type orderRow struct {
	ID         uuid.UUID  `db:"id"`
	UserID     uuid.UUID  `db:"user_id"`
	TotalValue int64      `db:"total_value"`
	Status     string     `db:"status"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

func (r orderRow) toModel() (model.Order, error) {
	status, err := model.ParseOrderStatus(r.Status)
	if err != nil {
		return model.Order{}, errors.Wrapf(err, "order %s has status %q", r.ID, r.Status)
	}
	return model.Order{
		ID:         r.ID,
		UserID:     r.UserID,
		TotalCents: r.TotalValue,
		Status:     status,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		DeletedAt:  r.DeletedAt,
	}, nil
}

type orderItemRow struct {
	ID        uuid.UUID `db:"id"`
	OrderID   uuid.UUID `db:"order_id"`
	ProductID uuid.UUID `db:"product_id"`
	Quantity  int       `db:"quantity"`
	SalePrice int64     `db:"sale_price"`
}

type OrderRepository struct {
	db *sqlx.DB
}

var (
	_ model.OrderRepository = (*OrderRepository)(nil)
	_ model.OrderPersister  = (*OrderRepository)(nil)
)

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

// Commit stores the order with all of its items and takes the ordered
// quantities out of stock in a single transaction. Stock rows are updated
// first, in product id order, so competing orders queue on the exclusive row
// locks instead of upgrading the shared locks taken by the item foreign keys.
// The stock update only succeeds while enough units are left; an order that
// loses the race fails with model.ErrPersistenceConflict and nothing of it is
// written.
func (r *OrderRepository) Commit(ctx context.Context, order *model.Order, products []model.Product) error {
	changes := order.StockChanges()
	known := make(map[uuid.UUID]bool, len(products))
	for _, product := range products {
		known[product.ID] = true
	}
	for _, change := range changes {
		if !known[change.ProductID] {
			return &model.ProductNotFoundError{ProductID: change.ProductID}
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer rollback(tx)

	now := time.Now().UTC()
	for _, change := range changes {
		result, err := tx.ExecContext(ctx,
			`UPDATE products SET available_quantity = available_quantity - ?, updated_at = ?
			WHERE id = ? AND available_quantity >= ? AND deleted_at IS NULL`,
			change.Quantity, now, change.ProductID, change.Quantity,
		)
		if err != nil {
			return commitError(err, "failed to update product stock")
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "failed to read affected rows")
		}
		if affected == 0 {
			return errors.Wrapf(model.ErrPersistenceConflict, "stock of product %s is no longer available", change.ProductID)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, total_value, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, order.TotalCents, order.Status.String(), now, now,
	)
	if isMissingReference(err) {
		return errors.Wrapf(model.ErrPersistenceConflict, "user %s no longer exists", order.UserID)
	}
	if err != nil {
		return commitError(err, "failed to insert order")
	}

	for i, item := range order.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO orders_items (id, order_id, product_id, position, quantity, sale_price) VALUES (?, ?, ?, ?, ?, ?)`,
			item.ID, order.ID, item.ProductID, i, item.Quantity, item.SalePriceCents,
		)
		if isMissingReference(err) {
			return errors.Wrapf(model.ErrPersistenceConflict, "product %s no longer exists", item.ProductID)
		}
		if err != nil {
			return commitError(err, "failed to insert order item")
		}
	}

	if err := tx.Commit(); err != nil {
		return commitError(err, "failed to commit transaction")
	}

	order.CreatedAt = now
	order.UpdatedAt = now
	return nil
}

func commitError(err error, message string) error {
	if isLockConflict(err) {
		return errors.Wrapf(model.ErrPersistenceConflict, "%s: %v", message, err)
	}
	return errors.Wrap(err, message)
}

func (r *OrderRepository) Find(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, `SELECT `+orderColumns+` FROM orders WHERE id = ? AND deleted_at IS NULL`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query order")
	}

	order, err := row.toModel()
	if err != nil {
		return nil, err
	}

	var items []orderItemRow
	err = r.db.SelectContext(ctx, &items,
		`SELECT id, order_id, product_id, quantity, sale_price FROM orders_items WHERE order_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query order items")
	}
	order.Items = make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		order.Items = append(order.Items, model.OrderItem{
			ID:             item.ID,
			OrderID:        item.OrderID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			SalePriceCents: item.SalePrice,
		})
	}
	return &order, nil
}

func (r *OrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	var rows []orderRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = ? AND deleted_at IS NULL ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query orders")
	}

	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		order, err := row.toModel()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, order *model.Order) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		order.Status.String(), order.UpdatedAt, order.ID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update order status")
	}
	return expectAffected(result, model.ErrOrderNotFound)
}
