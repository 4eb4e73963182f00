package mysql

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"orderservice/pkg/order/domain/model"
)

const productColumns = `id, user_id, name, price, available_quantity, description, category, created_at, updated_at, deleted_at`

type productRow struct {
	ID                uuid.UUID  `db:"id"`
	UserID            uuid.UUID  `db:"user_id"`
	Name              string     `db:"name"`
	Price             int64      `db:"price"`
	AvailableQuantity int        `db:"available_quantity"`
	Description       string     `db:"description"`
	Category          string     `db:"category"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at"`
}

func (r productRow) toModel() model.Product {
	return model.Product{
		ID:                r.ID,
		UserID:            r.UserID,
		Name:              r.Name,
		PriceCents:        r.Price,
		AvailableQuantity: r.AvailableQuantity,
		Description:       r.Description,
		Category:          r.Category,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		DeletedAt:         r.DeletedAt,
	}
}

type featureRow struct {
	ID          uuid.UUID `db:"id"`
	ProductID   uuid.UUID `db:"product_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
}

type imageRow struct {
	ID          uuid.UUID `db:"id"`
	ProductID   uuid.UUID `db:"product_id"`
	URL         string    `db:"url"`
	Description string    `db:"description"`
}

type ProductRepository struct {
	db *sqlx.DB
}

var _ model.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

// FindByIDs loads every live product among ids in one query. Unknown ids are
// skipped; the caller decides whether that is an error.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE id IN (?) AND deleted_at IS NULL`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build products query")
	}
	return r.query(ctx, r.db.Rebind(query), args...)
}

func (r *ProductRepository) Find(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	products, err := r.query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, model.ErrProductNotFound
	}
	return &products[0], nil
}

func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products WHERE deleted_at IS NULL ORDER BY name, id`)
}

func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer rollback(tx)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO products (id, user_id, name, price, available_quantity, description, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID, product.UserID, product.Name, product.PriceCents, product.AvailableQuantity,
		product.Description, product.Category, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert product")
	}

	if err := insertFeatures(ctx, tx, product); err != nil {
		return err
	}
	if err := insertImages(ctx, tx, product); err != nil {
		return err
	}

	return errors.Wrap(tx.Commit(), "failed to commit transaction")
}

// Update writes the product row and the parts selected by fields. Replaced
// feature and image rows are deleted in the same transaction.
func (r *ProductRepository) Update(ctx context.Context, product *model.Product, fields model.ProductFields) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer rollback(tx)

	query := `UPDATE products SET name = ?, price = ?, description = ?, category = ?, updated_at = ?`
	args := []interface{}{product.Name, product.PriceCents, product.Description, product.Category, product.UpdatedAt}
	if fields.Stock {
		query += `, available_quantity = ?`
		args = append(args, product.AvailableQuantity)
	}
	query += ` WHERE id = ? AND deleted_at IS NULL`
	args = append(args, product.ID)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "failed to update product")
	}
	if err := expectAffected(result, model.ErrProductNotFound); err != nil {
		return err
	}

	if fields.Features {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_features WHERE product_id = ?`, product.ID); err != nil {
			return errors.Wrap(err, "failed to delete product features")
		}
		if err := insertFeatures(ctx, tx, product); err != nil {
			return err
		}
	}
	if fields.Images {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = ?`, product.ID); err != nil {
			return errors.Wrap(err, "failed to delete product images")
		}
		if err := insertImages(ctx, tx, product); err != nil {
			return err
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit transaction")
}

// Delete only marks the product as deleted: order items keep referencing it.
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return errors.Wrap(err, "failed to delete product")
	}
	return expectAffected(result, model.ErrProductNotFound)
}

func (r *ProductRepository) query(ctx context.Context, query string, args ...interface{}) ([]model.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to query products")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	products := make([]model.Product, 0, len(rows))
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
		ids = append(ids, row.ID)
	}

	if err := r.loadChildren(ctx, ids, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) loadChildren(ctx context.Context, ids []uuid.UUID, products []model.Product) error {
	index := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		index[products[i].ID] = &products[i]
	}

	query, args, err := sqlx.In(`SELECT id, product_id, name, description FROM product_features WHERE product_id IN (?) ORDER BY position`, ids)
	if err != nil {
		return errors.Wrap(err, "failed to build features query")
	}
	var features []featureRow
	if err := r.db.SelectContext(ctx, &features, r.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "failed to query product features")
	}
	for _, f := range features {
		if product, ok := index[f.ProductID]; ok {
			product.Features = append(product.Features, model.ProductFeature{ID: f.ID, Name: f.Name, Description: f.Description})
		}
	}

	query, args, err = sqlx.In(`SELECT id, product_id, url, description FROM product_images WHERE product_id IN (?) ORDER BY position`, ids)
	if err != nil {
		return errors.Wrap(err, "failed to build images query")
	}
	var images []imageRow
	if err := r.db.SelectContext(ctx, &images, r.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "failed to query product images")
	}
	for _, img := range images {
		if product, ok := index[img.ProductID]; ok {
			product.Images = append(product.Images, model.ProductImage{ID: img.ID, URL: img.URL, Description: img.Description})
		}
	}
	return nil
}

func insertFeatures(ctx context.Context, tx *sqlx.Tx, product *model.Product) error {
	for i, feature := range product.Features {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_features (id, product_id, position, name, description) VALUES (?, ?, ?, ?, ?)`,
			feature.ID, product.ID, i, feature.Name, feature.Description,
		)
		if err != nil {
			return errors.Wrap(err, "failed to insert product feature")
		}
	}
	return nil
}

func insertImages(ctx context.Context, tx *sqlx.Tx, product *model.Product) error {
	for i, image := range product.Images {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_images (id, product_id, position, url, description) VALUES (?, ?, ?, ?, ?)`,
			image.ID, product.ID, i, image.URL, image.Description,
		)
		if err != nil {
			return errors.Wrap(err, "failed to insert product image")
		}
	}
	return nil
}
