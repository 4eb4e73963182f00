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

const userColumns = `id, name, email, hashed_password, created_at, updated_at, deleted_at`

type userRow struct {
	ID             uuid.UUID  `db:"id"`
	Name           string     `db:"name"`
	Email          string     `db:"email"`
	HashedPassword string     `db:"hashed_password"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

func (r userRow) toModel() model.User {
	return model.User{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		HashedPassword: r.HashedPassword,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		DeletedAt:      r.DeletedAt,
	}
}

type UserRepository struct {
	db *sqlx.DB
}

var _ model.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, hashed_password, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.HashedPassword, user.CreatedAt, user.UpdatedAt,
	)
	if isDuplicateEntry(err) {
		return model.ErrEmailTaken
	}
	return errors.Wrap(err, "failed to insert user")
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, hashed_password = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		user.Name, user.Email, user.HashedPassword, user.UpdatedAt, user.ID,
	)
	if isDuplicateEntry(err) {
		return model.ErrEmailTaken
	}
	if err != nil {
		return errors.Wrap(err, "failed to update user")
	}
	return expectAffected(result, model.ErrUserNotFound)
}

func (r *UserRepository) Find(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ? AND deleted_at IS NULL`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? AND deleted_at IS NULL`, email)
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var rows []userRow
	err := r.db.SelectContext(ctx, &rows, `SELECT `+userColumns+` FROM users WHERE deleted_at IS NULL ORDER BY created_at, id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query users")
	}

	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toModel())
	}
	return users, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return errors.Wrap(err, "failed to delete user")
	}
	return expectAffected(result, model.ErrUserNotFound)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query user")
	}

	user := row.toModel()
	return &user, nil
}

func expectAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
