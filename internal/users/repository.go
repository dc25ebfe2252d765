package users

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edulingo/backend/internal/apperr"
	"github.com/edulingo/backend/internal/models"
)

// Repository handles user reads. The users table is an opaque passthrough;
// no business logic lives here.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a users repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all users.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	const q = `SELECT id, email, COALESCE(full_name,''), created_at FROM users ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "list users", err)
	}
	defer rows.Close()
	var list []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindStore, "scan user", err)
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "list users", err)
	}
	return list, nil
}
