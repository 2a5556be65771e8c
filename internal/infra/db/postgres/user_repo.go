package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"unified-ai-chat/internal/domain"
	"unified-ai-chat/internal/domain/model"
	"unified-ai-chat/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

func (r *UserRepo) Save(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, username, email, password_hash, created_at, last_login)
VALUES ($1,$2,$3,$4,$5,$6);
`
	_, err := r.pool.Exec(ctx, q, u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt, u.LastLogin)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `
SELECT id, username, email, password_hash, created_at, last_login
  FROM users WHERE id=$1;
`
	return r.scanOne(r.pool.QueryRow(ctx, q, id))
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `
SELECT id, username, email, password_hash, created_at, last_login
  FROM users WHERE username=$1;
`
	return r.scanOne(r.pool.QueryRow(ctx, q, username))
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	const q = `UPDATE users SET last_login=NOW() WHERE id=$1;`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) scanOne(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.LastLogin); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
