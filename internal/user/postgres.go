package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
    id          BIGSERIAL PRIMARY KEY,
    external_id VARCHAR(100) NOT NULL UNIQUE,
    name        VARCHAR(100) NOT NULL,
    job         VARCHAR(50)  NOT NULL DEFAULT '무직',
    gold        BIGINT       NOT NULL DEFAULT 100,
    created_at  TIMESTAMPTZ  NOT NULL DEFAULT now()
)`

// PostgresRepository persists user records in a single users table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository wraps an existing connection pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the users table when it does not exist yet.  The
// table is small enough that migrations would be overhead.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schemaDDL)
	return err
}

func (r *PostgresRepository) ByID(ctx context.Context, id int64) (*User, error) {
	return r.one(ctx, `SELECT id, external_id, name, job, gold, created_at FROM users WHERE id = $1`, id)
}

func (r *PostgresRepository) ByExternalID(ctx context.Context, externalID string) (*User, error) {
	return r.one(ctx, `SELECT id, external_id, name, job, gold, created_at FROM users WHERE external_id = $1`, externalID)
}

func (r *PostgresRepository) ByNickname(ctx context.Context, nickname string) (*User, error) {
	return r.one(ctx, `SELECT id, external_id, name, job, gold, created_at FROM users WHERE name = $1 ORDER BY id LIMIT 1`, nickname)
}

func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, external_id, name, job, gold, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.ExternalID, &u.Nickname, &u.Job, &u.Gold, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Save(ctx context.Context, u *User) (*User, error) {
	if u.ID == 0 {
		return r.insert(ctx, u)
	}
	return r.update(ctx, u)
}

func (r *PostgresRepository) insert(ctx context.Context, u *User) (*User, error) {
	stored := *u
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (external_id, name, job, gold)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		u.ExternalID, u.Nickname, u.Job, u.Gold,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &stored, nil
}

func (r *PostgresRepository) update(ctx context.Context, u *User) (*User, error) {
	stored := *u
	err := r.pool.QueryRow(ctx,
		`UPDATE users SET external_id = $2, name = $3, job = $4, gold = $5
		 WHERE id = $1
		 RETURNING created_at`,
		u.ID, u.ExternalID, u.Nickname, u.Job, u.Gold,
	).Scan(&stored.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &stored, nil
}

func (r *PostgresRepository) one(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.ExternalID, &u.Nickname, &u.Job, &u.Gold, &u.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

func translateErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrConflict
	}
	return err
}
