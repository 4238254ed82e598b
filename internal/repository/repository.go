package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the pgx-backed facts provider and persistence sink.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}
