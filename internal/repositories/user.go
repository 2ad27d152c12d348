package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-user-portal/internal/logger"
	"github.com/sbilibin2017/gw-user-portal/internal/models"
)

// UserReadRepository handles user lookups.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByEmail returns the user with exactly this email, or nil if none exists.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	query := r.db.Rebind(`
		SELECT id, name, email, password
		FROM users
		WHERE email = ?
		LIMIT 1
	`)

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, email)

	logger.Log.Debugw("query executed",
		"query", oneLine(query),
		"args", []any{email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UserWriteRepository handles user creation. It exposes no update or delete.
type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user in its own transaction and returns it with the
// assigned id. A duplicate email yields an error wrapping
// models.ErrConstraintViolation.
func (r *UserWriteRepository) Save(ctx context.Context, name, email, password string) (*models.UserDB, error) {
	query := r.db.Rebind(`
		INSERT INTO users (name, email, password)
		VALUES (?, ?, ?)
		RETURNING id
	`)

	var id int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, query, name, email, password).Scan(&id)
	})

	logger.Log.Debugw("query executed",
		"query", oneLine(query),
		"args", []any{name, email, "***"},
		"result", id,
		"error", err,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", models.ErrConstraintViolation, err)
		}
		return nil, err
	}

	return &models.UserDB{
		ID:       id,
		Name:     name,
		Email:    email,
		Password: password,
	}, nil
}

// oneLine collapses a multi-line query for logging.
func oneLine(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
