package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/dbx"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	var err error

	if user.ID == 0 {
		query :=
			`INSERT INTO users (username, email, password_hash)
			 VALUES ($1, $2, $3)
			 RETURNING id
			 `
		err = r.db.QueryRowContext(ctx, query,
			user.UserName, user.Email, user.PasswordHash).Scan(&user.ID)
	} else {
		query :=
			`INSERT INTO users (id, username, email, password_hash)
			 VALUES ($1, $2, $3, $4)
			 `
		_, err = r.db.ExecContext(ctx, query,
			user.ID, user.UserName, user.Email, user.PasswordHash)
	}

	if err != nil {
		if field, ok := pgClassifyUniqueViolation(err); ok {
			return nil, &common.UniqueConstraintViolation{Field: field, Err: err}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password_hash FROM users
		 WHERE email = $1
		 `
	return r.findOne(ctx, query, email)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, username, email, password_hash FROM users
		 WHERE id = $1
		 `
	return r.findOne(ctx, query, id)
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHash)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// pgClassifyUniqueViolation maps a unique_violation to the logical field it
// guards. Constraint names come from the users migration; anything else
// falls back to substring matching.
func pgClassifyUniqueViolation(err error) (field string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return "", false
	}

	c := strings.ToLower(pgErr.ConstraintName)
	switch {
	case c == "users_email_key" || strings.Contains(c, "email"):
		return "email", true
	case c == "users_pkey" || strings.HasSuffix(c, "_pkey"):
		return "id", true
	default:
		return "unique", true
	}
}
