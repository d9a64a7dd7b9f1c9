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
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteRepository is the single-node identity store.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	var err error

	if user.ID == 0 {
		err = r.db.QueryRowContext(ctx,
			`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?) RETURNING id`,
			user.UserName, user.Email, user.PasswordHash).Scan(&user.ID)
	} else {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO users (id, username, email, password_hash) VALUES (?, ?, ?, ?)`,
			user.ID, user.UserName, user.Email, user.PasswordHash)
	}

	if err != nil {
		if field, ok := sqliteClassifyUniqueViolation(err); ok {
			return nil, &common.UniqueConstraintViolation{Field: field, Err: err}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, `SELECT id, username, email, password_hash FROM users WHERE email = ?`, email)
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, `SELECT id, username, email, password_hash FROM users WHERE id = ?`, id)
}

func (r *SQLiteRepository) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// sqliteClassifyUniqueViolation recognizes UNIQUE and PRIMARY KEY failures by
// extended result code, falling back to the driver message.
func sqliteClassifyUniqueViolation(err error) (field string, ok bool) {
	message := strings.ToLower(err.Error())

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			ok = true
		}
	}
	if !ok && !strings.Contains(message, "unique constraint failed") {
		return "", false
	}

	switch {
	case strings.Contains(message, "users.email"):
		return "email", true
	case strings.Contains(message, "users.id"):
		return "id", true
	default:
		return "unique", true
	}
}
