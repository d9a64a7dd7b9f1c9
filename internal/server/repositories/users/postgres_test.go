package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	qInsertAssigned = `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id\s*$`
	qInsertWithID   = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*username,\s*email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*$`
	qFindByEmail    = `(?s)^SELECT\s+id,\s*username,\s*email,\s*password_hash\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	qFindByID       = `(?s)^SELECT\s+id,\s*username,\s*email,\s*password_hash\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
)

var userCols = []string{"id", "username", "email", "password_hash"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_AssignsID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qInsertAssigned).
		WithArgs("alice", "alice@example.com", "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	got, err := repo.Create(context.Background(), &models.User{UserName: "alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 42 || got.UserName != "alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreate_WithExplicitLargeID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	const fbID int64 = 9007199254740993
	mock.ExpectExec(qInsertWithID).
		WithArgs(fbID, "bob", "user17@example.com", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), &models.User{ID: fbID, UserName: "bob", Email: "user17@example.com"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != fbID {
		t.Fatalf("id changed: %d", got.ID)
	}
}

func TestCreate_UniqueViolationIsClassified(t *testing.T) {
	tests := []struct {
		constraint string
		field      string
	}{
		{"users_email_key", "email"},
		{"users_pkey", "id"},
		{"some_other_idx", "unique"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectQuery(qInsertAssigned).
				WithArgs("alice", "alice@example.com", "").
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			_, err := repo.Create(context.Background(), &models.User{UserName: "alice", Email: "alice@example.com"})
			field, ok := common.IsUniqueViolation(err)
			if !ok {
				t.Fatalf("expected unique violation, got %v", err)
			}
			if field != tt.field {
				t.Fatalf("field = %q, want %q", field, tt.field)
			}
		})
	}
}

func TestCreate_OtherPgErrorIsWrapped(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qInsertAssigned).
		WithArgs("alice", "alice@example.com", "").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "fk"})

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", Email: "alice@example.com"})
	if _, ok := common.IsUniqueViolation(err); ok {
		t.Fatalf("foreign key violation must not be a unique violation: %v", err)
	}
	if err == nil || !regexp.MustCompile(`^db error: `).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(qInsertWithID).
		WithArgs(int64(7), "x", "x@y.z", "").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{ID: 7, UserName: "x", Email: "x@y.z"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qFindByEmail).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(1), "alice", "alice@example.com", "$2a$10$x"))

	got, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	want := models.User{ID: 1, UserName: "alice", Email: "alice@example.com", PasswordHash: "$2a$10$x"}
	if *got != want {
		t.Fatalf("got %+v, want %+v", *got, want)
	}
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qFindByEmail).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFindByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qFindByID).
		WithArgs(int64(9007199254740993)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(9007199254740993), "fb", "user1@example.com", ""))

	got, err := repo.FindByID(context.Background(), 9007199254740993)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if got.ID != 9007199254740993 || got.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestFindByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qFindByID).
		WithArgs(int64(3)).
		WillReturnError(errors.New("db err"))

	_, err := repo.FindByID(context.Background(), 3)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
