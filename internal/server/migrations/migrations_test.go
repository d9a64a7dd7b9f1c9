package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	for name, fsys := range map[string]fs.FS{"postgres": Postgres, "sqlite": SQLite} {
		t.Run(name, func(t *testing.T) {
			files, err := fs.Glob(fsys, name+"/*.sql")
			require.NoError(t, err)
			require.NotEmpty(t, files)

			b, err := fs.ReadFile(fsys, files[0])
			require.NoError(t, err)
			body := string(b)
			assert.True(t, strings.Contains(body, "-- +goose Up"))
			assert.True(t, strings.Contains(body, "-- +goose Down"))
			assert.Contains(t, body, "email")
		})
	}
}

func TestPostgresConstraintNames(t *testing.T) {
	b, err := fs.ReadFile(Postgres, "postgres/00001_create_users.sql")
	require.NoError(t, err)
	// the users repository classifies conflicts by these names
	assert.Contains(t, string(b), "users_pkey")
	assert.Contains(t, string(b), "users_email_key")
}
