// Package users is the identity store: the only place user rows are read and
// written. Implementations exist for PostgreSQL and SQLite.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophid/internal/server/models"
)

// Repository is the narrow create/find contract the identity core consumes.
//
// Find methods return common.ErrorNotFound when no row matches. Create
// returns *common.UniqueConstraintViolation when the email or id is already
// taken; a zero user.ID lets the store assign one.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}
