package common

import (
	"errors"
	"fmt"
)

// UniqueConstraintViolation is returned by repositories when an insert is
// rejected by a uniqueness constraint. Field is a stable logical column name
// ("email", "id") rather than the database constraint name.
type UniqueConstraintViolation struct {
	Field string
	Err   error
}

func (e *UniqueConstraintViolation) Error() string {
	if e.Field == "" {
		return "unique constraint violation"
	}
	return fmt.Sprintf("unique constraint violation: %s", e.Field)
}

func (e *UniqueConstraintViolation) Unwrap() error { return e.Err }

// IsUniqueViolation reports whether err is (or wraps) a UniqueConstraintViolation
// and returns the violated field.
func IsUniqueViolation(err error) (string, bool) {
	var uv *UniqueConstraintViolation
	if !errors.As(err, &uv) {
		return "", false
	}
	return uv.Field, true
}
