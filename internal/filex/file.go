// Package filex prepares filesystem locations the server writes to.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SQLitePath extracts the database file path from a SQLite DSN, accepting
// both plain paths and "file:" URIs. In-memory databases have no path and
// yield "".
func SQLitePath(dsn string) string {
	path, query, _ := strings.Cut(dsn, "?")
	path = strings.TrimPrefix(path, "file:")

	if path == "" || path == ":memory:" || strings.Contains(query, "mode=memory") {
		return ""
	}
	return path
}

// EnsureParentDir creates the directory that will hold the SQLite file named
// by dsn and returns it. In-memory DSNs are a no-op returning "".
func EnsureParentDir(dsn string) (string, error) {
	path := SQLitePath(dsn)
	if path == "" {
		return "", nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
