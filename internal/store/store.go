package store

import (
	"context"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Store is a database handle. Its owner is responsible for Close.
type Store interface {
	Backend() Backend
	Ping(ctx context.Context) error
	Close(ctx context.Context) error

	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
