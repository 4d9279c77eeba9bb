package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"nivizrater/internal/config"
	"nivizrater/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Client)(nil)

type Client struct {
	db      *sql.DB
	dsn     string
	pragmas []config.Pragma
}

// New prepares a handle for the database at location. Nothing is opened
// until the first query; pragmas are applied to each connection as it opens.
func New(location string, pragmas []config.Pragma) (*Client, error) {
	dsn, err := buildDSN(location, pragmas)
	if err != nil {
		return nil, fmt.Errorf("building sqlite DSN: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	return &Client{
		db:      db,
		dsn:     dsn,
		pragmas: append([]config.Pragma(nil), pragmas...),
	}, nil
}

func (c *Client) Backend() store.Backend {
	return store.BackendSQLite
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging sqlite: %w", err)
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close()
}

// DB exposes the underlying pool.
func (c *Client) DB() *sql.DB {
	return c.db
}

func (c *Client) DSN() string {
	return c.dsn
}

// Pragmas returns the pragmas applied at connection open, in order.
func (c *Client) Pragmas() []config.Pragma {
	return append([]config.Pragma(nil), c.pragmas...)
}

// PragmaValue reads the current value of a pragma on one pooled connection.
func (c *Client) PragmaValue(ctx context.Context, name string) (string, error) {
	if !config.ValidPragmaName(name) {
		return "", fmt.Errorf("invalid pragma name %q", name)
	}
	var value any
	if err := c.db.QueryRowContext(ctx, "PRAGMA "+name).Scan(&value); err != nil {
		return "", fmt.Errorf("reading pragma %s: %w", name, err)
	}
	if b, ok := value.([]byte); ok {
		return string(b), nil
	}
	return fmt.Sprint(value), nil
}
