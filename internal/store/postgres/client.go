package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"nivizrater/internal/store"
)

var _ store.Store = (*Client)(nil)

// ConnConfig holds resolved connection values. Empty fields fall back to
// libpq defaults (PGHOST, ~/.pgpass, ...).
type ConnConfig struct {
	Host     string
	User     string
	Password string
	Database string
}

// DSN renders the config as a keyword/value connection string.
func (c ConnConfig) DSN() string {
	return c.dsn(false)
}

// String is safe to log.
func (c ConnConfig) String() string {
	return c.dsn(true)
}

func (c ConnConfig) dsn(redact bool) string {
	parts := make([]string, 0, 4)
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+quoteConnValue(value))
		}
	}
	add("host", c.Host)
	add("user", c.User)
	if redact && c.Password != "" {
		parts = append(parts, "password=xxxxx")
	} else {
		add("password", c.Password)
	}
	add("dbname", c.Database)
	return strings.Join(parts, " ")
}

func quoteConnValue(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}

type Client struct {
	pool     *pgxpool.Pool
	database string
}

// New creates a pool for conn without connecting; the first query dials.
func New(ctx context.Context, conn ConnConfig) (*Client, error) {
	cfg, err := pgxpool.ParseConfig(conn.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing postgres config: %w", err)
	}
	cfg.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	return &Client{pool: pool, database: conn.Database}, nil
}

func (c *Client) Backend() store.Backend {
	return store.BackendPostgres
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pinging postgres: %w", err)
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	c.pool.Close()
	return nil
}

func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// Database is the database name the pool connects to.
func (c *Client) Database() string {
	return c.database
}
