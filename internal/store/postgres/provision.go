package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	maintenanceDatabase = "postgres"

	// SQLSTATE duplicate_database
	duplicateDatabaseCode = "42P04"
)

var ErrEmptyDatabaseName = errors.New("database name is required")

// Outcome is the result of a create-if-absent attempt.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeCreated
	OutcomeAlreadyExists
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyExists:
		return "already_exists"
	default:
		return "failed"
	}
}

// AdminConn is the part of *pgx.Conn used for provisioning.
type AdminConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Close(ctx context.Context) error
}

type ConnectFunc func(ctx context.Context, cfg ConnConfig) (AdminConn, error)

type Provisioner struct {
	connect ConnectFunc
	logger  *slog.Logger
}

type Option func(*Provisioner)

// WithConnector replaces the function used to open the administrative connection.
func WithConnector(connect ConnectFunc) Option {
	return func(p *Provisioner) {
		p.connect = connect
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Provisioner) {
		p.logger = logger
	}
}

func NewProvisioner(options ...Option) *Provisioner {
	p := &Provisioner{
		connect: connectAdmin,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func connectAdmin(ctx context.Context, cfg ConnConfig) (AdminConn, error) {
	connCfg, err := pgx.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing admin config: %w", err)
	}
	conn, err := pgx.ConnectConfig(ctx, connCfg)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// EnsureDatabase creates database name on the server reached by admin unless
// it already exists. The statement runs over a dedicated connection to the
// maintenance database, outside any transaction, and that connection is
// closed before returning.
func (p *Provisioner) EnsureDatabase(ctx context.Context, admin ConnConfig, name string) (Outcome, error) {
	if strings.TrimSpace(name) == "" {
		return OutcomeFailed, ErrEmptyDatabaseName
	}

	admin.Database = maintenanceDatabase
	conn, err := p.connect(ctx, admin)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("connecting to maintenance database: %w", err)
	}
	defer func() {
		if err := conn.Close(ctx); err != nil {
			p.logger.Warn("closing admin connection", "error", err)
		}
	}()

	stmt := "CREATE DATABASE " + pgx.Identifier{name}.Sanitize()
	p.logger.Debug("provisioning database", "database", name, "server", admin.Host)

	// CREATE DATABASE is rejected inside a transaction block; the simple
	// protocol sends it as a single autocommitted statement.
	if _, err := conn.Exec(ctx, stmt, pgx.QueryExecModeSimpleProtocol); err != nil {
		if isDuplicateDatabase(err) {
			p.logger.Debug("database already exists", "database", name)
			return OutcomeAlreadyExists, nil
		}
		return OutcomeFailed, fmt.Errorf("creating database %s: %w", name, err)
	}

	p.logger.Info("database created", "database", name)
	return OutcomeCreated, nil
}

func isDuplicateDatabase(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == duplicateDatabaseCode
}
