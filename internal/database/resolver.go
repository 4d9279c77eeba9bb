package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"nivizrater/internal/config"
	"nivizrater/internal/store"
	"nivizrater/internal/store/postgres"
	"nivizrater/internal/store/sqlite"
)

var ErrMissingEnv = errors.New("environment variable not set")

// MissingEnvError reports a datman_config entry naming an unset variable.
type MissingEnvError struct {
	Key string
	Var string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("%s: %s (referenced by %s)", ErrMissingEnv, e.Var, e.Key)
}

func (e *MissingEnvError) Is(target error) bool {
	return target == ErrMissingEnv
}

// Provisioner creates a server-side database if it does not exist yet.
type Provisioner interface {
	EnsureDatabase(ctx context.Context, admin postgres.ConnConfig, name string) (postgres.Outcome, error)
}

type PostgresOpener func(ctx context.Context, conn postgres.ConnConfig) (store.Store, error)

type Resolver struct {
	provisioner  Provisioner
	openPostgres PostgresOpener
	lookupEnv    func(string) (string, bool)
	logger       *slog.Logger
}

type Option func(*Resolver)

func WithProvisioner(p Provisioner) Option {
	return func(r *Resolver) {
		r.provisioner = p
	}
}

func WithPostgresOpener(open PostgresOpener) Option {
	return func(r *Resolver) {
		r.openPostgres = open
	}
}

// WithLookupEnv replaces os.LookupEnv for resolving datman_config variables.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(r *Resolver) {
		r.lookupEnv = lookup
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func NewResolver(options ...Option) *Resolver {
	r := &Resolver{
		lookupEnv: os.LookupEnv,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(r)
	}
	if r.provisioner == nil {
		r.provisioner = postgres.NewProvisioner(postgres.WithLogger(r.logger))
	}
	if r.openPostgres == nil {
		r.openPostgres = openPostgres
	}
	return r
}

func openPostgres(ctx context.Context, conn postgres.ConnConfig) (store.Store, error) {
	return postgres.New(ctx, conn)
}

// DefaultPragmas returns the pragmas every embedded database is opened with.
func DefaultPragmas() []config.Pragma {
	return []config.Pragma{{Name: "foreign_keys", Value: "on"}}
}

// Resolve returns the handle held by cache when there is one, without any
// check against cfg. Otherwise it defers to GetOrCreate. Resolve never fills
// the cache.
func (r *Resolver) Resolve(ctx context.Context, cfg *config.AppConfig, cache *Cache, extra ...config.Pragma) (store.Store, error) {
	if db, ok := cache.Get(); ok {
		return db, nil
	}
	return r.GetOrCreate(ctx, cfg, extra...)
}

// GetOrCreate provisions PostgreSQL when cfg carries a datman_config block and
// otherwise prepares the SQLite database named by niviz_rater.db.file.
func (r *Resolver) GetOrCreate(ctx context.Context, cfg *config.AppConfig, extra ...config.Pragma) (store.Store, error) {
	if cfg == nil {
		return nil, errors.New("nil app config")
	}
	if cfg.Datman != nil {
		return r.ProvisionPostgres(ctx, cfg)
	}

	if cfg.DBFile == "" {
		return nil, &config.MissingKeyError{Key: config.KeyDBFile}
	}

	pragmas := DefaultPragmas()
	pragmas = append(pragmas, extra...)
	pragmas = append(pragmas, cfg.Pragmas...)

	db, err := sqlite.New(cfg.DBFile, pragmas)
	if err != nil {
		return nil, err
	}
	r.logger.Info("resolved database", "backend", store.BackendSQLite, "location", cfg.DBFile, "pragmas", len(pragmas))
	return db, nil
}

// ProvisionPostgres creates the datman database when absent and returns a
// handle connected to it. Credentials and host come from the environment
// variables named in the block.
func (r *Resolver) ProvisionPostgres(ctx context.Context, cfg *config.AppConfig) (store.Store, error) {
	conn, outcome, err := r.ensurePostgres(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db, err := r.openPostgres(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", conn.Database, err)
	}
	r.logger.Info("resolved database", "backend", store.BackendPostgres, "database", conn.Database, "host", conn.Host, "outcome", outcome.String())
	return db, nil
}

// EnsurePostgres runs only the create-if-absent half of ProvisionPostgres.
func (r *Resolver) EnsurePostgres(ctx context.Context, cfg *config.AppConfig) (postgres.Outcome, error) {
	_, outcome, err := r.ensurePostgres(ctx, cfg)
	return outcome, err
}

func (r *Resolver) ensurePostgres(ctx context.Context, cfg *config.AppConfig) (postgres.ConnConfig, postgres.Outcome, error) {
	if cfg == nil || cfg.Datman == nil {
		return postgres.ConnConfig{}, postgres.OutcomeFailed, &config.MissingKeyError{Key: config.KeyDatman}
	}

	name := cfg.Datman.DBName
	if name == "" {
		return postgres.ConnConfig{}, postgres.OutcomeFailed, &config.MissingKeyError{Key: config.KeyDatman + ".db_name"}
	}

	conn, err := r.datmanConn(cfg.Datman)
	if err != nil {
		return postgres.ConnConfig{}, postgres.OutcomeFailed, err
	}

	outcome, err := r.provisioner.EnsureDatabase(ctx, conn, name)
	if err != nil {
		return postgres.ConnConfig{}, outcome, fmt.Errorf("provisioning database %s: %w", name, err)
	}

	conn.Database = name
	return conn, outcome, nil
}

func (r *Resolver) datmanConn(dm *config.DatmanConfig) (postgres.ConnConfig, error) {
	var conn postgres.ConnConfig
	fields := []struct {
		key    string
		envVar string
		dst    *string
	}{
		{key: "user", envVar: dm.User, dst: &conn.User},
		{key: "password", envVar: dm.Password, dst: &conn.Password},
		{key: "server", envVar: dm.Server, dst: &conn.Host},
	}

	for _, field := range fields {
		key := config.KeyDatman + "." + field.key
		if field.envVar == "" {
			return postgres.ConnConfig{}, &config.MissingKeyError{Key: key}
		}
		value, ok := r.lookupEnv(field.envVar)
		if !ok {
			return postgres.ConnConfig{}, &MissingEnvError{Key: key, Var: field.envVar}
		}
		*field.dst = value
	}
	return conn, nil
}
