package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"nivizrater/internal/config"
	"nivizrater/internal/database"
	"nivizrater/internal/logging"
	"nivizrater/internal/store"
)

var (
	configPath  string
	pragmaFlags []string
)

func loadConfig() (*config.AppConfig, *slog.Logger, error) {
	cfg, err := config.LoadAppConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(cfg.Logging, version), nil
}

func newResolver(logger *slog.Logger) *database.Resolver {
	return database.NewResolver(database.WithLogger(logger))
}

func openDB(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (store.Store, error) {
	extra, err := parsePragmaFlags(pragmaFlags)
	if err != nil {
		return nil, err
	}
	return newResolver(logger).GetOrCreate(ctx, cfg, extra...)
}

func parsePragmaFlags(flags []string) ([]config.Pragma, error) {
	pragmas := make([]config.Pragma, 0, len(flags))
	for _, flag := range flags {
		name, value, ok := strings.Cut(flag, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid pragma %q: expected name=value", flag)
		}
		if !config.ValidPragmaName(name) {
			return nil, fmt.Errorf("invalid pragma name %q", name)
		}
		pragmas = append(pragmas, config.Pragma{Name: name, Value: strings.TrimSpace(value)})
	}
	return pragmas, nil
}
