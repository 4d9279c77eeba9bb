package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"nivizrater/internal/config"
)

// buildDSN turns a database location into a modernc.org/sqlite DSN carrying
// one _pragma parameter per pragma, in order. The driver runs those on every
// new connection, so the settings hold for the whole pool.
func buildDSN(location string, pragmas []config.Pragma) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", fmt.Errorf("empty sqlite location")
	}

	if strings.HasPrefix(location, "sqlite://") {
		parsed, err := parseSQLiteURL(location)
		if err != nil {
			return "", err
		}
		location = parsed
	}

	base, rawQuery, _ := strings.Cut(location, "?")
	if base == "" {
		return "", fmt.Errorf("sqlite location %q has no path", location)
	}

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", fmt.Errorf("parsing sqlite query parameters: %w", err)
	}

	for _, p := range pragmas {
		clause, err := pragmaClause(p)
		if err != nil {
			return "", err
		}
		query.Add("_pragma", clause)
	}

	if len(query) == 0 {
		return base, nil
	}
	return base + "?" + query.Encode(), nil
}

func pragmaClause(p config.Pragma) (string, error) {
	if !config.ValidPragmaName(p.Name) {
		return "", fmt.Errorf("invalid pragma name %q", p.Name)
	}
	value := strings.TrimSpace(p.Value)
	if value == "" {
		return "", fmt.Errorf("pragma %s has no value", p.Name)
	}
	if strings.ContainsAny(value, "();") {
		return "", fmt.Errorf("invalid value %q for pragma %s", p.Value, p.Name)
	}
	return p.Name + "(" + value + ")", nil
}

// parseSQLiteURL resolves sqlite://<path>[?query] into a driver path.
func parseSQLiteURL(dsn string) (string, error) {
	rest := strings.TrimPrefix(dsn, "sqlite://")

	if rest == ":memory:" {
		return ":memory:", nil
	}

	if strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, "./") {
		return rest, nil
	}

	path, query, hasQuery := strings.Cut(rest, "?")

	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("unescaping path: %w", err)
	}
	path = unescaped

	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") {
		path = "./" + path
	}
	if hasQuery {
		return path + "?" + query, nil
	}
	return path, nil
}
