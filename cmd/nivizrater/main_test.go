package main

import (
	"os"
	"path/filepath"
	"testing"

	"nivizrater/internal/config"
)

func TestParseParamPairs(t *testing.T) {
	params, err := parseParamPairs([]string{"1=CMH", " 2 = 3 ", "", "3=a=b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params["1"] != "CMH" || params["2"] != "3" || params["3"] != "a=b" {
		t.Fatalf("unexpected params: %v", params)
	}

	for _, bad := range []string{"noequals", "=value"} {
		if _, err := parseParamPairs([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParsePragmaFlags(t *testing.T) {
	pragmas, err := parsePragmaFlags([]string{"journal_mode=wal", "busy_timeout = 5000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pragmas) != 2 || pragmas[0] != (config.Pragma{Name: "journal_mode", Value: "wal"}) || pragmas[1] != (config.Pragma{Name: "busy_timeout", Value: "5000"}) {
		t.Fatalf("unexpected pragmas: %v", pragmas)
	}

	for _, bad := range []string{"wal", "=wal", "journal mode=wal"} {
		if _, err := parsePragmaFlags([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestRunInit_SQLite(t *testing.T) {
	t.Setenv(config.EnvDBFile, "")
	path := filepath.Join(t.TempDir(), "rater.yaml")
	if err := runInit(path, "file:ratings.db?mode=rwc", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := config.LoadAppConfig(path)
	if err != nil {
		t.Fatalf("loading scaffolded config: %v", err)
	}
	if cfg.DBFile != "file:ratings.db?mode=rwc" {
		t.Fatalf("expected db file, got %q", cfg.DBFile)
	}
	if cfg.Datman != nil {
		t.Fatalf("expected no datman block, got %+v", cfg.Datman)
	}
}

func TestRunInit_Datman(t *testing.T) {
	t.Setenv(config.EnvDBFile, "")
	path := filepath.Join(t.TempDir(), "rater.yaml")
	if err := runInit(path, "rater.db", "qc_ratings"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := config.LoadAppConfig(path)
	if err != nil {
		t.Fatalf("loading scaffolded config: %v", err)
	}
	want := config.DatmanConfig{DBName: "qc_ratings", User: "DATMAN_DB_USER", Password: "DATMAN_DB_PASSWORD", Server: "DATMAN_DB_HOST"}
	if cfg.Datman == nil || *cfg.Datman != want {
		t.Fatalf("expected %+v, got %+v", want, cfg.Datman)
	}
}

func TestRunInit_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rater.yaml")
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatalf("seeding file: %v", err)
	}
	if err := runInit(path, "rater.db", ""); err == nil {
		t.Fatalf("expected error")
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "existing" {
		t.Fatalf("expected file to be untouched, got %q (%v)", data, err)
	}
}
