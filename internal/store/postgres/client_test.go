package postgres

import (
	"context"
	"strings"
	"testing"

	"nivizrater/internal/store"
)

func TestConnConfigDSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      ConnConfig
		expected string
	}{
		{
			name:     "all fields",
			cfg:      ConnConfig{Host: "db.internal", User: "rater", Password: "s3cret", Database: "qc"},
			expected: "host='db.internal' user='rater' password='s3cret' dbname='qc'",
		},
		{
			name:     "empty fields omitted",
			cfg:      ConnConfig{Host: "db.internal", User: "rater"},
			expected: "host='db.internal' user='rater'",
		},
		{
			name:     "quotes and backslashes escaped",
			cfg:      ConnConfig{User: "o'neil", Password: `a\b c`},
			expected: `user='o\'neil' password='a\\b c'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DSN(); got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestConnConfigStringRedactsPassword(t *testing.T) {
	cfg := ConnConfig{Host: "db.internal", User: "rater", Password: "s3cret", Database: "qc"}
	got := cfg.String()
	if strings.Contains(got, "s3cret") {
		t.Fatalf("expected password redacted, got %q", got)
	}
	if !strings.Contains(got, "password=xxxxx") {
		t.Fatalf("expected redaction marker, got %q", got)
	}
}

func TestNewDoesNotConnect(t *testing.T) {
	// No server is listening in unit tests; building the pool must not dial.
	ctx := context.Background()
	client, err := New(ctx, ConnConfig{Host: "127.0.0.1", User: "rater", Password: "x", Database: "qc"})
	if err != nil {
		t.Fatalf("expected lazy pool creation, got %v", err)
	}
	defer client.Close(ctx)

	if client.Backend() != store.BackendPostgres {
		t.Fatalf("expected postgres backend, got %q", client.Backend())
	}
	if client.Database() != "qc" {
		t.Fatalf("expected database qc, got %q", client.Database())
	}
}
