package sqlite

import (
	"testing"

	"nivizrater/internal/config"
)

func TestBuildDSN(t *testing.T) {
	fk := config.Pragma{Name: "foreign_keys", Value: "on"}
	wal := config.Pragma{Name: "journal_mode", Value: "wal"}

	tests := []struct {
		name     string
		location string
		pragmas  []config.Pragma
		expected string
	}{
		{
			name:     "plain path without pragmas",
			location: "rater.db",
			expected: "rater.db",
		},
		{
			name:     "plain path with pragma",
			location: "rater.db",
			pragmas:  []config.Pragma{fk},
			expected: "rater.db?_pragma=foreign_keys%28on%29",
		},
		{
			name:     "pragma order preserved",
			location: "/var/lib/rater/rater.db",
			pragmas:  []config.Pragma{fk, wal},
			expected: "/var/lib/rater/rater.db?_pragma=foreign_keys%28on%29&_pragma=journal_mode%28wal%29",
		},
		{
			name:     "file uri keeps its parameters",
			location: "file:rater.db?mode=rwc",
			pragmas:  []config.Pragma{fk},
			expected: "file:rater.db?_pragma=foreign_keys%28on%29&mode=rwc",
		},
		{
			name:     "memory",
			location: ":memory:",
			expected: ":memory:",
		},
		{
			name:     "sqlite url relative",
			location: "sqlite://data/rater.db",
			expected: "./data/rater.db",
		},
		{
			name:     "sqlite url absolute",
			location: "sqlite:///srv/rater.db",
			expected: "/srv/rater.db",
		},
		{
			name:     "sqlite url escaped path with query",
			location: "sqlite://my%20data/rater.db?mode=ro",
			pragmas:  []config.Pragma{fk},
			expected: "./my data/rater.db?_pragma=foreign_keys%28on%29&mode=ro",
		},
		{
			name:     "surrounding whitespace trimmed",
			location: "  rater.db \n",
			expected: "rater.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildDSN(tt.location, tt.pragmas)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestBuildDSN_Errors(t *testing.T) {
	tests := []struct {
		name     string
		location string
		pragmas  []config.Pragma
	}{
		{name: "empty location", location: ""},
		{name: "blank location", location: "   "},
		{name: "query without path", location: "?mode=ro"},
		{name: "bad query", location: "rater.db?mode=%zz"},
		{name: "bad pragma name", location: "rater.db", pragmas: []config.Pragma{{Name: "foreign keys", Value: "on"}}},
		{name: "empty pragma value", location: "rater.db", pragmas: []config.Pragma{{Name: "foreign_keys", Value: " "}}},
		{name: "pragma value injection", location: "rater.db", pragmas: []config.Pragma{{Name: "foreign_keys", Value: "on); DROP TABLE ratings; --"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildDSN(tt.location, tt.pragmas); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
