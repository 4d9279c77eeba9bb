package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	KeyDBFile    = "niviz_rater.db.file"
	KeyDBPragmas = "niviz_rater.db.pragmas"
	KeyDatman    = "datman_config"

	EnvDBFile = "NIVIZ_RATER_DB_FILE"
)

var ErrMissingKey = errors.New("missing configuration key")

// MissingKeyError reports a required configuration key that is absent or empty.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMissingKey, e.Key)
}

func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingKey
}

type AppConfig struct {
	DBFile  string        `yaml:"niviz_rater.db.file"`
	Pragmas []Pragma      `yaml:"niviz_rater.db.pragmas"`
	Datman  *DatmanConfig `yaml:"datman_config"`
	Logging LoggingConfig `yaml:"logging"`
}

// DatmanConfig selects a PostgreSQL database. User, Password and Server hold
// the names of environment variables, not the values themselves.
type DatmanConfig struct {
	DBName   string `yaml:"db_name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Server   string `yaml:"server"`
}

type Pragma struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

func (p Pragma) String() string {
	return p.Name + "=" + p.Value
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

var pragmaNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidPragmaName reports whether name can be sent to SQLite as a pragma name.
func ValidPragmaName(name string) bool {
	return pragmaNamePattern.MatchString(name)
}

func LoadAppConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading app config: %w", err)
	}

	cfg, err := ParseAppConfig(data)
	if err != nil {
		return nil, fmt.Errorf("loading app config: %w", err)
	}
	return cfg, nil
}

func ParseAppConfig(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)

	if err := validateAppConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv(EnvDBFile); v != "" {
		cfg.DBFile = v
	}
}

// Missing database keys are not reported here; the resolver reports them for
// the backend it actually selects.
func validateAppConfig(cfg *AppConfig) error {
	for i, pragma := range cfg.Pragmas {
		if strings.TrimSpace(pragma.Name) == "" {
			return fmt.Errorf("%s[%d] name is required", KeyDBPragmas, i)
		}
		if !ValidPragmaName(pragma.Name) {
			return fmt.Errorf("%s[%d] invalid name %q", KeyDBPragmas, i, pragma.Name)
		}
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported logging level: %s", cfg.Logging.Level)
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("unsupported logging format: %s", cfg.Logging.Format)
	}
	switch strings.ToLower(cfg.Logging.Output) {
	case "", "stdout", "stderr":
	default:
		return fmt.Errorf("unsupported logging output: %s", cfg.Logging.Output)
	}

	return nil
}
