// Package config loads the settings of a summary run.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"token-flow-lab/internal/amount"
	"token-flow-lab/internal/flows"
	"token-flow-lab/internal/holders"
	"token-flow-lab/internal/storage"
)

// Backend names.
const (
	BackendMemory     = "memory"
	BackendPostgres   = "postgres"
	BackendClickhouse = "clickhouse"
)

// Environment variables consulted when the file leaves a value empty.
const (
	EnvPostgresDSN   = "POSTGRES_DSN"
	EnvClickhouseDSN = "CLICKHOUSE_DSN"
	EnvNATSURL       = "NATS_URL"
)

// ErrInvalidConfig wraps every problem reported by Validate.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Token   TokenConfig   `yaml:"token"`
	Summary SummaryConfig `yaml:"summary"`
	Output  OutputConfig  `yaml:"output"`
	NATS    NATSConfig    `yaml:"nats"`
	Log     LogConfig     `yaml:"log"`
}

type StorageConfig struct {
	Accounts         string `yaml:"accounts"`  // memory | postgres
	Transfers        string `yaml:"transfers"` // memory | postgres | clickhouse
	PostgresDSN      string `yaml:"postgres_dsn"`
	ClickhouseDSN    string `yaml:"clickhouse_dsn"`
	PostgresMaxConns int32  `yaml:"postgres_max_conns"`
}

type TokenConfig struct {
	Symbol   string   `yaml:"symbol"`
	Decimals int32    `yaml:"decimals"`
	Chains   []string `yaml:"chains"`
}

type SummaryConfig struct {
	TopN      int    `yaml:"top_n"`
	PageSize  int    `yaml:"page_size"`
	BatchSize int    `yaml:"batch_size"`
	Labels    string `yaml:"labels"` // empty disables labels
}

type OutputConfig struct {
	Path            string `yaml:"path"`
	ReportDir       string `yaml:"report_dir"`       // empty disables markdown/CSV exports
	MetricsTextfile string `yaml:"metrics_textfile"` // empty disables the textfile
}

type NATSConfig struct {
	URL     string `yaml:"url"` // empty disables notifications
	Subject string `yaml:"subject"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Accounts:         BackendPostgres,
			Transfers:        BackendPostgres,
			PostgresMaxConns: 4,
		},
		Token: TokenConfig{
			Decimals: amount.TokenDecimals,
			Chains:   []string{"ethereum", "base"},
		},
		Summary: SummaryConfig{
			TopN:      flows.DefaultTopN,
			PageSize:  storage.DefaultPageSize,
			BatchSize: holders.DefaultBatchSize,
		},
		Output: OutputConfig{
			Path: "out/summary.json",
		},
		NATS: NATSConfig{
			Subject: "token.summary",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
// Environment fallbacks are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if c.Storage.PostgresDSN == "" {
		c.Storage.PostgresDSN = os.Getenv(EnvPostgresDSN)
	}
	if c.Storage.ClickhouseDSN == "" {
		c.Storage.ClickhouseDSN = os.Getenv(EnvClickhouseDSN)
	}
	if c.NATS.URL == "" {
		c.NATS.URL = os.Getenv(EnvNATSURL)
	}
}

// Validate rejects inconsistent settings. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Accounts {
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, fmt.Errorf("storage.postgres_dsn is required for postgres accounts (or set %s)", EnvPostgresDSN))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.accounts: unknown backend %q", c.Storage.Accounts))
	}

	switch c.Storage.Transfers {
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" && c.Storage.Accounts != BackendPostgres {
			errs = append(errs, fmt.Errorf("storage.postgres_dsn is required for postgres transfers (or set %s)", EnvPostgresDSN))
		}
	case BackendClickhouse:
		if c.Storage.ClickhouseDSN == "" {
			errs = append(errs, fmt.Errorf("storage.clickhouse_dsn is required for clickhouse transfers (or set %s)", EnvClickhouseDSN))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.transfers: unknown backend %q", c.Storage.Transfers))
	}

	if (c.Storage.Accounts == BackendMemory) != (c.Storage.Transfers == BackendMemory) {
		errs = append(errs, errors.New("storage: memory backend must be used for both accounts and transfers"))
	}

	if c.Token.Decimals <= 0 || c.Token.Decimals > 77 {
		errs = append(errs, fmt.Errorf("token.decimals out of range: %d", c.Token.Decimals))
	}
	if len(c.Token.Chains) == 0 {
		errs = append(errs, errors.New("token.chains must not be empty"))
	}
	for _, chain := range c.Token.Chains {
		if strings.TrimSpace(chain) == "" || chain != strings.ToLower(chain) {
			errs = append(errs, fmt.Errorf("token.chains: invalid chain name %q", chain))
		}
	}

	if c.Summary.TopN <= 0 {
		errs = append(errs, fmt.Errorf("summary.top_n must be positive: %d", c.Summary.TopN))
	}
	if c.Summary.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("summary.page_size must be positive: %d", c.Summary.PageSize))
	}
	if c.Summary.BatchSize <= 0 || c.Summary.BatchSize > holders.DefaultBatchSize {
		errs = append(errs, fmt.Errorf("summary.batch_size must be in 1..%d: %d", holders.DefaultBatchSize, c.Summary.BatchSize))
	}

	if c.Output.Path == "" {
		errs = append(errs, errors.New("output.path is required"))
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		errs = append(errs, errors.New("nats.subject is required when nats.url is set"))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
