// Package config loads server configuration from an optional YAML file,
// an optional .env file and environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-chaingraph/pkg/validation"
)

// EnvConfigPath names the YAML file to load when no path is given
const EnvConfigPath = "CHAINGRAPH_CONFIG"

// Source kinds
const (
	SourceFile      = "file"
	SourcePostgres  = "postgres"
	SourceS3        = "s3"
	SourceSynthetic = "synthetic"
)

// SourceKinds lists every supported snapshot source
var SourceKinds = []string{SourceFile, SourcePostgres, SourceS3, SourceSynthetic}

// Config is the full server configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Source   SourceConfig   `yaml:"source"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// ServerConfig holds HTTP listener and middleware settings
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	CORSAllowedOrigins   []string `yaml:"cors_allowed_origins"`
	CORSAllowCredentials bool     `yaml:"cors_allow_credentials"`
	// TrustedProxies lists CIDRs whose forwarding headers are believed
	TrustedProxies []string `yaml:"trusted_proxies"`

	// RateLimit is requests per second per client; 0 disables limiting
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`

	StreamMaxSubscribers int `yaml:"stream_max_subscribers"`
	StreamBufferSize     int `yaml:"stream_buffer_size"`
}

// LoggingConfig holds the log level
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SourceConfig selects and configures the snapshot source
type SourceConfig struct {
	Kind string `yaml:"kind"`

	// file
	Path string `yaml:"path"`

	// postgres
	DatabaseURL string `yaml:"database_url"`

	// s3
	Bucket   string `yaml:"bucket"`
	Key      string `yaml:"key"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`

	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`

	// synthetic
	Wallets      int   `yaml:"wallets"`
	Contracts    int   `yaml:"contracts"`
	Transactions int   `yaml:"transactions"`
	Seed         int64 `yaml:"seed"`

	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// AnalysisConfig holds per-request defaults
type AnalysisConfig struct {
	Directed          bool    `yaml:"directed"`
	LinkLimit         int     `yaml:"link_limit"`
	TemporalLinkLimit int     `yaml:"temporal_link_limit"`
	TopN              int     `yaml:"top_n"`
	DefaultAlgorithm  string  `yaml:"default_algorithm"`
	DefaultLayout     string  `yaml:"default_layout"`
	LayoutScale       float64 `yaml:"layout_scale"`
	WindowSize        int     `yaml:"window_size"`
	MaxWindows        int     `yaml:"max_windows"`
	EnableLouvain     bool    `yaml:"enable_louvain"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                 "0.0.0.0",
			Port:                 8000,
			ReadTimeout:          30 * time.Second,
			WriteTimeout:         60 * time.Second,
			ShutdownTimeout:      30 * time.Second,
			RateBurst:            20,
			StreamMaxSubscribers: 1000,
			StreamBufferSize:     100,
		},
		Logging: LoggingConfig{Level: "info"},
		Source: SourceConfig{
			Kind:         SourceSynthetic,
			Region:       "us-east-1",
			Wallets:      50,
			Contracts:    10,
			Transactions: 200,
			Seed:         1,
			FetchTimeout: 30 * time.Second,
		},
		Analysis: AnalysisConfig{
			Directed:          true,
			LinkLimit:         1000,
			TemporalLinkLimit: 5000,
			TopN:              10,
			DefaultAlgorithm:  "louvain",
			DefaultLayout:     "spring",
			LayoutScale:       100,
			WindowSize:        86400,
			MaxWindows:        30,
			EnableLouvain:     true,
		},
	}
}

// Load builds the configuration. path names a YAML file; when empty the
// CHAINGRAPH_CONFIG variable is consulted and a missing file is not an
// error. envFiles are loaded with godotenv before environment overrides
// apply; with none given, ./.env is tried. Variables already set in the
// process environment win over .env entries.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays environment variables onto c
func (c *Config) applyEnv() error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, v))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid boolean %q", key, v))
				return
			}
			*dst = b
		}
	}

	str("HOST", &c.Server.Host)
	num("PORT", &c.Server.Port)
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.CORSAllowedOrigins = SplitList(v)
	}
	flag("CORS_ALLOW_CREDENTIALS", &c.Server.CORSAllowCredentials)
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		c.Server.TrustedProxies = SplitList(v)
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS: invalid number %q", v))
		} else {
			c.Server.RateLimit = f
		}
	}
	num("RATE_LIMIT_BURST", &c.Server.RateBurst)

	str("LOG_LEVEL", &c.Logging.Level)

	str("CHAINGRAPH_SOURCE", &c.Source.Kind)
	str("SNAPSHOT_PATH", &c.Source.Path)
	str("DATABASE_URL", &c.Source.DatabaseURL)
	str("S3_BUCKET", &c.Source.Bucket)
	str("S3_KEY", &c.Source.Key)
	str("AWS_REGION", &c.Source.Region)
	str("S3_ENDPOINT", &c.Source.Endpoint)
	if v := os.Getenv("SYNTHETIC_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("SYNTHETIC_SEED: invalid integer %q", v))
		} else {
			c.Source.Seed = seed
		}
	}

	flag("GRAPH_DIRECTED", &c.Analysis.Directed)
	num("LINK_LIMIT", &c.Analysis.LinkLimit)
	num("TEMPORAL_LINK_LIMIT", &c.Analysis.TemporalLinkLimit)
	str("DEFAULT_COMMUNITY_ALGORITHM", &c.Analysis.DefaultAlgorithm)
	flag("ENABLE_LOUVAIN", &c.Analysis.EnableLouvain)

	c.Source.Kind = strings.ToLower(c.Source.Kind)
	c.Analysis.DefaultAlgorithm = strings.ToLower(c.Analysis.DefaultAlgorithm)
	return errors.Join(errs...)
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	server := validation.NewConfigValidator("server").
		RangeInt("port", c.Server.Port, 0, 65535).
		MinDuration("read_timeout", c.Server.ReadTimeout, time.Second).
		MinDuration("write_timeout", c.Server.WriteTimeout, time.Second).
		MinDuration("shutdown_timeout", c.Server.ShutdownTimeout, 0).
		NonNegativeFloat("rate_limit", c.Server.RateLimit).
		When(c.Server.RateLimit > 0, func(v *validation.ConfigValidator) {
			v.Positive("rate_burst", c.Server.RateBurst)
		}).
		Positive("stream_max_subscribers", c.Server.StreamMaxSubscribers).
		Positive("stream_buffer_size", c.Server.StreamBufferSize)

	logging := validation.NewConfigValidator("logging").
		OneOf("level", strings.ToLower(c.Logging.Level), []string{"debug", "info", "warn", "warning", "error"})

	source := validation.NewConfigValidator("source").
		OneOf("kind", c.Source.Kind, SourceKinds).
		MinDuration("fetch_timeout", c.Source.FetchTimeout, time.Second).
		When(c.Source.Kind == SourceFile, func(v *validation.ConfigValidator) {
			v.Required("path", c.Source.Path)
		}).
		When(c.Source.Kind == SourcePostgres, func(v *validation.ConfigValidator) {
			v.Required("database_url", c.Source.DatabaseURL)
		}).
		When(c.Source.Kind == SourceS3, func(v *validation.ConfigValidator) {
			v.Required("bucket", c.Source.Bucket).Required("key", c.Source.Key)
		}).
		When(c.Source.Kind == SourceSynthetic, func(v *validation.ConfigValidator) {
			v.Positive("wallets", c.Source.Wallets).
				NonNegative("contracts", c.Source.Contracts).
				NonNegative("transactions", c.Source.Transactions)
		})

	analysis := validation.NewConfigValidator("analysis").
		RangeInt("link_limit", c.Analysis.LinkLimit, 1, 100000).
		RangeInt("temporal_link_limit", c.Analysis.TemporalLinkLimit, 1, 100000).
		RangeInt("top_n", c.Analysis.TopN, 1, 10000).
		OneOf("default_algorithm", c.Analysis.DefaultAlgorithm, []string{"louvain", "greedy", "label_propagation", "girvan_newman"}).
		Required("default_layout", c.Analysis.DefaultLayout).
		PositiveFloat("layout_scale", c.Analysis.LayoutScale).
		Positive("window_size", c.Analysis.WindowSize).
		RangeInt("max_windows", c.Analysis.MaxWindows, 1, 1000)

	return errors.Join(server.Validate(), logging.Validate(), source.Validate(), analysis.Validate())
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// SplitList splits a comma-separated list, trimming blanks
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
