package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Appdynamics/rackspace-monitoring-extension/internal/rackspace"
	"github.com/Appdynamics/rackspace-monitoring-extension/internal/version"
	"gopkg.in/yaml.v3"
)

// Configuration validation constants
const (
	MinRefreshInterval = 60    // Minimum refresh interval in seconds
	MinPort            = 1     // Minimum valid port number
	MaxPort            = 65535 // Maximum valid port number
	MaxAPITimeout      = 300   // Maximum API timeout in seconds
	MaxConcurrency     = 64    // Upper bound for parallel family/region collections

	// Default values
	DefaultRefreshInterval = 60 // seconds
	DefaultHTTPPort        = 8080
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultAPITimeout      = 30 // API timeout in seconds
	DefaultMaxConcurrency  = rackspace.DefaultMaxConcurrency
)

// Config represents the application configuration
type Config struct {
	Username          string   `yaml:"username"`
	APIKey            string   `yaml:"api_key"`
	AccountBase       string   `yaml:"account_base"` // US or UK
	IdentityURL       string   `yaml:"identity_url"` // overrides the account base endpoint
	MetricPrefix      string   `yaml:"metric_prefix"`
	Families          []string `yaml:"families"`
	RefreshInterval   int      `yaml:"refresh_interval"` // seconds
	APITimeout        int      `yaml:"api_timeout"`      // seconds, per upstream request
	MaxConcurrency    int      `yaml:"max_concurrency"`
	RequestsPerSecond float64  `yaml:"requests_per_second"` // 0 = unlimited
	HTTPPort          int      `yaml:"http_port"`
	LogLevel          string   `yaml:"log_level"`
	LogFormat         string   `yaml:"log_format"` // json or text
	PrintMetrics      bool     `yaml:"print_metrics"`
}

// Load loads configuration from a YAML file and applies environment variable overrides
func Load(path string) (*Config, error) {
	// #nosec G304 -- Config file path is provided by administrator via CLI flag, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return finish(&cfg)
}

// LoadFromEnv builds the configuration from defaults and environment
// variables only, for deployments without a config file
func LoadFromEnv() (*Config, error) {
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("environment variable error: %w", err)
	}

	cfg.MetricPrefix = rackspace.NormalizePrefix(cfg.MetricPrefix)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for configuration
func applyDefaults(cfg *Config) {
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = DefaultHTTPPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.APITimeout == 0 {
		cfg.APITimeout = DefaultAPITimeout
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = DefaultMaxConcurrency
	}
}

// applyEnvOverrides applies environment variable overrides to configuration
func applyEnvOverrides(cfg *Config) error {
	textVars := map[string]*string{
		"RACKSPACE_USERNAME":      &cfg.Username,
		"RACKSPACE_API_KEY":       &cfg.APIKey,
		"RACKSPACE_ACCOUNT_BASE":  &cfg.AccountBase,
		"RACKSPACE_IDENTITY_URL":  &cfg.IdentityURL,
		"RACKSPACE_METRIC_PREFIX": &cfg.MetricPrefix,
		"RACKSPACE_LOG_LEVEL":     &cfg.LogLevel,
		"RACKSPACE_LOG_FORMAT":    &cfg.LogFormat,
	}
	for name, field := range textVars {
		if val := os.Getenv(name); val != "" {
			*field = val
		}
	}

	ints := map[string]*int{
		"RACKSPACE_REFRESH_INTERVAL": &cfg.RefreshInterval,
		"RACKSPACE_API_TIMEOUT":      &cfg.APITimeout,
		"RACKSPACE_MAX_CONCURRENCY":  &cfg.MaxConcurrency,
		"RACKSPACE_HTTP_PORT":        &cfg.HTTPPort,
	}
	for name, field := range ints {
		if val := os.Getenv(name); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid %s: must be an integer, got %q", name, val)
			}
			*field = i
		}
	}

	if val := os.Getenv("RACKSPACE_REQUESTS_PER_SECOND"); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid RACKSPACE_REQUESTS_PER_SECOND: must be a number, got %q", val)
		}
		cfg.RequestsPerSecond = f
	}

	if val := os.Getenv("RACKSPACE_PRINT_METRICS"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid RACKSPACE_PRINT_METRICS: must be a boolean, got %q", val)
		}
		cfg.PrintMetrics = b
	}

	// Example: RACKSPACE_FAMILIES="NextGenServers,Files"
	if val := os.Getenv("RACKSPACE_FAMILIES"); val != "" {
		var families []string
		for _, f := range strings.Split(val, ",") {
			if f = strings.TrimSpace(f); f != "" {
				families = append(families, f)
			}
		}
		cfg.Families = families
	}

	return nil
}

func invalid(field, reason string) error {
	return &rackspace.ConfigurationError{Field: field, Reason: reason}
}

// validate validates the configuration
func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Username) == "" {
		return invalid("username", "is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return invalid("api_key", "is required")
	}

	if cfg.IdentityURL == "" {
		if strings.TrimSpace(cfg.AccountBase) == "" {
			return invalid("account_base", "is required (US or UK)")
		}
		if _, err := rackspace.ParseAccountBase(cfg.AccountBase); err != nil {
			return err
		}
	} else {
		u, err := url.Parse(cfg.IdentityURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("identity_url", fmt.Sprintf("must be an absolute http(s) URL, got %q", cfg.IdentityURL))
		}
	}

	for _, f := range cfg.Families {
		if _, err := rackspace.ParseFamily(f); err != nil {
			return err
		}
	}

	if cfg.RefreshInterval < MinRefreshInterval {
		return invalid("refresh_interval", fmt.Sprintf("must be at least %d seconds, got %d", MinRefreshInterval, cfg.RefreshInterval))
	}

	if cfg.APITimeout <= 0 || cfg.APITimeout > MaxAPITimeout {
		return invalid("api_timeout", fmt.Sprintf("must be between 1 and %d seconds, got %d", MaxAPITimeout, cfg.APITimeout))
	}

	if cfg.MaxConcurrency < 1 || cfg.MaxConcurrency > MaxConcurrency {
		return invalid("max_concurrency", fmt.Sprintf("must be between 1 and %d, got %d", MaxConcurrency, cfg.MaxConcurrency))
	}

	if cfg.RequestsPerSecond < 0 {
		return invalid("requests_per_second", fmt.Sprintf("cannot be negative, got %v", cfg.RequestsPerSecond))
	}

	if cfg.HTTPPort < MinPort || cfg.HTTPPort > MaxPort {
		return invalid("http_port", fmt.Sprintf("must be between %d and %d", MinPort, MaxPort))
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "json", "text":
	default:
		return invalid("log_format", fmt.Sprintf("must be json or text, got %q", cfg.LogFormat))
	}

	return nil
}

// ResolvedIdentityURL returns identity_url if set, else the account base endpoint
func (c *Config) ResolvedIdentityURL() string {
	if c.IdentityURL != "" {
		return c.IdentityURL
	}
	base, err := rackspace.ParseAccountBase(c.AccountBase)
	if err != nil {
		return ""
	}
	return base.IdentityURL()
}

// EnabledFamilies returns the configured families, or all of them
func (c *Config) EnabledFamilies() []rackspace.Family {
	if len(c.Families) == 0 {
		return rackspace.AllFamilies()
	}
	families := make([]rackspace.Family, 0, len(c.Families))
	for _, name := range c.Families {
		if f, err := rackspace.ParseFamily(name); err == nil {
			families = append(families, f)
		}
	}
	return families
}

// MonitorOptions builds the rackspace.Monitor options from the configuration
func (c *Config) MonitorOptions() rackspace.Options {
	return rackspace.Options{
		Credentials: rackspace.Credentials{
			Username: c.Username,
			APIKey:   c.APIKey,
		},
		IdentityURL:    c.ResolvedIdentityURL(),
		MetricPrefix:   c.MetricPrefix,
		Families:       c.EnabledFamilies(),
		MaxConcurrency: c.MaxConcurrency,
		Client: rackspace.ClientOptions{
			Timeout:           time.Duration(c.APITimeout) * time.Second,
			RequestsPerSecond: c.RequestsPerSecond,
			UserAgent:         version.UserAgent(),
		},
	}
}
