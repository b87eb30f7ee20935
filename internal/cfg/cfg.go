// Package cfg loads and validates dashboard configuration from a YAML file
// and environment variables. Environment variables override file values; a
// local .env file is honored when present.
package cfg

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"winedash/internal/common"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	// EndpointURL is the prediction service target. It is either a fully
	// qualified URL or a relative path proxied through this process; the
	// two observed deployment variants.
	EndpointURL string

	// UpstreamBase is the base URL the relative-path variant proxies to.
	// Required only when EndpointURL is a relative path.
	UpstreamBase string

	RequestTimeout time.Duration
	ListenPort     int
	MetricsPort    int
	LogLevel       string
}

// ConfigFile mirrors the YAML configuration layout.
type ConfigFile struct {
	Endpoint struct {
		URL          string `yaml:"url"`
		UpstreamBase string `yaml:"upstreamBase"`
		Timeout      string `yaml:"timeout"`
	} `yaml:"endpoint"`

	Server struct {
		ListenPort  int `yaml:"listenPort"`
		MetricsPort int `yaml:"metricsPort"`
	} `yaml:"server"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func Load() (Settings, error) {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	if configPath := os.Getenv(common.EnvConfigFile); configPath != "" {
		return loadFromYAML(configPath)
	}
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	timeout, err := time.ParseDuration(config.Endpoint.Timeout)
	if err != nil {
		timeout = defaultTimeout()
	}

	settings := Settings{
		EndpointURL:    getEnvOrDefault(common.EnvPredictURL, config.Endpoint.URL),
		UpstreamBase:   getEnvOrDefault(common.EnvUpstreamBase, config.Endpoint.UpstreamBase),
		RequestTimeout: getDurationOrDefault(common.EnvRequestTimeout, timeout),
		ListenPort:     getIntFromEnvOrConfig(common.EnvListenPort, config.Server.ListenPort, common.DefaultListenPort),
		MetricsPort:    getIntFromEnvOrConfig(common.EnvMetricsPort, config.Server.MetricsPort, common.DefaultMetricsPort),
		LogLevel:       getEnvOrDefault(common.EnvLogLevel, orDefault(config.Logging.Level, common.DefaultLogLevel)),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func loadFromEnv() (Settings, error) {
	endpoint, err := getEnvRequired(common.EnvPredictURL)
	if err != nil {
		return Settings{}, err
	}

	settings := Settings{
		EndpointURL:    endpoint,
		UpstreamBase:   os.Getenv(common.EnvUpstreamBase), // optional
		RequestTimeout: getDurationOrDefault(common.EnvRequestTimeout, defaultTimeout()),
		ListenPort:     getIntOrDefault(common.EnvListenPort, common.DefaultListenPort),
		MetricsPort:    getIntOrDefault(common.EnvMetricsPort, common.DefaultMetricsPort),
		LogLevel:       getEnvOrDefault(common.EnvLogLevel, common.DefaultLogLevel),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

// EndpointIsRelative reports whether the configured target is a same-origin
// path rather than a fully qualified URL.
func (s *Settings) EndpointIsRelative() bool {
	return strings.HasPrefix(s.EndpointURL, "/")
}

// ResolveEndpoint returns the absolute URL the prediction client calls. For
// the relative-path variant the path is joined onto the upstream base.
func (s *Settings) ResolveEndpoint() (string, error) {
	if !s.EndpointIsRelative() {
		return s.EndpointURL, nil
	}
	base, err := url.Parse(s.UpstreamBase)
	if err != nil {
		return "", fmt.Errorf("invalid upstream base %q: %w", s.UpstreamBase, err)
	}
	ref, err := url.Parse(s.EndpointURL)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint path %q: %w", s.EndpointURL, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func defaultTimeout() time.Duration {
	d, _ := time.ParseDuration(common.DefaultRequestTimeout)
	return d
}

func getEnvRequired(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("required environment variable %s is missing", key)
	}
	return v, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

// validateSettings performs validation of configuration values.
func validateSettings(settings *Settings) error {
	if settings.EndpointURL == "" {
		return fmt.Errorf(common.ErrMsgEndpointRequired)
	}

	if settings.EndpointIsRelative() {
		if settings.UpstreamBase == "" {
			return fmt.Errorf(common.ErrMsgUpstreamRequired)
		}
		if _, err := url.ParseRequestURI(settings.UpstreamBase); err != nil {
			return fmt.Errorf("upstream base is not a valid URL: %w", err)
		}
	} else if _, err := url.ParseRequestURI(settings.EndpointURL); err != nil {
		return fmt.Errorf("endpoint is not a valid URL: %w", err)
	}

	if settings.RequestTimeout < time.Second || settings.RequestTimeout > time.Minute {
		return fmt.Errorf("request timeout must be between 1s and 1m, got %v", settings.RequestTimeout)
	}

	if settings.ListenPort < common.MinPort || settings.ListenPort > common.MaxPort {
		return fmt.Errorf("listen port must be between %d and %d, got %d", common.MinPort, common.MaxPort, settings.ListenPort)
	}
	if settings.MetricsPort < common.MinPort || settings.MetricsPort > common.MaxPort {
		return fmt.Errorf("metrics port must be between %d and %d, got %d", common.MinPort, common.MaxPort, settings.MetricsPort)
	}
	if settings.ListenPort == settings.MetricsPort {
		return fmt.Errorf("listen port and metrics port must differ, both are %d", settings.ListenPort)
	}

	switch settings.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", settings.LogLevel)
	}

	return nil
}
