package common

// Environment variable keys
const (
	EnvConfigFile     = "CONFIG_FILE"
	EnvPredictURL     = "PREDICT_URL"
	EnvUpstreamBase   = "UPSTREAM_BASE"
	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvListenPort     = "LISTEN_PORT"
	EnvMetricsPort    = "METRICS_PORT"
	EnvLogLevel       = "LOG_LEVEL"
)

// Configuration defaults
const (
	DefaultRequestTimeout = "10s"
	DefaultListenPort     = 8080
	DefaultMetricsPort    = 9090
	DefaultLogLevel       = "info"
)

// Common error messages
const (
	ErrMsgEndpointRequired = "prediction endpoint URL is required"
	ErrMsgUpstreamRequired = "upstream base URL is required when the endpoint is a relative path"
)

// Validation constants
const (
	MinPort = 1024
	MaxPort = 65535
)
