package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	IdentityModeLocal  = "local"
	IdentityModeRemote = "remote"
)

type Config struct {
	Env      string
	HTTPPort string

	DatabaseURL string

	IdentityMode        string
	IdentityBaseURL     string
	IdentityAnonKey     string
	IdentityJWTSecret   string
	IdentityJWTIssuer   string
	IdentityJWTAudience string
	IdentityHTTPTimeout time.Duration

	AdminRoleName string
	RoleCacheTTL  time.Duration

	AdminRateLimitPerMin  int
	RateLimitRedisEnabled bool
	RateLimitRedisPrefix  string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int

	AuditArchiveEndpoint  string
	AuditArchiveAccessKey string
	AuditArchiveSecretKey string
	AuditArchiveBucket    string
	AuditArchiveUseSSL    bool

	BootstrapAdminID string

	ReadinessProbeTimeout  time.Duration
	ServerStartGracePeriod time.Duration

	OTELServiceName           string
	OTELEnvironment           string
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPInsecure  bool
	OTELMetricsExportInterval time.Duration
	OTELTraceSamplingRatio    float64
	OTELMetricsEnabled        bool
	OTELTracingEnabled        bool
	OTELLogsEnabled           bool
	OTELLogLevel              string
}

func Load() (*Config, error) {
	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:         env,
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		IdentityMode:        strings.ToLower(getEnv("IDENTITY_MODE", IdentityModeRemote)),
		IdentityBaseURL:     strings.TrimRight(os.Getenv("IDENTITY_BASE_URL"), "/"),
		IdentityAnonKey:     os.Getenv("IDENTITY_ANON_KEY"),
		IdentityJWTSecret:   os.Getenv("IDENTITY_JWT_SECRET"),
		IdentityJWTIssuer:   getEnv("IDENTITY_JWT_ISSUER", "lockdesk"),
		IdentityJWTAudience: getEnv("IDENTITY_JWT_AUDIENCE", "lockdesk-admin"),

		AdminRoleName: strings.ToLower(getEnv("ADMIN_ROLE_NAME", "admin")),

		AdminRateLimitPerMin:  getEnvInt("ADMIN_RATE_LIMIT_PER_MIN", 60),
		RateLimitRedisEnabled: getEnvBool("RATE_LIMIT_REDIS_ENABLED", false),
		RateLimitRedisPrefix:  getEnv("RATE_LIMIT_REDIS_PREFIX", "lockdesk:rl"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               getEnvInt("REDIS_DB", 0),

		AuditArchiveEndpoint:  os.Getenv("AUDIT_ARCHIVE_ENDPOINT"),
		AuditArchiveAccessKey: os.Getenv("AUDIT_ARCHIVE_ACCESS_KEY"),
		AuditArchiveSecretKey: os.Getenv("AUDIT_ARCHIVE_SECRET_KEY"),
		AuditArchiveBucket:    getEnv("AUDIT_ARCHIVE_BUCKET", "lockdesk-audit"),
		AuditArchiveUseSSL:    getEnvBool("AUDIT_ARCHIVE_USE_SSL", true),

		BootstrapAdminID: strings.TrimSpace(os.Getenv("BOOTSTRAP_ADMIN_ID")),

		OTELServiceName:          getEnv("OTEL_SERVICE_NAME", "lockdesk"),
		OTELEnvironment:          getEnv("OTEL_ENVIRONMENT", env),
		OTELExporterOTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTELExporterOTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELTraceSamplingRatio:   getEnvFloat("OTEL_TRACE_SAMPLING_RATIO", 1.0),
		OTELMetricsEnabled:       getEnvBool("OTEL_METRICS_ENABLED", true),
		OTELTracingEnabled:       getEnvBool("OTEL_TRACING_ENABLED", true),
		OTELLogsEnabled:          getEnvBool("OTEL_LOGS_ENABLED", true),
		OTELLogLevel:             strings.ToLower(getEnv("OTEL_LOG_LEVEL", "info")),
	}

	identityTimeout, err := time.ParseDuration(getEnv("IDENTITY_HTTP_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("parse IDENTITY_HTTP_TIMEOUT: %w", err)
	}
	cfg.IdentityHTTPTimeout = identityTimeout

	roleCacheTTL, err := time.ParseDuration(getEnv("ROLE_CACHE_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("parse ROLE_CACHE_TTL: %w", err)
	}
	cfg.RoleCacheTTL = roleCacheTTL

	probeTimeout, err := time.ParseDuration(getEnv("READINESS_PROBE_TIMEOUT", "1s"))
	if err != nil {
		return nil, fmt.Errorf("parse READINESS_PROBE_TIMEOUT: %w", err)
	}
	cfg.ReadinessProbeTimeout = probeTimeout

	gracePeriod, err := time.ParseDuration(getEnv("SERVER_START_GRACE_PERIOD", "0s"))
	if err != nil {
		return nil, fmt.Errorf("parse SERVER_START_GRACE_PERIOD: %w", err)
	}
	cfg.ServerStartGracePeriod = gracePeriod

	metricsInterval, err := time.ParseDuration(getEnv("OTEL_METRICS_EXPORT_INTERVAL", "10s"))
	if err != nil {
		return nil, fmt.Errorf("parse OTEL_METRICS_EXPORT_INTERVAL: %w", err)
	}
	cfg.OTELMetricsExportInterval = metricsInterval

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the startup contract: the privileged database credential
// and the identity-verification credentials must be present before the
// service accepts a single request. Absence is a fatal misconfiguration,
// never a per-request error.
func (c *Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	switch c.IdentityMode {
	case IdentityModeRemote:
		if c.IdentityBaseURL == "" {
			errs = append(errs, "IDENTITY_BASE_URL is required when IDENTITY_MODE=remote")
		}
		if c.IdentityAnonKey == "" {
			errs = append(errs, "IDENTITY_ANON_KEY is required when IDENTITY_MODE=remote")
		}
	case IdentityModeLocal:
		if len(c.IdentityJWTSecret) < 32 {
			errs = append(errs, "IDENTITY_JWT_SECRET must be at least 32 chars when IDENTITY_MODE=local")
		}
	default:
		errs = append(errs, "IDENTITY_MODE must be local or remote")
	}
	if c.AdminRoleName == "" {
		errs = append(errs, "ADMIN_ROLE_NAME must not be empty")
	}
	if c.AdminRateLimitPerMin <= 0 {
		errs = append(errs, "ADMIN_RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.IdentityHTTPTimeout <= 0 {
		errs = append(errs, "IDENTITY_HTTP_TIMEOUT must be > 0")
	}
	if c.RoleCacheTTL < 0 {
		errs = append(errs, "ROLE_CACHE_TTL must be >= 0")
	}
	if (c.OTELMetricsEnabled || c.OTELTracingEnabled || c.OTELLogsEnabled) && c.OTELExporterOTLPEndpoint == "" {
		errs = append(errs, "OTEL_EXPORTER_OTLP_ENDPOINT is required when OTel is enabled")
	}
	if c.OTELTraceSamplingRatio < 0 || c.OTELTraceSamplingRatio > 1 {
		errs = append(errs, "OTEL_TRACE_SAMPLING_RATIO must be between 0 and 1")
	}
	if c.OTELMetricsExportInterval <= 0 {
		errs = append(errs, "OTEL_METRICS_EXPORT_INTERVAL must be > 0")
	}
	if !isValidLogLevel(c.OTELLogLevel) {
		errs = append(errs, "OTEL_LOG_LEVEL must be one of debug, info, warn, error")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func isValidLogLevel(v string) bool {
	switch strings.ToLower(v) {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
