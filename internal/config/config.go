package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Tracking TrackingConfig `yaml:"tracking"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	CORS     CORSConfig     `yaml:"cors"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret"         env:"AUTH_JWT_SECRET"         env-required:"true"`
	JWTIssuer        string        `yaml:"jwt_issuer"         env:"AUTH_JWT_ISSUER"         env-default:"rolltime"`
	AccessTokenTTL   time.Duration `yaml:"access_token_ttl"   env:"AUTH_ACCESS_TOKEN_TTL"   env-default:"15m"`
	RefreshTokenTTL  time.Duration `yaml:"refresh_token_ttl"  env:"AUTH_REFRESH_TOKEN_TTL"  env-default:"720h"`
	PasswordHashCost int           `yaml:"password_hash_cost" env:"AUTH_PASSWORD_HASH_COST" env-default:"10"`
}

// TrackingConfig holds tracking engine settings.
type TrackingConfig struct {
	// MinIntervalDuration is the threshold below which a just-closed
	// interval is discarded as accidental noise.
	MinIntervalDuration time.Duration `yaml:"min_interval_duration" env:"TRACKING_MIN_INTERVAL_DURATION" env-default:"60s"`
	// HistoryMaxPageSize caps the page size of time entry listings.
	HistoryMaxPageSize int `yaml:"history_max_page_size" env:"TRACKING_HISTORY_MAX_PAGE_SIZE" env-default:"500"`
}

// KafkaConfig holds tracking event publishing settings. With no brokers
// configured the notifier is a no-op.
type KafkaConfig struct {
	BrokersRaw string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:""`
	Topic      string `yaml:"topic"   env:"KAFKA_TOPIC"   env-default:"tracking-events"`
}

// Brokers returns the broker list parsed from the comma-separated raw value.
func (c KafkaConfig) Brokers() []string {
	if strings.TrimSpace(c.BrokersRaw) == "" {
		return nil
	}
	parts := strings.Split(c.BrokersRaw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
