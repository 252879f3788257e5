package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	Session    SessionConfig    `yaml:"session"`
	Threat     ThreatConfig     `yaml:"threat"`
	Audit      AuditConfig      `yaml:"audit"`
	Encryption EncryptionConfig `yaml:"encryption"`
	GeoIP      GeoIPConfig      `yaml:"geoip"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"              env:"SERVER_HOST"              env-default:"0.0.0.0"`
	Port            int           `yaml:"port"              env:"SERVER_PORT"              env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"      env:"SERVER_READ_TIMEOUT"      env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"     env:"SERVER_WRITE_TIMEOUT"     env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"      env:"SERVER_IDLE_TIMEOUT"      env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"  env:"SERVER_SHUTDOWN_TIMEOUT"  env-default:"10s"`
	RateLimitPerIP  int           `yaml:"rate_limit_per_ip" env:"SERVER_RATE_LIMIT_PER_IP" env-default:"300"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// RedisConfig holds the session fast-path cache settings. The cache is
// best-effort: an empty Addr disables it and validation falls back to the store.
type RedisConfig struct {
	Addr     string        `yaml:"addr"     env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db"       env:"REDIS_DB"  env-default:"0"`
	TTL      time.Duration `yaml:"ttl"      env:"REDIS_TTL" env-default:"15m"`
}

// AuthConfig holds access-token settings.
type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret"         env:"AUTH_JWT_SECRET"         env-required:"true"`
	JWTIssuer        string        `yaml:"jwt_issuer"         env:"AUTH_JWT_ISSUER"         env-default:"clinic-backend"`
	AccessTokenTTL   time.Duration `yaml:"access_token_ttl"   env:"AUTH_ACCESS_TOKEN_TTL"   env-default:"15m"`
	PasswordHashCost int           `yaml:"password_hash_cost" env:"AUTH_PASSWORD_HASH_COST" env-default:"12"`
}

// SessionConfig holds session lifecycle settings.
type SessionConfig struct {
	MaxPerUser    int           `yaml:"max_per_user"   env:"SESSION_MAX_PER_USER"   env-default:"5"`
	Lifetime      time.Duration `yaml:"lifetime"       env:"SESSION_LIFETIME"       env-default:"12h"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"   env:"SESSION_IDLE_TIMEOUT"   env-default:"30m"`
	HistoryWindow time.Duration `yaml:"history_window" env:"SESSION_HISTORY_WINDOW" env-default:"720h"`
}

// ThreatConfig holds detection thresholds and behavioral scoring parameters.
type ThreatConfig struct {
	MaxLoginAttempts   int           `yaml:"max_login_attempts"    env:"THREAT_MAX_LOGIN_ATTEMPTS"    env-default:"5"`
	LoginWindow        time.Duration `yaml:"login_window"          env:"THREAT_LOGIN_WINDOW"          env-default:"15m"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" env:"THREAT_RATE_LIMIT_PER_MINUTE" env-default:"100"`
	BulkAccessLimit    int           `yaml:"bulk_access_limit"     env:"THREAT_BULK_ACCESS_LIMIT"     env-default:"100"`
	BlockDuration      time.Duration `yaml:"block_duration"        env:"THREAT_BLOCK_DURATION"        env-default:"1h"`
	AnomalyThreshold   float64       `yaml:"anomaly_threshold"     env:"THREAT_ANOMALY_THRESHOLD"     env-default:"10"`
	AnomalyIncrement   float64       `yaml:"anomaly_increment"     env:"THREAT_ANOMALY_INCREMENT"     env-default:"3"`
	AnomalyDecay       float64       `yaml:"anomaly_decay"         env:"THREAT_ANOMALY_DECAY"         env-default:"0.95"`
	SensitiveEndpoints string        `yaml:"sensitive_endpoints"   env:"THREAT_SENSITIVE_ENDPOINTS"   env-default:"/patients,/records,/billing,/insurance"`
}

// AuditConfig holds audit trail settings.
type AuditConfig struct {
	MaxDescriptionLen int    `yaml:"max_description_len" env:"AUDIT_MAX_DESCRIPTION_LEN" env-default:"1000"`
	RetentionDays     int    `yaml:"retention_days"      env:"AUDIT_RETENTION_DAYS"      env-default:"2555"`
	AllowRawValues    bool   `yaml:"allow_raw_values"    env:"AUDIT_ALLOW_RAW_VALUES"    env-default:"false"`
	RedactPatterns    string `yaml:"redact_patterns"     env:"AUDIT_REDACT_PATTERNS"     env-default:"password,token,secret,ssn,credit_card,medical_record_number"`
}

// EncryptionConfig holds the field-encryption master secret.
// The secret is required — the service refuses to start without it.
type EncryptionConfig struct {
	MasterSecret string `yaml:"master_secret" env:"ENCRYPTION_MASTER_SECRET" env-required:"true"`
}

// GeoIPConfig holds the optional geo-IP lookup settings.
// An empty BaseURL disables resolution; sessions then carry no geo info.
type GeoIPConfig struct {
	BaseURL string        `yaml:"base_url" env:"GEOIP_BASE_URL"`
	Timeout time.Duration `yaml:"timeout"  env:"GEOIP_TIMEOUT" env-default:"2s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// SensitivePrefixes splits the configured sensitive-endpoint list into
// normalized path prefixes.
func (t ThreatConfig) SensitivePrefixes() []string {
	var prefixes []string
	for _, p := range strings.Split(t.SensitiveEndpoints, ",") {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}

// RedactKeys splits the configured redaction patterns into a normalized list.
func (c AuditConfig) RedactKeys() []string {
	var keys []string
	for _, p := range strings.Split(c.RedactPatterns, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			keys = append(keys, p)
		}
	}
	return keys
}
