package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the companion site API.
type Config struct {
	DBDriver         string
	DBPath           string
	DatabaseURL      string
	ServerPort       int
	LogLevel         string
	SentryDSN        string
	Environment      string
	ShutdownGrace    time.Duration
	SessionSecret    string
	SessionTTL       time.Duration
	PublicDir        string
	StorageBackend   string
	MinIO            MinIOConfig
	UploadMaxBytes   int64
	RateLimit        RateLimitConfig
	StrictListErrors bool
}

// MinIOConfig configures the optional object storage backend for uploads.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	StorageLocal = "local"
	StorageMinIO = "minio"

	EnvironmentProduction = "production"
)

const (
	defaultDBPath         = "./data/afterlife.db"
	defaultServerPort     = 8080
	defaultLogLevel       = "info"
	defaultEnvironment    = "development"
	defaultShutdownGrace  = 10 * time.Second
	defaultSessionTTL     = 7 * 24 * time.Hour
	defaultSessionSecret  = "development-session-secret-change-me"
	defaultPublicDir      = "./public"
	defaultUploadMaxBytes = 100 << 20
	defaultRateLimitRPS   = 10
	defaultRateLimitBurst = 40
	defaultRateLimitTTL   = 10 * time.Minute
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:         getEnv("DB_PATH", defaultDBPath),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LogLevel:       getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		Environment:    getEnv("ENV", defaultEnvironment),
		ShutdownGrace:  defaultShutdownGrace,
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		PublicDir:      getEnv("PUBLIC_DIR", defaultPublicDir),
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageLocal)),
		MinIO: MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    os.Getenv("MINIO_BUCKET"),
		},
		RateLimit: RateLimitConfig{
			ClientTTL: defaultRateLimitTTL,
		},
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, eris.New("DATABASE_URL is required when DB_DRIVER is postgres")
		}
	default:
		return nil, eris.Errorf("unsupported DB_DRIVER value: %s", cfg.DBDriver)
	}

	if cfg.SessionSecret == "" {
		if cfg.Environment == EnvironmentProduction {
			return nil, eris.New("SESSION_SECRET is required in production")
		}
		cfg.SessionSecret = defaultSessionSecret
	}

	ttlValue := getEnv("SESSION_TTL", defaultSessionTTL.String())
	ttl, err := time.ParseDuration(ttlValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SESSION_TTL value: %s", ttlValue)
	}
	cfg.SessionTTL = ttl

	switch cfg.StorageBackend {
	case StorageLocal:
	case StorageMinIO:
		if cfg.MinIO.Endpoint == "" || cfg.MinIO.Bucket == "" {
			return nil, eris.New("MINIO_ENDPOINT and MINIO_BUCKET are required when STORAGE_BACKEND is minio")
		}
	default:
		return nil, eris.Errorf("unsupported STORAGE_BACKEND value: %s", cfg.StorageBackend)
	}

	if cfg.MinIO.UseSSL, err = getBool("MINIO_USE_SSL", false); err != nil {
		return nil, err
	}

	if cfg.StrictListErrors, err = getBool("STRICT_LIST_ERRORS", false); err != nil {
		return nil, err
	}

	maxBytesValue := getEnv("UPLOAD_MAX_BYTES", strconv.Itoa(defaultUploadMaxBytes))
	maxBytes, err := strconv.ParseInt(maxBytesValue, 10, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid UPLOAD_MAX_BYTES value: %s", maxBytesValue)
	}
	cfg.UploadMaxBytes = maxBytes

	rpsValue := getEnv("RATE_LIMIT_RPS", strconv.Itoa(defaultRateLimitRPS))
	rps, err := strconv.ParseFloat(rpsValue, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid RATE_LIMIT_RPS value: %s", rpsValue)
	}
	cfg.RateLimit.RequestsPerSecond = rps

	burstValue := getEnv("RATE_LIMIT_BURST", strconv.Itoa(defaultRateLimitBurst))
	burst, err := strconv.Atoi(burstValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid RATE_LIMIT_BURST value: %s", burstValue)
	}
	cfg.RateLimit.Burst = burst

	return cfg, nil
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, eris.Wrapf(err, "invalid %s value: %s", key, raw)
	}
	return value, nil
}
