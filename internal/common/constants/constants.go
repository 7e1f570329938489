package constants

import "time"

const (
	UsernameMinLength  = 5
	UsernameMaxLength  = 64
	PasswordMaxBytes   = 72
	JWTSecretMinLength = 32

	DefaultMaxRequestSize = 1 << 20

	DefaultBcryptCost = 12

	Argon2Memory      = 64 * 1024
	Argon2Iterations  = 3
	Argon2Parallelism = 2
	Argon2SaltLength  = 16
	Argon2KeyLength   = 32

	Argon2MaxMemory     = 1024 * 1024
	Argon2MaxIterations = 64

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "8080"
	DefaultTokenTTL       = 7 * 24 * time.Hour
	DefaultRequestTimeout = 5 * time.Second

	DefaultCircuitBreakerThreshold = 5
	DefaultCircuitBreakerTimeout   = 5 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	DefaultCatalogCacheTTL = 10 * time.Minute
	CatalogCacheKeyPrefix  = "myflix:catalog:"

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28

	DefaultLogDir = "/var/log/myflix"
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
