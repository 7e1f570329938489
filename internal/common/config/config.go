package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/AlibekovAA/myflix/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidJWTSecret   = fmt.Errorf("JWT_SECRET must be at least %d bytes", constants.JWTSecretMinLength)
	ErrInvalidHasher      = errors.New("PASSWORD_HASHER must be bcrypt or argon2id")
	ErrInvalidTokenTTL    = errors.New("TOKEN_TTL must be positive")
)

const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

type APIConfig struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	TokenTTL       time.Duration
	RequestTimeout time.Duration
	RunMigrations  bool

	PasswordHasher string
	BcryptCost     int

	Redis           RedisConfig
	CatalogCacheTTL time.Duration

	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration

	LogDir   string
	LogLevel string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// LoadAPIConfig reads the process environment, after merging a .env file
// when one exists. The signing secret and database URL have no defaults.
func LoadAPIConfig() (APIConfig, error) {
	_ = godotenv.Load()

	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return APIConfig{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return APIConfig{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return APIConfig{}, err
	}

	hasher := strings.ToLower(getEnv("PASSWORD_HASHER", HasherBcrypt))
	if hasher != HasherBcrypt && hasher != HasherArgon2id {
		return APIConfig{}, fmt.Errorf("%w: got %q", ErrInvalidHasher, hasher)
	}

	tokenTTL := getDurationEnv("TOKEN_TTL", constants.DefaultTokenTTL)
	if tokenTTL <= 0 {
		return APIConfig{}, ErrInvalidTokenTTL
	}

	return APIConfig{
		HTTPPort:       getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:    databaseURL,
		JWTSecret:      jwtSecret,
		TokenTTL:       tokenTTL,
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		RunMigrations:  getBoolEnv("RUN_MIGRATIONS", true),
		PasswordHasher: hasher,
		BcryptCost:     getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		CatalogCacheTTL:         getDurationEnv("CATALOG_CACHE_TTL", constants.DefaultCatalogCacheTTL),
		CircuitBreakerThreshold: int32(getIntEnv("DB_CIRCUIT_THRESHOLD", constants.DefaultCircuitBreakerThreshold)),
		CircuitBreakerTimeout:   getDurationEnv("DB_CIRCUIT_TIMEOUT", constants.DefaultCircuitBreakerTimeout),
		CircuitBreakerReset:     getDurationEnv("DB_CIRCUIT_RESET", constants.DefaultCircuitBreakerReset),
		LogDir:                  getEnv("LOG_DIR", ""),
		LogLevel:                getEnv("LOG_LEVEL", "INFO"),
	}, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
