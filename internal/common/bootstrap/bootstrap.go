package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/myflix/internal/auth/http"
	authservice "github.com/AlibekovAA/myflix/internal/auth/service"
	"github.com/AlibekovAA/myflix/internal/catalog/cache"
	cataloghttp "github.com/AlibekovAA/myflix/internal/catalog/http"
	catalogrepo "github.com/AlibekovAA/myflix/internal/catalog/repository"
	catalogservice "github.com/AlibekovAA/myflix/internal/catalog/service"
	"github.com/AlibekovAA/myflix/internal/common/clock"
	"github.com/AlibekovAA/myflix/internal/common/config"
	"github.com/AlibekovAA/myflix/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/myflix/internal/common/crypto"
	"github.com/AlibekovAA/myflix/internal/common/db"
	commonhttp "github.com/AlibekovAA/myflix/internal/common/http"
	"github.com/AlibekovAA/myflix/internal/common/jwtverify"
	"github.com/AlibekovAA/myflix/internal/common/logger"
	"github.com/AlibekovAA/myflix/internal/common/resilience"
	srv "github.com/AlibekovAA/myflix/internal/common/server"
	userhttp "github.com/AlibekovAA/myflix/internal/user/http"
	userrepo "github.com/AlibekovAA/myflix/internal/user/repository"
	userservice "github.com/AlibekovAA/myflix/internal/user/service"
)

const welcomeMessage = "Welcome to my Movie List!"

type App struct {
	Config  config.APIConfig
	Log     *logger.Logger
	Pool    *pgxpool.Pool
	Cache   cache.Cache
	Handler http.Handler

	stopMetrics context.CancelFunc
}

// NewApp loads configuration and assembles every dependency of the API.
// Anything opened before a failing step is released before returning.
func NewApp(ctx context.Context, serviceName string) (app *App, err error) {
	cfg, err := config.LoadAPIConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogDir, serviceName, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	var cleanup teardown
	defer func() {
		if err != nil {
			log.Errorf("startup failed: %v", err)
			cleanup.run()
		}
	}()
	cleanup.add(func() { _ = log.Close() })

	if cfg.RunMigrations {
		if err = db.Migrate(ctx, log, cfg.DatabaseURL); err != nil {
			return nil, err
		}
	}

	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	cleanup.add(pool.Close)

	metricsCtx, stopMetrics := context.WithCancel(context.Background())
	db.StartPoolMetrics(metricsCtx, pool, constants.DBPoolMetricsInterval)
	cleanup.add(stopMetrics)

	catalogCache, err := newCatalogCache(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	cleanup.add(func() { _ = catalogCache.Close() })

	hasher := newPasswordHasher(cfg)
	realClock := clock.NewRealClock()

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  cfg.CircuitBreakerThreshold,
		Timeout:    cfg.CircuitBreakerTimeout,
		ResetAfter: cfg.CircuitBreakerReset,
		Name:       "users_db",
		Logger:     log,
	})
	userRepo := userrepo.NewResilientRepository(userrepo.NewPgRepository(pool, log), breaker)

	authenticator, err := authservice.NewPasswordAuthenticator(userRepo, hasher, log)
	if err != nil {
		return nil, err
	}
	issuer := authservice.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, realClock)
	authService := authservice.NewAuthService(authenticator, issuer, log)

	userService := userservice.NewUserService(userRepo, hasher, commoncrypto.NewUUIDGenerator(), realClock, log)
	catalogService := catalogservice.NewCatalogService(catalogrepo.NewPgRepository(pool, log), catalogCache, log)

	verifier := jwtverify.NewVerifier([]byte(cfg.JWTSecret), realClock)
	gate := jwtverify.Middleware(verifier, log)

	app = &App{
		Config:      cfg,
		Log:         log,
		Pool:        pool,
		Cache:       catalogCache,
		stopMetrics: stopMetrics,
	}
	app.Handler = commonhttp.BuildBaseHandler(log, cfg.RequestTimeout, Routes(RouteDeps{
		Auth:    authhttp.NewHandler(authService, log),
		Users:   userhttp.NewHandler(userService, gate, log),
		Catalog: cataloghttp.NewHandler(catalogService, gate, log),
		Ready: commonhttp.ReadinessHandler(log, map[string]commonhttp.Pinger{
			"postgres": pool,
			"cache":    catalogCache,
		}),
	}))

	return app, nil
}

// teardown releases startup resources in reverse order of acquisition.
type teardown []func()

func (t *teardown) add(fn func()) {
	*t = append(*t, fn)
}

func (t teardown) run() {
	for i := len(t) - 1; i >= 0; i-- {
		t[i]()
	}
}

type RouteDeps struct {
	Auth    http.Handler
	Users   http.Handler
	Catalog http.Handler
	Ready   http.Handler
}

func Routes(deps RouteDeps) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(welcomeMessage))
	})
	mux.Handle("GET /health", commonhttp.HealthHandler())
	mux.Handle("GET /ready", deps.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("/login", deps.Auth)
	mux.Handle("/users", deps.Users)
	mux.Handle("/users/", deps.Users)
	for _, prefix := range []string{"/movies", "/movies/", "/genres/", "/directors/", "/director/"} {
		mux.Handle(prefix, deps.Catalog)
	}
	return mux
}

// ShutdownHooks release resources after the HTTP server stops.
func (a *App) ShutdownHooks() []srv.ShutdownHook {
	return []srv.ShutdownHook{
		func(ctx context.Context) error {
			a.stopMetrics()
			return nil
		},
		func(ctx context.Context) error {
			return a.Cache.Close()
		},
		func(ctx context.Context) error {
			a.Pool.Close()
			return nil
		},
		func(ctx context.Context) error {
			return a.Log.Close()
		},
	}
}

func newPasswordHasher(cfg config.APIConfig) commoncrypto.PasswordHasher {
	if cfg.PasswordHasher == config.HasherArgon2id {
		return commoncrypto.NewArgon2Hasher(commoncrypto.DefaultArgon2Params())
	}
	return commoncrypto.NewBcryptHasher(cfg.BcryptCost)
}

func newCatalogCache(ctx context.Context, cfg config.APIConfig, log *logger.Logger) (cache.Cache, error) {
	if !cfg.Redis.Enabled() {
		log.Infof("catalog cache disabled: REDIS_ADDR not set")
		return cache.NoopCache{}, nil
	}

	c, err := cache.NewRedisCache(ctx, cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.CatalogCacheTTL,
	})
	if err != nil {
		return nil, err
	}
	log.Infof("catalog cache enabled: addr=%s ttl=%v", cfg.Redis.Addr, cfg.CatalogCacheTTL)
	return c, nil
}
