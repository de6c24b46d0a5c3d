package di

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"lockdesk/internal/app"
	"lockdesk/internal/config"
	"lockdesk/internal/database"
	"lockdesk/internal/health"
	"lockdesk/internal/http/handler"
	"lockdesk/internal/http/middleware"
	"lockdesk/internal/http/router"
	"lockdesk/internal/identity"
	"lockdesk/internal/observability"
	"lockdesk/internal/repository"
	"lockdesk/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewRoleRepository,
	repository.NewLockoutRepository,
	repository.NewAuditRepository,
	repository.NewUnlockStore,
)

var IdentitySet = wire.NewSet(provideIdentityVerifier)

var ServiceSet = wire.NewSet(
	provideRoleResolver,
	service.NewLockoutService,
	wire.Bind(new(service.RoleAuthorizer), new(*service.CachedRoleResolver)),
	wire.Bind(new(service.AccountUnlocker), new(*repository.UnlockStore)),
	wire.Bind(new(service.LockoutReader), new(*service.LockoutService)),
)

var HTTPSet = wire.NewSet(
	provideAdminHandler,
	provideAdminRateLimiter,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(provideApp)

type MigrationRunner struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewMigrationRunner(cfg *config.Config, db *gorm.DB) *MigrationRunner {
	return &MigrationRunner{cfg: cfg, db: db}
}

func (m *MigrationRunner) Run() error {
	if err := database.Migrate(m.db); err != nil {
		return err
	}
	report, err := database.Seed(m.db, m.cfg.AdminRoleName, m.cfg.BootstrapAdminID)
	if err != nil {
		return err
	}
	fmt.Printf("migration complete: roles created=%d, admins granted=%d\n", report.CreatedRoles, report.GrantedAdmins)
	return nil
}

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

func provideRuntimeDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	report, err := database.Seed(db, cfg.AdminRoleName, cfg.BootstrapAdminID)
	if err != nil {
		return nil, err
	}
	if !report.Noop {
		logger.Info("database seeded",
			"roles_created", report.CreatedRoles,
			"admins_granted", report.GrantedAdmins)
	}
	return db, nil
}

func provideRedisClient(cfg *config.Config) redis.UniversalClient {
	if !cfg.RateLimitRedisEnabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// provideIdentityVerifier picks the credential-verification strategy. Remote
// mode defers to the upstream identity provider per request; local mode
// validates the token signature in process.
func provideIdentityVerifier(cfg *config.Config) identity.Verifier {
	if cfg.IdentityMode == config.IdentityModeLocal {
		return identity.NewJWTVerifier(cfg.IdentityJWTSecret, cfg.IdentityJWTIssuer, cfg.IdentityJWTAudience)
	}
	return identity.NewHTTPVerifier(cfg.IdentityBaseURL, cfg.IdentityAnonKey, cfg.IdentityHTTPTimeout)
}

func provideRoleResolver(cfg *config.Config, roles repository.RoleRepository) *service.CachedRoleResolver {
	return service.NewCachedRoleResolver(roles, cfg.RoleCacheTTL)
}

func provideAdminHandler(
	verifier identity.Verifier,
	authz service.RoleAuthorizer,
	unlocker service.AccountUnlocker,
	lockouts service.LockoutReader,
	cfg *config.Config,
) *handler.AdminHandler {
	return handler.NewAdminHandler(verifier, authz, unlocker, lockouts, cfg.AdminRoleName)
}

func provideAdminRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) router.AdminRateLimiterFunc {
	if cfg.RateLimitRedisEnabled && redisClient != nil {
		redisLimiter := middleware.NewRedisFixedWindowLimiter(redisClient, cfg.RateLimitRedisPrefix+":admin")
		return middleware.NewDistributedRateLimiter(
			redisLimiter,
			cfg.AdminRateLimitPerMin,
			time.Minute,
			middleware.FailClosed,
			"admin",
		).Middleware()
	}
	return middleware.NewRateLimiter(cfg.AdminRateLimitPerMin, time.Minute).Middleware()
}

func provideRouterDependencies(
	adminHandler *handler.AdminHandler,
	adminRateLimiter router.AdminRateLimiterFunc,
	readiness *health.ProbeRunner,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AdminHandler:      adminHandler,
		AdminRateLimiter:  adminRateLimiter,
		AdminRateLimitRPM: cfg.AdminRateLimitPerMin,
		Readiness:         readiness,
		EnableOTelHTTP:    cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideReadinessProbeRunner(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient) *health.ProbeRunner {
	checkers := make([]health.Checker, 0, 3)
	if c := health.NewDBChecker(db); c != nil {
		checkers = append(checkers, c)
	}
	if cfg.RateLimitRedisEnabled {
		if c := health.NewRedisChecker(redisClient); c != nil {
			checkers = append(checkers, c)
		}
	}
	if cfg.IdentityMode == config.IdentityModeRemote {
		if c := health.NewIdentityChecker(cfg.IdentityBaseURL, cfg.IdentityHTTPTimeout); c != nil {
			checkers = append(checkers, c)
		}
	}
	return health.NewProbeRunner(cfg.ReadinessProbeTimeout, cfg.ServerStartGracePeriod, checkers...)
}

func provideApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	readiness *health.ProbeRunner,
) *app.App {
	return app.New(cfg, logger, server, runtime, db, redisClient, readiness)
}
