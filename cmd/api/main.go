package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"

	httptransport "github.com/craftelio/storefront/internal/api/http"
	"github.com/craftelio/storefront/internal/api/http/handlers"
	"github.com/craftelio/storefront/internal/auth"
	"github.com/craftelio/storefront/internal/config"
	"github.com/craftelio/storefront/internal/email"
	"github.com/craftelio/storefront/internal/events"
	"github.com/craftelio/storefront/internal/identity"
	"github.com/craftelio/storefront/internal/observability"
	"github.com/craftelio/storefront/internal/persistence"
	"github.com/craftelio/storefront/internal/repository"
	"github.com/craftelio/storefront/internal/seed"
	"github.com/craftelio/storefront/internal/service"
	"github.com/craftelio/storefront/internal/session"
	"github.com/craftelio/storefront/internal/storage"
	"github.com/craftelio/storefront/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))

	metrics := observability.NewMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	coverTypeRepo := repository.NewCoverTypeRepository(pool)

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	roleManager := identity.NewRoleManager(roleRepo)
	userManager := identity.NewUserManager(userRepo, roleRepo, hasher, cfg.Identity)

	runSeed(ctx, cfg, logger, metrics, pg, roleManager, userManager)

	if cfg.Stripe.SecretKey != "" {
		stripe.Key = cfg.Stripe.SecretKey
	} else {
		logger.Warn("stripe secret key not configured")
	}

	sender, err := email.NewSender(cfg.Email, logger)
	if err != nil {
		logger.Fatal("failed to init email sender", zap.Error(err))
	}
	mailQueue := worker.NewMailQueue(sender, 128, logger)
	mailQueue.Start(ctx, 2)

	images, err := storage.NewImageStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to init image storage", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	service.NewNotificationService(dispatcher, mailQueue, cfg.App.Name, logger).RegisterHandlers()

	sessions := session.NewStore(redis.Handle(), cfg.Session)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	accountService := service.NewAccountService(service.AccountDependencies{
		Users:      userManager,
		Sessions:   sessions,
		Tokens:     tokens,
		Dispatcher: dispatcher,
	}, logger)
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		Products:   productRepo,
		Categories: categoryRepo,
		CoverTypes: coverTypeRepo,
		Images:     images,
		Dispatcher: dispatcher,
	}, logger)
	authMiddleware := auth.NewMiddleware(tokens, sessions, userRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.App.BodyLimitBytes,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	if local, ok := images.(*storage.LocalImageStore); ok {
		app.Static("/images", filepath.Join(local.Root(), "images"))
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Account:        handlers.NewAccountHandler(accountService),
		Products:       handlers.NewProductsHandler(catalogService, logger),
		AuthMiddleware: authMiddleware.Handle,
		Metrics:        metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	mailQueue.Stop()
}

// runSeed applies migrations and provisions baseline roles and the admin
// account before the server accepts traffic. Failures are logged; only
// strict mode stops startup.
func runSeed(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Metrics,
	pg *persistence.Postgres,
	roles *identity.RoleManager,
	users *identity.UserManager,
) {
	deps := seed.Dependencies{Roles: roles, Users: users, Recorder: metrics}

	migrator, err := persistence.NewMigrator(pg.PoolHandle(), logger)
	if err != nil {
		if cfg.Seed.Strict {
			logger.Fatal("failed to init migrator", zap.Error(err))
		}
		metrics.RecordMigrationFailure()
		logger.Error("an error occurred while applying migrations", zap.Error(err))
	} else {
		defer migrator.Close() //nolint:errcheck
		deps.Migrator = migrator
	}

	report, err := seed.NewSeeder(cfg.Seed, deps, logger).Seed(ctx)
	if err != nil {
		var migErr *seed.MigrationError
		if cfg.Seed.Strict && errors.As(err, &migErr) {
			logger.Fatal("startup aborted", zap.Error(err))
		}
		logger.Error("startup provisioning failed", zap.String("outcome", string(report.Outcome)), zap.Error(err))
		return
	}
	logger.Info("startup provisioning finished",
		zap.String("outcome", string(report.Outcome)),
		zap.Bool("migrations_applied", report.MigrationsApplied))
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
