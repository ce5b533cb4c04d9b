package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hilomatch/hilo-core/internal/config"
	"github.com/hilomatch/hilo-core/internal/platform/httpapi"
	"github.com/hilomatch/hilo-core/internal/platform/logger"
	"github.com/hilomatch/hilo-core/internal/platform/postgres"
	"github.com/hilomatch/hilo-core/internal/platform/redis"
	"github.com/hilomatch/hilo-core/internal/platform/sentryreport"

	scoringmodel "github.com/hilomatch/hilo-core/modules/scoring/model"
	tagservice "github.com/hilomatch/hilo-core/modules/tags/service"

	formHandler "github.com/hilomatch/hilo-core/modules/users/handler"
	userRepo "github.com/hilomatch/hilo-core/modules/users/repository"
	userService "github.com/hilomatch/hilo-core/modules/users/service"

	vetoHandler "github.com/hilomatch/hilo-core/modules/vetoes/handler"
	vetoRepo "github.com/hilomatch/hilo-core/modules/vetoes/repository"
	vetoService "github.com/hilomatch/hilo-core/modules/vetoes/service"

	previewHandler "github.com/hilomatch/hilo-core/modules/previews/handler"
	previewRepo "github.com/hilomatch/hilo-core/modules/previews/repository"
	previewService "github.com/hilomatch/hilo-core/modules/previews/service"

	matchHandler "github.com/hilomatch/hilo-core/modules/matching/handler"
	matchRepo "github.com/hilomatch/hilo-core/modules/matching/repository"
	matchService "github.com/hilomatch/hilo-core/modules/matching/service"

	lifecycleHandler "github.com/hilomatch/hilo-core/modules/lifecycle/handler"
	lifecycleRepo "github.com/hilomatch/hilo-core/modules/lifecycle/repository"
	lifecycleService "github.com/hilomatch/hilo-core/modules/lifecycle/service"

	slotHandler "github.com/hilomatch/hilo-core/modules/scheduler/handler"
	schedulerRepo "github.com/hilomatch/hilo-core/modules/scheduler/repository"
	schedulerService "github.com/hilomatch/hilo-core/modules/scheduler/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting hilo-core",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	reporter, err := sentryreport.Init(cfg.Sentry.DSN, cfg.Server.Env, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize error reporting", zap.Error(err))
	}
	defer reporter.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgClient, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgClient.Close()
	appLogger.Info("Connected to PostgreSQL")

	migrationsPath := "./migrations"
	if err := postgres.RunMigrations(ctx, cfg.Database, appLogger, migrationsPath); err != nil {
		appLogger.Fatal("Failed to run database migrations",
			zap.Error(err),
			zap.String("migrations_path", migrationsPath),
		)
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis")

	// Both the Tag Catalog and the known-traits vocabulary are FatalConfigError
	// territory: the process must not serve traffic with a
	// partially-loaded catalog.
	catalog, err := tagservice.LoadCatalog(cfg.Matching.CatalogPath)
	if err != nil {
		appLogger.Fatal("Failed to load tag catalog", zap.Error(err))
	}
	appLogger.Info("Loaded tag catalog", zap.Int("leaf_count", len(catalog.Leaves())))

	traits, err := userService.LoadKnownTraits(cfg.Matching.TraitsPath)
	if err != nil {
		appLogger.Fatal("Failed to load known traits", zap.Error(err))
	}

	weights := scoringmodel.Weights{
		FF:    cfg.Matching.WeightFF,
		AF:    cfg.Matching.WeightAF,
		AA:    cfg.Matching.WeightAA,
		Trait: cfg.Matching.WeightTrait,
		Bound: cfg.Matching.WeightBound,
	}

	// Repositories
	userRepository := userRepo.NewUserRepository(pgClient.Pool)
	formRepository := userRepo.NewFormRepository(pgClient.Pool)
	vetoRepository := vetoRepo.NewVetoRepository(pgClient.Pool)
	previewRepository := previewRepo.NewPreviewRepository(pgClient.Pool)
	matchRepository := matchRepo.NewMatchRepository(pgClient.Pool)
	lifecycleRepository := lifecycleRepo.NewLifecycleRepository(pgClient.Pool)
	slotRepository := schedulerRepo.NewSlotRepository(pgClient.Pool)

	// Services
	userSvc := userService.NewUserService(userRepository)
	formSvc := userService.NewFormService(userRepository, formRepository, catalog, traits, cfg.Matching.TotalTags)
	vetoSvc := vetoService.NewVetoService(vetoRepository, userSvc)
	previewSvc := previewService.NewPreviewService(formRepository, vetoRepository, previewRepository, catalog, weights, cfg.Matching.PreviewK)
	assignerSvc := matchService.NewAssignerService(formRepository, vetoRepository, matchRepository, catalog, weights)
	lifecycleSvc := lifecycleService.NewLifecycleService(lifecycleRepository, userSvc, cfg.Matching.AcceptTimeout)

	wakeNotifier := redis.NewWakeNotifier(redisClient)
	wakeSubscriber := redis.NewWakeSubscriber(ctx, redisClient)
	slotSvc := schedulerService.NewSlotService(slotRepository, wakeNotifier)
	dispatcherSvc := schedulerService.NewDispatcherService(slotRepository, assignerSvc, previewSvc, wakeSubscriber, appLogger).
		WithErrorReporter(reporter)

	// Handlers
	formHdl := formHandler.NewFormHandler(formSvc)
	vetoHdl := vetoHandler.NewVetoHandler(vetoSvc)
	previewHdl := previewHandler.NewPreviewHandler(previewRepository, previewSvc)
	matchHdl := matchHandler.NewMatchHandler(assignerSvc, matchRepository)
	lifecycleHdl := lifecycleHandler.NewLifecycleHandler(lifecycleSvc)
	slotHdl := slotHandler.NewSlotHandler(slotSvc)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpapi.RequestIDMiddleware())
	router.Use(httpapi.LoggerMiddleware(appLogger))
	router.Use(httpapi.CORSMiddleware())

	router.GET("/health", healthCheckHandler(pgClient, redisClient))
	router.GET("/ping", pingHandler)

	v1 := router.Group("/api/v1")
	{
		formHdl.RegisterRoutes(v1)
		vetoHdl.RegisterRoutes(v1)
		previewHdl.RegisterRoutes(v1)
		matchHdl.RegisterRoutes(v1)
		lifecycleHdl.RegisterRoutes(v1)
		slotHdl.RegisterRoutes(v1)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// The Scheduler dispatcher and the Lifecycle Sweeper are the two
	// long-running background tasks running alongside the HTTP handlers.
	go func() {
		if err := dispatcherSvc.Run(ctx); err != nil {
			appLogger.Error("scheduler dispatcher stopped", zap.Error(err))
		}
	}()

	go lifecycleSvc.RunSweeperLoop(ctx, cfg.Scheduler.SweeperInterval, func(err error) {
		appLogger.Error("lifecycle sweeper tick failed", zap.Error(err))
		reporter.CaptureException(err)
	})

	go func() {
		appLogger.Info("Server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("Server exited")
}

// healthCheckHandler reports per-dependency health. Redis backs only the
// scheduler's wake signal, but a dead cache still means degraded operation
// worth surfacing to an operator.
func healthCheckHandler(pgClient *postgres.Client, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		services := make(map[string]string)

		if err := pgClient.Health(ctx); err != nil {
			services["postgres"] = "down"
		} else {
			services["postgres"] = "up"
		}

		if err := redisClient.Health(ctx); err != nil {
			services["redis"] = "down"
		} else {
			services["redis"] = "up"
		}

		httpapi.RespondWithHealth(c, services)
	}
}

func pingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
