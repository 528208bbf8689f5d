// Package main runs the hole storage server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/d1s-utils/hole/internal/api/rest/v1"
	"github.com/d1s-utils/hole/internal/app"
	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/infrastructure/contenttype"
	"github.com/d1s-utils/hole/internal/infrastructure/cryptography"
	"github.com/d1s-utils/hole/internal/infrastructure/locking"
	"github.com/d1s-utils/hole/internal/infrastructure/longpoll"
	"github.com/d1s-utils/hole/internal/infrastructure/persistence"
	"github.com/d1s-utils/hole/internal/infrastructure/persistence/migrations"
	"github.com/d1s-utils/hole/internal/infrastructure/storage"
	"github.com/d1s-utils/hole/internal/pkg/config"
	"github.com/d1s-utils/hole/internal/pkg/logger"

	cerrors "github.com/cockroachdb/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		if hints := cerrors.FlattenHints(err); hints != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hints)
		}
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/rest-app.yaml"
	}

	restConfig, err := config.InitializeRestConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	deps, err := initializeDependencies(restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.close(log)

	return startServerWithGracefulShutdown(restConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	db            *gorm.DB
	hub           *longpoll.Hub
	relay         *longpoll.NATSRelay
	sweeper       *cron.Cron
	objectService objects.ObjectService
	groupService  objects.GroupService
}

func (d *appDependencies) close(log logger.Logger) {
	if d.sweeper != nil {
		<-d.sweeper.Stop().Done()
	}
	if d.relay != nil {
		if err := d.relay.Close(); err != nil {
			log.Warn("failed to close event relay", "error", err)
		}
	}
	if err := persistence.CloseDB(d.db); err != nil {
		log.Warn("failed to close database", "error", err)
	}
}

// initializeDependencies sets up all application components
func initializeDependencies(cfg *config.RestConfig, log logger.Logger) (*appDependencies, error) {
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}
	deps := &appDependencies{db: db}

	if err := migrations.Up(db, cfg.Database.Type, log); err != nil {
		deps.close(log)
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	store, err := storage.NewObjectStore(context.Background(), &cfg.Storage, log)
	if err != nil {
		deps.close(log)
		return nil, fmt.Errorf("failed to create object store: %w", err)
	}

	locks := locking.NewRegistry(cfg.Locks.Timeout, log)
	if cfg.Locks.SweepSchedule != "" {
		deps.sweeper = cron.New()
		if _, err := deps.sweeper.AddFunc(cfg.Locks.SweepSchedule, func() {
			if removed := locks.Sweep(); removed > 0 {
				log.Debug("swept idle object locks", "removed", removed)
			}
		}); err != nil {
			deps.sweeper = nil
			deps.close(log)
			return nil, fmt.Errorf("invalid lock sweep schedule %q: %w", cfg.Locks.SweepSchedule, err)
		}
		deps.sweeper.Start()
	}

	deps.hub = longpoll.NewHub(objects.EventGroups, cfg.LongPolling.Retention, log)
	if cfg.LongPolling.NatsURL != "" {
		deps.relay, err = longpoll.NewNATSRelay(cfg.LongPolling.NatsURL, cfg.LongPolling.SubjectPrefix, deps.hub, log)
		if err != nil {
			deps.close(log)
			return nil, fmt.Errorf("failed to connect event relay: %w", err)
		}
		deps.hub.SetRelay(deps.relay)
	}

	if err := initializeServices(deps, store, locks, log); err != nil {
		deps.close(log)
		return nil, err
	}

	return deps, nil
}

// initializeServices wires repositories and application services onto deps
func initializeServices(deps *appDependencies, store objects.ObjectStore, locks objects.LockService, log logger.Logger) error {
	objectRepo, err := persistence.NewGormObjectRepository(deps.db, log)
	if err != nil {
		return fmt.Errorf("failed to create object repository: %w", err)
	}

	groupRepo, err := persistence.NewGormGroupRepository(deps.db, log)
	if err != nil {
		return fmt.Errorf("failed to create group repository: %w", err)
	}

	metadataRepo, err := persistence.NewGormMetadataRepository(deps.db, log)
	if err != nil {
		return fmt.Errorf("failed to create metadata repository: %w", err)
	}

	cipher, err := cryptography.NewAESProcessor(log)
	if err != nil {
		return fmt.Errorf("failed to create AES processor: %w", err)
	}

	metadataService, err := app.NewMetadataService(metadataRepo, log)
	if err != nil {
		return fmt.Errorf("failed to create metadata service: %w", err)
	}

	deps.objectService, err = app.NewObjectService(objectRepo, groupRepo, metadataService, store, cipher,
		contenttype.NewDetector(), locks, deps.hub, log)
	if err != nil {
		return fmt.Errorf("failed to create object service: %w", err)
	}

	deps.groupService, err = app.NewGroupService(groupRepo, metadataService, store, locks, deps.hub, log)
	if err != nil {
		return fmt.Errorf("failed to create group service: %w", err)
	}

	log.Info("Application services initialized successfully")
	return nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	r := gin.Default()
	r.MaxMultipartMemory = cfg.Server.MaxMultipartMemory

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.Security.Secret == "" {
		log.Warn("no security secret configured, the API is open to everyone")
	}

	v1.SetupRoutes(r, deps.objectService, deps.groupService, deps.hub, v1.RouteOptions{
		Secret:          cfg.Security.Secret,
		FallBackToHTTPS: cfg.Server.FallBackToHTTPS,
		PollTimeout:     cfg.LongPolling.PollTimeout,
		MaxPollTimeout:  cfg.LongPolling.MaxPollTimeout,
	}, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal, initiating graceful shutdown", "signal", sig.String())
	}

	// long polls hold connections open until their own timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.LongPolling.MaxPollTimeout+5*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
