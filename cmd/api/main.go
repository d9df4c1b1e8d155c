package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bryanwahyu/unit-monitor/internal/application"
	appdashboard "github.com/bryanwahyu/unit-monitor/internal/application/dashboard"
	appfailures "github.com/bryanwahyu/unit-monitor/internal/application/failures"
	appunits "github.com/bryanwahyu/unit-monitor/internal/application/units"
	"github.com/bryanwahyu/unit-monitor/internal/config"
	"github.com/bryanwahyu/unit-monitor/internal/domain/ai"
	"github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
	"github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	"github.com/bryanwahyu/unit-monitor/internal/domain/units"
	openaiClient "github.com/bryanwahyu/unit-monitor/internal/infra/ai/openai"
	"github.com/bryanwahyu/unit-monitor/internal/infra/db/memory"
	"github.com/bryanwahyu/unit-monitor/internal/infra/db/migrations"
	mysqlp "github.com/bryanwahyu/unit-monitor/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/unit-monitor/internal/infra/db/postgres"
	"github.com/bryanwahyu/unit-monitor/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/unit-monitor/internal/infra/storage"
	"github.com/bryanwahyu/unit-monitor/internal/middleware"
	"github.com/bryanwahyu/unit-monitor/internal/pkg/logger"
)

type repos struct {
	units    units.Repository
	failures failures.Repository
	db       *sql.DB
}

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	started := time.Now()

	// storage
	rp, err := openRepos(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, err)
	}
	if rp.db != nil {
		defer rp.db.Close()
	}

	// minio, optional
	var artifacts dashboard.ArtifactStore
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx, minioStore.Options{
			Endpoint:  cfg.Minio.Endpoint,
			Region:    cfg.Minio.Region,
			Bucket:    cfg.Minio.BucketName,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
			PublicURL: cfg.Minio.PublicURL,
		})
		if err != nil {
			logger.Fatal(ctx, fmt.Errorf("minio init: %w", err))
		}
		artifacts = store
		logger.Info(ctx, "report export enabled", zap.String("bucket", cfg.Minio.BucketName))
	}

	// openai, optional
	var digester ai.Client
	if cfg.OpenAI.Enabled {
		if cfg.OpenAI.BaseURL != "" {
			digester = openaiClient.NewClientWithBaseURL(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
		} else {
			digester = openaiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		}
		logger.Info(ctx, "monthly digest enabled", zap.String("model", cfg.OpenAI.Model))
	}

	clock := application.SystemClock{}
	unitSvc := &appunits.Service{
		Repo:     rp.units,
		Failures: rp.failures,
		Policy:   units.DeletePolicy(cfg.Units.DeletePolicy),
		Clock:    clock,
	}
	failureSvc := &appfailures.Service{Repo: rp.failures, Units: rp.units, Clock: clock}
	dashboardSvc := &appdashboard.Service{
		Units:     rp.units,
		Failures:  rp.failures,
		Artifacts: artifacts,
		AI:        digester,
		Clock:     clock,
	}

	metrics, err := middleware.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		logger.Fatal(ctx, fmt.Errorf("metrics init: %w", err))
	}
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillRate)
	defer limiter.Close()

	checks := map[string]middleware.HealthChecker{}
	var ready middleware.HealthChecker
	if rp.db != nil {
		ready = &middleware.DatabaseHealthChecker{DB: rp.db}
		checks["database"] = ready
	}

	handler := httpserver.NewRouter(httpserver.Deps{
		Units:          unitSvc,
		Failures:       failureSvc,
		Dashboard:      dashboardSvc,
		Metrics:        metrics,
		RateLimiter:    limiter,
		Health:         checks,
		Ready:          ready,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Started:        started,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info(ctx, "server listening",
			zap.String("addr", addr),
			zap.String("driver", cfg.Database.Driver),
			zap.String("delete_policy", cfg.Units.DeletePolicy))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, fmt.Errorf("server: %w", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Infof(ctx, "shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Errorf(ctx, "shutdown error: %v", err)
	}
}

// openRepos connects the configured driver and runs migrations when asked.
func openRepos(ctx context.Context, cfg *config.Config) (repos, error) {
	switch cfg.Database.Driver {
	case "memory":
		logger.Warnf(ctx, "using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return repos{units: store.Units(), failures: store.Failures()}, nil

	case "postgres":
		db, err := pgp.Connect(ctx, cfg.PostgresDSN(), pgp.Pool{
			MaxOpen:     cfg.Database.MaxOpen,
			MaxIdle:     cfg.Database.MaxIdle,
			MaxLifetime: 5 * time.Minute,
		})
		if err != nil {
			return repos{}, fmt.Errorf("postgres connect: %w", err)
		}
		if err := migrate(cfg, db); err != nil {
			db.Close()
			return repos{}, err
		}
		return repos{units: pgp.NewUnitRepository(db), failures: pgp.NewFailureRepository(db), db: db}, nil

	default:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN(), mysqlp.Pool{
			MaxOpen:     cfg.Database.MaxOpen,
			MaxIdle:     cfg.Database.MaxIdle,
			MaxLifetime: 5 * time.Minute,
		})
		if err != nil {
			return repos{}, fmt.Errorf("mysql connect: %w", err)
		}
		if err := migrate(cfg, db); err != nil {
			db.Close()
			return repos{}, err
		}
		return repos{units: mysqlp.NewUnitRepository(db), failures: mysqlp.NewFailureRepository(db), db: db}, nil
	}
}

func migrate(cfg *config.Config, db *sql.DB) error {
	if !cfg.Database.AutoMigrate {
		return nil
	}
	if err := migrations.Up(db, cfg.Database.Driver); err != nil {
		return fmt.Errorf("migrate %s: %w", cfg.Database.Driver, err)
	}
	return nil
}
