// Command riskd serves credit-risk assessment and NPA classification over
// gRPC, with health checks and Prometheus metrics over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/bibbank/credit-risk/internal/application/usecase"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/domain/service"
	"github.com/bibbank/credit-risk/internal/infrastructure/config"
	infraKafka "github.com/bibbank/credit-risk/internal/infrastructure/kafka"
	"github.com/bibbank/credit-risk/internal/infrastructure/ml"
	infraPostgres "github.com/bibbank/credit-risk/internal/infrastructure/postgres"
	infraRedis "github.com/bibbank/credit-risk/internal/infrastructure/redis"
	"github.com/bibbank/credit-risk/internal/infrastructure/telemetry"
	grpcPresentation "github.com/bibbank/credit-risk/internal/presentation/grpc"
	"github.com/bibbank/credit-risk/internal/presentation/rest"
	"github.com/bibbank/credit-risk/pkg/auth"
	"github.com/bibbank/credit-risk/pkg/kafka"
	"github.com/bibbank/credit-risk/pkg/observability"
	"github.com/bibbank/credit-risk/pkg/postgres"
)

const shutdownTimeout = 10 * time.Second

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "riskd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.Telemetry.ServiceName,
	})
	logger.Info("starting credit-risk-service",
		"version", version,
		"grpc_port", cfg.GRPCPort,
		"http_port", cfg.HTTPPort,
		"model_dir", cfg.Model.Dir,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing is optional; without an endpoint spans go to the no-op provider.
	if cfg.Telemetry.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Endpoint:    cfg.Telemetry.OTLPEndpoint,
			Insecure:    true,
			SampleRatio: cfg.Telemetry.SampleRatio,
		})
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer flush(logger, "tracer", shutdownTracer)
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		RuntimeMetrics: true,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer flush(logger, "meter provider", meterProvider.Shutdown)

	riskMetrics, err := telemetry.NewRiskMetrics(meterProvider.Meter(telemetry.MeterName))
	if err != nil {
		return fmt.Errorf("register risk metrics: %w", err)
	}

	// Database pool and migrations.
	dbCfg := postgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,

		ApplicationName:  cfg.Telemetry.ServiceName,
		StatementTimeout: cfg.DB.StatementTimeout,
	}
	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(dbCfg.DSN(), infraPostgres.Migrations, infraPostgres.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database ready")

	// Kafka producer.
	producer := kafka.NewProducer(kafka.Config{
		Brokers:  cfg.Kafka.Brokers,
		ClientID: cfg.Telemetry.ServiceName,
	})
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka producer close", "error", err)
		}
	}()
	publisher := infraKafka.NewEventPublisher(producer, cfg.Kafka.Topic, logger)

	// Optional Redis read-through cache.
	var cache port.AssessmentCache
	if cfg.Redis.Addr != "" {
		client, err := infraRedis.Connect(ctx, infraRedis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, goredis.NewClient, logger)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()
		cache = infraRedis.NewAssessmentCache(client, cfg.Redis.TTL)
	} else {
		logger.Info("REDIS_ADDR not set, assessment cache disabled")
	}

	// Model cache, warmed in the background so startup never waits on it.
	models := ml.NewModelCache(ml.DirLoader(cfg.Model.Dir), logger)
	defer func() {
		if err := models.Close(); err != nil {
			logger.Warn("model close", "error", err)
		}
	}()

	// Repositories, domain services and use cases.
	assessmentRepo := infraPostgres.NewAssessmentRepo(pool)
	npaRepo := infraPostgres.NewNPARecordRepo(pool)
	assessor := service.NewRiskAssessor(models, logger)

	assess := usecase.NewAssessApplicationUseCase(assessor, assessmentRepo, publisher, riskMetrics, logger)
	handler := grpcPresentation.NewHandler(grpcPresentation.UseCases{
		Assess:      assess,
		Get:         usecase.NewGetAssessmentUseCase(assessmentRepo, cache, logger),
		List:        usecase.NewListAssessmentsUseCase(assessmentRepo),
		Batch:       usecase.NewBatchAssessUseCase(assess, cfg.BatchConcurrency, logger),
		Quote:       usecase.NewQuoteLoanUseCase(),
		Classify:    usecase.NewClassifyLoanUseCase(npaRepo, publisher, riskMetrics, logger),
		NPAAnalysis: usecase.NewGetNPAAnalysisUseCase(npaRepo),
		Summary:     usecase.NewGetPortfolioSummaryUseCase(assessmentRepo, npaRepo),
	}, logger)

	jwtSvc, err := newJWTService(cfg.Auth, logger)
	if err != nil {
		return err
	}

	grpcServer, err := grpcPresentation.NewServer(handler, logger, jwtSvc, grpcPresentation.ServerConfig{
		TLSCertFile:     cfg.TLS.CertFile,
		TLSKeyFile:      cfg.TLS.KeyFile,
		TLSClientCAFile: cfg.TLS.ClientCAFile,
		Reflection:      cfg.GRPCReflection,
	})
	if err != nil {
		return fmt.Errorf("create grpc server: %w", err)
	}

	mux := http.NewServeMux()
	rest.NewHealthHandler(pool, models, metricsHandler, logger).RegisterRoutes(mux)
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		models.Warm(gctx)
		logger.Info("model warm-up finished", "status", models.Status())
		return nil
	})

	g.Go(func() error {
		return grpcServer.ListenAndServe(cfg.GRPCAddr())
	})

	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// Shutdown on signal or on the first server failure.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		grpcServer.GracefulStop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("credit-risk-service stopped")
	return nil
}

// newJWTService builds a validation-only JWT service: a public key (inline
// or from a file) is preferred over the shared secret.
func newJWTService(cfg config.AuthConfig, logger *slog.Logger) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{Issuer: cfg.Issuer}
	switch {
	case cfg.PublicKey != "":
		jwtCfg.PublicKeyPEM = cfg.PublicKey
	case cfg.PublicKeyFile != "":
		keyData, err := auth.LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load JWT public key file: %w", err)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	default:
		logger.Info("using JWT secret for token validation", "issuer", cfg.Issuer)
		jwtCfg.Secret = cfg.Secret
	}

	svc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize JWT service: %w", err)
	}
	return svc, nil
}

func flush(logger *slog.Logger, name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Warn("shutdown failed", "component", name, "error", err)
	}
}
