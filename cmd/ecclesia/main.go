package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/ecclesia-erp/ecclesia/cmd/ecclesia/cli"
	"github.com/ecclesia-erp/ecclesia/internal/app"
	"github.com/ecclesia-erp/ecclesia/internal/observability"
	permissionshttp "github.com/ecclesia-erp/ecclesia/internal/permissions/http"
	"github.com/ecclesia-erp/ecclesia/internal/platform/cache"
	"github.com/ecclesia-erp/ecclesia/internal/platform/db"
	"github.com/ecclesia-erp/ecclesia/internal/roles"
	"github.com/ecclesia-erp/ecclesia/jobs"
)

const usage = `usage: ecclesia [serve]
       ecclesia catalog check [--catalog PATH] [--json]
       ecclesia catalog sync  [--catalog PATH]
       ecclesia jobs stats`

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Default().Warn("load .env", slog.Any("error", err))
	}

	args := os.Args[1:]
	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}
	switch command {
	case "serve":
		os.Exit(serve())
	case "catalog":
		os.Exit(runCatalog(args))
	case "jobs":
		os.Exit(runJobs(args))
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func serve() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return 1
	}

	logger := app.NewLogger(cfg)

	matrix, err := app.BuildMatrix(cfg)
	if err != nil {
		logger.Error("build permission matrix", slog.Any("error", err))
		return 1
	}

	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		return 1
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		return 1
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	rolesRepo := roles.NewRepository(dbpool)
	rolesService := roles.NewService(rolesRepo, matrix,
		roles.WithStore(roles.NewCachedStore(rolesRepo, redisClient, cfg.RoleCacheTTL, logger)),
		roles.WithLogger(logger),
		roles.WithObservers(metrics, jobs.NewNotifier(jobClient, logger)),
	)
	permissionsHandler := permissionshttp.NewHandler(logger, matrix, rolesService, metrics)

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		PermissionsHandler: permissionsHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.Int("permissions", matrix.Catalog().TotalCount()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
		return 1
	}
	return 0
}

func runCatalog(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
	sub := args[0]
	flags := pflag.NewFlagSet("catalog "+sub, pflag.ContinueOnError)
	catalogPath := flags.String("catalog", os.Getenv("CATALOG_PATH"), "YAML catalog file (built-in catalog when empty)")
	jsonOutput := flags.Bool("json", false, "print JSON")
	if err := flags.Parse(args[1:]); err != nil {
		return 2
	}
	opts := cli.CatalogOptions{CatalogPath: *catalogPath, JSONOutput: *jsonOutput}

	switch sub {
	case "check":
		return cli.CheckCommand(opts)
	case "sync":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		cfg, err := app.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "catalog sync: %v\n", err)
			return 1
		}
		pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: 2})
		if err != nil {
			fmt.Fprintf(os.Stderr, "catalog sync: %v\n", err)
			return 1
		}
		defer pool.Close()
		return cli.SyncCommand(ctx, roles.NewRepository(pool), opts)
	default:
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
}

func runJobs(args []string) int {
	if len(args) == 0 || args[0] != "stats" {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobs stats: %v\n", err)
		return 1
	}
	jobsCLI := cli.NewJobsCLI(asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	defer func() { _ = jobsCLI.Close() }()
	stats, err := jobsCLI.InspectQueue(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobs stats: %v\n", err)
		return 1
	}
	cli.WriteQueueStats(os.Stdout, stats)
	return 0
}
