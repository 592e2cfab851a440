package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/miradorstack/mirador-jobdoctor/internal/api"
	"github.com/miradorstack/mirador-jobdoctor/internal/config"
	"github.com/miradorstack/mirador-jobdoctor/internal/heuristics"
	"github.com/miradorstack/mirador-jobdoctor/internal/metrics"
	"github.com/miradorstack/mirador-jobdoctor/internal/services"
	"github.com/miradorstack/mirador-jobdoctor/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(os.Stdout, cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting jobdoctor", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	reducerTime, err := heuristics.LoadReducerTime(cfg.Heuristics.Path)
	if err != nil {
		logger.Error("failed to load heuristic pack", slog.String("path", cfg.Heuristics.Path), slog.Any("error", err))
		os.Exit(1)
	}
	th := reducerTime.Thresholds()
	logger.Info("heuristic loaded",
		slog.String("heuristic", reducerTime.Name()),
		slog.Any("shortRuntimeMs", th.ShortRuntime),
		slog.Any("longRuntimeMs", th.LongRuntime),
		slog.Any("numTasks", th.NumTasks),
		slog.Any("numTasksReverse", th.NumTasksReverse),
	)

	heuristicService := services.NewHeuristicService(logger, reducerTime)

	server, err := api.NewServer(cfg.Server, heuristicService)
	if err != nil {
		logger.Error("failed to create gRPC server", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Heuristics.Watch {
		go func() {
			err := config.WatchFile(ctx, cfg.Heuristics.Path, logger, func() {
				_ = heuristicService.ReloadFrom(cfg.Heuristics.Path)
			})
			if err != nil {
				logger.Warn("heuristic pack watch disabled", slog.String("path", cfg.Heuristics.Path), slog.Any("error", err))
			}
		}()
	}

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		if serveErr := server.Start(); serveErr != nil {
			logger.Error("gRPC server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.GracefulTimeout())
	defer cancel()
	server.Shutdown(shutdownCtx)

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	logger.Info("jobdoctor stopped", slog.Duration("p95", heuristicService.LatencyP95()))
}
