package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	appOrder "github.com/bookforge/catalog/internal/application/order"
	"github.com/bookforge/catalog/internal/config"
	domainOrder "github.com/bookforge/catalog/internal/domain/order"
	"github.com/bookforge/catalog/internal/infrastructure/cache"
	"github.com/bookforge/catalog/internal/infrastructure/id"
	"github.com/bookforge/catalog/internal/infrastructure/memory"
	"github.com/bookforge/catalog/internal/infrastructure/observability/oteltrace"
	"github.com/bookforge/catalog/internal/infrastructure/observability/prometrics"
	"github.com/bookforge/catalog/internal/infrastructure/observability/telemetry"
	"github.com/bookforge/catalog/internal/infrastructure/observability/zaplogger"
	"github.com/bookforge/catalog/internal/infrastructure/outbox"
	"github.com/bookforge/catalog/internal/observability"
	"github.com/bookforge/catalog/internal/pkg/logging"
	httppresentation "github.com/bookforge/catalog/internal/presentation/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	baseLogger := logging.MustNewLogger(cfg.App.Name, cfg.App.Env, cfg.Log.Level)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID)

	obsLogger := zaplogger.Wrap(baseLogger)
	registry := prometrics.New("catalog")
	counters := map[observability.MetricKey]observability.Counter{
		observability.MUsecaseRequests: registry.Counter(
			string(observability.MUsecaseRequests),
			"Total number of use case invocations.",
			"use_case", "outcome",
		),
		observability.MHTTPRequests: registry.Counter(
			string(observability.MHTTPRequests),
			"Total number of HTTP requests.",
			"method", "route", "status",
		),
		observability.MExternalRequests: registry.Counter(
			string(observability.MExternalRequests),
			"Total number of calls to external collaborators.",
			"peer", "endpoint", "outcome",
		),
	}
	histograms := map[observability.MetricKey]observability.Histogram{
		observability.MUsecaseDuration: registry.Histogram(
			string(observability.MUsecaseDuration),
			"Duration of use case execution in seconds.",
			prometheus.DefBuckets,
			"use_case",
		),
		observability.MHTTPRequestDuration: registry.Histogram(
			string(observability.MHTTPRequestDuration),
			"Duration of HTTP requests in seconds.",
			prometheus.DefBuckets,
			"method", "route", "status",
		),
		observability.MExternalRequestDuration: registry.Histogram(
			string(observability.MExternalRequestDuration),
			"Duration of calls to external collaborators in seconds.",
			prometheus.DefBuckets,
			"peer", "endpoint",
		),
	}
	tel := telemetry.New(oteltrace.New(cfg.App.Name), obsLogger, counters, histograms)

	orderRepo := memory.NewOrderRepository()
	listCache := cache.NewMemory()
	idGenerator := id.NewUUIDGenerator()

	bus := outbox.NewBus(obsLogger)
	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	auditWorker := appOrder.NewAuditWorker(bus, tel)
	auditWorker.Start()

	rules := domainOrder.RuleConfig{
		DisallowedTerms:         cfg.Validation.DisallowedTerms,
		ChildrenRestrictedWords: cfg.Validation.ChildrenRestrictedWords,
		TechnicalKeywords:       cfg.Validation.TechnicalKeywords,
	}
	validator := appOrder.NewValidator(orderRepo, rules, cfg.Validation.DailyOrderLimit, obsLogger)
	projector := appOrder.NewProjector()
	createOrder := appOrder.NewCreateOrderUseCase(
		orderRepo, validator, projector, listCache, idGenerator, bus, tel,
	)

	handler := httppresentation.NewHandler(createOrder, obsLogger, tel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry.Gatherer(), promhttp.HandlerOpts{}))
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		systemLogger.Info("http_server_start",
			zap.String("addr", server.Addr),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			systemLogger.Error("http_server_error",
				zap.Error(err),
			)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error",
			zap.Error(err),
		)
	} else {
		systemLogger.Info("http_server_stopped")
	}
}
