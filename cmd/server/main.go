package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appdoc "github.com/generatordok/backend/internal/application/document"
	appexport "github.com/generatordok/backend/internal/application/export"
	"github.com/generatordok/backend/internal/domain/printing"
	"github.com/generatordok/backend/internal/infrastructure/config"
	"github.com/generatordok/backend/internal/infrastructure/logger"
	infra "github.com/generatordok/backend/internal/infrastructure/printing"
	"github.com/generatordok/backend/internal/infrastructure/scheduler"
	"github.com/generatordok/backend/internal/infrastructure/spreadsheet"
	"github.com/generatordok/backend/internal/infrastructure/storage"
	"github.com/generatordok/backend/internal/infrastructure/telemetry"
	"github.com/generatordok/backend/internal/interfaces/http/handler"
	"github.com/generatordok/backend/internal/interfaces/http/middleware"
	"github.com/generatordok/backend/internal/interfaces/http/router"
)

//	@title			Generator Dokumen API
//	@version		1.0
//	@description	Kwitansi, invoice dan nota dengan stempel, latar dan ekspor PDF
//	@BasePath		/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting document generator",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meters, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	logs, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	// from here on entries also reach the collector when log export is on
	log = logs.Bridge(log)

	// Composition
	composer, err := infra.NewComposer(infra.NewTemplateEngine(), infra.WithComposerLogger(log))
	if err != nil {
		log.Fatal("Failed to load document templates", zap.Error(err))
	}
	documentService := appdoc.NewService(appdoc.NewWorkspace(), composer, spreadsheet.NewLedger(log), log)

	// Browser backend for capture and the print fallback
	browser, err := infra.NewChromedpRenderer(&infra.ChromedpConfig{
		DefaultTimeout: cfg.Chrome.Timeout,
		RemoteURL:      cfg.Chrome.RemoteURL,
		Headless:       true,
		DisableGPU:     true,
		NoSandbox:      cfg.Chrome.NoSandbox,
		ViewportWidth:  cfg.Chrome.ViewportWidth,
		ViewportHeight: cfg.Chrome.ViewportHeight,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to initialize browser", zap.Error(err))
	}
	defer func() {
		if err := browser.Close(); err != nil {
			log.Error("Error closing browser", zap.Error(err))
		}
	}()

	exportStorage, err := newExportStorage(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize export storage", zap.Error(err))
	}

	pipeline := appexport.NewPipeline(
		documentService.Workspace(),
		composer,
		browser,
		infra.NewGofpdfWriter(log),
		browser,
		appexport.WithStorage(exportStorage),
		appexport.WithSettings(exportSettings(&cfg.Export)),
		appexport.WithLogger(log),
		appexport.WithMeter(meters.Meter("generatordok/export")),
	)

	var sweeper *scheduler.RetentionSweeper
	if cfg.Storage.Retention > 0 {
		sweeper, err = scheduler.NewRetentionSweeper(scheduler.RetentionConfig{
			Retention: cfg.Storage.Retention,
			Interval:  cfg.Storage.SweepInterval,
		}, exportStorage, log)
		if err != nil {
			log.Fatal("Invalid retention settings", zap.Error(err))
		}
		if err := sweeper.Start(ctx); err != nil {
			log.Fatal("Failed to start retention sweeper", zap.Error(err))
		}
	}

	// Handlers
	documentHandler := handler.NewDocumentHandler(documentService)
	themeHandler := handler.NewThemeHandler(documentService)
	exportHandler := handler.NewExportHandler(pipeline, exportStorage)
	var systemOpts []handler.SystemOption
	if pinger, ok := exportStorage.(interface{ Ping(context.Context) error }); ok {
		systemOpts = append(systemOpts, handler.WithHealthCheck("storage", pinger.Ping))
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion, systemOpts...)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Server span per request
	// 3. Metrics - Request count, latency and size
	// 4. Recovery - Catch panics
	// 5. Logger - Log requests
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracer.IsEnabled(),
	}))
	engine.Use(middleware.SpanEnricher())
	if meters.IsEnabled() {
		engine.Use(middleware.HTTPMetrics(meters.Meter("http.server"), log))
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSFromConfig(&cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	router.NewRouter(engine).
		Register(handler.DocumentRoutes(documentHandler, themeHandler, exportHandler)).
		Register(handler.ThemeRoutes(themeHandler)).
		Register(handler.ExportRoutes(exportHandler)).
		Register(handler.SystemRoutes(systemHandler)).
		RegisterRoot(handler.HealthRoutes(systemHandler)).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if sweeper != nil {
		if err := sweeper.Stop(shutdownCtx); err != nil {
			log.Warn("Retention sweeper did not stop cleanly", zap.Error(err))
		}
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}
	if err := meters.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter shutdown failed", zap.Error(err))
	}
	log.Info("Server exited gracefully")
	if err := logs.Shutdown(shutdownCtx); err != nil {
		log.Warn("Log export shutdown failed", zap.Error(err))
	}
}

// newExportStorage builds the configured PDFStorage backend
func newExportStorage(ctx context.Context, cfg *config.StorageConfig, log *zap.Logger) (infra.PDFStorage, error) {
	if cfg.Driver == config.StorageDriverS3 {
		s3Storage, err := storage.NewS3ExportStorage(cfg, storage.WithLogger(log))
		if err != nil {
			return nil, err
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		log.Info("Export storage ready", zap.String("driver", cfg.Driver), zap.String("bucket", s3Storage.GetBucket()))
		return s3Storage, nil
	}

	fsStorage, err := infra.NewFileSystemStorage(&infra.FileSystemStorageConfig{
		BasePath: cfg.BasePath,
		BaseURL:  cfg.BaseURL,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}
	log.Info("Export storage ready", zap.String("driver", cfg.Driver), zap.String("path", cfg.BasePath))
	return fsStorage, nil
}

// exportSettings maps the export section onto pipeline settings
func exportSettings(cfg *config.ExportConfig) appexport.Settings {
	settings := appexport.DefaultSettings()
	settings.Page = printing.Page{
		Size:        printing.PaperSize(cfg.PaperSize),
		Orientation: printing.OrientationPortrait,
	}
	settings.Margins = printing.UniformMargins(cfg.MarginMM)
	settings.PrintMargins = printing.UniformMargins(cfg.PrintMargin)
	settings.Scale = cfg.Scale
	settings.JPEGQuality = cfg.JPEGQuality
	return settings
}
