package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tickerdash/internal/app"
	"tickerdash/internal/bot"
	"tickerdash/internal/config"
	"tickerdash/internal/handler"
	"tickerdash/internal/logger"
	"tickerdash/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	_ "tickerdash/docs"
)

var (
	loadEnvFunc              = godotenv.Load
	loadConfigFunc           = config.Load
	newLoggerFunc            = logger.NewLogger
	initTracerFunc           = tracing.InitTracer
	newMarketDataServiceFunc = app.NewMarketDataService
	startTelegramBotFunc     = bot.StartTelegramBot
	newHandlerFunc           = handler.New
	newRouterFunc            = gin.New
	setupSignalNotify        = signal.Notify
	waitForSignalFunc        = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc      = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc   = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Tickerdash API
// @version         1.0
// @description     Stock price history, company metrics and chart data.

// @host      localhost:8080
// @BasePath  /
func main() {
	_ = loadEnvFunc()

	cfg := loadConfigFunc()

	lg, err := newLoggerFunc(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, tracing.Options{
		Enabled:  cfg.TracingEnabled,
		Endpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		lg.Fatal("failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			lg.Warn("error shutting down tracer provider", zap.Error(err))
		}
	}()

	data, closeStore := newMarketDataServiceFunc(ctx, cfg, tracer, lg.Logger)
	defer func() {
		if err := closeStore(); err != nil {
			lg.Warn("error closing cache", zap.Error(err))
		}
	}()

	if err := startTelegramBotFunc(cfg.TelegramBotToken, data, lg.Logger); err != nil {
		lg.Error("telegram bot disabled", zap.Error(err))
	}

	h := newHandlerFunc(tracer, data, lg.Logger)

	r := newRouterFunc()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(tracing.ServiceName))
	r.Use(handler.RequestID())
	r.Use(handler.AccessLog(lg.Logger))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		lg.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			lg.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	lg.Info("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		lg.Error("server forced to shutdown", zap.Error(err))
	}

	lg.Info("Server exiting")
}
