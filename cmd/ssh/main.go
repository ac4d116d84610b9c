package main

import (
	"context"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"tickerdash/internal/app"
	"tickerdash/internal/config"
	"tickerdash/internal/dashboard"
	"tickerdash/internal/logger"
	"tickerdash/internal/tui"
	"tickerdash/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	loadEnvFunc              = godotenv.Load
	loadConfigFunc           = config.Load
	newLoggerFunc            = logger.NewLogger
	initTracerFunc           = tracing.InitTracer
	newMarketDataServiceFunc = app.NewMarketDataService
	newWishServerFunc        = wish.NewServer
	setupSignalNotify        = ossignal.Notify
	waitForSignalFunc        = func(quit <-chan os.Signal) { <-quit }
	nowFunc                  = time.Now
)

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

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(teaHandler(data, lg.Logger)),
			sessionLog(lg.Logger),
		),
	)
	if err != nil {
		lg.Fatal("failed to create SSH server", zap.Error(err))
	}

	if srv != nil {
		go func() {
			lg.Info("SSH server listening", zap.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil {
				lg.Warn("SSH server stopped", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	lg.Info("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Warn("SSH server shutdown error", zap.Error(err))
		}
	}

	lg.Info("SSH server exited")
}

// teaHandler gives every session its own dashboard, cancelled with the
// session.
func teaHandler(data dashboard.Fetcher, lg *zap.Logger) bubbletea.Handler {
	return func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, _ := s.Pty()
		model := newSessionModel(s.Context(), data, lg.With(zap.String("user", s.User())), pty.Window.Width, pty.Window.Height)
		return model, []tea.ProgramOption{tea.WithAltScreen()}
	}
}

func newSessionModel(ctx context.Context, data dashboard.Fetcher, lg *zap.Logger, width, height int) tui.Model {
	model := tui.NewModel(ctx, data, lg, nowFunc())
	model.SetSize(width, height)
	return model
}

func sessionLog(lg *zap.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			start := time.Now()
			fields := []zap.Field{
				zap.String("user", s.User()),
				zap.String("remote", s.RemoteAddr().String()),
			}
			lg.Info("ssh session opened", fields...)
			next(s)
			lg.Info("ssh session closed", append(fields, zap.Duration("duration", time.Since(start)))...)
		}
	}
}
