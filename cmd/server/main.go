package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"VisionTalk/internal/ai"
	"VisionTalk/internal/app/session"
	"VisionTalk/internal/config"
	"VisionTalk/internal/handler"
	"VisionTalk/internal/service/image"

	"go.uber.org/zap"
)

// HTTP API одной сессии чата: история, отправка сообщений, картинка сессии.
func main() {
	cfg := config.NewConfig(os.Args[1:])

	logger, err := newLogger(cfg.DebugMode)
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()
	client, err := ai.NewClient(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalw("Failed to create AI client", "provider", cfg.Provider, "error", err)
	}

	images := image.NewProcessor(cfg.Image.MaxWidth, cfg.Image.MaxBytes, cfg.Image.Quality)
	sess := session.New(client, images, sugar)

	srv := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           handler.NewRouter(sess, cfg.UploadMaxBytes, sugar),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sugar.Infow("Starting server", "addr", srv.Addr, "provider", cfg.Provider, "DebugMode", cfg.DebugMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server error", "error", err)
		}
	}()

	// Graceful shutdown on Ctrl+C / SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeoutCause(context.Background(), 5*time.Second, errors.New("shutdown timeout"))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("graceful shutdown error", "error", err)
		_ = srv.Close()
	}
	sugar.Infow("server stopped")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
