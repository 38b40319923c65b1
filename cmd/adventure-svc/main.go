// Package main is the adventure service entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hp-adventure-api/internal/application/speech"
	"hp-adventure-api/internal/application/story"
	"hp-adventure-api/internal/config"
	"hp-adventure-api/internal/infrastructure/image"
	"hp-adventure-api/internal/infrastructure/llm"
	"hp-adventure-api/internal/infrastructure/ratelimit"
	speechinfra "hp-adventure-api/internal/infrastructure/speech"
	"hp-adventure-api/internal/interfaces/http/handler"
	"hp-adventure-api/internal/interfaces/http/router"
	"hp-adventure-api/pkg/logger"
	"hp-adventure-api/pkg/tracer"

	"github.com/joho/godotenv"
)

// Version info, injected at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting adventure-svc",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)

	shutdownTracer, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		log.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracer(ctx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	r := buildRouter(cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}

// buildRouter wires the application by hand; the object graph is small
// enough that generated injection would not pay for itself.
func buildRouter(cfg *config.Config) *router.Router {
	factory := llm.NewEinoFactory(cfg)
	textGen := llm.NewGenerator(factory, &cfg.LLM)
	imageGen := image.NewGenerator(&cfg.Image)

	storySvc := story.NewService(
		textGen,
		imageGen,
		story.NewPromptBuilder(),
		story.NewTitleService(textGen, cfg.Story.TitleMaxTokens),
		story.NewSummaryService(textGen, cfg.Story.SummaryMaxTokens),
		cfg.Story.NarrationMaxTokens,
		time.Now,
	)
	speechSvc := speech.NewService(speechinfra.NewSynthesizer(&cfg.Speech))

	handlers := router.Handlers{
		Story:  handler.NewStoryHandler(storySvc),
		TTS:    handler.NewTTSHandler(speechSvc),
		Health: handler.NewHealthHandler(),
	}

	return router.New(cfg, handlers, ratelimit.NewTokenBucket(nil))
}
