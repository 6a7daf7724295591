package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ai-dinner-planner/internal/config"
	"ai-dinner-planner/internal/database"
	"ai-dinner-planner/internal/history"
	"ai-dinner-planner/internal/llm"
	"ai-dinner-planner/internal/menu"
	"ai-dinner-planner/internal/metrics"
	"ai-dinner-planner/internal/ratelimit"
	"ai-dinner-planner/internal/server"
)

func main() {
	// 1. Load Configuration
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Initialize Storage
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	metricsStore := metrics.NewStore(db.SQL)
	historyRepo := history.NewRepository(db.SQL)

	// 3. Initialize the Generation Backend
	// A missing credential is not fatal here: the server still comes up and
	// answers every generation request with a configuration error.
	var generator server.MenuGenerator
	if err := cfg.RequireGeminiAPIKey(); err != nil {
		slog.Warn("starting without a generation backend, menu requests will fail", "error", err)
	} else {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer geminiClient.Close()

		var textGen llm.TextGenerator = geminiClient
		if cfg.UpstreamMaxRPM > 0 {
			textGen = llm.NewThrottledTextGenerator(geminiClient, cfg.UpstreamMaxRPM)
		}
		generator = menu.NewGenerator(textGen)
	}

	// 4. Start Server with Graceful Shutdown
	limiter := ratelimit.NewSlidingWindow(cfg.RateLimitRequests, cfg.RateLimitWindow)
	srv := server.New(cfg, generator, limiter, metricsStore, historyRepo)

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	slog.Info("server exited")
}

func setupLogger(cfg *config.Config) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
