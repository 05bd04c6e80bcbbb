package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cothink/internal/cache"
	"cothink/internal/config"
	"cothink/internal/repository"
	"cothink/internal/service"
	"cothink/internal/transport/rest"
	"cothink/internal/transport/ws"
)

func main() {
	// .env is optional; the environment wins either way
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)
	logger := slog.Default()
	logger.Info("starting co-thinking research pipeline")

	ctx := context.Background()

	aiConfig := config.DefaultAIConfig()
	if aiConfig.IsEnabled() {
		logger.Info("generation backend configured", "model", aiConfig.Model)
	} else {
		logger.Warn("GEMINI_API_KEY not set, using mock generator")
	}

	// MongoDB connection (optional: without it the in-memory log is the only copy)
	var mongoClient *mongo.Client
	mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = mongoClient.Ping(pingCtx, nil)
		cancel()
	}
	if err != nil {
		logger.Warn("mongodb unavailable, record archival disabled", "error", err)
		mongoClient = nil
	} else {
		logger.Info("connected to mongodb", "database", cfg.MongoDatabase)
		defer mongoClient.Disconnect(ctx)
	}

	// Redis connection (optional: without it statistics are recomputed per request)
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	var summaries cache.SummaryCache
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Warn("redis unavailable, summary caching disabled", "error", err)
		rdb.Close()
	} else {
		logger.Info("connected to redis", "addr", cfg.RedisAddr)
		defer rdb.Close()
		summaries = cache.NewSummaryCache(rdb)
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()

	// Initialize services
	authSvc := service.NewAuthService()
	scorer := service.NewScorerService()
	recorder := service.NewRecorderService(scorer)
	surveyRecorder := service.NewSurveyRecorderService()
	analyzer := service.NewAnalyzerService()
	exporter := service.NewExportService(cfg.ExportDir)
	generator := service.NewGeneratorService()
	simulator := service.NewSimulationService(generator, recorder, surveyRecorder)

	// Archival is best-effort and only wired when mongo is up
	if mongoClient != nil {
		recorder.SetArchive(repository.NewInteractionRepo(mongoClient, cfg.MongoDatabase))
		surveyRecorder.SetArchive(repository.NewSurveyRepo(mongoClient, cfg.MongoDatabase))
	}

	// Inject broadcaster (wsHub implements service.Broadcaster)
	recorder.SetBroadcaster(wsHub)

	container := &rest.Container{
		AuthService:    authSvc,
		Recorder:       recorder,
		SurveyRecorder: surveyRecorder,
		Analyzer:       analyzer,
		Exporter:       exporter,
		Simulator:      simulator,
		Summaries:      summaries,
		WSHub:          wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "port", cfg.HTTPPort, "exportDir", cfg.ExportDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}

	logger.Info("server exited")
}

func initLogger(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
