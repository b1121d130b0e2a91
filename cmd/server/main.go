package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"nyai-server/handler"
	"nyai-server/internal/config"
	"nyai-server/internal/extract"
	"nyai-server/internal/integrations/gemini"
	"nyai-server/internal/integrations/webcontext"
	"nyai-server/internal/store"
	"nyai-server/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration ----
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	// ---- Model client ----
	llm, err := gemini.NewClient(ctx, cfg.GoogleAPIKey, cfg.ChatModel, cfg.AnalysisModel)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	defer func() { _ = llm.Close() }()

	if llm.Configured() {
		logger.Info("gemini model configured", "chat_model", cfg.ChatModel, "analysis_model", cfg.AnalysisModel)
	} else {
		logger.Warn("gemini model not configured, set GOOGLE_API_KEY; model-dependent endpoints will report a configuration error")
	}

	// ---- State and extraction ----
	conversations := store.NewConversationStore()
	documents := store.NewDocumentStore()
	registry := extract.NewRegistry()

	var finder usecase.ContextFinder
	if cfg.WebContextEnabled {
		finder = webcontext.New()
	}

	// ---- Services ----
	chatService, err := usecase.NewChatService(conversations, llm, logger)
	if err != nil {
		logger.Error("failed to create chat service", "error", err)
		os.Exit(1)
	}
	documentService, err := usecase.NewDocumentService(documents, registry, llm, logger)
	if err != nil {
		logger.Error("failed to create document service", "error", err)
		os.Exit(1)
	}
	simplifyService, err := usecase.NewSimplifyService(llm, finder, logger)
	if err != nil {
		logger.Error("failed to create simplify service", "error", err)
		os.Exit(1)
	}

	// ---- HTTP ----
	h, err := handler.New(chatService, documentService, simplifyService, registry.Capabilities(), llm.Configured(), logger)
	if err != nil {
		logger.Error("failed to create handler", "error", err)
		os.Exit(1)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestID(), handler.RequestLogger(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	h.Register(r)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.ServerPort, "capabilities", registry.Capabilities())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server run failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
