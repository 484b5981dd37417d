package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/spf13/cobra"

	"github.com/arturoeanton/codeoh-assistant/internal/adapter/ai"
	"github.com/arturoeanton/codeoh-assistant/internal/adapter/store"
	"github.com/arturoeanton/codeoh-assistant/internal/filemod"
	"github.com/arturoeanton/codeoh-assistant/internal/generator"
	"github.com/arturoeanton/codeoh-assistant/internal/handler"
	"github.com/arturoeanton/codeoh-assistant/internal/mcp"
	"github.com/arturoeanton/codeoh-assistant/internal/middleware"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
	"github.com/arturoeanton/codeoh-assistant/internal/retrieval"
	"github.com/arturoeanton/codeoh-assistant/internal/service"
	"github.com/arturoeanton/codeoh-assistant/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (and the MCP server when enabled)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newAIProvider(ctx context.Context, cfg *config.Config) (port.AIProvider, error) {
	var provider port.AIProvider
	switch cfg.AIProvider {
	case config.ProviderGemini:
		g, err := ai.NewGeminiProvider(ctx, ai.GeminiConfig{
			APIKey:     cfg.GeminiAPIKey,
			EmbedModel: cfg.GeminiEmbedModel,
			ChatModel:  cfg.GeminiChatModel,
			BaseURL:    cfg.GeminiBaseURL,
		})
		if err != nil {
			return nil, err
		}
		provider = g
	default:
		provider = ai.NewOllamaProvider(
			ai.OllamaEndpointConfig{
				BaseURL: cfg.OllamaEmbedURL,
				Model:   cfg.OllamaEmbedModel,
				Token:   cfg.OllamaEmbedToken,
			},
			ai.OllamaEndpointConfig{
				BaseURL: cfg.OllamaChatURL,
				Model:   cfg.OllamaChatModel,
				Token:   cfg.OllamaChatToken,
			},
		)
	}
	return ai.WithTimeouts(provider, cfg.EmbedTimeout, cfg.GenerateTimeout), nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("🚀 Starting "+cfg.AppName,
		"port", cfg.Port,
		"ai_provider", cfg.AIProvider,
		"database", cfg.DSN(),
		"mcp_enabled", cfg.MCPEnabled,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL, cfg.StoreTimeout)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pgStore.Close()

	if cfg.AutoMigrate {
		if err := store.Migrate(pgStore.DB().DB, store.MigrateUp); err != nil {
			return err
		}
	}

	vectorStore := store.NewVectorStore(pgStore, cfg.EmbeddingDimension)

	// ── Adapters ─────────────────────────────────────────────────────────
	model, err := newAIProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init AI provider: %w", err)
	}
	slog.Info("AI provider ready", "provider", cfg.AIProvider, "model", model.ModelName())

	// ── Services ─────────────────────────────────────────────────────────
	indexService := service.NewIndexService(model, vectorStore)
	builder := retrieval.NewBuilder(model, vectorStore, retrieval.Options{
		SearchThreshold:  cfg.SearchMatchThreshold,
		ExplainThreshold: cfg.ExplainMatchThreshold,
		MatchCount:       cfg.MatchCount,
	})
	engine := generator.Default(model)
	workflow := filemod.NewWorkflow(model, pgStore, indexService)
	chatService := service.NewChatService(builder, engine, workflow)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:         cfg.AppName,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    cfg.GenerateTimeout + 30*time.Second,
		StructValidator: handler.NewStructValidator(),
	})

	rateLimit, err := middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerMinute: cfg.RateLimitRPM,
		Burst:             cfg.RateLimitBurst,
	})
	if err != nil {
		return fmt.Errorf("init rate limiter: %w", err)
	}

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))
	app.Use(rateLimit)

	// Audit middleware (logs all requests)
	app.Use(middleware.AuditMiddleware(pgStore))

	// ── Routes ───────────────────────────────────────────────────────────
	handler.NewHealthHandler(cfg.AppName, version, pgStore).Register(app)
	handler.NewChatHandler(chatService).Register(app)
	handler.NewIndexHandler(indexService).Register(app)

	api := app.Group("/api")
	handler.NewFilesHandler(pgStore).Register(api)
	handler.NewAuditHandler(pgStore).Register(api)

	// ── MCP Server (separate port) ───────────────────────────────────────
	if cfg.MCPEnabled {
		mcpServer := mcp.NewServer(chatService, indexService, pgStore, cfg.MCPPort)
		go func() {
			if err := mcpServer.Start(ctx); err != nil {
				slog.Error("MCP server failed", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	return app.Listen(":" + cfg.Port)
}
