package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/sunsweeper/sunsweeper-ai-platform/internal/api/router"
	appconfig "github.com/sunsweeper/sunsweeper-ai-platform/internal/config"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/conversation"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/http/handlers"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/knowledge"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/leads"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/llm"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/notify"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/observability/metrics"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/outcome"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/sessions"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/sheets"
	"github.com/sunsweeper/sunsweeper-ai-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting sunsweeper-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Reference data. A failed load does not abort startup: the engine
	// runs fail-closed and every turn escalates to a human.
	store, err := knowledge.Load(cfg.KnowledgeDir)
	if err != nil {
		logger.Error("knowledge load failed, running fail-closed", "error", err, "dir", cfg.KnowledgeDir)
		store = nil
	}

	sink, err := outcome.NewFileSink(cfg.OutcomeLogPath)
	if err != nil {
		logger.Error("failed to open outcome log", "error", err, "path", cfg.OutcomeLogPath)
		os.Exit(1)
	}
	defer sink.Close()
	recorder := outcome.NewRecorder(sink, logger)

	engine := conversation.NewEngine(store, recorder, logger)

	var sessionStore sessions.Store
	if cfg.UseMemorySessions {
		sessionStore = sessions.NewMemoryStore(cfg.SessionTTL)
	} else {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		sessionStore = sessions.NewRedisStore(redis.NewClient(opts), cfg.SessionTTL, nil)
	}

	var leadsRepo leads.Repository = leads.NewInMemoryRepository()
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leadsRepo = leads.NewPostgresRepository(pool)
	}

	var llmClient llm.Client
	if cfg.OpenAIAPIKey != "" {
		primary := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if cfg.OpenAIFallbackModel != "" {
			fallback := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIFallbackModel)
			llmClient = llm.NewFallbackClient(primary, fallback, logger)
		} else {
			llmClient = primary
		}
	}

	emailSender := buildEmailSender(ctx, cfg, logger)

	var sheet handlers.BookingSheetAppender
	if cfg.SheetsSpreadsheetID != "" {
		bookingSheet, err := sheets.NewBookingSheet(ctx, cfg.SheetsCredentialsFile, cfg.SheetsSpreadsheetID, cfg.SheetsRange, logger)
		if err != nil {
			logger.Error("failed to build booking sheet, continuing without it", "error", err)
		} else {
			sheet = bookingSheet
		}
	}

	chat := handlers.NewChatHandler(handlers.ChatHandlerConfig{
		Engine:        engine,
		Knowledge:     store,
		Sessions:      sessionStore,
		LLM:           llmClient,
		Email:         emailSender,
		Sheet:         sheet,
		Leads:         leadsRepo,
		Metrics:       metrics.NewConversationMetrics(nil),
		Logger:        logger,
		OperatorEmail: cfg.OperatorEmail,
	})

	r := router.New(&router.Config{
		Logger:             logger,
		Chat:               chat,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: []string{"*"},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
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
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			logger.Error("sendgrid selected but SENDGRID_API_KEY missing, email disabled")
			return nil
		}
		return sender
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config, email disabled", "error", err)
			return nil
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger)
	case "":
		return nil
	default:
		logger.Error("unknown EMAIL_PROVIDER, email disabled", "provider", cfg.EmailProvider)
		return nil
	}
}
