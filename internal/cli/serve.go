// Package cli implements the docinteld commands.
package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sgd-labs/docintel/internal/api/handlers"
	"github.com/sgd-labs/docintel/internal/api/middleware"
	"github.com/sgd-labs/docintel/internal/classify"
	"github.com/sgd-labs/docintel/internal/config"
	"github.com/sgd-labs/docintel/internal/extract"
	"github.com/sgd-labs/docintel/internal/jobs"
	"github.com/sgd-labs/docintel/internal/nlp"
	"github.com/sgd-labs/docintel/internal/openai"
	"github.com/sgd-labs/docintel/internal/pipeline"
	"github.com/sgd-labs/docintel/internal/rag"
	"github.com/sgd-labs/docintel/internal/repository"
	"github.com/sgd-labs/docintel/internal/server"
	"github.com/sgd-labs/docintel/internal/storage"
	"github.com/sgd-labs/docintel/internal/telemetry"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the document intelligence API server and background processing worker",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	s3Client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return err
	}

	docRepo := repository.NewDocumentRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)

	ragSvc, processor, err := buildPipeline(cfg, pool, s3Client)
	if err != nil {
		return err
	}

	processingWorker := jobs.NewWorker(
		jobs.NewProcessingWorker(docRepo, processor, cfg.WorkerBatchSize, cfg.MaxRetries),
		cfg.WorkerPollInterval,
	)
	go processingWorker.Start(ctx)
	log.Println("processing worker started")

	auditRecorder := handlers.NewAuditRecorder(auditRepo)

	var validator middleware.KeyValidator
	if len(cfg.APIKeys) > 0 {
		validator = middleware.NewStaticKeyValidator(cfg.APIKeys)
	} else {
		log.Println("warning: no API keys configured, API is unauthenticated")
	}

	routerCfg := server.RouterConfig{
		AuthValidator:   validator,
		MaxBodyBytes:    cfg.MaxUploadBytes,
		DocumentHandler: handlers.NewDocumentHandler(docRepo, s3Client, processor, auditRecorder),
		ChatHandler:     handlers.NewChatHandler(ragSvc, auditRecorder),
		AnalyzeHandler:  handlers.NewAnalyzeHandler(nlp.NewAnalyzer(nlp.DefaultModels()), newSummarizer(cfg), classify.NewClassifier()),
		AuditHandler:    handlers.NewAuditHandler(auditRepo),
		HealthHandler:   handlers.NewHealthHandler(pool, cfg.HasS3(), cfg.HasOpenAI(), cfg.HasTika()),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	processingWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func newStorageClient(ctx context.Context, cfg *config.Config) (*storage.S3Client, error) {
	if !cfg.HasS3() {
		return nil, fmt.Errorf("S3 storage is required: set DOCINTEL_S3_ENDPOINT, DOCINTEL_S3_ACCESS_KEY_ID and DOCINTEL_S3_SECRET_ACCESS_KEY")
	}

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Bucket:          cfg.S3Bucket,
		UsePathStyle:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	if err := s3Client.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure S3 bucket: %w", err)
	}
	log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
	return s3Client, nil
}

func newSummarizer(cfg *config.Config) *nlp.Summarizer {
	return nlp.NewSummarizer(openai.NewClient(cfg.OpenAIAPIKey))
}

// buildPipeline wires the shared processing dependencies used by the HTTP
// server, the background worker, and the process command.
func buildPipeline(cfg *config.Config, pool *pgxpool.Pool, s3Client *storage.S3Client) (*rag.Service, *pipeline.Processor, error) {
	if !cfg.HasOpenAI() {
		return nil, nil, fmt.Errorf("OpenAI is required: set DOCINTEL_OPENAI_API_KEY")
	}

	openaiClient := openai.NewClient(cfg.OpenAIAPIKey)

	var fallback extract.FallbackParser
	if cfg.HasTika() {
		fallback = extract.NewTikaParser(http.DefaultClient, cfg.TikaURL)
		log.Printf("tika parser configured at %s", cfg.TikaURL)
	}
	extractor := extract.NewExtractor(
		extract.NewFitzOpener(),
		extract.NewTesseractEngine(cfg.OCRLanguages),
		fallback,
	)

	docRepo := repository.NewDocumentRepository(pool)
	indexRepo := repository.NewIndexRepository(pool)
	ragSvc := rag.NewService(indexRepo, openaiClient, openaiClient)

	processor := pipeline.NewProcessor(
		docRepo,
		s3Client,
		extractor,
		nlp.NewAnalyzer(nlp.DefaultModels()),
		nlp.NewSummarizer(openaiClient),
		classify.NewClassifier(),
		ragSvc,
	)

	return ragSvc, processor, nil
}
