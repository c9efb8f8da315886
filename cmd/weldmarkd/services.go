package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dukerupert/weldmark"
	"github.com/dukerupert/weldmark/internal/email"
	"github.com/dukerupert/weldmark/internal/queue"
	"github.com/dukerupert/weldmark/internal/reportgen"
	"github.com/dukerupert/weldmark/internal/storage"
	"github.com/dukerupert/weldmark/postgres"
)

// Services holds all application services.
type Services struct {
	OrderService         weldmark.OrderService
	PhotoDocumentService weldmark.PhotoDocumentService
	ReportService        weldmark.ReportService
	AuditService         weldmark.AuditService
	FileStorage          weldmark.FileStorage
	EmailService         weldmark.EmailService
	Queue                weldmark.Queue
	Workers              *queue.WorkerPool
}

// initServices initializes all application services.
func initServices(ctx context.Context, pool *pgxpool.Pool, cfg *Config, logger *slog.Logger) (*Services, error) {
	// Initialize database wrapper with all domain services
	db := postgres.NewDB(pool)
	logger.Info("database services initialized")

	// Initialize file storage
	fileStorage, err := initFileStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("file storage initialized", slog.String("provider", cfg.StorageProvider))

	// Initialize email service
	emailService := initEmailService(cfg, logger)
	logger.Info("email service initialized", slog.String("provider", cfg.EmailProvider))

	// Initialize queue
	jobQueue := initQueue(pool, cfg, logger)
	logger.Info("queue service initialized", slog.String("provider", cfg.QueueProvider))

	// Initialize the report generation worker pool
	workers, err := initWorkers(jobQueue, db, fileStorage, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		OrderService:         db.OrderService,
		PhotoDocumentService: db.PhotoDocumentService,
		ReportService:        db.ReportService,
		AuditService:         db.AuditService,
		FileStorage:          fileStorage,
		EmailService:         emailService,
		Queue:                jobQueue,
		Workers:              workers,
	}, nil
}

// initFileStorage creates the appropriate file storage implementation.
func initFileStorage(ctx context.Context, cfg *Config, logger *slog.Logger) (weldmark.FileStorage, error) {
	logger.Debug("storage service configuration",
		slog.String("provider", cfg.StorageProvider),
		slog.String("local_path", cfg.StorageLocalPath),
		slog.String("s3_bucket", cfg.StorageS3Bucket),
		slog.String("s3_region", cfg.StorageS3Region))

	storageCfg := weldmark.StorageConfig{
		Provider:  cfg.StorageProvider,
		LocalPath: cfg.StorageLocalPath,
		LocalURL:  cfg.StorageLocalURL,
		S3Bucket:  cfg.StorageS3Bucket,
		S3Region:  cfg.StorageS3Region,
		S3BaseURL: cfg.StorageS3BaseURL,
	}

	return storage.NewFileStorage(ctx, storageCfg)
}

// initEmailService creates the appropriate email service implementation.
func initEmailService(cfg *Config, logger *slog.Logger) weldmark.EmailService {
	logger.Debug("email service configuration",
		slog.String("provider", cfg.EmailProvider),
		slog.String("from_address", cfg.EmailFromAddress),
		slog.String("from_name", cfg.EmailFromName))

	emailCfg := weldmark.EmailConfig{
		Provider:             cfg.EmailProvider,
		FromAddress:          cfg.EmailFromAddress,
		FromName:             cfg.EmailFromName,
		PostmarkServerToken:  cfg.EmailPostmarkToken,
		PostmarkAccountToken: cfg.EmailPostmarkAccount,
	}

	return email.NewEmailService(logger, emailCfg)
}

// initQueue creates the queue implementation.
func initQueue(pool *pgxpool.Pool, cfg *Config, logger *slog.Logger) weldmark.Queue {
	if cfg.QueueProvider == "memory" {
		return queue.NewMemoryQueue()
	}
	return queue.NewPostgresQueue(pool, logger)
}

// initWorkers builds the worker pool with the report generation handler
// registered. The pool is started by the caller.
func initWorkers(jobQueue weldmark.Queue, db *postgres.DB, fileStorage weldmark.FileStorage, cfg *Config, logger *slog.Logger) (*queue.WorkerPool, error) {
	generator, err := reportgen.NewGenerator(
		logger,
		db.ReportService,
		db.OrderService,
		db.PhotoDocumentService,
		db.AuditService,
		fileStorage,
	)
	if err != nil {
		return nil, err
	}

	workerCfg := queue.Config{
		WorkerCount:     cfg.QueueWorkerCount,
		PollInterval:    cfg.QueuePollInterval,
		JobTimeout:      cfg.QueueJobTimeout,
		ShutdownTimeout: cfg.QueueShutdownTimeout,
	}

	pool := queue.NewWorkerPool(jobQueue, logger, workerCfg)
	pool.RegisterHandler(weldmark.JobTypeReportGeneration, generator.Handler())
	return pool, nil
}
