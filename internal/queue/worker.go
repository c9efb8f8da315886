package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/weldmark"
)

// JobHandler processes one job and returns optional result data.
type JobHandler func(ctx context.Context, job *weldmark.Job) (result []byte, err error)

// Config holds worker pool settings.
type Config struct {
	WorkerCount     int
	PollInterval    time.Duration
	JobTimeout      time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible worker pool defaults.
func DefaultConfig() Config {
	return Config{
		WorkerCount:     2,
		PollInterval:    time.Second,
		JobTimeout:      2 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
	}
}

// WorkerPool manages a pool of workers that process jobs from a queue.
type WorkerPool struct {
	queue    weldmark.Queue
	logger   *slog.Logger
	config   Config
	handlers map[string]JobHandler // job_type -> handler
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.RWMutex
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(queue weldmark.Queue, logger *slog.Logger, config Config) *WorkerPool {
	return &WorkerPool{
		queue:    queue,
		logger:   logger,
		config:   config,
		handlers: make(map[string]JobHandler),
	}
}

// RegisterHandler registers a handler for a specific job type.
func (wp *WorkerPool) RegisterHandler(jobType string, handler JobHandler) {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	wp.handlers[jobType] = handler
	wp.logger.Info("registered job handler", slog.String("job_type", jobType))
}

// Start starts the worker pool against the named queue.
func (wp *WorkerPool) Start(ctx context.Context, queueName string) error {
	wp.mu.Lock()
	if wp.cancel != nil {
		wp.mu.Unlock()
		return fmt.Errorf("worker pool already started")
	}

	workerCtx, cancel := context.WithCancel(ctx)
	wp.cancel = cancel
	wp.mu.Unlock()

	for i := 0; i < wp.config.WorkerCount; i++ {
		wp.wg.Add(1)
		workerID := fmt.Sprintf("worker-%d", i+1)
		go wp.worker(workerCtx, workerID, queueName)
	}

	wp.logger.Info("worker pool started",
		slog.Int("worker_count", wp.config.WorkerCount),
		slog.String("queue", queueName),
	)
	return nil
}

// Stop gracefully stops the worker pool.
func (wp *WorkerPool) Stop() error {
	wp.mu.Lock()
	if wp.cancel == nil {
		wp.mu.Unlock()
		return fmt.Errorf("worker pool not started")
	}
	cancel := wp.cancel
	wp.cancel = nil
	wp.mu.Unlock()

	wp.logger.Info("stopping worker pool")
	cancel()

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.logger.Info("worker pool stopped gracefully")
		return nil
	case <-time.After(wp.config.ShutdownTimeout):
		wp.logger.Warn("worker pool shutdown timeout",
			slog.Duration("timeout", wp.config.ShutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout after %v", wp.config.ShutdownTimeout)
	}
}

// worker is the main worker loop.
func (wp *WorkerPool) worker(ctx context.Context, workerID, queueName string) {
	defer wp.wg.Done()

	wp.logger.Debug("worker started", slog.String("worker_id", workerID))

	ticker := time.NewTicker(wp.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wp.logger.Debug("worker stopping", slog.String("worker_id", workerID))
			return

		case <-ticker.C:
			if err := wp.processNextJob(ctx, workerID, queueName); err != nil {
				wp.logger.Error("failed to process job",
					slog.String("worker_id", workerID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// processNextJob attempts to dequeue and process a single job.
func (wp *WorkerPool) processNextJob(ctx context.Context, workerID, queueName string) error {
	job, err := wp.queue.Dequeue(ctx, queueName, workerID)
	if err != nil {
		return fmt.Errorf("failed to dequeue job: %w", err)
	}
	if job == nil {
		return nil // no jobs available
	}
	return wp.executeJob(ctx, job)
}

// executeJob runs the job handler and updates the job status.
func (wp *WorkerPool) executeJob(ctx context.Context, job *weldmark.Job) error {
	wp.logger.Info("processing job",
		slog.String("job_id", job.ID.String()),
		slog.String("type", job.JobType),
		slog.Int("attempt", job.AttemptCount),
	)

	wp.mu.RLock()
	handler, exists := wp.handlers[job.JobType]
	wp.mu.RUnlock()

	if !exists {
		errMsg := fmt.Sprintf("no handler registered for job type: %s", job.JobType)
		wp.logger.Error("handler not found",
			slog.String("job_id", job.ID.String()),
			slog.String("job_type", job.JobType),
		)
		return wp.queue.Fail(ctx, job.ID, errMsg)
	}

	jobCtx, cancel := context.WithTimeout(ctx, wp.config.JobTimeout)
	defer cancel()

	startTime := time.Now()
	result, err := handler(jobCtx, job)
	duration := time.Since(startTime)

	if err != nil {
		wp.logger.Error("job failed",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration),
		)
		return wp.queue.Fail(ctx, job.ID, err.Error())
	}

	wp.logger.Info("job completed",
		slog.String("job_id", job.ID.String()),
		slog.Duration("duration", duration),
	)
	return wp.queue.Complete(ctx, job.ID, result)
}
