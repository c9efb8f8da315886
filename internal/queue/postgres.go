// Package queue provides job queue implementations backed by PostgreSQL,
// plus the worker pool that drains them.
package queue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dukerupert/weldmark"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check that PostgresQueue implements weldmark.Queue.
var _ weldmark.Queue = (*PostgresQueue)(nil)

const (
	defaultMaxAttempts = 3

	// retryBackoffBase spaces retries: attempt n reruns after n*base.
	retryBackoffBase = 30 * time.Second
)

// PostgresQueue implements weldmark.Queue on a jobs table. Dequeue uses
// FOR UPDATE SKIP LOCKED so concurrent workers never pick the same job.
type PostgresQueue struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresQueue creates a queue backed by the given pool.
func NewPostgresQueue(pool *pgxpool.Pool, logger *slog.Logger) *PostgresQueue {
	return &PostgresQueue{pool: pool, logger: logger}
}

func (q *PostgresQueue) Enqueue(ctx context.Context, job *weldmark.Job, opts ...weldmark.EnqueueOption) error {
	if job.QueueName == "" {
		return weldmark.Invalid("Queue name is required")
	}
	if job.JobType == "" {
		return weldmark.Invalid("Job type is required")
	}

	options := weldmark.EnqueueOptions{MaxAttempts: defaultMaxAttempts}
	for _, opt := range opts {
		opt(&options)
	}

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.Status = weldmark.JobStatusPending
	job.Priority = options.Priority
	job.MaxAttempts = options.MaxAttempts
	job.CreatedAt = time.Now()
	job.ScheduledAt = job.CreatedAt.Add(options.Delay)
	payload := job.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	_, err := q.pool.Exec(ctx,
		`INSERT INTO jobs (id, queue_name, job_type, payload, status, priority,
			max_attempts, attempt_count, scheduled_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)`,
		job.ID, job.QueueName, job.JobType, payload, job.Status,
		job.Priority, job.MaxAttempts, job.ScheduledAt, job.CreatedAt)
	if err != nil {
		return weldmark.Internal("Failed to enqueue job", err)
	}

	q.logger.Debug("job enqueued",
		slog.String("job_id", job.ID.String()),
		slog.String("queue", job.QueueName),
		slog.String("type", job.JobType),
	)
	return nil
}

func (q *PostgresQueue) Dequeue(ctx context.Context, queueName, workerID string) (*weldmark.Job, error) {
	row := q.pool.QueryRow(ctx, `
		UPDATE jobs
		SET status = 'running',
			started_at = NOW(),
			attempt_count = attempt_count + 1,
			worker_id = $2
		WHERE id = (
			SELECT id FROM jobs
			WHERE status = 'pending'
			  AND queue_name = $1
			  AND scheduled_at <= NOW()
			ORDER BY priority DESC, created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING `+jobColumns, queueName, workerID)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no jobs available
		}
		return nil, weldmark.Internal("Failed to dequeue job", err)
	}

	q.logger.Debug("job dequeued",
		slog.String("job_id", job.ID.String()),
		slog.String("worker", workerID),
	)
	return job, nil
}

func (q *PostgresQueue) Complete(ctx context.Context, jobID uuid.UUID, result []byte) error {
	tag, err := q.pool.Exec(ctx,
		`UPDATE jobs SET status = 'completed', completed_at = NOW(), result = $2
		 WHERE id = $1 AND status = 'running'`,
		jobID, result)
	if err != nil {
		return weldmark.Internal("Failed to complete job", err)
	}
	if tag.RowsAffected() == 0 {
		return weldmark.NotFound("Running job not found")
	}
	return nil
}

// Fail marks a job attempt as failed. If attempts remain the job is
// rescheduled with linear backoff, otherwise it lands in failed.
func (q *PostgresQueue) Fail(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	var attemptCount, maxAttempts int
	err := q.pool.QueryRow(ctx,
		`SELECT attempt_count, max_attempts FROM jobs WHERE id = $1`, jobID).
		Scan(&attemptCount, &maxAttempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return weldmark.NotFound("Job not found")
		}
		return weldmark.Internal("Failed to fetch job for failure", err)
	}

	if attemptCount < maxAttempts {
		backoff := time.Duration(attemptCount) * retryBackoffBase
		_, err = q.pool.Exec(ctx,
			`UPDATE jobs SET status = 'pending', error_message = $2,
				scheduled_at = NOW() + $3, worker_id = ''
			 WHERE id = $1`,
			jobID, errMsg, backoff)
		if err != nil {
			return weldmark.Internal("Failed to reschedule job", err)
		}
		q.logger.Info("job rescheduled",
			slog.String("job_id", jobID.String()),
			slog.Int("attempt", attemptCount),
			slog.Duration("backoff", backoff),
		)
		return nil
	}

	_, err = q.pool.Exec(ctx,
		`UPDATE jobs SET status = 'failed', completed_at = NOW(), error_message = $2
		 WHERE id = $1`,
		jobID, errMsg)
	if err != nil {
		return weldmark.Internal("Failed to mark job failed", err)
	}
	return nil
}

func (q *PostgresQueue) GetJob(ctx context.Context, jobID uuid.UUID) (*weldmark.Job, error) {
	row := q.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, jobID)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, weldmark.NotFound("Job not found")
		}
		return nil, weldmark.Internal("Failed to fetch job", err)
	}
	return job, nil
}

func (q *PostgresQueue) CancelJob(ctx context.Context, jobID uuid.UUID) error {
	tag, err := q.pool.Exec(ctx,
		`UPDATE jobs SET status = 'cancelled', completed_at = NOW()
		 WHERE id = $1 AND status = 'pending'`, jobID)
	if err != nil {
		return weldmark.Internal("Failed to cancel job", err)
	}
	if tag.RowsAffected() == 0 {
		// Either missing, or already running/finished.
		var exists bool
		if err := q.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM jobs WHERE id = $1)`, jobID).Scan(&exists); err != nil {
			return weldmark.Internal("Failed to cancel job", err)
		}
		if !exists {
			return weldmark.NotFound("Job not found")
		}
		return weldmark.IllegalState("Job is no longer pending")
	}
	return nil
}

const jobColumns = `id, queue_name, job_type, payload, status, priority,
	max_attempts, attempt_count, scheduled_at, created_at,
	started_at, completed_at, result, error_message, worker_id`

func scanJob(row pgx.Row) (*weldmark.Job, error) {
	var (
		job         weldmark.Job
		startedAt   pgtype.Timestamptz
		completedAt pgtype.Timestamptz
	)
	err := row.Scan(&job.ID, &job.QueueName, &job.JobType, &job.Payload,
		&job.Status, &job.Priority, &job.MaxAttempts, &job.AttemptCount,
		&job.ScheduledAt, &job.CreatedAt, &startedAt, &completedAt,
		&job.Result, &job.ErrorMessage, &job.WorkerID)
	if err != nil {
		return nil, err
	}
	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	return &job, nil
}
