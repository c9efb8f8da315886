package weldmark

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Queue defines operations for a job queue.
type Queue interface {
	// Enqueue adds a job to the queue.
	Enqueue(ctx context.Context, job *Job, opts ...EnqueueOption) error

	// Dequeue retrieves and locks the next available job from a queue.
	// Returns nil if no jobs are available.
	Dequeue(ctx context.Context, queueName, workerID string) (*Job, error)

	// Complete marks a job as completed with optional result data.
	Complete(ctx context.Context, jobID uuid.UUID, result []byte) error

	// Fail marks a job as failed with an error message.
	// The job may be retried based on its retry configuration.
	Fail(ctx context.Context, jobID uuid.UUID, errMsg string) error

	// GetJob retrieves a job by its ID.
	// Returns ENOTFOUND if the job does not exist.
	GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error)

	// CancelJob cancels a pending job.
	// Returns EILLEGALSTATE if the job is already running or finished.
	CancelJob(ctx context.Context, jobID uuid.UUID) error
}

// Job represents a background job.
type Job struct {
	ID           uuid.UUID  `json:"id"`
	QueueName    string     `json:"queueName"`
	JobType      string     `json:"jobType"`
	Payload      []byte     `json:"payload"`
	Status       JobStatus  `json:"status"`
	Priority     int        `json:"priority"`
	MaxAttempts  int        `json:"maxAttempts"`
	AttemptCount int        `json:"attemptCount"`
	ScheduledAt  time.Time  `json:"scheduledAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	Result       []byte     `json:"result,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	WorkerID     string     `json:"workerId,omitempty"`
}

// JobStatus represents the status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// IsTerminal returns true if the job is in a terminal state.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// Queue and job type names.
const (
	QueueReports = "reports"

	JobTypeReportGeneration = "report_generation"
)

// EnqueueOption customizes a job at enqueue time.
type EnqueueOption func(*EnqueueOptions)

// EnqueueOptions holds the resolved enqueue customizations.
type EnqueueOptions struct {
	Priority    int
	MaxAttempts int
	Delay       time.Duration
}

// WithPriority sets the job priority (higher runs first).
func WithPriority(priority int) EnqueueOption {
	return func(o *EnqueueOptions) { o.Priority = priority }
}

// WithMaxAttempts sets the maximum retry attempts.
func WithMaxAttempts(attempts int) EnqueueOption {
	return func(o *EnqueueOptions) { o.MaxAttempts = attempts }
}

// WithDelay schedules the job to run after the given delay.
func WithDelay(delay time.Duration) EnqueueOption {
	return func(o *EnqueueOptions) { o.Delay = delay }
}
