package queue

import (
	"context"
	"sync"
	"time"

	"github.com/dukerupert/weldmark"
	"github.com/google/uuid"
)

// Compile-time check that MemoryQueue implements weldmark.Queue.
var _ weldmark.Queue = (*MemoryQueue)(nil)

// MemoryQueue is an in-memory queue for development and tests.
// Jobs do not survive a restart and retries run without backoff.
type MemoryQueue struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*weldmark.Job
}

// NewMemoryQueue creates an empty in-memory queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{jobs: make(map[uuid.UUID]*weldmark.Job)}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, job *weldmark.Job, opts ...weldmark.EnqueueOption) error {
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

	q.mu.Lock()
	defer q.mu.Unlock()

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.Status = weldmark.JobStatusPending
	job.Priority = options.Priority
	job.MaxAttempts = options.MaxAttempts
	job.CreatedAt = time.Now()
	job.ScheduledAt = job.CreatedAt.Add(options.Delay)

	stored := *job
	q.jobs[job.ID] = &stored
	return nil
}

func (q *MemoryQueue) Dequeue(ctx context.Context, queueName, workerID string) (*weldmark.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var best *weldmark.Job
	now := time.Now()
	for _, job := range q.jobs {
		if job.Status != weldmark.JobStatusPending || job.QueueName != queueName || job.ScheduledAt.After(now) {
			continue
		}
		if best == nil || job.Priority > best.Priority ||
			(job.Priority == best.Priority && job.CreatedAt.Before(best.CreatedAt)) {
			best = job
		}
	}
	if best == nil {
		return nil, nil
	}

	best.Status = weldmark.JobStatusRunning
	best.AttemptCount++
	best.WorkerID = workerID
	started := time.Now()
	best.StartedAt = &started

	out := *best
	return &out, nil
}

func (q *MemoryQueue) Complete(ctx context.Context, jobID uuid.UUID, result []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[jobID]
	if !ok || job.Status != weldmark.JobStatusRunning {
		return weldmark.NotFound("Running job not found")
	}
	job.Status = weldmark.JobStatusCompleted
	job.Result = result
	completed := time.Now()
	job.CompletedAt = &completed
	return nil
}

func (q *MemoryQueue) Fail(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[jobID]
	if !ok {
		return weldmark.NotFound("Job not found")
	}

	job.ErrorMessage = errMsg
	if job.AttemptCount < job.MaxAttempts {
		job.Status = weldmark.JobStatusPending
		job.WorkerID = ""
		return nil
	}

	job.Status = weldmark.JobStatusFailed
	completed := time.Now()
	job.CompletedAt = &completed
	return nil
}

func (q *MemoryQueue) GetJob(ctx context.Context, jobID uuid.UUID) (*weldmark.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[jobID]
	if !ok {
		return nil, weldmark.NotFound("Job not found")
	}
	out := *job
	return &out, nil
}

func (q *MemoryQueue) CancelJob(ctx context.Context, jobID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[jobID]
	if !ok {
		return weldmark.NotFound("Job not found")
	}
	if job.Status != weldmark.JobStatusPending {
		return weldmark.IllegalState("Job is no longer pending")
	}
	job.Status = weldmark.JobStatusCancelled
	completed := time.Now()
	job.CompletedAt = &completed
	return nil
}
