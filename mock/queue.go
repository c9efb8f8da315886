package mock

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukerupert/weldmark"
)

// Compile-time interface check
var _ weldmark.Queue = (*Queue)(nil)

// Queue is a mock implementation of weldmark.Queue.
type Queue struct {
	EnqueueFn   func(ctx context.Context, job *weldmark.Job, opts ...weldmark.EnqueueOption) error
	DequeueFn   func(ctx context.Context, queueName, workerID string) (*weldmark.Job, error)
	CompleteFn  func(ctx context.Context, jobID uuid.UUID, result []byte) error
	FailFn      func(ctx context.Context, jobID uuid.UUID, errMsg string) error
	GetJobFn    func(ctx context.Context, jobID uuid.UUID) (*weldmark.Job, error)
	CancelJobFn func(ctx context.Context, jobID uuid.UUID) error

	// Enqueued collects jobs when EnqueueFn is nil.
	Enqueued []*weldmark.Job
}

func (q *Queue) Enqueue(ctx context.Context, job *weldmark.Job, opts ...weldmark.EnqueueOption) error {
	if q.EnqueueFn != nil {
		return q.EnqueueFn(ctx, job, opts...)
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	q.Enqueued = append(q.Enqueued, job)
	return nil
}

func (q *Queue) Dequeue(ctx context.Context, queueName, workerID string) (*weldmark.Job, error) {
	if q.DequeueFn != nil {
		return q.DequeueFn(ctx, queueName, workerID)
	}
	return nil, nil
}

func (q *Queue) Complete(ctx context.Context, jobID uuid.UUID, result []byte) error {
	if q.CompleteFn != nil {
		return q.CompleteFn(ctx, jobID, result)
	}
	return nil
}

func (q *Queue) Fail(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	if q.FailFn != nil {
		return q.FailFn(ctx, jobID, errMsg)
	}
	return nil
}

func (q *Queue) GetJob(ctx context.Context, jobID uuid.UUID) (*weldmark.Job, error) {
	if q.GetJobFn != nil {
		return q.GetJobFn(ctx, jobID)
	}
	return nil, weldmark.NotFound("Job not found")
}

func (q *Queue) CancelJob(ctx context.Context, jobID uuid.UUID) error {
	if q.CancelJobFn != nil {
		return q.CancelJobFn(ctx, jobID)
	}
	return nil
}
