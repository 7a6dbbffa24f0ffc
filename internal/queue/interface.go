package queue

import (
	"context"
	"time"
)

// MessageInterface defines the interface for queue messages, allowing
// mock implementations in worker tests.
type MessageInterface interface {
	Ack() error
	Nack(requeue bool) error
	GetJob() *Job
}

// JobQueue is the interface for job queues.
type JobQueue interface {
	// Enqueue adds a job to the queue.
	Enqueue(ctx context.Context, job *Job) error

	// Consume returns a channel of messages from the queue. Messages
	// arrive asynchronously; the caller acknowledges each one. Prefetch
	// bounds how many unacknowledged messages a consumer holds. The
	// returned channels close when ctx is cancelled or on error.
	Consume(ctx context.Context, prefetchCount int) (<-chan *Message, <-chan error, error)

	// Close closes the queue connection.
	Close() error

	// HealthCheck verifies the queue connection is healthy.
	HealthCheck(ctx context.Context) error
}

// DLQPurger removes dead-lettered messages past their retention.
type DLQPurger interface {
	PurgeOlderThan(ctx context.Context, retention time.Duration) (int, error)
}
