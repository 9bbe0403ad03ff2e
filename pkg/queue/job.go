package queue

import "context"

// Job consumes messages of one type from the queue. Handle errors are
// retried up to the queue's RetryLimit before the message is dead-lettered.
type Job interface {
	// Name returns the unique identifier of the job.
	Name() string

	// Type returns the type of message that the job handles.
	Type() string

	// Handle processes the job with the given payload.
	Handle(ctx context.Context, payload interface{}) error
}
