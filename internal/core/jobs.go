package core

import (
	"context"
)

// PublishEvent is the unit of work handed to the publish pipeline when the
// conversation engine reports a finished review.
type PublishEvent struct {
	ConversationID string
	ReviewText     string
}

// JobDispatcher defines the contract for a system that can accept and queue
// background jobs for asynchronous processing. This interface decouples the
// event source (e.g., the review-completion callback) from the job execution
// mechanism.
type JobDispatcher interface {
	// Dispatch accepts a PublishEvent and queues it for processing.
	// It returns an error if the job cannot be queued, for example, if the
	// queue is full, providing a mechanism for backpressure.
	Dispatch(ctx context.Context, event *PublishEvent) error

	// Stop shuts the dispatcher down, waiting for in-flight jobs to finish.
	Stop()
}

// Job represents a single, executable unit of work that can be processed by
// the application's job dispatcher.
type Job interface {
	// Run executes the job's logic. It returns an error if the job fails
	// to complete successfully.
	Run(ctx context.Context, event *PublishEvent) error
}
