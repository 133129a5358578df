// Package jobs defines background tasks such as publishing finished reviews
// back to their pull requests.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/reviewloop/reviewloop/internal/core"
)

// dispatcher implements core.JobDispatcher and manages a pool of worker
// goroutines that publish finished reviews.
type dispatcher struct {
	publishJob core.Job                // Job implementation executed by each worker.
	jobQueue   chan *core.PublishEvent // Queue of finished-review events.
	maxWorkers int                     // Number of concurrent workers.
	wg         sync.WaitGroup          // Tracks active workers for graceful shutdown.
	logger     *slog.Logger
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If maxWorkers is 0 or negative, it defaults to 1.
func NewDispatcher(publishJob core.Job, maxWorkers int, logger *slog.Logger) core.JobDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	d := &dispatcher{
		publishJob: publishJob,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan *core.PublishEvent, 100),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

// startWorkers launches maxWorkers goroutines to process jobs from the queue.
func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes events from the queue until it's closed.
func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Info("starting publish worker", "id", workerID)

	for event := range d.jobQueue {
		d.processEvent(workerID, event)
	}

	d.logger.Info("shutting down publish worker", "id", workerID)
}

// processEvent logs and runs a publish job for a finished review.
func (d *dispatcher) processEvent(workerID int, event *core.PublishEvent) {
	d.logger.Info("worker processing job",
		"worker_id", workerID,
		"conversation_id", event.ConversationID,
	)

	err := d.publishJob.Run(context.Background(), event)
	if err != nil {
		d.logger.Error("publish job failed",
			"conversation_id", event.ConversationID,
			"error", err,
		)
	}
}

// Dispatch queues a finished-review event for processing by a worker.
func (d *dispatcher) Dispatch(_ context.Context, event *core.PublishEvent) error {
	d.logger.Info("queuing publish job", "conversation_id", event.ConversationID)

	select {
	case d.jobQueue <- event:
		return nil
	default:
		return fmt.Errorf("job queue is full, cannot accept new publish job")
	}
}

// Stop gracefully shuts down the dispatcher, waiting for all workers to finish.
func (d *dispatcher) Stop() {
	d.logger.Info("stopping dispatcher and waiting for jobs to finish")
	close(d.jobQueue)
	d.wg.Wait()
	d.logger.Info("all publish jobs have finished")
}
