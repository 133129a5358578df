package jobs

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewloop/reviewloop/internal/core"
)

// recordingJob collects the events it was run with.
type recordingJob struct {
	mu     sync.Mutex
	events []*core.PublishEvent
	block  chan struct{} // when non-nil, Run waits on it after signalling started
	start  chan struct{}
}

func (j *recordingJob) Run(_ context.Context, event *core.PublishEvent) error {
	if j.start != nil {
		select {
		case j.start <- struct{}{}:
		default:
		}
	}
	if j.block != nil {
		<-j.block
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, event)
	return nil
}

func (j *recordingJob) seen() []*core.PublishEvent {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]*core.PublishEvent(nil), j.events...)
}

func TestDispatcherProcessesEvents(t *testing.T) {
	job := &recordingJob{}
	d := NewDispatcher(job, 2, discardLogger())

	for i := range 5 {
		err := d.Dispatch(context.Background(), &core.PublishEvent{
			ConversationID: fmt.Sprintf("conv-%d", i),
			ReviewText:     "text",
		})
		require.NoError(t, err)
	}
	d.Stop()

	assert.Len(t, job.seen(), 5)
}

func TestDispatcherRejectsWhenQueueIsFull(t *testing.T) {
	job := &recordingJob{
		block: make(chan struct{}),
		start: make(chan struct{}, 1),
	}
	d := NewDispatcher(job, 1, discardLogger())

	// Occupy the single worker and wait until it is actually running.
	require.NoError(t, d.Dispatch(context.Background(), &core.PublishEvent{ConversationID: "busy", ReviewText: "text"}))
	select {
	case <-job.start:
	case <-time.After(time.Second):
		t.Fatal("worker never picked up the first event")
	}

	// Fill the buffered queue behind it.
	for i := range 100 {
		require.NoError(t, d.Dispatch(context.Background(), &core.PublishEvent{
			ConversationID: fmt.Sprintf("conv-%d", i),
			ReviewText:     "text",
		}))
	}

	err := d.Dispatch(context.Background(), &core.PublishEvent{ConversationID: "overflow", ReviewText: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue is full")

	close(job.block)
	d.Stop()
}

func TestDispatcherStopWaitsForInFlightJobs(t *testing.T) {
	job := &recordingJob{}
	d := NewDispatcher(job, 0, discardLogger()) // defaults to one worker

	require.NoError(t, d.Dispatch(context.Background(), &core.PublishEvent{ConversationID: "conv-1", ReviewText: "text"}))
	d.Stop()

	require.Len(t, job.seen(), 1)
	assert.Equal(t, "conv-1", job.seen()[0].ConversationID)
}
