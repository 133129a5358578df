package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reviewloop/reviewloop/internal/core"
	"github.com/reviewloop/reviewloop/internal/github"
	"github.com/reviewloop/reviewloop/internal/review"
	"github.com/reviewloop/reviewloop/internal/storage"
)

// PublishJob posts a finished review back to its pull request. It resolves
// the review cycle by conversation id, authenticates the same way the
// original cycle did, and records the posted review.
type PublishJob struct {
	clients   github.ClientFactory
	publisher *review.Publisher
	store     storage.Store
	logger    *slog.Logger
}

// NewPublishJob creates a new PublishJob.
func NewPublishJob(clients github.ClientFactory, publisher *review.Publisher, store storage.Store, logger *slog.Logger) core.Job {
	if clients == nil {
		panic("client factory cannot be nil")
	}
	if publisher == nil {
		panic("publisher cannot be nil")
	}
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &PublishJob{clients: clients, publisher: publisher, store: store, logger: logger}
}

// Run executes the publish job for one finished review.
func (j *PublishJob) Run(ctx context.Context, event *core.PublishEvent) error {
	if event.ConversationID == "" {
		return fmt.Errorf("conversation id cannot be empty")
	}
	if event.ReviewText == "" {
		return fmt.Errorf("review text cannot be empty")
	}

	cycle, err := j.store.GetCycleByConversationID(ctx, event.ConversationID)
	if err != nil {
		return fmt.Errorf("failed to resolve review cycle: %w", err)
	}

	ref := core.PullRequestRef{RepoFullName: cycle.RepoFullName, Number: cycle.PRNumber}
	client, err := j.clients.ClientFor(ctx, &core.ReviewEvent{
		Ref:            ref,
		InstallationID: cycle.InstallationID,
	})
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	if err := j.publisher.PostReviewComment(ctx, client, ref, event.ConversationID, event.ReviewText); err != nil {
		return err
	}

	if err := j.store.SavePostedReview(ctx, &core.PostedReview{
		ConversationID: event.ConversationID,
		Body:           event.ReviewText,
	}); err != nil {
		// The comment is already on the PR; losing the record is not worth
		// failing the job over.
		j.logger.Error("failed to record posted review", "conversation_id", event.ConversationID, "error", err)
	}

	j.logger.Info("review published", "pr", ref.String(), "conversation_id", event.ConversationID)
	return nil
}
