package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reviewloop/reviewloop/internal/config"
	"github.com/reviewloop/reviewloop/internal/core"
	"github.com/reviewloop/reviewloop/internal/github"
)

// Publisher formats finished review text and posts it back to the pull
// request as a single PR-level comment review. It never approves or requests
// changes, and it does not retry failed posts.
type Publisher struct {
	baseURL string
	logger  *slog.Logger
}

// NewPublisher creates a Publisher. The configured base URL is used to build
// the conversation link in the attribution footer.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	return &Publisher{baseURL: cfg.BaseURL, logger: logger}
}

// PostReviewComment appends the attribution footer and posts the review with
// a COMMENT disposition. Posting failures are surfaced to the caller.
func (p *Publisher) PostReviewComment(ctx context.Context, client github.Client, ref core.PullRequestRef, conversationID, reviewText string) error {
	owner, repo, err := ref.Split()
	if err != nil {
		return err
	}

	body := reviewText + p.footer(conversationID)
	if err := client.CreateReview(ctx, owner, repo, ref.Number, body); err != nil {
		return fmt.Errorf("failed to post review comment on %s: %w", ref, err)
	}

	p.logger.Info("review comment posted", "pr", ref.String(), "conversation_id", conversationID)
	return nil
}

func (p *Publisher) footer(conversationID string) string {
	conversationURL := fmt.Sprintf("%s/conversation/%s", p.baseURL, conversationID)
	return fmt.Sprintf("\n\n---\n*This review was generated by ReviewLoop. [View the full conversation](%s).*", conversationURL)
}
