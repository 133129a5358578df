package core

import (
	"context"
	"errors"
	"time"
)

// ErrAutoFixNotImplemented is returned by the auto-fix step. Creating
// follow-up fix pull requests is an accepted but unimplemented capability;
// callers can distinguish it from "attempted and found nothing".
var ErrAutoFixNotImplemented = errors.New("auto-fix is not implemented")

// ErrDuplicateDelivery signals that a review cycle for the same pull request
// and head commit is already running or recently completed.
var ErrDuplicateDelivery = errors.New("review already in progress for this pull request")

// FixOutcome reports what happened in the auto-fix step of a review cycle.
type FixOutcome int

const (
	// FixSkipped means auto-fix was not requested for this cycle.
	FixSkipped FixOutcome = iota
	// FixNotImplemented means auto-fix was requested but the capability
	// does not exist yet; the intent is logged and nothing else happens.
	FixNotImplemented
)

// Outcome carries the result of one review cycle back to the caller.
// Completion means "review requested", not "review delivered": the
// conversation engine produces the review text asynchronously and delivers
// it through its own event stream.
type Outcome struct {
	ConversationID string
	Ref            PullRequestRef
	Fix            FixOutcome
	FixPRURL       string

	// Errors collects non-fatal per-file injection failures in the order
	// they occurred. A non-empty slice does not mean the cycle failed.
	Errors []string
}

// Reviewer drives a full review cycle for one pull request. Implementations
// may block on network I/O at every step.
//
//go:generate mockgen -destination=../mocks/mock_reviewer.go -package=mocks . Reviewer
type Reviewer interface {
	ReviewPullRequest(ctx context.Context, event *ReviewEvent) (*Outcome, error)
}

// ReviewCycle is the durable record of one requested review. It connects the
// synchronous "request accepted" protocol to the asynchronous "review
// produced" protocol through the conversation id.
type ReviewCycle struct {
	ID             int64
	ConversationID string
	RepoFullName   string
	PRNumber       int
	HeadSHA        string
	InstallationID int64
	CreatedAt      time.Time
}

// PostedReview records a review comment that was published back to the pull
// request after the conversation engine delivered its text.
type PostedReview struct {
	ID             int64
	ConversationID string
	Body           string
	PostedAt       time.Time
}
