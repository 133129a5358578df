package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/reviewloop/reviewloop/internal/config"
	"github.com/reviewloop/reviewloop/internal/conversation"
	"github.com/reviewloop/reviewloop/internal/core"
	"github.com/reviewloop/reviewloop/internal/github"
	"github.com/reviewloop/reviewloop/internal/storage"
)

// policyFileName is the optional per-repository review policy file, read
// from the pull request's head commit.
const policyFileName = ".reviewloop.yml"

const fileStatusRemoved = "removed"

// Orchestrator drives one review cycle per qualifying webhook delivery:
// fetch the pull request, create a conversation seeded with its context,
// inject the changed files in order, and request a review. It returns once
// the review is requested; the conversation engine produces the review text
// asynchronously.
type Orchestrator struct {
	cfg           *config.Config
	clients       github.ClientFactory
	conversations conversation.Gateway
	store         storage.Store
	guard         *deliveryGuard
	logger        *slog.Logger
}

// NewOrchestrator creates the review orchestrator.
func NewOrchestrator(cfg *config.Config, clients github.ClientFactory, conversations conversation.Gateway, store storage.Store, logger *slog.Logger) core.Reviewer {
	return &Orchestrator{
		cfg:           cfg,
		clients:       clients,
		conversations: conversations,
		store:         store,
		guard:         newDeliveryGuard(cfg.DedupTTL),
		logger:        logger,
	}
}

// ReviewPullRequest runs one review cycle. Fetch and conversation-creation
// failures are fatal and abort the cycle; everything after the conversation
// exists is best effort, with per-file failures collected on the outcome.
func (o *Orchestrator) ReviewPullRequest(ctx context.Context, event *core.ReviewEvent) (*core.Outcome, error) {
	if err := event.Ref.Validate(); err != nil {
		return nil, err
	}
	owner, repo, err := event.Ref.Split()
	if err != nil {
		return nil, err
	}

	guardKey := fmt.Sprintf("%s@%s", event.Ref, event.HeadSHA)
	if !o.guard.tryAcquire(guardKey) {
		o.logger.Info("duplicate webhook delivery, skipping review",
			"pr", event.Ref.String(), "head_sha", event.HeadSHA)
		return nil, core.ErrDuplicateDelivery
	}

	client, err := o.clients.ClientFor(ctx, event)
	if err != nil {
		o.guard.release(guardKey)
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	snap, files, err := o.fetchPullRequest(ctx, client, owner, repo, event.Ref.Number)
	if err != nil {
		o.guard.release(guardKey)
		return nil, err
	}
	if event.HeadSHA == "" {
		event.HeadSHA = snap.HeadSHA
	}

	policy := o.fetchRepoPolicy(ctx, client, owner, repo, snap.HeadSHA)

	// The conversation id is opaque and generated here, never by the engine.
	conversationID := uuid.NewString()

	createCtx, cancel := o.callCtx(ctx)
	err = o.conversations.CreateConversation(createCtx, &conversation.CreateRequest{
		ConversationID: conversationID,
		Repository:     event.Ref.RepoFullName,
		InitialMessage: buildInitialMessage(event.Ref, snap, files, policy),
	})
	cancel()
	if err != nil {
		o.guard.release(guardKey)
		return nil, fmt.Errorf("failed to create review conversation: %w", err)
	}

	outcome := &core.Outcome{
		ConversationID: conversationID,
		Ref:            event.Ref,
	}

	// From here on the conversation exists and there is no cancellation
	// path; failures leave a partial conversation behind and are recorded
	// on the outcome instead of aborting.
	if err := o.store.SaveCycle(ctx, &core.ReviewCycle{
		ConversationID: conversationID,
		RepoFullName:   event.Ref.RepoFullName,
		PRNumber:       event.Ref.Number,
		HeadSHA:        event.HeadSHA,
		InstallationID: event.InstallationID,
	}); err != nil {
		o.logger.Error("failed to persist review cycle", "conversation_id", conversationID, "error", err)
		outcome.Errors = append(outcome.Errors, fmt.Sprintf("failed to persist review cycle: %v", err))
	}

	o.injectChangedFiles(ctx, client, conversationID, owner, repo, files, policy, outcome)

	reqCtx, cancel := o.callCtx(ctx)
	err = o.conversations.SendMessage(reqCtx, conversationID, reviewRequestMessage)
	cancel()
	if err != nil {
		o.logger.Error("failed to send review request", "conversation_id", conversationID, "error", err)
		outcome.Errors = append(outcome.Errors, fmt.Sprintf("failed to send review request: %v", err))
	}

	outcome.Fix = o.maybeCreateFixPR(event)

	o.logger.Info("review requested",
		"pr", event.Ref.String(),
		"conversation_id", conversationID,
		"files", len(files),
		"errors", len(outcome.Errors))
	return outcome, nil
}

// fetchPullRequest loads the snapshot and the ordered changed-file list.
// Either failure is fatal: no conversation is created for a pull request
// that cannot be read.
func (o *Orchestrator) fetchPullRequest(ctx context.Context, client github.Client, owner, repo string, number int) (*github.PullRequestSnapshot, []github.ChangedFile, error) {
	snapCtx, cancel := o.callCtx(ctx)
	snap, err := client.GetPullRequest(snapCtx, owner, repo, number)
	cancel()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch PR details: %w", err)
	}

	filesCtx, cancel := o.callCtx(ctx)
	files, err := client.ListChangedFiles(filesCtx, owner, repo, number)
	cancel()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch PR files: %w", err)
	}

	return snap, files, nil
}

// injectChangedFiles sends one message per changed file, preserving the
// gateway's file-list order. One unreadable file must not abort an otherwise
// reviewable pull request, so per-file failures are logged, recorded on the
// outcome, and skipped.
func (o *Orchestrator) injectChangedFiles(ctx context.Context, client github.Client, conversationID, owner, repo string, files []github.ChangedFile, policy *core.RepoPolicy, outcome *core.Outcome) {
	for _, file := range files {
		if excludedByPolicy(file.Filename, policy) {
			o.logger.Debug("skipping file excluded by repository policy", "file", file.Filename)
			continue
		}

		switch {
		case file.Patch != "":
			o.sendFileMessage(ctx, conversationID, file.Filename, buildPatchMessage(file), outcome)

		case file.Status != fileStatusRemoved:
			content, err := o.fetchFileContent(ctx, client, owner, repo, file)
			if err != nil {
				o.logger.Error("failed to fetch file content", "file", file.Filename, "error", err)
				outcome.Errors = append(outcome.Errors, fmt.Sprintf("failed to fetch content of %s: %v", file.Filename, err))
				continue
			}
			o.sendFileMessage(ctx, conversationID, file.Filename, buildContentMessage(file.Filename, content), outcome)

		default:
			// Removed file without a patch: nothing meaningful to inject.
		}
	}
}

func (o *Orchestrator) sendFileMessage(ctx context.Context, conversationID, filename, content string, outcome *core.Outcome) {
	sendCtx, cancel := o.callCtx(ctx)
	defer cancel()

	if err := o.conversations.SendMessage(sendCtx, conversationID, content); err != nil {
		o.logger.Error("failed to inject file into conversation", "file", filename, "error", err)
		outcome.Errors = append(outcome.Errors, fmt.Sprintf("failed to inject %s: %v", filename, err))
	}
}

func (o *Orchestrator) fetchFileContent(ctx context.Context, client github.Client, owner, repo string, file github.ChangedFile) (string, error) {
	ref := refFromBlobURL(file.BlobURL)
	if ref == "" {
		return "", fmt.Errorf("cannot derive commit reference from blob URL %q", file.BlobURL)
	}

	fetchCtx, cancel := o.callCtx(ctx)
	defer cancel()
	return client.GetFileContent(fetchCtx, owner, repo, file.Filename, ref)
}

// fetchRepoPolicy loads the optional .reviewloop.yml from the head commit.
// A missing or malformed file falls back to the default policy.
func (o *Orchestrator) fetchRepoPolicy(ctx context.Context, client github.Client, owner, repo, ref string) *core.RepoPolicy {
	fetchCtx, cancel := o.callCtx(ctx)
	defer cancel()

	raw, err := client.GetFileContent(fetchCtx, owner, repo, policyFileName, ref)
	if err != nil {
		o.logger.Debug("no repository policy file", "repo", owner+"/"+repo, "error", err)
		return core.DefaultRepoPolicy()
	}

	policy := core.DefaultRepoPolicy()
	if err := yaml.Unmarshal([]byte(raw), policy); err != nil {
		o.logger.Warn("ignoring malformed repository policy file", "repo", owner+"/"+repo, "error", err)
		return core.DefaultRepoPolicy()
	}
	return policy
}

// maybeCreateFixPR is the auto-fix step. Creating follow-up fix pull
// requests is not implemented; the intent is logged and the outcome carries
// an explicit NotImplemented tag so callers can tell it apart from
// "attempted and found nothing".
func (o *Orchestrator) maybeCreateFixPR(event *core.ReviewEvent) core.FixOutcome {
	if !o.cfg.AutoFix {
		return core.FixSkipped
	}
	o.logger.Info("auto-fix requested but not implemented", "pr", event.Ref.String(), "reason", core.ErrAutoFixNotImplemented)
	return core.FixNotImplemented
}

func (o *Orchestrator) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.cfg.GatewayTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, o.cfg.GatewayTimeout)
}

func excludedByPolicy(filename string, policy *core.RepoPolicy) bool {
	if policy == nil {
		return false
	}
	for _, prefix := range policy.ExcludePaths {
		prefix = strings.TrimSuffix(prefix, "/")
		if prefix == "" {
			continue
		}
		if filename == prefix || strings.HasPrefix(filename, prefix+"/") {
			return true
		}
	}
	return false
}
