// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/go-github/v73/github"
)

// PullRequestSnapshot holds the pull request metadata one review cycle works
// with. It is fetched once per cycle and never updated in place; a new cycle
// re-fetches.
type PullRequestSnapshot struct {
	Title      string
	Body       string
	HeadBranch string
	BaseBranch string
	HeadSHA    string
	Author     string
	HTMLURL    string
}

// ChangedFile describes a single file included in a pull request, in the
// order the GitHub API returned it.
type ChangedFile struct {
	Filename  string
	Status    string // added, modified, removed, renamed, ...
	Additions int
	Deletions int
	Changes   int
	Patch     string
	BlobURL   string
}

// Client defines the set of outbound operations the review pipeline needs
// from the GitHub API.
//
//go:generate mockgen -destination=../mocks/mock_github_client.go -package=mocks . Client
type Client interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequestSnapshot, error)
	ListChangedFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error)
	GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error)
	CreateReview(ctx context.Context, owner, repo string, number int, body string) error
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewClient wraps an already-configured go-github client to provide a
// focused, testable interface for application-specific GitHub operations.
func NewClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

// NewTokenClient creates a Client authenticated with a bearer token. The
// transport is wrapped with the secondary-rate-limit middleware, which sleeps
// and retries instead of surfacing 429 responses.
func NewTokenClient(token string, logger *slog.Logger) Client {
	rateLimited := github_ratelimit.NewClient(nil)
	client := github.NewClient(rateLimited).WithAuthToken(token)
	return &gitHubClient{client: client, logger: logger}
}

// GetPullRequest retrieves a single pull request by its number.
func (g *gitHubClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequestSnapshot, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		g.logger.Error("failed to get pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, err
	}

	return &PullRequestSnapshot{
		Title:      pr.GetTitle(),
		Body:       pr.GetBody(),
		HeadBranch: pr.GetHead().GetRef(),
		BaseBranch: pr.GetBase().GetRef(),
		HeadSHA:    pr.GetHead().GetSHA(),
		Author:     pr.GetUser().GetLogin(),
		HTMLURL:    pr.GetHTMLURL(),
	}, nil
}

// ListChangedFiles retrieves the list of files modified in a pull request.
// It handles pagination automatically to ensure all files are fetched from
// the GitHub API, which returns a maximum of 100 files per page. The order
// of the returned slice matches the API response order.
func (g *gitHubClient) ListChangedFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error) {
	var allFiles []ChangedFile
	opts := &github.ListOptions{PerPage: 100}

	for {
		files, resp, err := g.client.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list files for pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, err
		}

		for _, file := range files {
			allFiles = append(allFiles, ChangedFile{
				Filename:  file.GetFilename(),
				Status:    file.GetStatus(),
				Additions: file.GetAdditions(),
				Deletions: file.GetDeletions(),
				Changes:   file.GetChanges(),
				Patch:     file.GetPatch(),
				BlobURL:   file.GetBlobURL(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allFiles, nil
}

// GetFileContent retrieves the decoded content of a single file at the given
// commit reference.
func (g *gitHubClient) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	fileContent, _, _, err := g.client.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		g.logger.Error("failed to get file content", "owner", owner, "repo", repo, "path", path, "ref", ref, "error", err)
		return "", err
	}
	if fileContent == nil {
		return "", fmt.Errorf("path %s is not a file", path)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode content of %s: %w", path, err)
	}
	return content, nil
}

// CreateReview posts a single pull-request-level review with a fixed COMMENT
// disposition. The service never approves or requests changes on its own.
func (g *gitHubClient) CreateReview(ctx context.Context, owner, repo string, number int, body string) error {
	reviewRequest := &github.PullRequestReviewRequest{
		Body:  &body,
		Event: github.Ptr("COMMENT"),
	}

	_, _, err := g.client.PullRequests.CreateReview(ctx, owner, repo, number, reviewRequest)
	if err != nil {
		g.logger.Error("failed to create pull request review", "owner", owner, "repo", repo, "pr", number, "error", err)
	}
	return err
}
