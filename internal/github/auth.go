// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/reviewloop/reviewloop/internal/config"
	"github.com/reviewloop/reviewloop/internal/core"
)

// ClientFactory resolves an authenticated Client for one review cycle.
// Credential resolution order: GitHub App installation token when the
// delivery carries an installation id and the App is configured, otherwise
// the deployment-wide default token.
//
//go:generate mockgen -destination=../mocks/mock_client_factory.go -package=mocks . ClientFactory
type ClientFactory interface {
	ClientFor(ctx context.Context, event *core.ReviewEvent) (Client, error)
}

type clientFactory struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewClientFactory creates a ClientFactory backed by the process configuration.
func NewClientFactory(cfg *config.Config, logger *slog.Logger) ClientFactory {
	return &clientFactory{cfg: cfg, logger: logger}
}

func (f *clientFactory) ClientFor(ctx context.Context, event *core.ReviewEvent) (Client, error) {
	if event.InstallationID != 0 && f.cfg.GitHubAppID != 0 {
		return f.createInstallationClient(ctx, event.InstallationID)
	}
	if f.cfg.GitHubToken == "" {
		return nil, fmt.Errorf("no GitHub credential available for %s", event.Ref)
	}
	return NewTokenClient(f.cfg.GitHubToken, f.logger), nil
}

// createInstallationClient creates a GitHub client that is authenticated as a
// specific application installation.
func (f *clientFactory) createInstallationClient(ctx context.Context, installationID int64) (Client, error) {
	f.logger.Info("creating GitHub installation client", "installation_id", installationID)

	privateKey, err := os.ReadFile(f.cfg.GitHubPrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key from %s: %w", f.cfg.GitHubPrivateKeyPath, err)
	}

	// The apps transport talks to the GitHub App API to mint installation tokens.
	appTransport, err := ghinstallation.NewAppsTransport(http.DefaultTransport, f.cfg.GitHubAppID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App transport: %w", err)
	}
	appClient := github.NewClient(&http.Client{Transport: appTransport})

	token, _, err := appClient.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create installation token for installation ID %d: %w", installationID, err)
	}
	if token.GetToken() == "" {
		return nil, fmt.Errorf("received an empty installation token")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.GetToken()})
	tc := oauth2.NewClient(ctx, ts)
	return NewClient(github.NewClient(tc), f.logger), nil
}
