// Package core holds the domain types the review pipeline passes between its
// layers: pull request references and events, review outcomes and cycles, and
// the Reviewer, Job, and JobDispatcher contracts the handlers and workers are
// written against.
package core

import (
	"fmt"
	"strings"

	"github.com/google/go-github/v73/github"
)

// PullRequestRef identifies a single pull request across all gateway calls.
type PullRequestRef struct {
	// RepoFullName is the repository in "owner/repo" form.
	RepoFullName string
	// Number is the pull request number within the repository.
	Number int
}

// Split returns the owner and repository components of the full name.
// It fails when the full name does not match the "owner/repo" pattern.
func (r PullRequestRef) Split() (owner, name string, err error) {
	parts := strings.Split(r.RepoFullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository name %q is not in owner/repo form", r.RepoFullName)
	}
	return parts[0], parts[1], nil
}

// Validate checks that the reference is usable for gateway calls.
func (r PullRequestRef) Validate() error {
	if _, _, err := r.Split(); err != nil {
		return err
	}
	if r.Number <= 0 {
		return fmt.Errorf("invalid pull request number: %d", r.Number)
	}
	return nil
}

func (r PullRequestRef) String() string {
	return fmt.Sprintf("%s#%d", r.RepoFullName, r.Number)
}

// ReviewEvent represents a simplified, internal view of a qualifying
// pull_request webhook delivery.
type ReviewEvent struct {
	Ref     PullRequestRef
	Action  string
	Title   string
	HeadSHA string

	// InstallationID is set when the delivery comes from a GitHub App
	// installation; zero means the deployment token is used instead.
	InstallationID int64
}

// EventFromPullRequest transforms a raw GitHub PullRequestEvent into the
// application's internal ReviewEvent representation. It acts as an
// anti-corruption layer, ensuring the incoming payload carries all fields the
// review pipeline depends on before any gateway call is made.
func EventFromPullRequest(event *github.PullRequestEvent) (*ReviewEvent, error) {
	repo := event.GetRepo()
	if repo == nil || repo.GetFullName() == "" {
		return nil, fmt.Errorf("repository information is missing from the event")
	}

	ref := PullRequestRef{
		RepoFullName: repo.GetFullName(),
		Number:       event.GetNumber(),
	}
	if ref.Number == 0 {
		// Some deliveries carry the number only on the pull_request object.
		ref.Number = event.GetPullRequest().GetNumber()
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	var installationID int64
	if inst := event.GetInstallation(); inst != nil {
		installationID = inst.GetID()
	}

	return &ReviewEvent{
		Ref:            ref,
		Action:         event.GetAction(),
		Title:          event.GetPullRequest().GetTitle(),
		HeadSHA:        event.GetPullRequest().GetHead().GetSHA(),
		InstallationID: installationID,
	}, nil
}
