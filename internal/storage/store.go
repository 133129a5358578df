// Package storage persists review cycles and posted reviews.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	// import db drivers
	_ "github.com/lib/pq"

	"github.com/reviewloop/reviewloop/internal/core"
)

// ErrCycleNotFound is returned when no review cycle exists for a
// conversation id.
var ErrCycleNotFound = errors.New("review cycle not found")

// Store defines the interface for all database operations.
//
//go:generate mockgen -destination=../mocks/mock_store.go -package=mocks . Store
type Store interface {
	// SaveCycle records a requested review right after its conversation is
	// created, keyed by the locally generated conversation id.
	SaveCycle(ctx context.Context, cycle *core.ReviewCycle) error

	// GetCycleByConversationID resolves the pull request a finished review
	// belongs to. Returns ErrCycleNotFound for unknown conversation ids.
	GetCycleByConversationID(ctx context.Context, conversationID string) (*core.ReviewCycle, error)

	// SavePostedReview records a review comment published back to the PR.
	SavePostedReview(ctx context.Context, review *core.PostedReview) error
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a new Store
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) SaveCycle(ctx context.Context, cycle *core.ReviewCycle) error {
	query := `INSERT INTO review_cycles (conversation_id, repo_full_name, pr_number, head_sha, installation_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.db.ExecContext(ctx, query,
		cycle.ConversationID, cycle.RepoFullName, cycle.PRNumber, cycle.HeadSHA, cycle.InstallationID, time.Now())
	return err
}

func (s *postgresStore) GetCycleByConversationID(ctx context.Context, conversationID string) (*core.ReviewCycle, error) {
	query := `
		SELECT id, conversation_id, repo_full_name, pr_number, head_sha, installation_id, created_at
		FROM review_cycles
		WHERE conversation_id = $1`

	row := s.db.QueryRowContext(ctx, query, conversationID)

	var c core.ReviewCycle
	err := row.Scan(&c.ID, &c.ConversationID, &c.RepoFullName, &c.PRNumber, &c.HeadSHA, &c.InstallationID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *postgresStore) SavePostedReview(ctx context.Context, review *core.PostedReview) error {
	query := `INSERT INTO posted_reviews (conversation_id, review_body, posted_at) VALUES ($1, $2, $3)`
	_, err := s.db.ExecContext(ctx, query, review.ConversationID, review.Body, time.Now())
	return err
}
