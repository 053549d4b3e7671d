package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/avolkov/review-courier/internal/core"
)

// Store defines the durable review-tracking operations.
//
//go:generate mockgen -destination=../mocks/mock_tracker_store.go -package=mocks . Store
type Store interface {
	// Get returns the tracker for a PR, or nil when the PR was never seen.
	Get(ctx context.Context, host, repoFullName string, prNumber int) (*core.PRTracker, error)

	// RecordReview appends a review event after a successful delivery,
	// creating the tracker row lazily on first use. The stored review count
	// always equals the history length afterwards.
	RecordReview(ctx context.Context, host, repoFullName string, prNumber int, event core.ReviewEvent) (*core.PRTracker, error)

	// MarkCommentProcessed records an inbound trigger comment as consumed,
	// so the same request never starts a second review.
	MarkCommentProcessed(ctx context.Context, host, repoFullName string, prNumber int, commentID string) error

	// MarkDescriptionProcessed records that the PR description's own review
	// trigger has been honored.
	MarkDescriptionProcessed(ctx context.Context, host, repoFullName string, prNumber int) error
}

type postgresStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Postgres-backed Store.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &postgresStore{db: db, logger: logger}
}

// trackerRow mirrors the pr_trackers table.
type trackerRow struct {
	ID                   int64        `db:"id"`
	RepositoryID         int64        `db:"repository_id"`
	PRNumber             int          `db:"pr_number"`
	ReviewCount          int          `db:"review_count"`
	LastReviewedAt       sql.NullTime `db:"last_reviewed_at"`
	ReviewHistory        string       `db:"review_history"`
	ProcessedCommentIDs  string       `db:"processed_comment_ids"`
	DescriptionProcessed bool         `db:"description_processed"`
	AIReviewCommentIDs   string       `db:"ai_review_comment_ids"`
	CreatedAt            time.Time    `db:"created_at"`
	UpdatedAt            time.Time    `db:"updated_at"`
}

func (s *postgresStore) Get(ctx context.Context, host, repoFullName string, prNumber int) (*core.PRTracker, error) {
	const query = `
		SELECT t.id, t.repository_id, t.pr_number, t.review_count, t.last_reviewed_at,
		       t.review_history, t.processed_comment_ids, t.description_processed,
		       t.ai_review_comment_ids, t.created_at, t.updated_at
		FROM pr_trackers t
		JOIN repositories r ON r.id = t.repository_id
		WHERE r.host = $1 AND r.full_name = $2 AND t.pr_number = $3`

	var row trackerRow
	if err := s.db.GetContext(ctx, &row, query, host, repoFullName, prNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load tracker for %s/%s#%d: %w", host, repoFullName, prNumber, err)
	}
	return s.toTracker(row, host, repoFullName), nil
}

func (s *postgresStore) RecordReview(ctx context.Context, host, repoFullName string, prNumber int, event core.ReviewEvent) (*core.PRTracker, error) {
	var tracker *core.PRTracker
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		row, err := s.lockTracker(ctx, tx, host, repoFullName, prNumber)
		if err != nil {
			return err
		}

		history := decodeHistory(s.logger, row.ReviewHistory)
		if event.ReReview && len(history) > 0 {
			prev := history[len(history)-1]
			growth := computeGrowth(prev.ImprovementCount, event.ImprovementCount)
			event.Growth = &growth
		}
		history = append(history, event)

		historyBlob, err := encodeHistory(history)
		if err != nil {
			return fmt.Errorf("failed to encode review history: %w", err)
		}

		aiIDs := decodeIDs(s.logger, row.AIReviewCommentIDs)
		if event.PostedCommentID != "" {
			aiIDs = append(aiIDs, event.PostedCommentID)
		}
		aiBlob, err := encodeIDs(aiIDs)
		if err != nil {
			return fmt.Errorf("failed to encode posted comment ids: %w", err)
		}

		const update = `
			UPDATE pr_trackers
			SET review_count = $1, last_reviewed_at = $2, review_history = $3,
			    ai_review_comment_ids = $4, updated_at = now()
			WHERE id = $5`
		if _, err := tx.ExecContext(ctx, update,
			len(history), event.Timestamp, historyBlob, aiBlob, row.ID); err != nil {
			return fmt.Errorf("failed to update tracker: %w", err)
		}

		row.ReviewCount = len(history)
		row.LastReviewedAt = sql.NullTime{Time: event.Timestamp, Valid: true}
		row.ReviewHistory = historyBlob
		row.AIReviewCommentIDs = aiBlob
		tracker = s.toTracker(*row, host, repoFullName)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "review recorded",
		"host", host, "repo", repoFullName, "pr", prNumber,
		"review_count", tracker.ReviewCount,
	)
	return tracker, nil
}

func (s *postgresStore) MarkCommentProcessed(ctx context.Context, host, repoFullName string, prNumber int, commentID string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		row, err := s.lockTracker(ctx, tx, host, repoFullName, prNumber)
		if err != nil {
			return err
		}

		ids := decodeIDs(s.logger, row.ProcessedCommentIDs)
		for _, id := range ids {
			if id == commentID {
				return nil
			}
		}
		ids = append(ids, commentID)

		blob, err := encodeIDs(ids)
		if err != nil {
			return fmt.Errorf("failed to encode processed comment ids: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE pr_trackers SET processed_comment_ids = $1, updated_at = now() WHERE id = $2`,
			blob, row.ID)
		if err != nil {
			return fmt.Errorf("failed to mark comment processed: %w", err)
		}
		return nil
	})
}

func (s *postgresStore) MarkDescriptionProcessed(ctx context.Context, host, repoFullName string, prNumber int) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		row, err := s.lockTracker(ctx, tx, host, repoFullName, prNumber)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE pr_trackers SET description_processed = TRUE, updated_at = now() WHERE id = $1`,
			row.ID)
		if err != nil {
			return fmt.Errorf("failed to mark description processed: %w", err)
		}
		return nil
	})
}

// lockTracker returns the PR's tracker row locked for update, creating the
// repository and tracker rows on first contact. The row lock is what closes
// the read-modify-write race between concurrent reviews of the same PR.
func (s *postgresStore) lockTracker(ctx context.Context, tx *sqlx.Tx, host, repoFullName string, prNumber int) (*trackerRow, error) {
	var repoID int64
	const upsertRepo = `
		INSERT INTO repositories (host, full_name) VALUES ($1, $2)
		ON CONFLICT (host, full_name) DO UPDATE SET full_name = EXCLUDED.full_name
		RETURNING id`
	if err := tx.GetContext(ctx, &repoID, upsertRepo, host, repoFullName); err != nil {
		return nil, fmt.Errorf("failed to upsert repository %s/%s: %w", host, repoFullName, err)
	}

	const insertTracker = `
		INSERT INTO pr_trackers (repository_id, pr_number) VALUES ($1, $2)
		ON CONFLICT (repository_id, pr_number) DO NOTHING`
	if _, err := tx.ExecContext(ctx, insertTracker, repoID, prNumber); err != nil {
		return nil, fmt.Errorf("failed to create tracker row: %w", err)
	}

	const selectTracker = `
		SELECT id, repository_id, pr_number, review_count, last_reviewed_at,
		       review_history, processed_comment_ids, description_processed,
		       ai_review_comment_ids, created_at, updated_at
		FROM pr_trackers
		WHERE repository_id = $1 AND pr_number = $2
		FOR UPDATE`
	var row trackerRow
	if err := tx.GetContext(ctx, &row, selectTracker, repoID, prNumber); err != nil {
		return nil, fmt.Errorf("failed to lock tracker row: %w", err)
	}
	return &row, nil
}

func (s *postgresStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("transaction rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *postgresStore) toTracker(row trackerRow, host, repoFullName string) *core.PRTracker {
	tracker := &core.PRTracker{
		ID:                   row.ID,
		RepositoryID:         row.RepositoryID,
		Host:                 host,
		RepoFullName:         repoFullName,
		PRNumber:             row.PRNumber,
		ReviewCount:          row.ReviewCount,
		History:              decodeHistory(s.logger, row.ReviewHistory),
		ProcessedCommentIDs:  decodeIDs(s.logger, row.ProcessedCommentIDs),
		DescriptionProcessed: row.DescriptionProcessed,
		AIReviewCommentIDs:   decodeIDs(s.logger, row.AIReviewCommentIDs),
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
	if row.LastReviewedAt.Valid {
		t := row.LastReviewedAt.Time
		tracker.LastReviewedAt = &t
	}
	return tracker
}
