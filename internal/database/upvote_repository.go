package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// UpvoteRepository records one upvote per citizen per complaint.
type UpvoteRepository struct {
	db *sqlx.DB
}

// NewUpvoteRepository creates a new upvote repository.
func NewUpvoteRepository(db *sqlx.DB) *UpvoteRepository {
	return &UpvoteRepository{db: db}
}

// Add upvotes complaintID for userID. It reports false when the upvote
// already existed.
func (r *UpvoteRepository) Add(ctx context.Context, complaintID, userID int64) (bool, error) {
	query := r.db.Rebind(`
		INSERT INTO upvotes (complaint_id, user_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (complaint_id, user_id) DO NOTHING
	`)
	res, err := r.db.ExecContext(ctx, query, complaintID, userID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to add upvote: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Remove deletes the upvote. It reports false when there was none.
func (r *UpvoteRepository) Remove(ctx context.Context, complaintID, userID int64) (bool, error) {
	query := r.db.Rebind(`DELETE FROM upvotes WHERE complaint_id = ? AND user_id = ?`)
	res, err := r.db.ExecContext(ctx, query, complaintID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove upvote: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of upvotes of a complaint.
func (r *UpvoteRepository) Count(ctx context.Context, complaintID int64) (int, error) {
	var n int
	query := r.db.Rebind(`SELECT COUNT(*) FROM upvotes WHERE complaint_id = ?`)
	if err := r.db.GetContext(ctx, &n, query, complaintID); err != nil {
		return 0, fmt.Errorf("failed to count upvotes: %w", err)
	}
	return n, nil
}

// HasUpvoted reports whether userID upvoted complaintID.
func (r *UpvoteRepository) HasUpvoted(ctx context.Context, complaintID, userID int64) (bool, error) {
	var exists bool
	query := r.db.Rebind(`SELECT EXISTS (SELECT 1 FROM upvotes WHERE complaint_id = ? AND user_id = ?)`)
	if err := r.db.GetContext(ctx, &exists, query, complaintID, userID); err != nil {
		return false, fmt.Errorf("failed to check upvote: %w", err)
	}
	return exists, nil
}
