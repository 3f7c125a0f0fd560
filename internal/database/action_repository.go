package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/cityvoice/internal/domain"
)

// ActionRepository stores the authority audit trail.
type ActionRepository struct {
	db *sqlx.DB
}

// NewActionRepository creates a new action repository.
func NewActionRepository(db *sqlx.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// insertAction appends an action and sets its ID. Writers call it inside the
// transaction that changes the complaint.
func insertAction(ctx context.Context, q sqlx.ExtContext, a *domain.Action) error {
	if a.ActionTime.IsZero() {
		a.ActionTime = time.Now().UTC()
	}

	query := q.Rebind(`
		INSERT INTO actions (complaint_id, officer_id, action, image_path, action_time)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)
	if err := q.QueryRowxContext(ctx, query,
		a.ComplaintID, a.OfficerID, a.Action, a.ImagePath, a.ActionTime,
	).Scan(&a.ID); err != nil {
		return fmt.Errorf("failed to create action: %w", err)
	}
	return nil
}

// ListByComplaint returns the actions of a complaint, oldest first.
func (r *ActionRepository) ListByComplaint(ctx context.Context, complaintID int64) ([]domain.Action, error) {
	actions := make([]domain.Action, 0)
	query := r.db.Rebind(`
		SELECT id, complaint_id, officer_id, action, image_path, action_time
		FROM actions
		WHERE complaint_id = ?
		ORDER BY action_time ASC, id ASC
	`)
	if err := r.db.SelectContext(ctx, &actions, query, complaintID); err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	return actions, nil
}
