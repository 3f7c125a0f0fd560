package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/cityvoice/internal/domain"
)

// DefaultListLimit caps listings that do not set a limit.
const DefaultListLimit = 100

const complaintColumns = `c.id, c.citizen_name, c.area, c.address, c.complaint_text, c.clean_text,
	c.category, c.priority, c.status, c.zone, c.created_at, c.photo_after, c.ai_summary,
	c.priority_reasoning, c.is_ai_processed, c.model_used, c.processing_time,
	(SELECT COUNT(*) FROM upvotes u WHERE u.complaint_id = c.id) AS upvotes`

// ComplaintRepository handles database operations for complaints.
type ComplaintRepository struct {
	db *sqlx.DB
}

// NewComplaintRepository creates a new complaint repository.
func NewComplaintRepository(db *sqlx.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// Create inserts a complaint and sets its ID. CreatedAt defaults to now.
func (r *ComplaintRepository) Create(ctx context.Context, c *domain.Complaint) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = domain.StatusNew
	}

	query := r.db.Rebind(`
		INSERT INTO complaints (citizen_name, area, address, complaint_text, clean_text, category,
			priority, status, zone, created_at, ai_summary, priority_reasoning, is_ai_processed,
			model_used, processing_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	err := r.db.QueryRowxContext(ctx, query,
		c.CitizenName, c.Area, c.Address, c.Text, c.CleanText, c.Category,
		c.Priority, c.Status, c.Zone, c.CreatedAt, c.AISummary, c.PriorityReasoning, c.IsAIProcessed,
		c.ModelUsed, c.ProcessingTime,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	return nil
}

// GetByID retrieves a complaint with its upvote count.
func (r *ComplaintRepository) GetByID(ctx context.Context, id int64) (*domain.Complaint, error) {
	var c domain.Complaint
	query := r.db.Rebind(`SELECT ` + complaintColumns + ` FROM complaints c WHERE c.id = ?`)

	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get complaint %d: %w", id, err)
	}
	return &c, nil
}

// List returns complaints matching filter, most upvoted first, then newest.
func (r *ComplaintRepository) List(ctx context.Context, filter domain.ComplaintFilter) ([]domain.Complaint, error) {
	where, args := filterClause(filter)
	query := `SELECT ` + complaintColumns + ` FROM complaints c` + where +
		` ORDER BY upvotes DESC, c.created_at DESC LIMIT ?`
	args = append(args, listLimit(filter.Limit))

	return r.selectComplaints(ctx, query, args)
}

// Recent returns the newest complaints of zone; an empty zone means every zone.
func (r *ComplaintRepository) Recent(ctx context.Context, zone domain.Zone, limit int) ([]domain.Complaint, error) {
	where, args := filterClause(domain.ComplaintFilter{Zone: zone})
	query := `SELECT ` + complaintColumns + ` FROM complaints c` + where +
		` ORDER BY c.created_at DESC LIMIT ?`
	args = append(args, listLimit(limit))

	return r.selectComplaints(ctx, query, args)
}

func (r *ComplaintRepository) selectComplaints(ctx context.Context, query string, args []any) ([]domain.Complaint, error) {
	complaints := make([]domain.Complaint, 0)
	if err := r.db.SelectContext(ctx, &complaints, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}

// UpdateStatus sets the status of a complaint and appends audit in the same
// transaction. A nil audit updates the status alone.
func (r *ComplaintRepository) UpdateStatus(ctx context.Context, id int64, status domain.Status, audit *domain.Action) error {
	return r.updateAudited(ctx, "update complaint status",
		`UPDATE complaints SET status = ? WHERE id = ?`, []any{status, id}, audit)
}

// SetPhotoAfter records the resolution photo path and appends audit in the
// same transaction.
func (r *ComplaintRepository) SetPhotoAfter(ctx context.Context, id int64, path string, audit *domain.Action) error {
	return r.updateAudited(ctx, "set resolution photo",
		`UPDATE complaints SET photo_after = ? WHERE id = ?`, []any{path, id}, audit)
}

// updateAudited runs a single-row update and the audit insert atomically.
func (r *ComplaintRepository) updateAudited(ctx context.Context, op, query string, args []any, audit *domain.Action) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin %s transaction: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if rowErr := expectOneRow(res); rowErr != nil {
		return rowErr
	}

	if audit != nil {
		if insertErr := insertAction(ctx, tx, audit); insertErr != nil {
			return insertErr
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("failed to commit %s transaction: %w", op, commitErr)
	}
	return nil
}

// GroupCount is one bucket of an aggregate.
type GroupCount struct {
	Key   string `db:"bucket"`
	Count int    `db:"total"`
}

// CrossCount is one cell of the category by status crosstab.
type CrossCount struct {
	Category string `db:"category"`
	Status   string `db:"status"`
	Count    int    `db:"total"`
}

// CountByStatus counts complaints of zone per status.
func (r *ComplaintRepository) CountByStatus(ctx context.Context, zone domain.Zone) ([]GroupCount, error) {
	return r.countBy(ctx, "status", zone)
}

// CountByPriority counts complaints of zone per priority.
func (r *ComplaintRepository) CountByPriority(ctx context.Context, zone domain.Zone) ([]GroupCount, error) {
	return r.countBy(ctx, "priority", zone)
}

func (r *ComplaintRepository) countBy(ctx context.Context, column string, zone domain.Zone) ([]GroupCount, error) {
	where, args := filterClause(domain.ComplaintFilter{Zone: zone})
	query := fmt.Sprintf(`SELECT c.%[1]s AS bucket, COUNT(*) AS total FROM complaints c%[2]s GROUP BY c.%[1]s ORDER BY c.%[1]s`,
		column, where)

	rows := make([]GroupCount, 0)
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to count complaints by %s: %w", column, err)
	}
	return rows, nil
}

// CategoryStatus returns the category by status crosstab of zone.
func (r *ComplaintRepository) CategoryStatus(ctx context.Context, zone domain.Zone) ([]CrossCount, error) {
	where, args := filterClause(domain.ComplaintFilter{Zone: zone})
	query := `SELECT c.category, c.status, COUNT(*) AS total FROM complaints c` + where +
		` GROUP BY c.category, c.status ORDER BY c.category, c.status`

	rows := make([]CrossCount, 0)
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to build category status crosstab: %w", err)
	}
	return rows, nil
}

func filterClause(f domain.ComplaintFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.Status != "" {
		clauses = append(clauses, "c.status = ?")
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		clauses = append(clauses, "c.priority = ?")
		args = append(args, f.Priority)
	}
	if f.Category != "" {
		clauses = append(clauses, "c.category = ?")
		args = append(args, f.Category)
	}
	if f.Zone != "" {
		clauses = append(clauses, "c.zone = ?")
		args = append(args, f.Zone)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func listLimit(limit int) int {
	if limit <= 0 || limit > DefaultListLimit {
		return DefaultListLimit
	}
	return limit
}
