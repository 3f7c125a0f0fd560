package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/cityvoice/internal/domain"
)

const keywordColumns = `id, table_name, label, tier, keyword, enabled`

// KeywordRepository persists the keyword fallback tables.
type KeywordRepository struct {
	db *sqlx.DB
}

// NewKeywordRepository creates a new keyword rule repository.
func NewKeywordRepository(db *sqlx.DB) *KeywordRepository {
	return &KeywordRepository{db: db}
}

// List returns every rule ordered by table, tier and ID.
func (r *KeywordRepository) List(ctx context.Context) ([]domain.KeywordRule, error) {
	rules := make([]domain.KeywordRule, 0)
	query := `SELECT ` + keywordColumns + ` FROM keyword_rules ORDER BY table_name, tier, id`
	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, fmt.Errorf("failed to list keyword rules: %w", err)
	}
	return rules, nil
}

// GetByID retrieves a rule.
func (r *KeywordRepository) GetByID(ctx context.Context, id int64) (*domain.KeywordRule, error) {
	var rule domain.KeywordRule
	query := r.db.Rebind(`SELECT ` + keywordColumns + ` FROM keyword_rules WHERE id = ?`)
	if err := r.db.GetContext(ctx, &rule, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get keyword rule: %w", err)
	}
	return &rule, nil
}

// Create inserts a rule and sets its ID. A keyword already present in the
// same table yields ErrDuplicate.
func (r *KeywordRepository) Create(ctx context.Context, rule *domain.KeywordRule) error {
	query := r.db.Rebind(`
		INSERT INTO keyword_rules (table_name, label, tier, keyword, enabled)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := r.db.QueryRowxContext(ctx, query,
		rule.Table, rule.Label, rule.Tier, rule.Keyword, rule.Enabled,
	).Scan(&rule.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create keyword rule: %w", err)
	}
	return nil
}

// Update replaces a rule.
func (r *KeywordRepository) Update(ctx context.Context, rule *domain.KeywordRule) error {
	query := r.db.Rebind(`
		UPDATE keyword_rules
		SET table_name = ?, label = ?, tier = ?, keyword = ?, enabled = ?
		WHERE id = ?
	`)
	res, err := r.db.ExecContext(ctx, query,
		rule.Table, rule.Label, rule.Tier, rule.Keyword, rule.Enabled, rule.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update keyword rule: %w", err)
	}
	return expectOneRow(res)
}

// Delete removes a rule.
func (r *KeywordRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM keyword_rules WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete keyword rule: %w", err)
	}
	return expectOneRow(res)
}
