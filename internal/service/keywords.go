package service

import (
	"context"
	"fmt"
	"strings"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/keywords"
	"github.com/jonesrussell/cityvoice/internal/telemetry"
)

// KeywordStore persists keyword rules.
type KeywordStore interface {
	List(ctx context.Context) ([]domain.KeywordRule, error)
	GetByID(ctx context.Context, id int64) (*domain.KeywordRule, error)
	Create(ctx context.Context, rule *domain.KeywordRule) error
	Update(ctx context.Context, rule *domain.KeywordRule) error
	Delete(ctx context.Context, id int64) error
}

// KeywordService edits the keyword fallback tables and reloads the engine
// after every change.
type KeywordService struct {
	rules     KeywordStore
	engine    *keywords.Engine
	telemetry *telemetry.Provider
	logger    infralogger.Logger
}

// NewKeywordService creates the keyword service.
func NewKeywordService(
	rules KeywordStore,
	engine *keywords.Engine,
	tp *telemetry.Provider,
	logger infralogger.Logger,
) *KeywordService {
	if logger == nil {
		logger = infralogger.NewNop()
	}
	if tp == nil {
		tp = telemetry.NewPrivateProvider()
	}
	return &KeywordService{rules: rules, engine: engine, telemetry: tp, logger: logger}
}

// Reload rebuilds the engine from the stored rules. A failed load keeps the
// current tables.
func (s *KeywordService) Reload(ctx context.Context) error {
	rules, err := s.rules.List(ctx)
	if err != nil {
		s.telemetry.RecordKeywordReload(ctx, false)
		return fmt.Errorf("load keyword rules: %w", err)
	}
	s.engine.UpdateFromRules(rules)
	s.telemetry.RecordKeywordReload(ctx, true)
	return nil
}

// List returns every rule.
func (s *KeywordService) List(ctx context.Context) ([]domain.KeywordRule, error) {
	return s.rules.List(ctx)
}

// Create validates, stores and applies a rule.
func (s *KeywordService) Create(ctx context.Context, rule domain.KeywordRule) (*domain.KeywordRule, error) {
	if err := normalizeRule(&rule); err != nil {
		return nil, err
	}
	if err := s.rules.Create(ctx, &rule); err != nil {
		return nil, err
	}
	s.reloadAfterChange(ctx)
	return &rule, nil
}

// Update replaces a rule and applies it.
func (s *KeywordService) Update(ctx context.Context, rule domain.KeywordRule) (*domain.KeywordRule, error) {
	if err := normalizeRule(&rule); err != nil {
		return nil, err
	}
	if err := s.rules.Update(ctx, &rule); err != nil {
		return nil, err
	}
	s.reloadAfterChange(ctx)
	return &rule, nil
}

// Delete removes a rule and applies the change.
func (s *KeywordService) Delete(ctx context.Context, id int64) error {
	if err := s.rules.Delete(ctx, id); err != nil {
		return err
	}
	s.reloadAfterChange(ctx)
	return nil
}

func (s *KeywordService) reloadAfterChange(ctx context.Context) {
	if err := s.Reload(ctx); err != nil {
		infralogger.FromContextOr(ctx, s.logger).Error("Keyword reload after change failed", infralogger.Error(err))
	}
}

func normalizeRule(rule *domain.KeywordRule) error {
	rule.Keyword = strings.ToLower(strings.TrimSpace(rule.Keyword))
	rule.Label = strings.TrimSpace(rule.Label)

	if rule.Keyword == "" {
		return validationError("keyword is required")
	}
	if rule.Tier < 0 {
		return validationError("tier must not be negative")
	}

	switch rule.Table {
	case domain.KeywordTableCategory:
		if c, ok := domain.ParseCategory(rule.Label); !ok || c == domain.CategoryOther {
			return validationError("label %q is not a keyword category", rule.Label)
		}
	case domain.KeywordTablePriority:
		if p, ok := domain.ParsePriority(rule.Label); !ok || p == domain.PriorityP3 {
			return validationError("label %q is not a keyword priority", rule.Label)
		}
	default:
		return validationError("table must be %q or %q", domain.KeywordTableCategory, domain.KeywordTablePriority)
	}
	return nil
}
