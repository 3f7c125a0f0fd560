package keywords

import (
	"strings"
	"sync"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/textnorm"
)

// Engine holds the category and priority matchers and supports hot reload.
type Engine struct {
	mu       sync.RWMutex
	category *Matcher
	priority *Matcher
	logger   infralogger.Logger
}

// NewEngine builds an engine from the given tables.
func NewEngine(category, priority Table, logger infralogger.Logger) *Engine {
	if logger == nil {
		logger = infralogger.NewNop()
	}
	e := &Engine{logger: logger}
	e.category = NewMatcher(category)
	e.priority = NewMatcher(priority)
	return e
}

// NewDefaultEngine builds an engine from the built-in tables.
func NewDefaultEngine(logger infralogger.Logger) *Engine {
	return NewEngine(DefaultCategoryTable(), DefaultPriorityTable(), logger)
}

// Update swaps both tables atomically. An empty table keeps the current one.
func (e *Engine) Update(category, priority Table) {
	cm := NewMatcher(category)
	pm := NewMatcher(priority)

	e.mu.Lock()
	if cm.Keywords() > 0 {
		e.category = cm
	}
	if pm.Keywords() > 0 {
		e.priority = pm
	}
	e.mu.Unlock()

	e.logger.Info("keyword tables reloaded",
		infralogger.Int("category_keywords", cm.Keywords()),
		infralogger.Int("priority_keywords", pm.Keywords()),
	)
}

// UpdateFromRules rebuilds both tables from stored keyword rows.
func (e *Engine) UpdateFromRules(rules []domain.KeywordRule) {
	e.Update(
		TableFromRules(domain.KeywordTableCategory, rules),
		TableFromRules(domain.KeywordTablePriority, rules),
	)
}

// ClassifyFallback matches the lowercased original text, so phrases like
// "dustbin" survive. No match gives Other.
func (e *Engine) ClassifyFallback(text string) domain.Category {
	e.mu.RLock()
	m := e.category
	e.mu.RUnlock()

	label, ok := m.Match(strings.ToLower(text))
	if !ok {
		return domain.CategoryOther
	}
	if c, valid := domain.ParseCategory(label); valid {
		return c
	}
	return domain.CategoryOther
}

// PrioritizeFallback matches the normalized text. No match gives P3.
func (e *Engine) PrioritizeFallback(text string) domain.Priority {
	e.mu.RLock()
	m := e.priority
	e.mu.RUnlock()

	label, ok := m.Match(textnorm.Normalize(text))
	if !ok {
		return domain.PriorityP3
	}
	if p, valid := domain.ParsePriority(label); valid {
		return p
	}
	return domain.PriorityP3
}
