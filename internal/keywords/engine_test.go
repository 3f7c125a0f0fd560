package keywords_test

import (
	"testing"

	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/keywords"
	"github.com/stretchr/testify/assert"
)

func TestClassifyFallback(t *testing.T) {
	t.Parallel()

	engine := keywords.NewDefaultEngine(nil)

	tests := []struct {
		name string
		text string
		want domain.Category
	}{
		{"garbage", "Garbage collection not happening in Sector 12", domain.CategoryWaste},
		{"dustbin survives lowercasing", "Dustbin overflowing near the market", domain.CategoryWaste},
		{"waste wins over water", "Waste water dumped on road", domain.CategoryWaste},
		{"substring light", "Streetlight not working on MG Road", domain.CategoryElectricity},
		{"water", "Pipe burst near school", domain.CategoryWater},
		{"traffic", "Signal broken at junction", domain.CategoryTraffic},
		{"sanitation", "Drainage clogged", domain.CategorySanitation},
		{"noise", "Loud music every night", domain.CategoryNoise},
		{"no match", "Stray dogs chasing children", domain.CategoryOther},
		{"empty", "", domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, engine.ClassifyFallback(tt.text))
		})
	}
}

func TestPrioritizeFallback(t *testing.T) {
	t.Parallel()

	engine := keywords.NewDefaultEngine(nil)

	tests := []struct {
		name string
		text string
		want domain.Priority
	}{
		{"p0 beats p2", "emergency fire and also some garbage smell", domain.PriorityP0},
		{
			"p1 before pothole",
			"Multiple potholes on Main Street are causing accidents. Three cars damaged today. Major safety hazard.",
			domain.PriorityP1,
		},
		{"irregular plural reaches p0", "Loose cables are risking lives", domain.PriorityP0},
		{"multi word phrase", "Major flooding in underpass", domain.PriorityP0},
		{"p2", "Pothole near the bus stop", domain.PriorityP2},
		{"no match defaults p3", "Paint peeling off the park bench", domain.PriorityP3},
		{"empty defaults p3", "", domain.PriorityP3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, engine.PrioritizeFallback(tt.text))
		})
	}
}

func TestEngine_Update(t *testing.T) {
	t.Parallel()

	engine := keywords.NewDefaultEngine(nil)
	assert.Equal(t, domain.CategoryOther, engine.ClassifyFallback("stray dogs everywhere"))

	custom := keywords.DefaultCategoryTable()
	custom.Tiers = append([]keywords.Tier{{Label: string(domain.CategorySanitation), Keywords: []string{"stray"}}}, custom.Tiers...)
	engine.Update(custom, keywords.Table{})

	assert.Equal(t, domain.CategorySanitation, engine.ClassifyFallback("stray dogs everywhere"))
	// empty priority table keeps the current one
	assert.Equal(t, domain.PriorityP0, engine.PrioritizeFallback("fire"))
}

func TestEngine_UpdateFromRules(t *testing.T) {
	t.Parallel()

	rules := append(keywords.DefaultCategoryTable().Rules(), keywords.DefaultPriorityTable().Rules()...)
	rules = append(rules,
		domain.KeywordRule{Table: domain.KeywordTablePriority, Label: "P1", Tier: 1, Keyword: "collapsed", Enabled: true},
		domain.KeywordRule{Table: domain.KeywordTablePriority, Label: "P0", Tier: 0, Keyword: "fire", Enabled: false},
	)

	engine := keywords.NewDefaultEngine(nil)
	engine.UpdateFromRules(rules)

	assert.Equal(t, domain.PriorityP1, engine.PrioritizeFallback("Wall collapsed on footpath"))
	assert.Equal(t, domain.PriorityP0, engine.PrioritizeFallback("fire in the market"))
}

func TestTableFromRules_OrdersByTier(t *testing.T) {
	t.Parallel()

	rules := []domain.KeywordRule{
		{Table: "priority", Label: "P2", Tier: 2, Keyword: "Pothole ", Enabled: true},
		{Table: "priority", Label: "P0", Tier: 0, Keyword: "fire", Enabled: true},
		{Table: "category", Label: "Waste", Tier: 0, Keyword: "trash", Enabled: true},
		{Table: "priority", Label: "P1", Tier: 1, Keyword: "", Enabled: true},
	}

	table := keywords.TableFromRules("priority", rules)

	assert.Equal(t, []keywords.Tier{
		{Label: "P0", Keywords: []string{"fire"}},
		{Label: "P2", Keywords: []string{"pothole"}},
	}, table.Tiers)
}

func TestMatcher_EmptyTable(t *testing.T) {
	t.Parallel()

	m := keywords.NewMatcher(keywords.Table{})
	_, ok := m.Match("anything")
	assert.False(t, ok)
	assert.Zero(t, m.Keywords())
}
