// Package keywords implements the deterministic keyword fallback used when a
// remote model cannot classify or prioritize a complaint.
package keywords

import (
	"sort"
	"strings"

	"github.com/jonesrussell/cityvoice/internal/domain"
)

// Tier is one label of a table with its trigger phrases.
type Tier struct {
	Label    string
	Keywords []string
}

// Table is an ordered list of tiers. Earlier tiers win.
type Table struct {
	Name  string
	Tiers []Tier
}

// DefaultCategoryTable returns the built-in category tiers.
func DefaultCategoryTable() Table {
	return Table{
		Name: domain.KeywordTableCategory,
		Tiers: []Tier{
			{Label: string(domain.CategoryWaste), Keywords: []string{"garbage", "waste", "trash", "dustbin"}},
			{Label: string(domain.CategoryWater), Keywords: []string{"water", "leakage", "pipe"}},
			{Label: string(domain.CategoryTraffic), Keywords: []string{"traffic", "congestion", "signal", "jam"}},
			{Label: string(domain.CategoryElectricity), Keywords: []string{"electricity", "power", "light", "voltage"}},
			{Label: string(domain.CategorySanitation), Keywords: []string{"sewage", "drainage", "sanitation"}},
			{Label: string(domain.CategoryNoise), Keywords: []string{"noise", "loud", "sound"}},
		},
	}
}

// DefaultPriorityTable returns the built-in priority tiers. P3 has no
// keywords; it is the default.
func DefaultPriorityTable() Table {
	return Table{
		Name: domain.KeywordTablePriority,
		Tiers: []Tier{
			{Label: string(domain.PriorityP0), Keywords: []string{
				"fire", "danger", "life", "death", "emergency", "sparking", "electrical hazard", "major flood",
			}},
			{Label: string(domain.PriorityP1), Keywords: []string{
				"outage", "no water", "no power", "leakage", "accident", "hazard", "overflow", "sewage",
			}},
			{Label: string(domain.PriorityP2), Keywords: []string{
				"pothole", "trash", "garbage", "repair", "maintenance", "blocked", "smell", "noise",
			}},
		},
	}
}

// Rules flattens the table into keyword rows, one per phrase.
func (t Table) Rules() []domain.KeywordRule {
	var rules []domain.KeywordRule
	for tier, tr := range t.Tiers {
		for _, kw := range tr.Keywords {
			rules = append(rules, domain.KeywordRule{
				Table:   t.Name,
				Label:   tr.Label,
				Tier:    tier,
				Keyword: kw,
				Enabled: true,
			})
		}
	}
	return rules
}

// TableFromRules groups enabled rows of the named table into tiers ordered by
// tier number. Rows of other tables are ignored.
func TableFromRules(name string, rules []domain.KeywordRule) Table {
	type group struct {
		tier  int
		label string
		kws   []string
	}
	byLabel := make(map[string]*group)
	for _, r := range rules {
		if r.Table != name || !r.Enabled {
			continue
		}
		kw := strings.ToLower(strings.TrimSpace(r.Keyword))
		if kw == "" {
			continue
		}
		g, ok := byLabel[r.Label]
		if !ok {
			g = &group{tier: r.Tier, label: r.Label}
			byLabel[r.Label] = g
		}
		if r.Tier < g.tier {
			g.tier = r.Tier
		}
		g.kws = append(g.kws, kw)
	}

	groups := make([]*group, 0, len(byLabel))
	for _, g := range byLabel {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].tier != groups[j].tier {
			return groups[i].tier < groups[j].tier
		}
		return groups[i].label < groups[j].label
	})

	table := Table{Name: name, Tiers: make([]Tier, 0, len(groups))}
	for _, g := range groups {
		table.Tiers = append(table.Tiers, Tier{Label: g.label, Keywords: g.kws})
	}
	return table
}
