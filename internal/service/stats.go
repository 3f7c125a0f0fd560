package service

import (
	"context"
	"fmt"

	"github.com/jonesrussell/cityvoice/internal/database"
	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/zones"
)

// recentLimit is the number of newest complaints on the dashboard.
const recentLimit = 20

// StatsStore aggregates complaints.
type StatsStore interface {
	CountByStatus(ctx context.Context, zone domain.Zone) ([]database.GroupCount, error)
	CountByPriority(ctx context.Context, zone domain.Zone) ([]database.GroupCount, error)
	CategoryStatus(ctx context.Context, zone domain.Zone) ([]database.CrossCount, error)
}

// Stats is the authority dashboard of one zone.
type Stats struct {
	Zone              domain.Zone               `json:"zone"`
	Total             int                       `json:"total"`
	ByStatus          map[string]int            `json:"by_status"`
	ByPriority        map[string]int            `json:"by_priority"`
	ByPriorityDisplay map[string]int            `json:"by_priority_display"`
	CategoryStatus    map[string]map[string]int `json:"category_status"`
	Recent            []domain.Complaint        `json:"recent"`
}

// Stats aggregates the complaints visible to the authority of zone.
func (s *ComplaintService) Stats(ctx context.Context, zone domain.Zone) (*Stats, error) {
	scope := zones.Scope(zone)

	byStatus, err := s.complaints.CountByStatus(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	byPriority, err := s.complaints.CountByPriority(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("count by priority: %w", err)
	}
	cross, err := s.complaints.CategoryStatus(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("category status: %w", err)
	}
	recent, err := s.complaints.Recent(ctx, scope, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent complaints: %w", err)
	}

	out := &Stats{
		Zone:              zone,
		ByStatus:          make(map[string]int, len(byStatus)),
		ByPriority:        make(map[string]int, len(byPriority)),
		ByPriorityDisplay: make(map[string]int),
		CategoryStatus:    make(map[string]map[string]int),
		Recent:            recent,
	}
	for _, g := range byStatus {
		out.ByStatus[g.Key] = g.Count
		out.Total += g.Count
	}
	for _, g := range byPriority {
		out.ByPriority[g.Key] = g.Count
		display := g.Key
		if p, ok := domain.ParsePriority(g.Key); ok {
			display = p.Display()
		}
		out.ByPriorityDisplay[display] += g.Count
	}
	for _, c := range cross {
		row, ok := out.CategoryStatus[c.Category]
		if !ok {
			row = make(map[string]int)
			out.CategoryStatus[c.Category] = row
		}
		row[c.Status] = c.Count
	}
	return out, nil
}
