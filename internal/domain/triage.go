// Package domain holds the complaint triage vocabulary shared by every layer.
package domain

import "time"

// Category is the municipal service a complaint belongs to.
type Category string

const (
	CategoryWaste       Category = "Waste"
	CategoryWater       Category = "Water"
	CategoryTraffic     Category = "Traffic"
	CategoryElectricity Category = "Electricity"
	CategorySanitation  Category = "Sanitation"
	CategoryNoise       Category = "Noise"
	CategoryOther       Category = "Other"
)

// Categories returns every category in taxonomy order.
func Categories() []Category {
	return []Category{
		CategoryWaste,
		CategoryWater,
		CategoryTraffic,
		CategoryElectricity,
		CategorySanitation,
		CategoryNoise,
		CategoryOther,
	}
}

// ParseCategory accepts exact category names only.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Priority is the canonical four-level urgency scale.
type Priority string

const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
)

// Priorities returns P0 through P3 in order of urgency.
func Priorities() []Priority {
	return []Priority{PriorityP0, PriorityP1, PriorityP2, PriorityP3}
}

// ParsePriority accepts exact P-scale values only.
func ParsePriority(s string) (Priority, bool) {
	for _, p := range Priorities() {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Display levels of the three-level projection.
const (
	DisplayHigh   = "High"
	DisplayMedium = "Medium"
	DisplayLow    = "Low"
)

// Display projects the priority onto the High/Medium/Low scale.
func (p Priority) Display() string {
	switch p {
	case PriorityP0, PriorityP1:
		return DisplayHigh
	case PriorityP2:
		return DisplayMedium
	case PriorityP3:
		return DisplayLow
	default:
		return DisplayLow
	}
}

// Label is the long human label, e.g. "P0 - Emergency".
func (p Priority) Label() string {
	switch p {
	case PriorityP0:
		return "P0 - Emergency"
	case PriorityP1:
		return "P1 - High"
	case PriorityP2:
		return "P2 - Medium"
	case PriorityP3:
		return "P3 - Low"
	default:
		return string(p)
	}
}

// ManualPriority maps the intake form's urgent flag onto the P-scale.
func ManualPriority(urgent bool) Priority {
	if urgent {
		return PriorityP1
	}
	return PriorityP2
}

// TriageResult is the combined validate/classify/prioritize answer.
type TriageResult struct {
	Validation     string   `json:"validation"`
	Category       Category `json:"category"`
	Priority       Priority `json:"priority"`
	SeverityReason string   `json:"severity_reason"`
}

// PriorityResult is a priority with a one-sentence justification.
type PriorityResult struct {
	Priority  Priority `json:"priority"`
	Reasoning string   `json:"reasoning"`
}

// Entities are the key facts extracted alongside a summary.
type Entities struct {
	Location string `json:"location"`
	Issue    string `json:"issue"`
	Service  string `json:"service"`
}

// SummaryResult is a short summary with extracted entities.
type SummaryResult struct {
	Summary  string   `json:"summary"`
	Entities Entities `json:"entities"`
}

// ProcessedComplaint is the triage pipeline output. It is not modified after assembly.
type ProcessedComplaint struct {
	OriginalText      string        `json:"original_text"`
	CleanText         string        `json:"clean_text"`
	Category          Category      `json:"category"`
	Priority          Priority      `json:"priority"`
	AISummary         string        `json:"ai_summary"`
	Entities          Entities      `json:"entities"`
	PriorityReasoning string        `json:"priority_reasoning"`
	ProcessingTime    time.Duration `json:"processing_time"`
	IsAIProcessed     bool          `json:"is_ai_processed"`
	// Model lists the remote models that produced results, or "offline".
	Model string `json:"model"`
}
