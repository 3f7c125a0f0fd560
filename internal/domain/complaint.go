package domain

import "time"

// Status is a complaint workflow state.
type Status string

const (
	StatusNew          Status = "New"
	StatusAcknowledged Status = "Acknowledged"
	StatusAssigned     Status = "Assigned"
	StatusInProgress   Status = "In Progress"
	StatusResolved     Status = "Resolved"
	StatusClosed       Status = "Closed"
)

// Statuses returns the workflow states in order.
func Statuses() []Status {
	return []Status{
		StatusNew,
		StatusAcknowledged,
		StatusAssigned,
		StatusInProgress,
		StatusResolved,
		StatusClosed,
	}
}

// ParseStatus accepts exact status names only.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses() {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Zone is a city administrative zone.
type Zone string

const (
	ZoneNorth   Zone = "North"
	ZoneSouth   Zone = "South"
	ZoneEast    Zone = "East"
	ZoneWest    Zone = "West"
	ZoneAdmin   Zone = "Admin"
	ZoneUnknown Zone = "Unknown"
)

// Complaint is a persisted complaint row.
type Complaint struct {
	ID                int64     `db:"id"                 json:"id"`
	CitizenName       string    `db:"citizen_name"       json:"citizen_name"`
	Area              string    `db:"area"               json:"area"`
	Address           string    `db:"address"            json:"address"`
	Text              string    `db:"complaint_text"     json:"text"`
	CleanText         string    `db:"clean_text"         json:"clean_text"`
	Category          Category  `db:"category"           json:"category"`
	Priority          Priority  `db:"priority"           json:"priority"`
	Status            Status    `db:"status"             json:"status"`
	Zone              Zone      `db:"zone"               json:"zone"`
	CreatedAt         time.Time `db:"created_at"         json:"created_at"`
	PhotoAfter        *string   `db:"photo_after"        json:"photo_after,omitempty"`
	AISummary         string    `db:"ai_summary"         json:"ai_summary"`
	PriorityReasoning string    `db:"priority_reasoning" json:"priority_reasoning"`
	IsAIProcessed     bool      `db:"is_ai_processed"    json:"is_ai_processed"`
	ModelUsed         string    `db:"model_used"         json:"model_used"`
	// ProcessingTime is in seconds.
	ProcessingTime float64 `db:"processing_time" json:"processing_time"`
	Upvotes        int     `db:"upvotes"         json:"upvotes"`
}

// PriorityDisplay is the three-level projection of the complaint priority.
func (c *Complaint) PriorityDisplay() string {
	return c.Priority.Display()
}

// ComplaintFilter narrows complaint listings. Empty fields do not filter.
type ComplaintFilter struct {
	Status   Status
	Priority Priority
	Category Category
	Zone     Zone
	Limit    int
}

// Action is an audit entry recorded by a zone authority.
type Action struct {
	ID          int64     `db:"id"           json:"id"`
	ComplaintID int64     `db:"complaint_id" json:"complaint_id"`
	OfficerID   int       `db:"officer_id"   json:"officer_id"`
	Action      string    `db:"action"       json:"action"`
	ImagePath   *string   `db:"image_path"   json:"image_path,omitempty"`
	ActionTime  time.Time `db:"action_time"  json:"action_time"`
}

// User is a citizen account.
type User struct {
	ID           int64     `db:"id"            json:"id"`
	Username     string    `db:"username"      json:"username"`
	Email        string    `db:"email"         json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name"     json:"full_name"`
	Phone        string    `db:"phone"         json:"phone"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}

// Keyword table names.
const (
	KeywordTableCategory = "category"
	KeywordTablePriority = "priority"
)

// KeywordRule is one trigger phrase of a keyword fallback table.
// Tier orders the labels of a table; lower tiers are checked first.
type KeywordRule struct {
	ID      int64  `db:"id"         json:"id"`
	Table   string `db:"table_name" json:"table"`
	Label   string `db:"label"      json:"label"`
	Tier    int    `db:"tier"       json:"tier"`
	Keyword string `db:"keyword"    json:"keyword"`
	Enabled bool   `db:"enabled"    json:"enabled"`
}
