// Package events provides the complaint lifecycle event types published to a
// Redis stream for downstream consumers (notification workers, dashboards).
package events

import (
	"time"

	"github.com/google/uuid"
)

// StreamName is the Redis stream for complaint events.
const StreamName = "complaint-events"

// EventType represents the type of complaint event.
type EventType string

const (
	// ComplaintSubmitted indicates a complaint was stored.
	ComplaintSubmitted EventType = "COMPLAINT_SUBMITTED"
	// ComplaintStatusChanged indicates an authority moved a complaint.
	ComplaintStatusChanged EventType = "COMPLAINT_STATUS_CHANGED"
	// ComplaintPhotoAttached indicates a resolution photo was uploaded.
	ComplaintPhotoAttached EventType = "COMPLAINT_PHOTO_ATTACHED"
	// ComplaintUpvoted indicates a citizen upvoted a complaint.
	ComplaintUpvoted EventType = "COMPLAINT_UPVOTED"
)

// ComplaintEvent is the envelope for all complaint events.
type ComplaintEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	EventType   EventType `json:"event_type"`
	ComplaintID int64     `json:"complaint_id"`
	Zone        string    `json:"zone"`
	Timestamp   time.Time `json:"timestamp"`
	Payload     any       `json:"payload"`
}

// SubmittedPayload contains data for COMPLAINT_SUBMITTED events.
type SubmittedPayload struct {
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	IsAIProcessed bool   `json:"is_ai_processed"`
	Model         string `json:"model"`
}

// StatusChangedPayload contains data for COMPLAINT_STATUS_CHANGED events.
type StatusChangedPayload struct {
	Previous  string `json:"previous"`
	Current   string `json:"current"`
	OfficerID int    `json:"officer_id"`
}

// PhotoAttachedPayload contains data for COMPLAINT_PHOTO_ATTACHED events.
type PhotoAttachedPayload struct {
	Path      string `json:"path"`
	OfficerID int    `json:"officer_id"`
}

// UpvotedPayload contains data for COMPLAINT_UPVOTED events.
type UpvotedPayload struct {
	UserID int64 `json:"user_id"`
}
