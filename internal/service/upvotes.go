package service

import (
	"context"
	"fmt"

	infraevents "github.com/jonesrussell/cityvoice/infrastructure/events"
)

// UpvoteStore records citizen upvotes.
type UpvoteStore interface {
	Add(ctx context.Context, complaintID, userID int64) (bool, error)
	Remove(ctx context.Context, complaintID, userID int64) (bool, error)
	Count(ctx context.Context, complaintID int64) (int, error)
	HasUpvoted(ctx context.Context, complaintID, userID int64) (bool, error)
}

// UpvoteStatus is the upvote state of a complaint for one citizen.
type UpvoteStatus struct {
	Count      int  `json:"count"`
	HasUpvoted bool `json:"has_upvoted"`
}

// UpvoteService manages upvotes. Adding and removing are idempotent.
type UpvoteService struct {
	upvotes    UpvoteStore
	complaints *ComplaintService
}

// NewUpvoteService creates the upvote service.
func NewUpvoteService(upvotes UpvoteStore, complaints *ComplaintService) *UpvoteService {
	return &UpvoteService{upvotes: upvotes, complaints: complaints}
}

// Add upvotes a complaint.
func (s *UpvoteService) Add(ctx context.Context, complaintID, userID int64) (*UpvoteStatus, error) {
	c, err := s.complaints.Get(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	added, err := s.upvotes.Add(ctx, complaintID, userID)
	if err != nil {
		return nil, fmt.Errorf("add upvote: %w", err)
	}
	if added {
		s.complaints.telemetry.RecordUpvote(ctx, "add")
		s.complaints.publish(infraevents.ComplaintUpvoted, c, infraevents.UpvotedPayload{UserID: userID})
	}
	return s.Status(ctx, complaintID, userID)
}

// Remove withdraws an upvote.
func (s *UpvoteService) Remove(ctx context.Context, complaintID, userID int64) (*UpvoteStatus, error) {
	if _, err := s.complaints.Get(ctx, complaintID); err != nil {
		return nil, err
	}

	removed, err := s.upvotes.Remove(ctx, complaintID, userID)
	if err != nil {
		return nil, fmt.Errorf("remove upvote: %w", err)
	}
	if removed {
		s.complaints.telemetry.RecordUpvote(ctx, "remove")
	}
	return s.Status(ctx, complaintID, userID)
}

// Status returns the count and whether userID has upvoted. A zero userID
// is an anonymous caller.
func (s *UpvoteService) Status(ctx context.Context, complaintID, userID int64) (*UpvoteStatus, error) {
	count, err := s.upvotes.Count(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	out := &UpvoteStatus{Count: count}
	if userID == 0 {
		return out, nil
	}
	out.HasUpvoted, err = s.upvotes.HasUpvoted(ctx, complaintID, userID)
	if err != nil {
		return nil, err
	}
	return out, nil
}
