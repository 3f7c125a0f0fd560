package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	infraevents "github.com/jonesrussell/cityvoice/infrastructure/events"
	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/search"
	"github.com/jonesrussell/cityvoice/internal/telemetry"
	"github.com/jonesrussell/cityvoice/internal/triage"
	"github.com/jonesrussell/cityvoice/internal/zones"
)

// ModelManual marks complaints stored without the triage pipeline.
const ModelManual = "manual"

// Reasoning recorded for manual submissions.
const (
	ReasoningUrgent   = "Marked as urgent by user"
	ReasoningStandard = "Standard priority"
)

// ComplaintStore persists complaints.
type ComplaintStore interface {
	Create(ctx context.Context, c *domain.Complaint) error
	GetByID(ctx context.Context, id int64) (*domain.Complaint, error)
	List(ctx context.Context, filter domain.ComplaintFilter) ([]domain.Complaint, error)
	Recent(ctx context.Context, zone domain.Zone, limit int) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status, audit *domain.Action) error
	SetPhotoAfter(ctx context.Context, id int64, path string, audit *domain.Action) error
	StatsStore
}

// ActionStore reads the authority audit trail. Writes go through ComplaintStore.
type ActionStore interface {
	ListByComplaint(ctx context.Context, complaintID int64) ([]domain.Action, error)
}

// Indexer keeps the search index current. It is optional.
type Indexer interface {
	Put(ctx context.Context, c *domain.Complaint) error
	Search(ctx context.Context, q search.Query) (*search.Result, error)
}

// EventPublisher announces complaint lifecycle events. It is optional.
type EventPublisher interface {
	PublishAsync(event infraevents.ComplaintEvent)
}

// ComplaintOptions are the optional collaborators of ComplaintService.
type ComplaintOptions struct {
	Index     Indexer
	Events    EventPublisher
	Photos    PhotoStore
	Telemetry *telemetry.Provider
	Logger    infralogger.Logger
}

// ComplaintService runs intake, listing and the authority workflow.
type ComplaintService struct {
	complaints ComplaintStore
	actions    ActionStore
	pipeline   *triage.Pipeline
	index      Indexer
	events     EventPublisher
	photos     PhotoStore
	telemetry  *telemetry.Provider
	logger     infralogger.Logger
}

// NewComplaintService creates the complaint service.
func NewComplaintService(
	complaints ComplaintStore,
	actions ActionStore,
	pipeline *triage.Pipeline,
	opts ComplaintOptions,
) *ComplaintService {
	if opts.Logger == nil {
		opts.Logger = infralogger.NewNop()
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.NewPrivateProvider()
	}
	return &ComplaintService{
		complaints: complaints,
		actions:    actions,
		pipeline:   pipeline,
		index:      opts.Index,
		events:     opts.Events,
		photos:     opts.Photos,
		telemetry:  opts.Telemetry,
		logger:     opts.Logger,
	}
}

// SubmitInput is a citizen complaint.
type SubmitInput struct {
	CitizenName string
	Area        string
	Address     string
	Text        string
}

func (in SubmitInput) validate() error {
	switch {
	case strings.TrimSpace(in.CitizenName) == "":
		return validationError("citizen_name is required")
	case strings.TrimSpace(in.Area) == "":
		return validationError("area is required")
	case strings.TrimSpace(in.Text) == "":
		return validationError("text is required")
	}
	return nil
}

// Submit triages, zones and stores a complaint.
func (s *ComplaintService) Submit(ctx context.Context, in SubmitInput) (*domain.Complaint, *domain.ProcessedComplaint, error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	processed := s.pipeline.Process(ctx, in.Text)

	c := &domain.Complaint{
		CitizenName:       strings.TrimSpace(in.CitizenName),
		Area:              strings.TrimSpace(in.Area),
		Address:           strings.TrimSpace(in.Address),
		Text:              processed.OriginalText,
		CleanText:         processed.CleanText,
		Category:          processed.Category,
		Priority:          processed.Priority,
		Status:            domain.StatusNew,
		Zone:              zones.Assign(in.Area),
		AISummary:         processed.AISummary,
		PriorityReasoning: processed.PriorityReasoning,
		IsAIProcessed:     processed.IsAIProcessed,
		ModelUsed:         processed.Model,
		ProcessingTime:    processed.ProcessingTime.Seconds(),
	}

	if err := s.store(ctx, c); err != nil {
		return nil, nil, err
	}
	return c, processed, nil
}

// ManualInput is a complaint stored without AI triage.
type ManualInput struct {
	CitizenName string
	Area        string
	Address     string
	Text        string
	Category    string
	Urgent      bool
}

// SubmitManual stores a complaint with a caller-chosen category. The urgent
// flag gives P1, otherwise P2.
func (s *ComplaintService) SubmitManual(ctx context.Context, in ManualInput) (*domain.Complaint, error) {
	base := SubmitInput{CitizenName: in.CitizenName, Area: in.Area, Address: in.Address, Text: in.Text}
	if err := base.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Address) == "" {
		return nil, validationError("address is required")
	}
	category, ok := domain.ParseCategory(in.Category)
	if !ok {
		return nil, validationError("unknown category %q", in.Category)
	}

	reasoning := ReasoningStandard
	if in.Urgent {
		reasoning = ReasoningUrgent
	}
	text := strings.TrimSpace(in.Text)

	c := &domain.Complaint{
		CitizenName:       strings.TrimSpace(in.CitizenName),
		Area:              strings.TrimSpace(in.Area),
		Address:           strings.TrimSpace(in.Address),
		Text:              text,
		CleanText:         text,
		Category:          category,
		Priority:          domain.ManualPriority(in.Urgent),
		Status:            domain.StatusNew,
		Zone:              zones.Assign(in.Area),
		PriorityReasoning: reasoning,
		ModelUsed:         ModelManual,
	}

	if err := s.store(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ComplaintService) store(ctx context.Context, c *domain.Complaint) error {
	if err := s.complaints.Create(ctx, c); err != nil {
		return fmt.Errorf("store complaint: %w", err)
	}

	s.telemetry.RecordSubmission(ctx, string(c.Category), string(c.Priority), string(c.Zone))
	s.reindex(ctx, c)
	s.publish(infraevents.ComplaintSubmitted, c, infraevents.SubmittedPayload{
		Category:      string(c.Category),
		Priority:      string(c.Priority),
		IsAIProcessed: c.IsAIProcessed,
		Model:         c.ModelUsed,
	})

	infralogger.FromContextOr(ctx, s.logger).Info("Complaint stored",
		infralogger.Complaint(c.ID),
		infralogger.String("zone", string(c.Zone)),
		infralogger.String("category", string(c.Category)),
		infralogger.String("priority", string(c.Priority)),
	)
	return nil
}

// reindex writes c to the search index. Failures are logged and counted only.
func (s *ComplaintService) reindex(ctx context.Context, c *domain.Complaint) {
	if s.index == nil {
		return
	}
	if err := s.index.Put(ctx, c); err != nil {
		s.telemetry.RecordSearchIndexFailure(ctx)
		infralogger.FromContextOr(ctx, s.logger).Warn("Search indexing failed",
			infralogger.Complaint(c.ID),
			infralogger.Error(err),
		)
	}
}

func (s *ComplaintService) publish(t infraevents.EventType, c *domain.Complaint, payload any) {
	if s.events == nil {
		return
	}
	s.events.PublishAsync(infraevents.ComplaintEvent{
		EventType:   t,
		ComplaintID: c.ID,
		Zone:        string(c.Zone),
		Payload:     payload,
	})
}

// Get returns one complaint.
func (s *ComplaintService) Get(ctx context.Context, id int64) (*domain.Complaint, error) {
	return s.complaints.GetByID(ctx, id)
}

// List returns complaints matching filter, most upvoted first.
func (s *ComplaintService) List(ctx context.Context, filter domain.ComplaintFilter) ([]domain.Complaint, error) {
	return s.complaints.List(ctx, filter)
}

// Search runs a full-text query when an index is configured.
func (s *ComplaintService) Search(ctx context.Context, q search.Query) (*search.Result, error) {
	if s.index == nil {
		return nil, ErrSearchDisabled
	}
	return s.index.Search(ctx, q)
}

// Officer identifies the authority acting on a complaint.
type Officer struct {
	Zone      domain.Zone
	OfficerID int
}

// OfficerFor returns the officer of zone.
func OfficerFor(zone domain.Zone) (Officer, bool) {
	a, ok := zones.AuthorityFor(zone)
	if !ok {
		return Officer{}, false
	}
	return Officer{Zone: a.Zone, OfficerID: a.OfficerID}, true
}

// owned loads a complaint and checks that officer may act on it.
func (s *ComplaintService) owned(ctx context.Context, officer Officer, id int64) (*domain.Complaint, error) {
	c, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !zones.CanAccess(officer.Zone, c.Zone) {
		return nil, ErrForbiddenZone
	}
	return c, nil
}

// UpdateStatus moves a complaint to status and records the action.
func (s *ComplaintService) UpdateStatus(ctx context.Context, officer Officer, id int64, status string) (*domain.Complaint, error) {
	next, ok := domain.ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	c, err := s.owned(ctx, officer, id)
	if err != nil {
		return nil, err
	}
	previous := c.Status

	audit := &domain.Action{
		ComplaintID: id,
		OfficerID:   officer.OfficerID,
		Action:      "Status changed to " + string(next),
	}
	if updateErr := s.complaints.UpdateStatus(ctx, id, next, audit); updateErr != nil {
		return nil, fmt.Errorf("update status: %w", updateErr)
	}
	c.Status = next

	s.telemetry.RecordStatusChange(ctx, string(next))
	s.reindex(ctx, c)
	s.publish(infraevents.ComplaintStatusChanged, c, infraevents.StatusChangedPayload{
		Previous:  string(previous),
		Current:   string(next),
		OfficerID: officer.OfficerID,
	})
	return c, nil
}

// TimelineEvent is one entry of a complaint history.
type TimelineEvent struct {
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Details     string    `json:"details"`
	ImagePath   *string   `json:"image_path,omitempty"`
}

// Timeline returns the submission, every action in order and the current status.
func (s *ComplaintService) Timeline(ctx context.Context, id int64) ([]TimelineEvent, error) {
	c, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	actions, err := s.actions.ListByComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	events := make([]TimelineEvent, 0, len(actions)+2)
	events = append(events, TimelineEvent{
		Date:        c.CreatedAt,
		Status:      "Submitted",
		Description: "Complaint submitted by " + c.CitizenName,
		Details:     fmt.Sprintf("Category: %s, Priority: %s", c.Category, c.Priority),
	})
	for _, a := range actions {
		events = append(events, TimelineEvent{
			Date:        a.ActionTime,
			Status:      "Updated",
			Description: a.Action,
			Details:     fmt.Sprintf("Officer ID: %d", a.OfficerID),
			ImagePath:   a.ImagePath,
		})
	}
	events = append(events, TimelineEvent{
		Date:        time.Now().UTC(),
		Status:      string(c.Status),
		Description: "Current status: " + string(c.Status),
		Details:     "Zone: " + string(c.Zone),
	})
	return events, nil
}
