package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	infraevents "github.com/jonesrussell/cityvoice/infrastructure/events"
	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/media"
)

// ActionPhotoUploaded is recorded when a resolution photo is attached.
const ActionPhotoUploaded = "Resolution photo uploaded"

// PhotoStore optimizes and stores uploaded photos.
type PhotoStore interface {
	Save(complaintID int64, filename string, r io.Reader) (*media.Stored, error)
}

// AttachPhoto stores a resolution photo for a complaint the officer owns.
func (s *ComplaintService) AttachPhoto(
	ctx context.Context,
	officer Officer,
	id int64,
	filename string,
	r io.Reader,
) (*domain.Complaint, *media.Stored, error) {
	if s.photos == nil {
		return nil, nil, validationError("photo uploads are not configured")
	}

	c, err := s.owned(ctx, officer, id)
	if err != nil {
		return nil, nil, err
	}

	stored, err := s.photos.Save(id, filename, r)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedFormat) || errors.Is(err, media.ErrInvalidImage) {
			return nil, nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return nil, nil, fmt.Errorf("save photo: %w", err)
	}

	path := stored.Path
	audit := &domain.Action{
		ComplaintID: id,
		OfficerID:   officer.OfficerID,
		Action:      ActionPhotoUploaded,
		ImagePath:   &path,
	}
	if setErr := s.complaints.SetPhotoAfter(ctx, id, path, audit); setErr != nil {
		return nil, nil, fmt.Errorf("set resolution photo: %w", setErr)
	}
	c.PhotoAfter = &path

	s.publish(infraevents.ComplaintPhotoAttached, c, infraevents.PhotoAttachedPayload{
		Path:      path,
		OfficerID: officer.OfficerID,
	})
	return c, stored, nil
}
