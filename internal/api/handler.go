// Package api exposes the complaint service over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/internal/database"
	"github.com/jonesrussell/cityvoice/internal/search"
	"github.com/jonesrussell/cityvoice/internal/service"
	"github.com/jonesrussell/cityvoice/internal/triage"
)

// Handler serves every CityVoice endpoint.
type Handler struct {
	complaints  *service.ComplaintService
	upvotes     *service.UpvoteService
	users       *service.UserService
	authorities *service.AuthorityService
	keywords    *service.KeywordService
	pipeline    *triage.Pipeline
	logger      infralogger.Logger
}

// Deps are the services behind the handlers.
type Deps struct {
	Complaints  *service.ComplaintService
	Upvotes     *service.UpvoteService
	Users       *service.UserService
	Authorities *service.AuthorityService
	Keywords    *service.KeywordService
	Pipeline    *triage.Pipeline
	Logger      infralogger.Logger
}

// NewHandler creates the handler set.
func NewHandler(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = infralogger.NewNop()
	}
	return &Handler{
		complaints:  d.Complaints,
		upvotes:     d.Upvotes,
		users:       d.Users,
		authorities: d.Authorities,
		keywords:    d.Keywords,
		pipeline:    d.Pipeline,
		logger:      d.Logger,
	}
}

// respondError maps service errors onto HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, search.ErrEmptyQuery):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbiddenZone):
		status = http.StatusForbidden
	case errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateUser), errors.Is(err, database.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, service.ErrSearchDisabled):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		infralogger.FromContextOr(c.Request.Context(), h.logger).Error("Request failed",
			infralogger.String("path", c.FullPath()),
			infralogger.Error(err),
		)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
}

// idParam parses the :id path parameter, answering 400 when it is not a positive integer.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
