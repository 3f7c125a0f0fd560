package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/cityvoice/internal/database"
	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/search"
	"github.com/jonesrussell/cityvoice/internal/service"
	"github.com/jonesrussell/cityvoice/internal/zones"
)

type submitRequest struct {
	CitizenName string `json:"citizen_name" binding:"required"`
	Area        string `json:"area"         binding:"required"`
	Address     string `json:"address"`
	Text        string `json:"text"         binding:"required"`
}

type manualRequest struct {
	CitizenName string `json:"citizen_name" binding:"required"`
	Area        string `json:"area"         binding:"required"`
	Address     string `json:"address"      binding:"required"`
	Text        string `json:"text"         binding:"required"`
	Category    string `json:"category"     binding:"required"`
	Urgent      bool   `json:"urgent"`
}

type complaintResponse struct {
	*domain.Complaint
	PriorityDisplay string `json:"priority_display"`
	PriorityLabel   string `json:"priority_label"`
}

func newComplaintResponse(c *domain.Complaint) complaintResponse {
	return complaintResponse{
		Complaint:       c,
		PriorityDisplay: c.PriorityDisplay(),
		PriorityLabel:   c.Priority.Label(),
	}
}

func newComplaintResponses(list []domain.Complaint) []complaintResponse {
	out := make([]complaintResponse, 0, len(list))
	for i := range list {
		out = append(out, newComplaintResponse(&list[i]))
	}
	return out
}

// SubmitComplaint handles POST /api/v1/complaints.
func (h *Handler) SubmitComplaint(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	complaint, processed, err := h.complaints.Submit(c.Request.Context(), service.SubmitInput{
		CitizenName: req.CitizenName,
		Area:        req.Area,
		Address:     req.Address,
		Text:        req.Text,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"complaint": newComplaintResponse(complaint),
		"processed": processed,
	})
}

// SubmitManualComplaint handles POST /api/v1/complaints/manual.
func (h *Handler) SubmitManualComplaint(c *gin.Context) {
	var req manualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	complaint, err := h.complaints.SubmitManual(c.Request.Context(), service.ManualInput{
		CitizenName: req.CitizenName,
		Area:        req.Area,
		Address:     req.Address,
		Text:        req.Text,
		Category:    req.Category,
		Urgent:      req.Urgent,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"complaint": newComplaintResponse(complaint)})
}

// ListComplaints handles GET /api/v1/complaints.
func (h *Handler) ListComplaints(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	list, err := h.complaints.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaints": newComplaintResponses(list),
		"count":      len(list),
	})
}

func parseFilter(c *gin.Context) (domain.ComplaintFilter, bool) {
	var filter domain.ComplaintFilter

	if s := c.Query("status"); s != "" {
		st, ok := domain.ParseStatus(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return filter, false
		}
		filter.Status = st
	}
	if p := c.Query("priority"); p != "" {
		pr, ok := domain.ParsePriority(p)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown priority"})
			return filter, false
		}
		filter.Priority = pr
	}
	if cat := c.Query("category"); cat != "" {
		parsed, ok := domain.ParseCategory(cat)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return filter, false
		}
		filter.Category = parsed
	}
	filter.Zone = domain.Zone(c.Query("zone"))

	filter.Limit = database.DefaultListLimit
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return filter, false
		}
		filter.Limit = min(n, database.DefaultListLimit)
	}
	return filter, true
}

// GetComplaint handles GET /api/v1/complaints/:id.
func (h *Handler) GetComplaint(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	complaint, err := h.complaints.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newComplaintResponse(complaint))
}

// SearchComplaints handles GET /api/v1/complaints/search.
func (h *Handler) SearchComplaints(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.complaints.Search(c.Request.Context(), search.Query{
		Text:  c.Query("q"),
		Zone:  domain.Zone(c.Query("zone")),
		Limit: limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Timeline handles GET /api/v1/complaints/:id/timeline.
func (h *Handler) Timeline(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	events, err := h.complaints.Timeline(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaint_id": id, "events": events})
}

// Areas handles GET /api/v1/areas.
func (h *Handler) Areas(c *gin.Context) {
	byZone := make(map[domain.Zone][]string)
	for _, a := range zones.Authorities() {
		if a.Zone == domain.ZoneAdmin {
			continue
		}
		byZone[a.Zone] = zones.AreasOf(a.Zone)
	}
	c.JSON(http.StatusOK, gin.H{"areas": zones.Areas(), "zones": byZone})
}
