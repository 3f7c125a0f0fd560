package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	infrajwt "github.com/jonesrussell/cityvoice/infrastructure/jwt"
	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/service"
)

// photoField is the multipart field carrying a resolution photo.
const photoField = "photo"

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// officer resolves the acting authority from the token zone claim.
func officer(c *gin.Context) (service.Officer, bool) {
	claims, ok := infrajwt.GetClaims(c)
	if !ok || claims.Role != infrajwt.RoleAuthority {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "authority token required"})
		return service.Officer{}, false
	}
	o, ok := service.OfficerFor(domain.Zone(claims.Zone))
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unknown authority zone"})
		return service.Officer{}, false
	}
	return o, true
}

// requireAdmin rejects authorities other than Admin.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		o, ok := officer(c)
		if !ok {
			return
		}
		if o.Zone != domain.ZoneAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin authority required"})
			return
		}
		c.Next()
	}
}

// UpdateStatus handles PUT /api/v1/authority/complaints/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	o, ok := officer(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	complaint, err := h.complaints.UpdateStatus(c.Request.Context(), o, id, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaint": newComplaintResponse(complaint)})
}

// UploadPhoto handles POST /api/v1/authority/complaints/:id/photo.
func (h *Handler) UploadPhoto(c *gin.Context) {
	o, ok := officer(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	header, err := c.FormFile(photoField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is unreadable"})
		return
	}
	defer file.Close()

	complaint, stored, err := h.complaints.AttachPhoto(c.Request.Context(), o, id, header.Filename, file)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaint": newComplaintResponse(complaint),
		"photo":     stored,
	})
}

// Stats handles GET /api/v1/authority/stats.
func (h *Handler) Stats(c *gin.Context) {
	o, ok := officer(c)
	if !ok {
		return
	}

	stats, err := h.complaints.Stats(c.Request.Context(), o.Zone)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
