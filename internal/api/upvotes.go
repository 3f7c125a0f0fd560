package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Upvote handles POST /api/v1/complaints/:id/upvote.
func (h *Handler) Upvote(c *gin.Context) {
	userID, ok := citizenID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	status, err := h.upvotes.Add(c.Request.Context(), id, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// RemoveUpvote handles DELETE /api/v1/complaints/:id/upvote.
func (h *Handler) RemoveUpvote(c *gin.Context) {
	userID, ok := citizenID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	status, err := h.upvotes.Remove(c.Request.Context(), id, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Upvotes handles GET /api/v1/complaints/:id/upvotes. The token is optional.
func (h *Handler) Upvotes(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	status, err := h.upvotes.Status(c.Request.Context(), id, optionalCitizenID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
