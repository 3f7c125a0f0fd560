package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/cityvoice/internal/domain"
)

type triageRequest struct {
	Text     string `json:"text"     binding:"required"`
	Category string `json:"category"`
}

// Triage handles POST /api/v1/triage. Nothing is stored.
func (h *Handler) Triage(c *gin.Context) {
	var req triageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, h.pipeline.Process(c.Request.Context(), req.Text))
}

// ValidateTriage handles POST /api/v1/triage/validate. It asks the combined
// triage question, optionally checking the complaint against a selected category.
func (h *Handler) ValidateTriage(c *gin.Context) {
	var req triageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var selected *domain.Category
	if req.Category != "" {
		category, ok := domain.ParseCategory(req.Category)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}
		selected = &category
	}

	result, outcome := h.pipeline.Client().Triage(c.Request.Context(), req.Text, selected)
	c.JSON(http.StatusOK, gin.H{
		"result":  result,
		"model":   outcome.Model,
		"offline": outcome.Offline,
	})
}
