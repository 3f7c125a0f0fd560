package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/cityvoice/internal/domain"
)

type keywordRequest struct {
	Table   string `json:"table"   binding:"required"`
	Label   string `json:"label"   binding:"required"`
	Tier    int    `json:"tier"`
	Keyword string `json:"keyword" binding:"required"`
	Enabled *bool  `json:"enabled"`
}

func (r keywordRequest) rule() domain.KeywordRule {
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	return domain.KeywordRule{
		Table:   r.Table,
		Label:   r.Label,
		Tier:    r.Tier,
		Keyword: r.Keyword,
		Enabled: enabled,
	}
}

// ListKeywords handles GET /api/v1/authority/keywords.
func (h *Handler) ListKeywords(c *gin.Context) {
	rules, err := h.keywords.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules, "count": len(rules)})
}

// CreateKeyword handles POST /api/v1/authority/keywords.
func (h *Handler) CreateKeyword(c *gin.Context) {
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rule, err := h.keywords.Create(c.Request.Context(), req.rule())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// UpdateKeyword handles PUT /api/v1/authority/keywords/:id.
func (h *Handler) UpdateKeyword(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rule := req.rule()
	rule.ID = id
	updated, err := h.keywords.Update(c.Request.Context(), rule)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteKeyword handles DELETE /api/v1/authority/keywords/:id.
func (h *Handler) DeleteKeyword(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.keywords.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
