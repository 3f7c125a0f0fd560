package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	infrajwt "github.com/jonesrussell/cityvoice/infrastructure/jwt"
	"github.com/jonesrussell/cityvoice/internal/service"
)

type registerRequest struct {
	Username string `json:"username"  binding:"required"`
	Email    string `json:"email"     binding:"required"`
	Password string `json:"password"  binding:"required"` //nolint:gosec // request body
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"     binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"` //nolint:gosec // request body
}

type authorityLoginRequest struct {
	Zone     string `json:"zone"     binding:"required"`
	Password string `json:"password" binding:"required"` //nolint:gosec // request body
}

// Register handles POST /api/v1/users/register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login handles POST /api/v1/users/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, user, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token.AccessToken,
		"expires_at":   token.ExpiresAt,
		"user":         user,
	})
}

// Me handles GET /api/v1/users/me.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := citizenID(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// AuthorityLogin handles POST /api/v1/authority/login.
func (h *Handler) AuthorityLogin(c *gin.Context) {
	var req authorityLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, authority, err := h.authorities.Login(req.Zone, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token.AccessToken,
		"expires_at":   token.ExpiresAt,
		"authority":    authority,
	})
}

// citizenID reads the user ID from a citizen token.
func citizenID(c *gin.Context) (int64, bool) {
	claims, ok := infrajwt.GetClaims(c)
	if !ok || claims.Role != infrajwt.RoleCitizen {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "citizen token required"})
		return 0, false
	}
	id, err := strconv.ParseInt(claims.Sub, 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
		return 0, false
	}
	return id, true
}

// optionalCitizenID returns 0 for anonymous callers and authority tokens.
func optionalCitizenID(c *gin.Context) int64 {
	claims, ok := infrajwt.GetClaims(c)
	if !ok || claims.Role != infrajwt.RoleCitizen {
		return 0
	}
	id, err := strconv.ParseInt(claims.Sub, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
