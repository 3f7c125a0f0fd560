package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	infragin "github.com/jonesrussell/cityvoice/infrastructure/gin"
	infrajwt "github.com/jonesrussell/cityvoice/infrastructure/jwt"
	"github.com/jonesrussell/cityvoice/infrastructure/metrics"
	"github.com/jonesrussell/cityvoice/infrastructure/sse"
)

// RouteConfig holds the cross-cutting pieces of the route table.
type RouteConfig struct {
	JWTSecret string
	// SubmitLimiter throttles complaint intake. Nil disables it.
	SubmitLimiter *ClientRateLimiter
	// TriageLimiter throttles the preview triage endpoints. Nil disables it.
	TriageLimiter *ClientRateLimiter
	// Metrics serves /metrics. Nil disables the endpoint.
	Metrics http.Handler
	// HTTPMetrics instruments every API route. Nil disables it.
	HTTPMetrics *metrics.HTTP
	// Feed streams complaint events to authority dashboards. Nil disables it.
	Feed *sse.Broker
}

// SetupRoutes registers the API under /api/v1.
func SetupRoutes(router *gin.Engine, h *Handler, cfg RouteConfig) {
	if cfg.HTTPMetrics != nil {
		router.Use(cfg.HTTPMetrics.Middleware())
	}
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	limitedBy := func(l *ClientRateLimiter, handler gin.HandlerFunc) []gin.HandlerFunc {
		if l == nil {
			return []gin.HandlerFunc{handler}
		}
		return []gin.HandlerFunc{l.Middleware(), handler}
	}

	v1 := infragin.PublicGroup(router, "/api/v1")
	v1.GET("/areas", h.Areas)

	v1.POST("/triage", limitedBy(cfg.TriageLimiter, h.Triage)...)
	v1.POST("/triage/validate", limitedBy(cfg.TriageLimiter, h.ValidateTriage)...)

	complaints := v1.Group("/complaints")
	complaints.POST("", limitedBy(cfg.SubmitLimiter, h.SubmitComplaint)...)
	complaints.POST("/manual", limitedBy(cfg.SubmitLimiter, h.SubmitManualComplaint)...)
	complaints.GET("", h.ListComplaints)
	complaints.GET("/search", h.SearchComplaints)
	complaints.GET("/:id", h.GetComplaint)
	complaints.GET("/:id/timeline", h.Timeline)
	complaints.GET("/:id/upvotes", infrajwt.OptionalMiddleware(cfg.JWTSecret), h.Upvotes)

	citizen := infragin.ProtectedGroup(v1, "", cfg.JWTSecret)
	citizen.Use(infrajwt.RequireRole(infrajwt.RoleCitizen))
	citizen.POST("/complaints/:id/upvote", h.Upvote)
	citizen.DELETE("/complaints/:id/upvote", h.RemoveUpvote)
	citizen.GET("/users/me", h.Me)

	v1.POST("/users/register", h.Register)
	v1.POST("/users/login", h.Login)
	v1.POST("/authority/login", h.AuthorityLogin)

	authority := infragin.ProtectedGroup(v1, "/authority", cfg.JWTSecret)
	authority.Use(infrajwt.RequireRole(infrajwt.RoleAuthority))
	authority.PUT("/complaints/:id/status", h.UpdateStatus)
	authority.POST("/complaints/:id/photo", h.UploadPhoto)
	authority.GET("/stats", h.Stats)
	if cfg.Feed != nil {
		authority.GET("/feed", sse.Handler(cfg.Feed, zoneFeedFilter, h.logger))
	}

	keywords := authority.Group("/keywords", requireAdmin())
	keywords.GET("", h.ListKeywords)
	keywords.POST("", h.CreateKeyword)
	keywords.PUT("/:id", h.UpdateKeyword)
	keywords.DELETE("/:id", h.DeleteKeyword)
}
