package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/cityvoice/infrastructure/sse"
	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/zones"
)

// zoneFeedFilter limits the live feed to complaints the officer may act on.
func zoneFeedFilter(c *gin.Context) (sse.Filter, bool) {
	o, ok := officer(c)
	if !ok {
		return nil, false
	}
	return func(e sse.Event) bool {
		return zones.CanAccess(o.Zone, domain.Zone(e.Topic))
	}, true
}
