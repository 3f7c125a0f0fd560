package zones_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/zones"
)

func TestAssign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		area string
		want domain.Zone
	}{
		{"Hebbal", domain.ZoneNorth},
		{"  koramangala ", domain.ZoneSouth},
		{"CV RAMAN NAGAR", domain.ZoneEast},
		{"Kengeri", domain.ZoneWest},
		{"Hebbal North", domain.ZoneUnknown},
		{"", domain.ZoneUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.area, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, zones.Assign(tt.area))
		})
	}
}

func TestAreas(t *testing.T) {
	t.Parallel()

	areas := zones.Areas()
	assert.Len(t, areas, 24)
	assert.IsNonDecreasing(t, areas)
	assert.Contains(t, zones.AreasOf(domain.ZoneWest), "Malleshwaram")
}

func TestAuthorities(t *testing.T) {
	t.Parallel()

	all := zones.Authorities()
	assert.Len(t, all, 5)

	admin, ok := zones.AuthorityFor(domain.ZoneAdmin)
	assert.True(t, ok)
	assert.Equal(t, 5, admin.OfficerID)

	_, ok = zones.AuthorityFor(domain.ZoneUnknown)
	assert.False(t, ok)

	assert.True(t, zones.CanAccess(domain.ZoneAdmin, domain.ZoneEast))
	assert.True(t, zones.CanAccess(domain.ZoneEast, domain.ZoneEast))
	assert.False(t, zones.CanAccess(domain.ZoneNorth, domain.ZoneEast))
	assert.Equal(t, domain.Zone(""), zones.Scope(domain.ZoneAdmin))
	assert.Equal(t, domain.ZoneSouth, zones.Scope(domain.ZoneSouth))
}
