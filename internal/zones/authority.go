package zones

import "github.com/jonesrussell/cityvoice/internal/domain"

// Authority is a zone officer account. Admin oversees every zone.
type Authority struct {
	Zone        domain.Zone `json:"zone"`
	OfficerID   int         `json:"officer_id"`
	OfficerName string      `json:"officer_name"`
}

var authorities = []Authority{
	{Zone: domain.ZoneNorth, OfficerID: 1, OfficerName: "North Zone Authority"},
	{Zone: domain.ZoneSouth, OfficerID: 2, OfficerName: "South Zone Authority"},
	{Zone: domain.ZoneEast, OfficerID: 3, OfficerName: "East Zone Authority"},
	{Zone: domain.ZoneWest, OfficerID: 4, OfficerName: "West Zone Authority"},
	{Zone: domain.ZoneAdmin, OfficerID: 5, OfficerName: "System Admin"},
}

// Authorities returns every authority in officer order.
func Authorities() []Authority {
	out := make([]Authority, len(authorities))
	copy(out, authorities)
	return out
}

// AuthorityFor returns the authority of zone.
func AuthorityFor(zone domain.Zone) (Authority, bool) {
	for _, a := range authorities {
		if a.Zone == zone {
			return a, true
		}
	}
	return Authority{}, false
}

// CanAccess reports whether the authority of zone may act on a complaint
// located in target.
func CanAccess(zone, target domain.Zone) bool {
	return zone == domain.ZoneAdmin || zone == target
}

// Scope returns the listing zone filter for an authority; Admin sees all.
func Scope(zone domain.Zone) domain.Zone {
	if zone == domain.ZoneAdmin {
		return ""
	}
	return zone
}
