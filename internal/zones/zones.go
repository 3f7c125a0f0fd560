// Package zones maps Bangalore neighbourhoods to administrative zones and
// describes the zone authorities that work them.
package zones

import (
	"slices"
	"strings"

	"github.com/jonesrussell/cityvoice/internal/domain"
)

var areasByZone = map[domain.Zone][]string{
	domain.ZoneNorth: {"Hebbal", "Yelahanka", "RT Nagar", "Vidyaranyapura", "Sahakara Nagar", "Thanisandra"},
	domain.ZoneSouth: {"Jayanagar", "JP Nagar", "BTM Layout", "Banashankari", "HSR Layout", "Koramangala"},
	domain.ZoneEast:  {"Indiranagar", "Whitefield", "Marathahalli", "CV Raman Nagar", "Mahadevapura", "Varthur"},
	domain.ZoneWest:  {"Rajajinagar", "Malleshwaram", "Vijayanagar", "Basaveshwaranagar", "Kengeri", "Yeshwanthpur"},
}

// zoneOf is keyed by lowercased area name.
var zoneOf = func() map[string]domain.Zone {
	m := make(map[string]domain.Zone)
	for zone, areas := range areasByZone {
		for _, a := range areas {
			m[strings.ToLower(a)] = zone
		}
	}
	return m
}()

// Assign returns the zone of area, matched case-insensitively after trimming.
// Unlisted areas are Unknown.
func Assign(area string) domain.Zone {
	if zone, ok := zoneOf[strings.ToLower(strings.TrimSpace(area))]; ok {
		return zone
	}
	return domain.ZoneUnknown
}

// Areas returns every known area, sorted.
func Areas() []string {
	out := make([]string, 0, len(zoneOf))
	for _, areas := range areasByZone {
		out = append(out, areas...)
	}
	slices.Sort(out)
	return out
}

// AreasOf returns the areas of zone.
func AreasOf(zone domain.Zone) []string {
	return slices.Clone(areasByZone[zone])
}
