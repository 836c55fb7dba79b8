// Package overpassql builds Overpass QL statements for context-layer queries.
package overpassql

import (
	"fmt"
	"strings"
	"time"

	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/model"
)

// Tag filters per category follow the OSM tagging conventions for each
// context layer: areal water plus waterways, recreational greenspace,
// building footprints, and the full street network.
var categorySelectors = map[model.Category][]string{
	model.CategoryWater: {
		`way["natural"="water"](%s);`,
		`relation["natural"="water"](%s);`,
		`way["waterway"](%s);`,
	},
	model.CategoryGreenspace: {
		`way["leisure"~"^(park|garden)$"](%s);`,
		`relation["leisure"~"^(park|garden)$"](%s);`,
		`way["landuse"~"^(grass|forest|recreation_ground)$"](%s);`,
	},
	model.CategoryBuilding: {
		`way["building"](%s);`,
		`relation["building"]["type"="multipolygon"](%s);`,
	},
	model.CategoryStreet: {
		`way["highway"](%s);`,
	},
}

// Build returns the Overpass QL for one category over the envelope. The
// trailing recursion pulls member nodes so ways resolve to coordinates.
func Build(category model.Category, env model.Envelope, timeout time.Duration) (string, error) {
	selectors, ok := categorySelectors[category]
	if !ok {
		return "", fmt.Errorf("unknown context category %q", category)
	}

	secs := int(timeout.Round(time.Second).Seconds())
	if secs <= 0 {
		secs = 25
	}

	bbox := env.String()
	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", secs)
	for _, sel := range selectors {
		fmt.Fprintf(&b, "  "+sel+"\n", bbox)
	}
	b.WriteString(");\n(._;>;);\nout body;")
	return b.String(), nil
}
