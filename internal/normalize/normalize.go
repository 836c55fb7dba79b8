// Package normalize loads a user geometry collection and brings it into the
// canonical geographic frame (EPSG:4326).
package normalize

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"

	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/model"
)

// Normalized is the reprojected user collection plus its envelopes.
type Normalized struct {
	Collection *geojson.FeatureCollection
	EPSG       int
	Envelope   model.Envelope
	Padded     model.Envelope
}

const (
	epsgWGS84       = 4326
	epsgWebMercator = 3857
)

// crsDoc picks the legacy GeoJSON crs member out of the raw document. The
// source frame must be declared; an implicit frame is rejected rather than
// assumed.
type crsDoc struct {
	CRS *struct {
		Type       string `json:"type"`
		Properties struct {
			Name string `json:"name"`
		} `json:"properties"`
	} `json:"crs"`
}

// Load reads, validates and reprojects the collection at path, then derives
// the tight and padded envelopes. All failures are *model.InputError.
func Load(path string, padFraction float64) (*Normalized, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.InputError{Path: path, Reason: "unreadable", Err: err}
	}
	if len(raw) == 0 {
		return nil, &model.InputError{Path: path, Reason: "file is empty"}
	}

	var doc crsDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &model.InputError{Path: path, Reason: "not valid JSON", Err: err}
	}
	if doc.CRS == nil || strings.TrimSpace(doc.CRS.Properties.Name) == "" {
		return nil, &model.InputError{Path: path, Reason: "missing coordinate reference system declaration"}
	}

	epsg, err := epsgFromName(doc.CRS.Properties.Name)
	if err != nil {
		return nil, &model.InputError{Path: path, Reason: "unparseable reference frame", Err: err}
	}

	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, &model.InputError{Path: path, Reason: "not a GeoJSON feature collection", Err: err}
	}
	if len(fc.Features) == 0 {
		return nil, &model.InputError{Path: path, Reason: "collection contains zero geometries"}
	}

	switch epsg {
	case epsgWGS84:
		// canonical frame, nothing to do
	case epsgWebMercator:
		for _, f := range fc.Features {
			if f.Geometry == nil {
				continue
			}
			f.Geometry = project.Geometry(f.Geometry, project.Mercator.ToWGS84)
		}
	default:
		return nil, &model.InputError{
			Path:   path,
			Reason: fmt.Sprintf("unsupported reference frame EPSG:%d (supported: 4326, 3857)", epsg),
		}
	}

	var bound orb.Bound
	first := true
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if first {
			bound = b
			first = false
			continue
		}
		bound = bound.Union(b)
	}
	if first {
		return nil, &model.InputError{Path: path, Reason: "collection contains zero geometries"}
	}

	env := model.EnvelopeFromBound(bound)
	return &Normalized{
		Collection: fc,
		EPSG:       epsgWGS84,
		Envelope:   env,
		Padded:     env.Pad(padFraction),
	}, nil
}

// epsgFromName parses the frame name in either "EPSG:nnnn" or OGC urn form.
// CRS84 is longitude/latitude WGS84 and maps onto 4326.
func epsgFromName(name string) (int, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "CRS84" || n == "URN:OGC:DEF:CRS:OGC:1.3:CRS84" || n == "OGC:CRS84" {
		return epsgWGS84, nil
	}
	if !strings.Contains(n, "EPSG") {
		return 0, fmt.Errorf("frame %q does not name an EPSG code", name)
	}
	idx := strings.LastIndex(n, ":")
	if idx < 0 || idx == len(n)-1 {
		return 0, fmt.Errorf("frame %q has no code suffix", name)
	}
	code, err := strconv.Atoi(n[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("frame %q code: %w", name, err)
	}
	return code, nil
}
