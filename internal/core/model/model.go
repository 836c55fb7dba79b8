// Package model defines core domain types shared across the pipeline.
package model

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Envelope is an axis-aligned bounding region in EPSG:4326 degrees.
type Envelope struct {
	MinLon, MinLat float64
	MaxLon, MaxLat float64
}

// String representation matching the Overpass bbox format (south,west,north,east).
func (e Envelope) String() string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", e.MinLat, e.MinLon, e.MaxLat, e.MaxLon)
}

func (e Envelope) Width() float64  { return e.MaxLon - e.MinLon }
func (e Envelope) Height() float64 { return e.MaxLat - e.MinLat }

func (e Envelope) Center() orb.Point {
	return orb.Point{(e.MinLon + e.MaxLon) / 2, (e.MinLat + e.MaxLat) / 2}
}

// minPad keeps padded envelopes non-degenerate for point-sized extents.
const minPad = 0.002

// Pad expands every side by fraction of the larger extent dimension,
// with a floor so the result strictly contains the source.
func (e Envelope) Pad(fraction float64) Envelope {
	d := e.Width()
	if e.Height() > d {
		d = e.Height()
	}
	pad := fraction * d
	if pad < minPad {
		pad = minPad
	}
	return Envelope{
		MinLon: e.MinLon - pad,
		MinLat: e.MinLat - pad,
		MaxLon: e.MaxLon + pad,
		MaxLat: e.MaxLat + pad,
	}
}

// Contains reports whether o lies strictly inside e.
func (e Envelope) Contains(o Envelope) bool {
	return e.MinLon < o.MinLon && e.MinLat < o.MinLat &&
		e.MaxLon > o.MaxLon && e.MaxLat > o.MaxLat
}

// EnvelopeFromBound converts an orb bound to an Envelope.
func EnvelopeFromBound(b orb.Bound) Envelope {
	return Envelope{
		MinLon: b.Min[0], MinLat: b.Min[1],
		MaxLon: b.Max[0], MaxLat: b.Max[1],
	}
}

// Category names one contextual layer fetched from the map-data provider.
type Category string

const (
	CategoryWater      Category = "water"
	CategoryGreenspace Category = "greenspace"
	CategoryBuilding   Category = "building"
	CategoryStreet     Category = "street"
)

// Categories lists all context categories in their fetch (and tie-break) order.
func Categories() []Category {
	return []Category{CategoryWater, CategoryGreenspace, CategoryBuilding, CategoryStreet}
}

// Feature is one contextual geometry with its provider tags.
type Feature struct {
	ID       string
	Geometry orb.Geometry
	Tags     map[string]string
}

// Name returns the feature's name tag, empty when absent.
func (f Feature) Name() string { return f.Tags["name"] }

// Layer holds the geometry fetched for one category. Zero features is valid.
type Layer struct {
	Category Category
	Features []Feature
}

// LayerSet carries all four context layers plus the categories that
// degraded to empty because their query failed.
type LayerSet struct {
	Water      Layer
	Greenspace Layer
	Buildings  Layer
	Streets    Layer
	Degraded   []Category
}

// StreetClass is the normalized classification of a street feature.
type StreetClass string

const (
	ClassMotorway    StreetClass = "motorway"
	ClassTrunk       StreetClass = "trunk"
	ClassPrimary     StreetClass = "primary"
	ClassSecondary   StreetClass = "secondary"
	ClassTertiary    StreetClass = "tertiary"
	ClassResidential StreetClass = "residential"
	ClassService     StreetClass = "service"
	ClassFootpath    StreetClass = "footpath"
	ClassOther       StreetClass = "other"
)

// ParseStreetClass normalizes a raw OSM highway value. Link roads collapse
// onto their base class and anything unrecognized becomes ClassOther so an
// unexpected tag value can never abort a render.
func ParseStreetClass(highway string) StreetClass {
	switch highway {
	case "motorway", "motorway_link":
		return ClassMotorway
	case "trunk", "trunk_link":
		return ClassTrunk
	case "primary", "primary_link":
		return ClassPrimary
	case "secondary", "secondary_link":
		return ClassSecondary
	case "tertiary", "tertiary_link":
		return ClassTertiary
	case "residential", "living_street", "unclassified":
		return ClassResidential
	case "service":
		return ClassService
	case "footway", "path", "pedestrian", "cycleway", "steps", "track":
		return ClassFootpath
	default:
		return ClassOther
	}
}

// RGB is an opaque color in 0..255 components.
type RGB struct {
	R, G, B int
}

// Style is a resolved rendering spec for one geometry.
type Style struct {
	StrokeWidth float64
	Stroke      RGB
	Fill        RGB
	Filled      bool
	Alpha       float64
	Rank        int
}

// DrawOp is one (geometry, style) pair consumed exactly once by the renderer.
// The z-order rank lives on the style.
type DrawOp struct {
	Geometry orb.Geometry
	Style    Style
}

// LabelPlacement positions one unique street name on the canvas.
type LabelPlacement struct {
	Text     string
	At       orb.Point
	AngleDeg float64
	Rank     int
}
