// Package compose turns styled layers into the ordered draw list and the
// deduplicated street label placements.
package compose

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"

	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/model"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/style"
)

// Scene is the renderer's input: draw operations in final z-order plus the
// label placements.
type Scene struct {
	Ops    []model.DrawOp
	Labels []model.LabelPlacement
}

// Build assembles the scene. The emission order is the z-order contract:
// water, greenspace (same rank, water first), buildings, streets ascending
// by class rank, then user geometry at the top rank. Empty layers contribute
// nothing and never shift the ranks of the others. Labels are produced
// separately at their own rank.
func Build(layers model.LayerSet, user *geojson.FeatureCollection) Scene {
	var ops []model.DrawOp

	appendLayer := func(l model.Layer) {
		for _, f := range l.Features {
			if f.Geometry == nil {
				continue
			}
			ops = append(ops, model.DrawOp{Geometry: f.Geometry, Style: style.Resolve(l.Category, f)})
		}
	}

	appendLayer(layers.Water)
	appendLayer(layers.Greenspace)
	appendLayer(layers.Buildings)

	// Streets carry per-class ranks; a stable sort keeps equal-rank segments
	// in fetch order.
	streetStart := len(ops)
	appendLayer(layers.Streets)
	streets := ops[streetStart:]
	sort.SliceStable(streets, func(i, j int) bool {
		return streets[i].Style.Rank < streets[j].Style.Rank
	})

	if user != nil {
		userStyle := style.User()
		for _, f := range user.Features {
			if f == nil || f.Geometry == nil {
				continue
			}
			// user geometry always draws last, whatever its attributes say
			ops = append(ops, model.DrawOp{Geometry: f.Geometry, Style: userStyle})
		}
	}

	return Scene{
		Ops:    ops,
		Labels: streetLabels(layers.Streets),
	}
}

// streetLabels emits exactly one placement per distinct street name. OSM
// splits a street into many short ways; the label sits on the vertex
// midpoint of the longest one, angled along the segment there. Unnamed
// streets produce no label. First-longest wins, so the choice is
// reproducible for a fixed provider snapshot.
func streetLabels(streets model.Layer) []model.LabelPlacement {
	type candidate struct {
		line   orb.LineString
		length float64
	}
	best := map[string]candidate{}

	for _, f := range streets.Features {
		name := f.Name()
		if name == "" {
			continue
		}
		ls, ok := f.Geometry.(orb.LineString)
		if !ok || len(ls) < 2 {
			continue
		}
		length := geo.Length(ls)
		if cur, seen := best[name]; !seen || length > cur.length {
			best[name] = candidate{line: ls, length: length}
		}
	}

	names := make([]string, 0, len(best))
	for name := range best {
		names = append(names, name)
	}
	sort.Strings(names)

	labels := make([]model.LabelPlacement, 0, len(names))
	for _, name := range names {
		ls := best[name].line
		at, angle := midpointAndAngle(ls)
		labels = append(labels, model.LabelPlacement{
			Text:     name,
			At:       at,
			AngleDeg: angle,
			Rank:     style.RankLabel,
		})
	}
	return labels
}

// midpointAndAngle picks the middle vertex and the direction of the segment
// through it, flipped into [-90, 90] so the text reads upright.
func midpointAndAngle(ls orb.LineString) (orb.Point, float64) {
	mid := len(ls) / 2
	at := ls[mid]

	prev := mid - 1
	if prev < 0 {
		prev = 0
	}
	next := mid
	if next == prev {
		next = mid + 1
	}
	if next >= len(ls) {
		return at, 0
	}

	dx := ls[next][0] - ls[prev][0]
	dy := ls[next][1] - ls[prev][1]
	rad := math.Atan2(dy, dx)
	if rad > math.Pi/2 {
		rad -= math.Pi
	} else if rad < -math.Pi/2 {
		rad += math.Pi
	}
	return at, rad * 180 / math.Pi
}
