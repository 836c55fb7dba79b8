package fetch

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	overpass "github.com/MeKo-Christian/go-overpass"
	"github.com/paulmach/orb"

	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/model"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/observability"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/overpassql"
)

// Source issues one context-category query for an envelope.
type Source interface {
	Fetch(ctx context.Context, category model.Category, env model.Envelope) ([]model.Feature, error)
}

// querier is the go-overpass seam, swapped in tests.
type querier interface {
	Query(query string) (overpass.Result, error)
}

// OverpassSource queries an Overpass API endpoint. The wait per query is
// bounded by the outbound HTTP client's timeout.
type OverpassSource struct {
	client  querier
	timeout time.Duration
}

func NewOverpassSource(endpoint string, hc *http.Client, timeout time.Duration) *OverpassSource {
	c := overpass.NewWithSettings(endpoint, 1, hc)
	return &OverpassSource{client: &c, timeout: timeout}
}

func (s *OverpassSource) Fetch(ctx context.Context, category model.Category, env model.Envelope) ([]model.Feature, error) {
	q, err := overpassql.Build(category, env, s.timeout)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.client.Query(q)
	observability.ObserveUpstreamLatency(string(category), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("overpass query: %w", err)
	}
	return featuresFromResult(category, res), nil
}

// arealCategories draw closed rings as filled polygons; streets stay lines.
var arealCategories = map[model.Category]bool{
	model.CategoryWater:      true,
	model.CategoryGreenspace: true,
	model.CategoryBuilding:   true,
}

// featuresFromResult converts an Overpass result into domain features. Ways
// and relations are visited in ascending ID order so repeated runs against
// the same snapshot produce identical layers.
func featuresFromResult(category model.Category, res overpass.Result) []model.Feature {
	areal := arealCategories[category]
	out := make([]model.Feature, 0, len(res.Ways))

	wayIDs := make([]int64, 0, len(res.Ways))
	for id := range res.Ways {
		wayIDs = append(wayIDs, id)
	}
	sort.Slice(wayIDs, func(i, j int) bool { return wayIDs[i] < wayIDs[j] })

	for _, id := range wayIDs {
		way := res.Ways[id]
		if way == nil {
			continue
		}
		geom, ok := wayGeometry(way, areal)
		if !ok {
			continue
		}
		out = append(out, model.Feature{
			ID:       fmt.Sprintf("way/%d", id),
			Geometry: geom,
			Tags:     way.Tags,
		})
	}

	if !areal {
		return out
	}

	relIDs := make([]int64, 0, len(res.Relations))
	for id := range res.Relations {
		relIDs = append(relIDs, id)
	}
	sort.Slice(relIDs, func(i, j int) bool { return relIDs[i] < relIDs[j] })

	for _, id := range relIDs {
		rel := res.Relations[id]
		if rel == nil {
			continue
		}
		var mp orb.MultiPolygon
		for _, m := range rel.Members {
			if m.Way == nil || m.Role != "outer" {
				continue
			}
			ring, ok := wayRing(m.Way)
			if !ok {
				continue
			}
			mp = append(mp, orb.Polygon{ring})
		}
		if len(mp) == 0 {
			continue
		}
		out = append(out, model.Feature{
			ID:       fmt.Sprintf("relation/%d", id),
			Geometry: mp,
			Tags:     rel.Tags,
		})
	}
	return out
}

func wayGeometry(way *overpass.Way, areal bool) (orb.Geometry, bool) {
	ls := wayLine(way)
	if len(ls) < 2 {
		return nil, false
	}
	if areal && isClosed(ls) && len(ls) >= 4 {
		return orb.Polygon{orb.Ring(ls)}, true
	}
	return ls, true
}

func wayRing(way *overpass.Way) (orb.Ring, bool) {
	ls := wayLine(way)
	if len(ls) < 4 || !isClosed(ls) {
		return nil, false
	}
	return orb.Ring(ls), true
}

func wayLine(way *overpass.Way) orb.LineString {
	ls := make(orb.LineString, 0, len(way.Nodes))
	for _, n := range way.Nodes {
		if n == nil {
			continue
		}
		ls = append(ls, orb.Point{n.Lon, n.Lat})
	}
	return ls
}

func isClosed(ls orb.LineString) bool {
	return len(ls) >= 2 && ls[0] == ls[len(ls)-1]
}
