// Package h3mapper converts envelopes to covering H3 cell sets for cache keys.
package h3mapper

import (
	"fmt"
	"sort"

	h3 "github.com/uber/h3-go/v4"

	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/model"
)

type Mapper struct{}

func New() *Mapper { return &Mapper{} }

// CellsForEnvelope polyfills the envelope rectangle at the given resolution.
// Cells come back sorted and de-duplicated so the same extent always maps to
// the same cell set.
func (m *Mapper) CellsForEnvelope(env model.Envelope, res int) ([]string, error) {
	if res < 0 || res > 15 {
		return nil, fmt.Errorf("invalid H3 resolution %d (must be 0..15)", res)
	}
	// Rectangular loop in degrees; v4 wants lat/lng.
	outer := h3.GeoLoop{
		{Lat: env.MinLat, Lng: env.MinLon},
		{Lat: env.MinLat, Lng: env.MaxLon},
		{Lat: env.MaxLat, Lng: env.MaxLon},
		{Lat: env.MaxLat, Lng: env.MinLon},
	}
	poly := h3.GeoPolygon{GeoLoop: outer}

	indexes, err := h3.PolygonToCells(poly, res)
	if err != nil {
		return nil, fmt.Errorf("h3 polyfill: %w", err)
	}

	out := make([]string, 0, len(indexes)+1)
	seen := make(map[string]struct{}, len(indexes))
	for _, idx := range indexes {
		s := idx.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	// Polyfill keys on cell centers, so a small envelope can cover zero
	// cells; fall back to the cell containing the envelope center.
	if len(out) == 0 {
		c := env.Center()
		cell, err := h3.LatLngToCell(h3.LatLng{Lat: c[1], Lng: c[0]}, res)
		if err != nil {
			return nil, fmt.Errorf("h3 center cell: %w", err)
		}
		out = append(out, cell.String())
	}

	sort.Strings(out)
	return out, nil
}
