package normalize

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/model"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}

const wgs84Collection = `{
	"type": "FeatureCollection",
	"crs": {"type": "name", "properties": {"name": "EPSG:4326"}},
	"features": [
		{"type": "Feature", "properties": {"name": "a"},
		 "geometry": {"type": "Point", "coordinates": [11.97, 57.70]}},
		{"type": "Feature", "properties": {},
		 "geometry": {"type": "LineString", "coordinates": [[11.95, 57.68], [12.02, 57.72]]}}
	]
}`

func TestLoad_WGS84HappyPath(t *testing.T) {
	p := write(t, "in.geojson", wgs84Collection)

	n, err := Load(p, 0.05)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(n.Collection.Features) != 2 {
		t.Fatalf("features = %d want 2", len(n.Collection.Features))
	}
	want := model.Envelope{MinLon: 11.95, MinLat: 57.68, MaxLon: 12.02, MaxLat: 57.72}
	if n.Envelope != want {
		t.Fatalf("envelope = %+v want %+v", n.Envelope, want)
	}
	if !n.Padded.Contains(n.Envelope) {
		t.Fatalf("padded envelope must strictly contain the tight envelope")
	}
}

func TestLoad_WebMercatorIsReprojected(t *testing.T) {
	// 1335833.89, 7904565.0 is roughly lon 12, lat 57.7 in EPSG:3857.
	body := `{
		"type": "FeatureCollection",
		"crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:EPSG::3857"}},
		"features": [
			{"type": "Feature", "properties": {},
			 "geometry": {"type": "Point", "coordinates": [1335833.89, 7904565.0]}}
		]
	}`
	p := write(t, "merc.geojson", body)

	n, err := Load(p, 0.05)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c := n.Envelope.Center()
	if math.Abs(c[0]-12.0) > 0.02 || math.Abs(c[1]-57.7) > 0.02 {
		t.Fatalf("reprojected center = %v want approx (12, 57.7)", c)
	}
}

func TestLoad_InputErrors(t *testing.T) {
	noCRS := `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}]}`
	empty := `{"type":"FeatureCollection",
		"crs":{"type":"name","properties":{"name":"EPSG:4326"}},"features":[]}`
	badFrame := `{"type":"FeatureCollection",
		"crs":{"type":"name","properties":{"name":"EPSG:3006"}},"features":[
		{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}]}`

	cases := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.geojson")},
		{"empty file", write(t, "empty.geojson", "")},
		{"not json", write(t, "garbage.geojson", "not json at all")},
		{"implicit frame", write(t, "nocrs.geojson", noCRS)},
		{"zero geometries", write(t, "nofeat.geojson", empty)},
		{"unsupported frame", write(t, "sweref.geojson", badFrame)},
	}
	for _, c := range cases {
		_, err := Load(c.path, 0.05)
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		var ie *model.InputError
		if !errors.As(err, &ie) {
			t.Fatalf("%s: error %v is not an InputError", c.name, err)
		}
	}
}

func TestEPSGFromName_Variants(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"EPSG:4326", 4326},
		{"epsg:3857", 3857},
		{"urn:ogc:def:crs:EPSG::3857", 3857},
		{"urn:ogc:def:crs:OGC:1.3:CRS84", 4326},
	}
	for _, c := range cases {
		got, err := epsgFromName(c.in)
		if err != nil {
			t.Fatalf("epsgFromName(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("epsgFromName(%q) = %d want %d", c.in, got, c.want)
		}
	}
	if _, err := epsgFromName("SWEREF99"); err == nil {
		t.Fatalf("expected error for non-EPSG frame name")
	}
}
