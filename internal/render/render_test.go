package render

import (
	"bytes"
	"compress/zlib"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/compose"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/model"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/style"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var renderEnv = model.Envelope{MinLon: 11.9, MinLat: 57.6, MaxLon: 12.0, MaxLat: 57.7}

func sampleScene() compose.Scene {
	return compose.Scene{
		Ops: []model.DrawOp{
			{Geometry: orb.Polygon{{{11.92, 57.62}, {11.95, 57.62}, {11.95, 57.65}, {11.92, 57.62}}}, Style: style.Water()},
			{Geometry: orb.LineString{{11.91, 57.61}, {11.99, 57.69}}, Style: style.ForStreet(model.ClassMotorway)},
			{Geometry: orb.Point{11.95, 57.65}, Style: style.User()},
		},
		Labels: []model.LabelPlacement{
			{Text: "Main Street", At: orb.Point{11.95, 57.65}, AngleDeg: 45, Rank: style.RankLabel},
		},
	}
}

func TestRender_EmptySceneIsRenderError(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.pdf")
	r := New(discard(), Options{})

	err := r.Render(compose.Scene{}, renderEnv, out)
	if err == nil {
		t.Fatalf("expected RenderError for empty draw sequence")
	}
	var re *model.RenderError
	if !errors.As(err, &re) {
		t.Fatalf("error %v is not a RenderError", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("no output file may exist after a failed render")
	}
}

func TestRender_WritesDocument(t *testing.T) {
	out := filepath.Join(t.TempDir(), "map.pdf")
	r := New(discard(), Options{Title: "Test Extent"})

	if err := r.Render(sampleScene(), renderEnv, out); err != nil {
		t.Fatalf("Render: %v", err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("output document is empty")
	}
	if !bytes.HasPrefix(raw, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header")
	}
	// no temp leftovers next to the output
	entries, err := os.ReadDir(filepath.Dir(out))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the final document, found %d entries", len(entries))
	}
}

func TestRender_PinnedDatesAreByteStable(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := New(discard(), Options{Title: "Stable", CreationDate: ts})

	p1 := filepath.Join(dir, "a.pdf")
	p2 := filepath.Join(dir, "b.pdf")
	if err := r.Render(sampleScene(), renderEnv, p1); err != nil {
		t.Fatalf("first render: %v", err)
	}
	if err := r.Render(sampleScene(), renderEnv, p2); err != nil {
		t.Fatalf("second render: %v", err)
	}

	a, _ := os.ReadFile(p1)
	b, _ := os.ReadFile(p2)
	if !bytes.Equal(a, b) {
		t.Fatalf("identical scenes must produce byte-identical documents")
	}
}

// contentStreams concatenates the decoded PDF stream objects so tests can
// assert on paint order.
func contentStreams(t *testing.T, raw []byte) string {
	t.Helper()
	var out bytes.Buffer
	rest := raw
	for {
		i := bytes.Index(rest, []byte("stream"))
		if i < 0 {
			break
		}
		seg := bytes.TrimLeft(rest[i+len("stream"):], "\r\n")
		j := bytes.Index(seg, []byte("endstream"))
		if j < 0 {
			break
		}
		body := seg[:j]
		if zr, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
			dec, _ := io.ReadAll(zr)
			_ = zr.Close()
			out.Write(dec)
		} else {
			out.Write(body)
		}
		rest = seg[j+len("endstream"):]
	}
	return out.String()
}

func TestRender_UserGeometryPaintsAboveLabels(t *testing.T) {
	out := filepath.Join(t.TempDir(), "order.pdf")
	r := New(discard(), Options{CreationDate: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)})

	scene := compose.Scene{
		Ops: []model.DrawOp{
			{Geometry: orb.LineString{{11.91, 57.61}, {11.99, 57.69}}, Style: style.ForStreet(model.ClassPrimary)},
			{Geometry: orb.Polygon{{{11.93, 57.63}, {11.97, 57.63}, {11.97, 57.67}, {11.93, 57.63}}}, Style: style.User()},
		},
		Labels: []model.LabelPlacement{
			{Text: "Main Street", At: orb.Point{11.95, 57.65}, AngleDeg: 45, Rank: style.RankLabel},
		},
	}
	if err := r.Render(scene, renderEnv, out); err != nil {
		t.Fatalf("Render: %v", err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	cs := contentStreams(t, raw)
	labelIdx := strings.Index(cs, "(Main Street)")
	// first fill in the user color is the user polygon inside the plot
	userIdx := strings.Index(cs, "0.988 0.573 0.447")
	if labelIdx < 0 || userIdx < 0 {
		t.Fatalf("content stream missing label (%d) or user fill (%d)", labelIdx, userIdx)
	}
	if userIdx < labelIdx {
		t.Fatalf("user geometry painted at %d before label at %d; it must sit on top", userIdx, labelIdx)
	}
}

func TestRender_FurnitureIncludesLegend(t *testing.T) {
	out := filepath.Join(t.TempDir(), "legend.pdf")
	r := New(discard(), Options{})

	if err := r.Render(sampleScene(), renderEnv, out); err != nil {
		t.Fatalf("Render: %v", err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	cs := contentStreams(t, raw)
	for _, want := range []string{"(User geometry)", "(Streets)", "(Buildings)"} {
		if !strings.Contains(cs, want) {
			t.Fatalf("legend entry %s missing from page", want)
		}
	}
}

func TestTransform_PreservesAspectAndFlipsLatitude(t *testing.T) {
	plot := plotRect{x: 0, y: 0, w: 100, h: 100}
	tr := newTransform(renderEnv, plot)

	x1, y1 := tr.point(orb.Point{11.9, 57.6})
	x2, y2 := tr.point(orb.Point{12.0, 57.7})
	if x2 <= x1 {
		t.Fatalf("east must map right of west")
	}
	if y2 >= y1 {
		t.Fatalf("north must map above south on the page")
	}
}
