// Package render drives the PDF canvas: background, clipped draw operations
// in rank order, street labels, and margin furniture.
package render

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/compose"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/model"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/observability"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/style"
)

// Output density the document is sized for. The page itself is vector; this
// governs the raster-equivalent dimensions reported for print.
const DPI = 300

const (
	pageMargin    = 36.0 // 0.5in
	titleHeight   = 20.0
	labelFontSize = 7.0
)

type Options struct {
	Title string
	// CreationDate pins the PDF metadata dates so identical scenes produce
	// byte-identical documents. Zero means wall clock.
	CreationDate time.Time
}

type Renderer struct {
	logger *slog.Logger
	opts   Options
}

func New(logger *slog.Logger, opts Options) *Renderer {
	return &Renderer{logger: logger, opts: opts}
}

// Render draws the scene over the envelope extent and writes the document to
// outPath. The file appears atomically: the PDF is assembled in a temp file
// and renamed into place, so a failed render leaves nothing behind.
func (r *Renderer) Render(scene compose.Scene, env model.Envelope, outPath string) error {
	if len(scene.Ops) == 0 {
		return &model.RenderError{Reason: "empty draw sequence, nothing to render"}
	}

	start := time.Now()

	pdf := gofpdf.New("L", "pt", "Letter", "")
	if !r.opts.CreationDate.IsZero() {
		pdf.SetCreationDate(r.opts.CreationDate)
		pdf.SetModificationDate(r.opts.CreationDate)
	}
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	plot := plotRect{
		x: pageMargin,
		y: pageMargin + titleHeight,
		w: pageW - 2*pageMargin,
		h: pageH - 2*pageMargin - titleHeight,
	}
	tr := newTransform(env, plot)

	// rank 0 background fill
	bg := style.Background
	pdf.SetFillColor(bg.R, bg.G, bg.B)
	pdf.SetAlpha(1, "Normal")
	pdf.Rect(plot.x, plot.y, plot.w, plot.h, "F")

	// The compositor already emits rank order; the stable sort only enforces
	// the contract without reordering equal ranks.
	ops := make([]model.DrawOp, len(scene.Ops))
	copy(ops, scene.Ops)
	sort.SliceStable(ops, func(i, j int) bool { return ops[i].Style.Rank < ops[j].Style.Rank })

	pdf.ClipRect(plot.x, plot.y, plot.w, plot.h, false)
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	// Labels slot into the rank order: above every context layer, below the
	// user geometry.
	split := sort.Search(len(ops), func(i int) bool { return ops[i].Style.Rank >= style.RankLabel })
	for _, op := range ops[:split] {
		drawGeometry(pdf, tr, op.Geometry, op.Style)
	}
	drawLabels(pdf, tr, plot, scene.Labels)
	for _, op := range ops[split:] {
		drawGeometry(pdf, tr, op.Geometry, op.Style)
	}
	pdf.ClipEnd()

	r.drawFurniture(pdf, env, plot, pageW)

	if err := writeAtomic(pdf, outPath); err != nil {
		return &model.RenderError{Reason: "write document", Err: err}
	}

	dur := time.Since(start)
	observability.ObserveStage("render", dur.Seconds())
	r.logger.Info("document written",
		"path", outPath,
		"ops", len(ops),
		"labels", len(scene.Labels),
		"density_dpi", DPI,
		"duration", dur.String())
	return nil
}

type plotRect struct {
	x, y, w, h float64
}

// transform maps lon/lat linearly onto the plot rectangle, preserving
// aspect and flipping latitude into page coordinates.
type transform struct {
	env  model.Envelope
	s    float64
	x0   float64
	yTop float64
	offX float64
	offY float64
}

func newTransform(env model.Envelope, plot plotRect) transform {
	sx := plot.w / env.Width()
	sy := plot.h / env.Height()
	s := math.Min(sx, sy)
	return transform{
		env:  env,
		s:    s,
		x0:   plot.x,
		yTop: plot.y + plot.h,
		offX: (plot.w - env.Width()*s) / 2,
		offY: (plot.h - env.Height()*s) / 2,
	}
}

func (t transform) point(p orb.Point) (float64, float64) {
	x := t.x0 + t.offX + (p[0]-t.env.MinLon)*t.s
	y := t.yTop - t.offY - (p[1]-t.env.MinLat)*t.s
	return x, y
}

func drawGeometry(pdf *gofpdf.Fpdf, tr transform, g orb.Geometry, st model.Style) {
	pdf.SetAlpha(st.Alpha, "Normal")
	pdf.SetLineWidth(st.StrokeWidth)
	pdf.SetDrawColor(st.Stroke.R, st.Stroke.G, st.Stroke.B)
	if st.Filled {
		pdf.SetFillColor(st.Fill.R, st.Fill.G, st.Fill.B)
	}

	switch geom := g.(type) {
	case orb.Point:
		x, y := tr.point(geom)
		styleStr := "D"
		if st.Filled {
			styleStr = "FD"
		}
		pdf.Circle(x, y, math.Max(st.StrokeWidth, 3), styleStr)
	case orb.MultiPoint:
		for _, p := range geom {
			drawGeometry(pdf, tr, p, st)
		}
	case orb.LineString:
		tracePath(pdf, tr, geom, false)
		pdf.DrawPath("D")
	case orb.MultiLineString:
		for _, ls := range geom {
			drawGeometry(pdf, tr, ls, st)
		}
	case orb.Polygon:
		for _, ring := range geom {
			tracePath(pdf, tr, orb.LineString(ring), true)
		}
		if st.Filled {
			pdf.DrawPath("FD")
		} else {
			pdf.DrawPath("D")
		}
	case orb.MultiPolygon:
		for _, poly := range geom {
			drawGeometry(pdf, tr, poly, st)
		}
	case orb.Collection:
		for _, sub := range geom {
			drawGeometry(pdf, tr, sub, st)
		}
	case orb.Bound:
		drawGeometry(pdf, tr, geom.ToPolygon(), st)
	}
}

func tracePath(pdf *gofpdf.Fpdf, tr transform, ls orb.LineString, closed bool) {
	if len(ls) == 0 {
		return
	}
	x, y := tr.point(ls[0])
	pdf.MoveTo(x, y)
	for _, p := range ls[1:] {
		x, y = tr.point(p)
		pdf.LineTo(x, y)
	}
	if closed {
		pdf.ClosePath()
	}
}

func drawLabels(pdf *gofpdf.Fpdf, tr transform, plot plotRect, labels []model.LabelPlacement) {
	if len(labels) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "", labelFontSize)
	c := style.LabelColor
	pdf.SetTextColor(c.R, c.G, c.B)
	pdf.SetAlpha(1, "Normal")

	for _, l := range labels {
		x, y := tr.point(l.At)
		if x < plot.x || x > plot.x+plot.w || y < plot.y || y > plot.y+plot.h {
			continue
		}
		w := pdf.GetStringWidth(l.Text)
		pdf.TransformBegin()
		pdf.TransformRotate(l.AngleDeg, x, y)
		pdf.Text(x-w/2, y, l.Text)
		pdf.TransformEnd()
	}
}

// drawFurniture writes the title, a scale annotation and a north arrow in
// the page margin, outside the clipped plot area.
func (r *Renderer) drawFurniture(pdf *gofpdf.Fpdf, env model.Envelope, plot plotRect, pageW float64) {
	title := r.opts.Title
	if title == "" {
		title = "Map Document"
	}
	pdf.SetAlpha(1, "Normal")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(plot.x, pageMargin+4, title)

	// approximate ground width of the visible extent
	west := orb.Point{env.MinLon, (env.MinLat + env.MaxLat) / 2}
	east := orb.Point{env.MaxLon, (env.MinLat + env.MaxLat) / 2}
	km := geo.Distance(west, east) / 1000
	pdf.SetFont("Helvetica", "", 8)
	scaleTxt := fmt.Sprintf("extent width %.1f km", km)
	pdf.Text(plot.x, plot.y+plot.h+14, scaleTxt)

	// north arrow
	ax := pageW - pageMargin - 10
	ay := pageMargin + 4
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(0, 0, 0)
	pdf.SetLineWidth(0.8)
	pdf.Line(ax, ay, ax, ay+12)
	pdf.Polygon([]gofpdf.PointType{
		{X: ax, Y: ay - 4},
		{X: ax - 3, Y: ay + 2},
		{X: ax + 3, Y: ay + 2},
	}, "F")
	pdf.Text(ax-3, ay+22, "N")

	drawLegend(pdf, plot, pageW)
}

// drawLegend lists the main layer swatches in the bottom margin, right of
// the scale annotation.
func drawLegend(pdf *gofpdf.Fpdf, plot plotRect, pageW float64) {
	entries := []struct {
		label string
		fill  model.RGB
		line  bool
	}{
		{"User geometry", style.User().Fill, false},
		{"Streets", style.ForStreet(model.ClassPrimary).Stroke, true},
		{"Buildings", style.Building().Fill, false},
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)

	x := pageW - pageMargin
	y := plot.y + plot.h + 8
	// right-aligned, last entry first
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		w := pdf.GetStringWidth(e.label)
		x -= w + 26
		if e.line {
			pdf.SetDrawColor(e.fill.R, e.fill.G, e.fill.B)
			pdf.SetLineWidth(2)
			pdf.Line(x, y+4, x+10, y+4)
		} else {
			pdf.SetFillColor(e.fill.R, e.fill.G, e.fill.B)
			pdf.SetDrawColor(120, 120, 120)
			pdf.SetLineWidth(0.3)
			pdf.Rect(x, y, 10, 8, "FD")
		}
		pdf.Text(x+14, y+7, e.label)
	}
}

func writeAtomic(pdf *gofpdf.Fpdf, outPath string) error {
	dir := filepath.Dir(outPath)
	tmp, err := os.CreateTemp(dir, ".mapdoc-*.pdf")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpName := tmp.Name()

	if err := pdf.OutputAndClose(tmp); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write pdf: %w", err)
	}
	if err := os.Rename(tmpName, outPath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("move output into place: %w", err)
	}
	return nil
}
