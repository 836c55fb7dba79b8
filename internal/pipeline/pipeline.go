// Package pipeline wires the stages: normalize, fetch, compose, render.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/compose"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/config"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/observability"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/fetch"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/geoenv"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/logger"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/normalize"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/render"
)

type Pipeline struct {
	cfg      config.Config
	logger   *slog.Logger
	fetcher  *fetch.Fetcher
	renderer *render.Renderer
}

func New(cfg config.Config, logger *slog.Logger, fetcher *fetch.Fetcher, renderer *render.Renderer) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		logger:   logger,
		fetcher:  fetcher,
		renderer: renderer,
	}
}

// Run executes one batch render. Stages run strictly in sequence; a fetch
// degradation is logged but only normalizer and renderer errors abort.
func (p *Pipeline) Run(ctx context.Context) error {
	geoenv.Setup()

	nctx := logger.WithStage(ctx, "normalize")
	start := time.Now()
	n, err := normalize.Load(p.cfg.InputPath, p.cfg.PadFraction)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	observability.ObserveStage("normalize", time.Since(start).Seconds())
	p.logger.InfoContext(nctx, "input normalized",
		"path", p.cfg.InputPath,
		"features", len(n.Collection.Features),
		"envelope", n.Envelope.String(),
		"padded", n.Padded.String())

	fctx := logger.WithStage(ctx, "fetch")
	start = time.Now()
	layers, err := p.fetcher.FetchAll(fctx, n.Padded)
	if err != nil {
		return fmt.Errorf("fetch context: %w", err)
	}
	observability.ObserveStage("fetch", time.Since(start).Seconds())
	p.logger.InfoContext(fctx, "context fetched",
		"water", len(layers.Water.Features),
		"greenspace", len(layers.Greenspace.Features),
		"buildings", len(layers.Buildings.Features),
		"streets", len(layers.Streets.Features),
		"degraded", len(layers.Degraded))
	for _, cat := range layers.Degraded {
		p.logger.WarnContext(fctx, "context layer degraded to empty", "category", string(cat))
	}

	cctx := logger.WithStage(ctx, "compose")
	start = time.Now()
	scene := compose.Build(layers, n.Collection)
	observability.ObserveStage("compose", time.Since(start).Seconds())
	p.logger.InfoContext(cctx, "scene composed", "ops", len(scene.Ops), "labels", len(scene.Labels))

	if err := p.renderer.Render(scene, n.Padded, p.cfg.OutputPath); err != nil {
		return err
	}
	return nil
}
