// Package fetch pulls the four context layers for an envelope from the
// spatial-data provider, with per-category failure isolation.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/cache"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/cache/keys"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/model"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/observability"
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/logger"
	h3mapper "github.com/Himanshu-Designing/ds-map-PDF-creation/internal/mapper/h3"
)

type Options struct {
	Cache          cache.Store // nil disables caching
	H3Res          int
	TTL            time.Duration
	CacheOpTimeout time.Duration
	Parallel       bool
}

type Fetcher struct {
	logger *slog.Logger
	src    Source
	mapr   *h3mapper.Mapper
	opts   Options
}

func New(logger *slog.Logger, src Source, opts Options) *Fetcher {
	if opts.CacheOpTimeout <= 0 {
		opts.CacheOpTimeout = 250 * time.Millisecond
	}
	return &Fetcher{
		logger: logger,
		src:    src,
		mapr:   h3mapper.New(),
		opts:   opts,
	}
}

// FetchAll resolves all four context categories for the padded envelope.
// A failed query degrades its category to an empty layer and is recorded on
// the result; it never fails the run. The only returned error is context
// cancellation.
func (f *Fetcher) FetchAll(ctx context.Context, env model.Envelope) (model.LayerSet, error) {
	cats := model.Categories()
	layers := make([]model.Layer, len(cats))
	degraded := make([]bool, len(cats))

	if f.opts.Parallel {
		var wg sync.WaitGroup
		for i, cat := range cats {
			wg.Add(1)
			go func(i int, cat model.Category) {
				defer wg.Done()
				layers[i], degraded[i] = f.fetchOne(ctx, cat, env)
			}(i, cat)
		}
		wg.Wait()
	} else {
		for i, cat := range cats {
			layers[i], degraded[i] = f.fetchOne(ctx, cat, env)
		}
	}

	if err := ctx.Err(); err != nil {
		return model.LayerSet{}, fmt.Errorf("fetch canceled: %w", err)
	}

	out := model.LayerSet{
		Water:      layers[0],
		Greenspace: layers[1],
		Buildings:  layers[2],
		Streets:    layers[3],
	}
	for i, cat := range cats {
		if degraded[i] {
			out.Degraded = append(out.Degraded, cat)
		}
		observability.SetLayerFeatures(string(cat), len(layers[i].Features))
	}
	return out, nil
}

// fetchOne returns the layer for one category and whether it degraded.
func (f *Fetcher) fetchOne(ctx context.Context, cat model.Category, env model.Envelope) (model.Layer, bool) {
	layer := model.Layer{Category: cat}
	ctx = logger.WithCategory(ctx, string(cat))

	key, haveKey := f.cacheKey(cat, env)
	if haveKey {
		if feats, ok := f.cacheGet(ctx, key); ok {
			f.logger.DebugContext(ctx, "context cache hit", "features", len(feats))
			observability.IncFetchOutcome(string(cat), "cached")
			layer.Features = feats
			return layer, false
		}
	}

	feats, err := f.src.Fetch(ctx, cat, env)
	if err != nil {
		ferr := &model.FetchError{Category: cat, Err: err}
		f.logger.WarnContext(ctx, "context query failed, rendering without this layer", "err", ferr)
		observability.IncFetchOutcome(string(cat), "degraded")
		return layer, true
	}

	outcome := "ok"
	if len(feats) == 0 {
		// legitimately empty extent for this category
		outcome = "empty"
	}
	observability.IncFetchOutcome(string(cat), outcome)
	f.logger.DebugContext(ctx, "context query done", "features", len(feats))

	if haveKey {
		f.cachePut(ctx, key, feats)
	}
	layer.Features = feats
	return layer, false
}

func (f *Fetcher) cacheKey(cat model.Category, env model.Envelope) (string, bool) {
	if f.opts.Cache == nil {
		return "", false
	}
	cells, err := f.mapr.CellsForEnvelope(env, f.opts.H3Res)
	if err != nil {
		f.logger.Debug("cell mapping failed, skipping cache", "err", err)
		return "", false
	}
	return keys.Key(string(cat), f.opts.H3Res, cells), true
}

func (f *Fetcher) cacheGet(ctx context.Context, key string) ([]model.Feature, bool) {
	opCtx, cancel := context.WithTimeout(ctx, f.opts.CacheOpTimeout)
	defer cancel()

	raw, ok, err := f.opts.Cache.Get(opCtx, key)
	if err != nil || !ok {
		if err != nil {
			f.logger.Debug("cache get failed", "key", key, "err", err)
		}
		return nil, false
	}
	feats, err := decodeFeatures(raw)
	if err != nil {
		f.logger.Debug("cache entry undecodable, refetching", "key", key, "err", err)
		return nil, false
	}
	return feats, true
}

func (f *Fetcher) cachePut(ctx context.Context, key string, feats []model.Feature) {
	raw, err := encodeFeatures(feats)
	if err != nil {
		f.logger.Debug("cache encode failed", "key", key, "err", err)
		return
	}
	opCtx, cancel := context.WithTimeout(ctx, f.opts.CacheOpTimeout)
	defer cancel()
	if err := f.opts.Cache.Set(opCtx, key, raw, f.opts.TTL); err != nil {
		f.logger.Debug("cache set failed", "key", key, "err", err)
	}
}

// cachedFeature is the wire form of a context feature in the cache.
type cachedFeature struct {
	ID       string            `json:"id"`
	Geometry *geojson.Geometry `json:"geometry"`
	Tags     map[string]string `json:"tags,omitempty"`
}

func encodeFeatures(feats []model.Feature) ([]byte, error) {
	enc := make([]cachedFeature, 0, len(feats))
	for _, f := range feats {
		enc = append(enc, cachedFeature{
			ID:       f.ID,
			Geometry: geojson.NewGeometry(f.Geometry),
			Tags:     f.Tags,
		})
	}
	return json.Marshal(enc)
}

func decodeFeatures(raw []byte) ([]model.Feature, error) {
	var enc []cachedFeature
	if err := json.Unmarshal(raw, &enc); err != nil {
		return nil, fmt.Errorf("decode cached features: %w", err)
	}
	out := make([]model.Feature, 0, len(enc))
	for _, c := range enc {
		if c.Geometry == nil {
			continue
		}
		out = append(out, model.Feature{
			ID:       c.ID,
			Geometry: c.Geometry.Geometry(),
			Tags:     c.Tags,
		})
	}
	return out, nil
}
