package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/onnwee/quorum/internal/content"
	"github.com/onnwee/quorum/internal/profile"
)

// Pagination bounds.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// RecommendedItem is a hydrated question with its fused score attached.
type RecommendedItem struct {
	content.Item
	Score float64 `json:"score"`
}

// Page is one page of recommendations.
type Page struct {
	Items   []RecommendedItem `json:"items"`
	HasNext bool              `json:"has_next"`
}

// EngineOptions carries the optional collaborators of an Engine.
type EngineOptions struct {
	// Cache, when set, serves repeat requests for the same page without
	// rescoring. Staleness within the TTL is acceptable by design.
	Cache *PageCache
	// Metrics, when set, records request counts and durations.
	Metrics *Metrics
	// Logger for engine activity. Defaults to slog.Default().
	Logger *slog.Logger
}

// Engine fuses the three recommendation signals into ranked, paginated,
// hydrated result pages.
type Engine struct {
	cbf      *ContentBased
	cf       *Collaborative
	pop      *Popularity
	contents content.Repository
	weights  *Weights
	cache    *PageCache
	metrics  *Metrics
	logger   *slog.Logger
}

// NewEngine creates an Engine over the given profile and content stores.
// Nil weights mean defaults.
func NewEngine(profiles profile.Reader, contents content.Repository, weights *Weights, opts EngineOptions) *Engine {
	if weights == nil {
		weights = DefaultWeights()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cbf:      &ContentBased{Profiles: profiles, Contents: contents},
		cf:       &Collaborative{Profiles: profiles},
		pop:      &Popularity{Contents: contents},
		contents: contents,
		weights:  weights,
		cache:    opts.Cache,
		metrics:  opts.Metrics,
		logger:   logger,
	}
}

// Recommend returns one page of recommendations for a user. An empty user
// id yields an empty page rather than an error. The three scorers run
// concurrently; if any of them fails the whole call fails, since fusing
// with a silently-zeroed signal would skew the weights unnoticed.
func (e *Engine) Recommend(ctx context.Context, userID string, page, pageSize int) (*Page, error) {
	start := time.Now()
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	if userID == "" {
		return &Page{Items: []RecommendedItem{}}, nil
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, userID, page, pageSize); ok {
			if e.metrics != nil {
				e.metrics.RecordCacheHit()
			}
			return cached, nil
		}
		if e.metrics != nil {
			e.metrics.RecordCacheMiss()
		}
	}

	var cbfScores, cfScores, popScores []Score
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		cbfScores, err = e.cbf.Score(egCtx, userID)
		return err
	})
	eg.Go(func() error {
		var err error
		cfScores, err = e.cf.Score(egCtx, userID)
		return err
	})
	eg.Go(func() error {
		var err error
		popScores, err = e.pop.Score(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		if e.metrics != nil {
			e.metrics.RecordError()
		}
		return nil, fmt.Errorf("recommendation scoring failed: %w", err)
	}

	retained := e.fuse(cbfScores, cfScores, popScores)

	skip := (page - 1) * pageSize
	end := skip + pageSize
	if skip > len(retained) {
		skip = len(retained)
	}
	if end > len(retained) {
		end = len(retained)
	}
	window := retained[skip:end]
	hasNext := len(retained) > skip+len(window)

	items, err := e.hydrate(ctx, window)
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordError()
		}
		return nil, err
	}

	result := &Page{Items: items, HasNext: hasNext}
	if e.cache != nil {
		e.cache.Set(ctx, userID, page, pageSize, result)
	}
	if e.metrics != nil {
		e.metrics.RecordRequest(time.Since(start).Seconds(), len(retained))
	}
	e.logger.Debug("recommendation page computed",
		slog.String("user_id", userID),
		slog.Int("page", page),
		slog.Int("retained", len(retained)),
		slog.Int("returned", len(items)))
	return result, nil
}

// fuse merges the three score sets over the union of their content ids,
// applies the fusion weights, drops everything at or below the threshold,
// and returns the survivors in rank order.
func (e *Engine) fuse(cbf, cf, pop []Score) []Score {
	cbfMap := scoreMap(cbf)
	cfMap := scoreMap(cf)
	popMap := scoreMap(pop)

	union := make(map[string]struct{}, len(cbfMap)+len(cfMap)+len(popMap))
	for id := range cbfMap {
		union[id] = struct{}{}
	}
	for id := range cfMap {
		union[id] = struct{}{}
	}
	for id := range popMap {
		union[id] = struct{}{}
	}

	retained := make([]Score, 0, len(union))
	for id := range union {
		fused := e.weights.CBF*cbfMap[id] +
			e.weights.CF*cfMap[id] +
			e.weights.Popularity*popMap[id]
		if fused > e.weights.Threshold {
			retained = append(retained, Score{ContentID: id, Value: fused})
		}
	}

	sort.Slice(retained, func(i, j int) bool {
		if retained[i].Value != retained[j].Value {
			return retained[i].Value > retained[j].Value
		}
		return retained[i].ContentID < retained[j].ContentID
	})
	return retained
}

// hydrate loads the full question records for a ranked window and attaches
// the fused scores, preserving rank order. Questions deleted between
// scoring and hydration are skipped.
func (e *Engine) hydrate(ctx context.Context, window []Score) ([]RecommendedItem, error) {
	if len(window) == 0 {
		return []RecommendedItem{}, nil
	}
	ids := make([]string, len(window))
	for i, s := range window {
		ids[i] = s.ContentID
	}
	records, err := e.contents.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate recommendations: %w", err)
	}
	byID := make(map[string]*content.Item, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	items := make([]RecommendedItem, 0, len(window))
	for _, s := range window {
		rec, ok := byID[s.ContentID]
		if !ok {
			continue
		}
		items = append(items, RecommendedItem{Item: *rec, Score: s.Value})
	}
	return items, nil
}
