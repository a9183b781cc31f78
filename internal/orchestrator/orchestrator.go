// Package orchestrator fans logical queries (sectors × sources × years)
// out across the registered source fetchers, routing every call through
// the cache and merging per-sector results.
//
// Failures degrade, never abort: a fetcher error for one (sector,
// source) pair is logged and that pair is absent from the result map, so
// callers can always tell "no data" from "value present".
package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"forecastwatch/internal/cache"
	"forecastwatch/internal/record"
	"forecastwatch/internal/source"
)

// Config bounds the orchestrator's outbound behavior. All values are
// externally supplied; see DefaultConfig for the documented defaults.
type Config struct {
	// LiveTTL caches queries touching the current or a future year.
	LiveTTL time.Duration
	// HistoricalTTL caches queries entirely in the past. Historical data
	// does not change, so this is effectively infinite for a
	// process-lifetime cache.
	HistoricalTTL time.Duration
	// Concurrency caps simultaneous outbound fetches across all sources.
	Concurrency int
	// InterRequestDelay is the minimum spacing between requests to the
	// same source. Exceeding a source's implicit rate limit degrades
	// data quality for every later query against it.
	InterRequestDelay time.Duration
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		LiveTTL:           time.Hour,
		HistoricalTTL:     720 * time.Hour,
		Concurrency:       8,
		InterRequestDelay: time.Second,
	}
}

// Orchestrator coordinates fetchers, cache, and rate limits. Register
// fetchers once at startup; adding a source never changes the fan-out
// logic.
type Orchestrator struct {
	cfg      Config
	cache    *cache.Cache
	logger   *slog.Logger
	now      func() time.Time
	fetchers map[record.SourceID]source.Fetcher

	mu       sync.Mutex
	limiters map[record.SourceID]*rate.Limiter
}

// New builds an orchestrator. A nil logger discards output.
func New(cfg Config, c *cache.Cache, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{
		cfg:      cfg,
		cache:    c,
		logger:   logger,
		now:      time.Now,
		fetchers: make(map[record.SourceID]source.Fetcher),
		limiters: make(map[record.SourceID]*rate.Limiter),
	}
}

// WithClock overrides the clock used for TTL selection. Tests use it to
// pin the current year.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Register adds a fetcher. Later registrations for the same ID replace
// earlier ones.
func (o *Orchestrator) Register(f source.Fetcher) {
	o.fetchers[f.Source().ID] = f
}

// FetchHistoricalForecasts returns forecasts made at forecastYear about
// targetYear, grouped by sector, merged across the requested sources.
func (o *Orchestrator) FetchHistoricalForecasts(ctx context.Context, forecastYear, targetYear int, sectors []record.Sector, sources []record.SourceID) map[record.Sector][]record.ForecastRecord {
	years := []int{forecastYear, targetYear}
	return fanOut(o, ctx, sectors, sources, func(ctx context.Context, f source.Fetcher, sec record.Sector) ([]record.ForecastRecord, error) {
		key := cache.Key("historical", years, []string{string(sec)}, []string{string(f.Source().ID)})
		return cache.GetOrFetch(ctx, o.cache, key, o.ttlFor(targetYear), func(ctx context.Context) ([]record.ForecastRecord, error) {
			return f.FetchHistorical(ctx, forecastYear, targetYear, sec)
		})
	})
}

// FetchActualOutcomes returns realized outcomes for targetYear grouped
// by sector, drawn from every registered source with the actuals
// capability.
func (o *Orchestrator) FetchActualOutcomes(ctx context.Context, targetYear int, sectors []record.Sector) map[record.Sector][]record.ActualRecord {
	var sources []record.SourceID
	for id, f := range o.fetchers {
		if f.Source().Caps.Actuals {
			sources = append(sources, id)
		}
	}
	years := []int{targetYear}
	return fanOut(o, ctx, sectors, sources, func(ctx context.Context, f source.Fetcher, sec record.Sector) ([]record.ActualRecord, error) {
		key := cache.Key("actuals", years, []string{string(sec)}, []string{string(f.Source().ID)})
		return cache.GetOrFetch(ctx, o.cache, key, o.ttlFor(targetYear), func(ctx context.Context) ([]record.ActualRecord, error) {
			rec, err := f.FetchActual(ctx, targetYear, sec)
			if err != nil || rec == nil {
				return nil, err
			}
			return []record.ActualRecord{*rec}, nil
		})
	})
}

// FetchCurrentPredictions returns unresolved predictions targeting
// targetYear, grouped by sector, merged across the requested sources.
func (o *Orchestrator) FetchCurrentPredictions(ctx context.Context, targetYear int, sectors []record.Sector, sources []record.SourceID) map[record.Sector][]record.Prediction {
	years := []int{targetYear}
	return fanOut(o, ctx, sectors, sources, func(ctx context.Context, f source.Fetcher, sec record.Sector) ([]record.Prediction, error) {
		key := cache.Key("current", years, []string{string(sec)}, []string{string(f.Source().ID)})
		return cache.GetOrFetch(ctx, o.cache, key, o.cfg.LiveTTL, func(ctx context.Context) ([]record.Prediction, error) {
			p, err := f.FetchCurrent(ctx, targetYear, sec)
			if err != nil || p == nil {
				return nil, err
			}
			return []record.Prediction{*p}, nil
		})
	})
}

// ttlFor picks the cache TTL for a query: long for settled history,
// short for anything touching the current or a future year.
func (o *Orchestrator) ttlFor(maxYear int) time.Duration {
	if maxYear < o.now().Year() {
		return o.cfg.HistoricalTTL
	}
	return o.cfg.LiveTTL
}

// limiter returns the per-source limiter, creating it on first use.
func (o *Orchestrator) limiter(id record.SourceID) *rate.Limiter {
	o.mu.Lock()
	defer o.mu.Unlock()
	l, ok := o.limiters[id]
	if !ok {
		l = rate.NewLimiter(rate.Every(o.cfg.InterRequestDelay), 1)
		o.limiters[id] = l
	}
	return l
}

type pairResult[T any] struct {
	sector record.Sector
	items  []T
}

// fanOut runs one task per (sector, source) pair under the concurrency
// cap and per-source rate limits, merging successes into a sector map.
//
// Tasks run on a context detached from the caller so an abandoned batch
// still completes and populates the cache; the collector stops waiting
// as soon as the caller's context is done and returns whatever has
// merged by then.
func fanOut[T any](o *Orchestrator, ctx context.Context, sectors []record.Sector, sources []record.SourceID, run func(ctx context.Context, f source.Fetcher, sec record.Sector) ([]T, error)) map[record.Sector][]T {
	type task struct {
		sector record.Sector
		src    record.SourceID
	}
	var tasks []task
	for _, sec := range sectors {
		for _, src := range sources {
			tasks = append(tasks, task{sector: sec, src: src})
		}
	}

	ch := make(chan pairResult[T], len(tasks))
	var g errgroup.Group
	if o.cfg.Concurrency > 0 {
		g.SetLimit(o.cfg.Concurrency)
	}

	detached := context.WithoutCancel(ctx)
	for _, t := range tasks {
		f, ok := o.fetchers[t.src]
		if !ok {
			o.logger.Debug("no fetcher registered", "source", t.src)
			continue
		}
		g.Go(func() error {
			if err := o.limiter(t.src).Wait(detached); err != nil {
				return nil
			}
			items, err := run(detached, f, t.sector)
			if err != nil {
				o.logger.Warn("fetch failed",
					"source", t.src, "sector", t.sector, "err", err,
					"transient", source.IsUnavailable(err))
				return nil
			}
			if len(items) > 0 {
				ch <- pairResult[T]{sector: t.sector, items: items}
			}
			return nil
		})
	}
	go func() {
		g.Wait() //nolint:errcheck // tasks never return errors
		close(ch)
	}()

	out := make(map[record.Sector][]T)
	for {
		select {
		case res, ok := <-ch:
			if !ok {
				return out
			}
			out[res.sector] = append(out[res.sector], res.items...)
		case <-ctx.Done():
			o.logger.Debug("batch abandoned", "pending", len(tasks))
			return out
		}
	}
}
