package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"forecastwatch/internal/cache"
	"forecastwatch/internal/classify"
	"forecastwatch/internal/config"
	"forecastwatch/internal/likelihood"
	"forecastwatch/internal/orchestrator"
	"forecastwatch/internal/record"
	"forecastwatch/internal/registry"
	"forecastwatch/internal/source"
)

// app wires the registry, cache, orchestrator, and engines from loaded
// configuration. Built once per command invocation.
type app struct {
	cfg        *config.Config
	reg        *registry.Registry
	orch       *orchestrator.Orchestrator
	classifier *classify.Engine
	scorer     *likelihood.Engine
}

func newApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	reg := registry.Default()
	logger := newLogger()

	orch := orchestrator.New(orchestrator.Config{
		LiveTTL:           cfg.LiveTTLDuration(),
		HistoricalTTL:     cfg.HistoricalTTLDuration(),
		Concurrency:       cfg.Concurrency,
		InterRequestDelay: cfg.InterRequestDelayDuration(),
	}, cache.New(), logger)

	clientCfg := source.ClientConfig{
		Timeout:    cfg.RequestTimeoutDuration(),
		MaxRetries: cfg.MaxRetries,
	}
	for _, id := range cfg.EnabledSources() {
		src, ok := reg.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("config enables unknown source %q", id)
		}
		f, err := newFetcher(src, clientCfg)
		if err != nil {
			return nil, err
		}
		orch.Register(f)
	}

	thresholds := classify.DefaultThresholds()
	if cfg.Bands != (config.Bands{}) {
		thresholds = classify.Thresholds{
			Strict:   cfg.Bands.Strict,
			Moderate: cfg.Bands.Moderate,
			Loose:    cfg.Bands.Loose,
		}
	}
	classifier, err := classify.New(reg, thresholds)
	if err != nil {
		return nil, err
	}

	scorerCfg := likelihood.DefaultConfig()
	if cfg.MinSampleSize > 0 {
		scorerCfg.MinSampleSize = cfg.MinSampleSize
	}

	return &app{
		cfg:        cfg,
		reg:        reg,
		orch:       orch,
		classifier: classifier,
		scorer:     likelihood.New(scorerCfg, nil),
	}, nil
}

// newFetcher maps a catalog entry to its adapter implementation.
func newFetcher(src registry.Source, cfg source.ClientConfig) (source.Fetcher, error) {
	switch src.ID {
	case registry.WorldBank:
		return source.NewWorldBankFetcher(src, cfg), nil
	case registry.RBI:
		return source.NewRBIFetcher(src, cfg), nil
	case registry.PlanningCommission:
		return source.NewPlanningCommissionFetcher(src), nil
	case registry.NITIAayog:
		return source.NewNITIAayogFetcher(src), nil
	}
	return nil, fmt.Errorf("no fetcher implemented for source %q", src.ID)
}

// band resolves the tolerance band: flag first, then config, then the
// moderate default.
func (a *app) band(flagBand string) (record.Band, error) {
	name := flagBand
	if name == "" {
		name = a.cfg.DefaultBand
	}
	if name == "" {
		return record.BandModerate, nil
	}
	return classify.ParseBand(name)
}

// parseSectors parses a comma-separated sector list; empty means all.
func parseSectors(csv string) ([]record.Sector, error) {
	if strings.TrimSpace(csv) == "" {
		return record.AllSectors(), nil
	}
	var out []record.Sector
	for _, part := range strings.Split(csv, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		matched := false
		for _, sec := range record.AllSectors() {
			if strings.EqualFold(string(sec), name) {
				out = append(out, sec)
				matched = true
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("unknown sector %q", name)
		}
	}
	return out, nil
}

// parseSources parses a comma-separated source-ID list; empty means
// every enabled source.
func (a *app) parseSources(csv string) ([]record.SourceID, error) {
	if strings.TrimSpace(csv) == "" {
		return a.cfg.EnabledSources(), nil
	}
	var out []record.SourceID
	for _, part := range strings.Split(csv, ",") {
		id := record.SourceID(strings.TrimSpace(part))
		if id == "" {
			continue
		}
		if _, ok := a.reg.Lookup(id); !ok {
			return nil, fmt.Errorf("unknown source %q", id)
		}
		out = append(out, id)
	}
	return out, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
