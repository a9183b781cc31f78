// Package registry is the static catalog of known data sources: their
// endpoints, capability sets, and trust tiers. It is read-only after
// initialization and has no dependencies beyond the data model.
package registry

import (
	"sort"

	"forecastwatch/internal/record"
)

// Kind groups sources into the categories used for trust ranking.
type Kind string

const (
	KindGovernment Kind = "government"
	KindAgency     Kind = "agency"
	KindNews       Kind = "news"
)

// Trust tiers form a fixed total order across kinds: government primary
// sources outrank international agencies, which outrank news archives.
const (
	TierNews       = 1
	TierAgency     = 2
	TierGovernment = 3
)

// Capabilities declares which fetch operations a source supports. A
// missing capability means the source answers with an empty result, not
// an error.
type Capabilities struct {
	Historical bool
	Actuals    bool
	Current    bool
}

// Source describes one catalog entry.
type Source struct {
	ID      record.SourceID
	Name    string
	Kind    Kind
	BaseURL string
	FeedURL string
	Caps    Capabilities
}

// Tier returns the source's trust tier.
func (s Source) Tier() int {
	switch s.Kind {
	case KindGovernment:
		return TierGovernment
	case KindAgency:
		return TierAgency
	default:
		return TierNews
	}
}

// Well-known source IDs.
const (
	RBI                record.SourceID = "rbi"
	MoSPI              record.SourceID = "mospi"
	NITIAayog          record.SourceID = "niti-aayog"
	PIB                record.SourceID = "pib"
	PlanningCommission record.SourceID = "planning-commission"
	WorldBank          record.SourceID = "world-bank"
	IEA                record.SourceID = "iea"
	UNDESA             record.SourceID = "un-desa"
	EconomicTimes      record.SourceID = "economic-times"
	TheHindu           record.SourceID = "the-hindu"
	Reuters            record.SourceID = "reuters"
	Mint               record.SourceID = "mint"
)

// Registry is the lookup table over the catalog.
type Registry struct {
	sources map[record.SourceID]Source
}

// Default returns the built-in catalog.
func Default() *Registry {
	return New([]Source{
		{
			ID: RBI, Name: "Reserve Bank of India", Kind: KindGovernment,
			BaseURL: "https://www.rbi.org.in",
			FeedURL: "https://www.rbi.org.in/scripts/rss.aspx",
			Caps:    Capabilities{Current: true},
		},
		{
			ID: MoSPI, Name: "Ministry of Statistics", Kind: KindGovernment,
			BaseURL: "https://www.mospi.gov.in",
			Caps:    Capabilities{Actuals: true},
		},
		{
			ID: NITIAayog, Name: "NITI Aayog", Kind: KindGovernment,
			BaseURL: "https://www.niti.gov.in",
			Caps:    Capabilities{Current: true},
		},
		{
			ID: PIB, Name: "Press Information Bureau", Kind: KindGovernment,
			BaseURL: "https://pib.gov.in",
			Caps:    Capabilities{Current: true},
		},
		{
			ID: PlanningCommission, Name: "Planning Commission", Kind: KindGovernment,
			BaseURL: "https://www.niti.gov.in/planningcommission.gov.in",
			Caps:    Capabilities{Historical: true},
		},
		{
			ID: WorldBank, Name: "World Bank", Kind: KindAgency,
			BaseURL: "https://api.worldbank.org/v2/country/IND/indicator",
			Caps:    Capabilities{Historical: true, Actuals: true},
		},
		{
			ID: IEA, Name: "International Energy Agency", Kind: KindAgency,
			BaseURL: "https://www.iea.org",
			Caps:    Capabilities{Current: true},
		},
		{
			ID: UNDESA, Name: "UN DESA", Kind: KindAgency,
			BaseURL: "https://www.un.org/development/desa",
			Caps:    Capabilities{Actuals: true},
		},
		{
			ID: EconomicTimes, Name: "Economic Times", Kind: KindNews,
			BaseURL: "https://economictimes.indiatimes.com",
			FeedURL: "https://economictimes.indiatimes.com/rssfeedstopstories.cms",
			Caps:    Capabilities{Historical: true, Current: true},
		},
		{
			ID: TheHindu, Name: "The Hindu", Kind: KindNews,
			BaseURL: "https://www.thehindu.com",
			FeedURL: "https://www.thehindu.com/news/national/feeder/default.rss",
			Caps:    Capabilities{Historical: true, Current: true},
		},
		{
			ID: Reuters, Name: "Reuters", Kind: KindNews,
			BaseURL: "https://www.reuters.com",
			Caps:    Capabilities{Current: true},
		},
		{
			ID: Mint, Name: "Mint", Kind: KindNews,
			BaseURL: "https://www.livemint.com",
			Caps:    Capabilities{Current: true},
		},
	})
}

// New builds a registry from an explicit catalog.
func New(sources []Source) *Registry {
	r := &Registry{sources: make(map[record.SourceID]Source, len(sources))}
	for _, s := range sources {
		r.sources[s.ID] = s
	}
	return r
}

// Lookup returns the catalog entry for an ID.
func (r *Registry) Lookup(id record.SourceID) (Source, bool) {
	s, ok := r.sources[id]
	return s, ok
}

// Tier returns the trust tier for an ID, or 0 for unknown sources so
// they always lose ties against cataloged ones.
func (r *Registry) Tier(id record.SourceID) int {
	s, ok := r.sources[id]
	if !ok {
		return 0
	}
	return s.Tier()
}

// All returns the catalog sorted by ID.
func (r *Registry) All() []Source {
	out := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
