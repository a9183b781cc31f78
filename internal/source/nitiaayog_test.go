package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forecastwatch/internal/record"
	"forecastwatch/internal/registry"
)

func TestNITIAayogTrackedTarget(t *testing.T) {
	f := NewNITIAayogFetcher(registry.Source{
		ID: "niti-aayog", Kind: registry.KindGovernment,
		BaseURL: "https://niti.example.org",
		Caps:    registry.Capabilities{Current: true},
	})

	got, err := f.FetchCurrent(context.Background(), 2030, record.Energy)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Renewable Energy Capacity", got.Metric)
	assert.InDelta(t, 450, got.Target.Amount, 1e-9)
	assert.InDelta(t, 118, got.CurrentProgress.Amount, 1e-9)
	assert.Equal(t, 2019, got.AnnouncementYear)
	assert.Equal(t, "https://niti.example.org/renewable-energy-targets", got.ProvenanceURL)
}

func TestNITIAayogTargetYearMustMatch(t *testing.T) {
	f := NewNITIAayogFetcher(registry.Source{ID: "niti-aayog"})

	got, err := f.FetchCurrent(context.Background(), 2040, record.Energy)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = f.FetchCurrent(context.Background(), 2030, record.Agriculture)
	require.NoError(t, err)
	assert.Nil(t, got)
}
