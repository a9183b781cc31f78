package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forecastwatch/internal/record"
	"forecastwatch/internal/registry"
)

func testClientConfig() ClientConfig {
	return ClientConfig{Timeout: 2 * time.Second, MaxRetries: 1}
}

func wbTestSource(baseURL string) registry.Source {
	return registry.Source{
		ID:      "world-bank",
		Name:    "World Bank",
		Kind:    registry.KindAgency,
		BaseURL: baseURL,
		Caps:    registry.Capabilities{Historical: true, Actuals: true},
	}
}

const wbGDPBody = `[
  {"page": 1, "pages": 1, "per_page": 100, "total": 1},
  [
    {"indicator": {"id": "NY.GDP.MKTP.KD.ZG"}, "date": "2000", "value": 5.9},
    {"indicator": {"id": "NY.GDP.MKTP.KD.ZG"}, "date": "1999", "value": 8.8}
  ]
]`

func TestWorldBankFetchActual(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "NY.GDP.MKTP.KD.ZG")
		assert.Equal(t, "2000", r.URL.Query().Get("date"))
		w.Write([]byte(wbGDPBody))
	}))
	defer srv.Close()

	f := NewWorldBankFetcher(wbTestSource(srv.URL), testClientConfig())
	got, err := f.FetchActual(context.Background(), 2000, record.Economy)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "GDP Growth Rate", got.Metric)
	assert.InDelta(t, 5.9, got.Actual.Amount, 1e-9)
	assert.Equal(t, "%", got.Actual.Unit)
	assert.Equal(t, 2000, got.Year)
	assert.Equal(t, record.SourceID("world-bank"), got.Source)
	assert.Contains(t, got.ProvenanceURL, "NY.GDP.MKTP.KD.ZG")
}

func TestWorldBankFetchHistorical(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{}, [{"date": "1975", "value": 9.15}]]`))
	}))
	defer srv.Close()

	f := NewWorldBankFetcher(wbTestSource(srv.URL), testClientConfig())
	got, err := f.FetchHistorical(context.Background(), 1975, 2000, record.Economy)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, 1975, got[0].ForecastYear)
	assert.Equal(t, 2000, got[0].TargetYear)
	assert.InDelta(t, 9.15, got[0].Predicted.Amount, 1e-9)
}

func TestWorldBankNullObservation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{}, [{"date": "2000", "value": null}]]`))
	}))
	defer srv.Close()

	f := NewWorldBankFetcher(wbTestSource(srv.URL), testClientConfig())
	got, err := f.FetchActual(context.Background(), 2000, record.Economy)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWorldBankUncoveredSectorSkipsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an uncovered sector")
	}))
	defer srv.Close()

	f := NewWorldBankFetcher(wbTestSource(srv.URL), testClientConfig())
	got, err := f.FetchHistorical(context.Background(), 1975, 2000, record.Infrastructure)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWorldBankMalformedEnvelope(t *testing.T) {
	for name, body := range map[string]string{
		"not json":     `<html>maintenance</html>`,
		"missing data": `[{"page": 1}]`,
		"bad entries":  `[{}, {"date": "2000"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			f := NewWorldBankFetcher(wbTestSource(srv.URL), testClientConfig())
			_, err := f.FetchActual(context.Background(), 2000, record.Economy)
			assert.True(t, IsParse(err), "want parse error, got %v", err)
		})
	}
}

func TestWorldBankNoCurrentCapability(t *testing.T) {
	f := NewWorldBankFetcher(wbTestSource("http://unused"), testClientConfig())
	got, err := f.FetchCurrent(context.Background(), 2030, record.Economy)
	require.NoError(t, err)
	assert.Nil(t, got)
}
