//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-season-scraper/internal/observability"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.mapbox.com/geocoding/v5/mapbox.places",
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_ForwardGeocode(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ForwardGeocode(context.Background(), "Mazatlán")
	require.NoError(t, err)

	assert.InDelta(t, 23.2, result.Lat, 0.5, "lat should be near Mazatlán")
	assert.InDelta(t, -106.4, result.Lon, 0.5, "lon should be near Mazatlán")
	assert.Contains(t, result.FormattedAddress, "Mazatlán")
	assert.Greater(t, result.Confidence, 0.5)
}

func TestSmoke_ForwardGeocode_Region(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ForwardGeocode(context.Background(), "Baja California Sur")
	require.NoError(t, err)
	assert.NotEmpty(t, result.FormattedAddress)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached, err := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())
	require.NoError(t, err)

	// First call: cache miss → real API call.
	r1, err := cached.ForwardGeocode(context.Background(), "Acapulco")
	require.NoError(t, err)
	assert.Contains(t, r1.FormattedAddress, "Acapulco")

	// Second call: cache hit → no API call.
	r2, err := cached.ForwardGeocode(context.Background(), "Acapulco")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
