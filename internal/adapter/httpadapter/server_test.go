package httpadapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-season-scraper/internal/adapter/httpadapter"
	"github.com/couchcryptid/storm-season-scraper/internal/domain"
)

type mockPipeline struct {
	err    error
	season *domain.Season
}

func (m *mockPipeline) CheckReadiness(_ context.Context) error { return m.err }

func (m *mockPipeline) LastSeason() (domain.Season, bool) {
	if m.season == nil {
		return domain.Season{}, false
	}
	return *m.season, true
}

func newTestServer(p *mockPipeline) *httpadapter.Server {
	return httpadapter.NewServer(":0", p, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func serve(srv *httpadapter.Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := serve(newTestServer(&mockPipeline{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := serve(newTestServer(&mockPipeline{}), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := serve(newTestServer(&mockPipeline{err: errors.New("no season has been scraped yet")}), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestServer(&mockPipeline{}), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestSeasonReturns404BeforeRun(t *testing.T) {
	rec := serve(newTestServer(&mockPipeline{}), "/season")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSeasonReturnsLastSeason(t *testing.T) {
	season := domain.Season{
		URL:  "https://en.wikipedia.org/wiki/1975_Pacific_hurricane_season",
		Year: 1975,
		Reports: []domain.StormReport{
			{ID: "storm-a", Record: domain.StormRecord{Name: "Hurricane Agatha"}, DateStart: "1975-06-02", DateEnd: "1975-06-05"},
		},
		Usage: domain.TokenUsage{TotalTokens: 120},
	}
	rec := serve(newTestServer(&mockPipeline{season: &season}), "/season")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Year    int `json:"year"`
		Reports []struct {
			ID        string `json:"id"`
			DateStart string `json:"date_start"`
		} `json:"reports"`
		Usage domain.TokenUsage `json:"usage"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1975, body.Year)
	require.Len(t, body.Reports, 1)
	assert.Equal(t, "storm-a", body.Reports[0].ID)
	assert.Equal(t, "1975-06-02", body.Reports[0].DateStart)
	assert.Equal(t, int64(120), body.Usage.TotalTokens)
}
