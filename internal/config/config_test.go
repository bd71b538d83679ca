package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey      = "sk-test"
	testMapboxToken = "pk.test-token"
)

// baseEnv pins every variable Load reads so ambient values on the host
// cannot leak into the assertions.
func baseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SEASON_URL", "SEASON_YEAR", "OUTPUT_CSV_PATH", "USAGE_LOG_PATH",
		"REPORT_HTML_PATH", "FETCH_TIMEOUT", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"OPENAI_TIMEOUT", "ENRICH_MAX_ATTEMPTS", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"MAPBOX_TOKEN", "MAPBOX_ENABLED", "MAPBOX_TIMEOUT", "MAPBOX_CACHE_SIZE",
		"HTTP_ADDR", "LOG_LEVEL", "LOG_FORMAT", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("OPENAI_API_KEY", testAPIKey)
}

func TestLoad_Defaults(t *testing.T) {
	baseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultSeasonURL, cfg.SeasonURL)
	assert.Equal(t, 1975, cfg.SeasonYear)
	assert.Equal(t, "hurricanes_1975.csv", cfg.OutputCSVPath)
	assert.Equal(t, "log.txt", cfg.UsageLogPath)
	assert.Empty(t, cfg.ReportHTMLPath)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, testAPIKey, cfg.OpenAIAPIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Empty(t, cfg.OpenAIBaseURL)
	assert.Equal(t, 60*time.Second, cfg.OpenAITimeout)
	assert.Equal(t, 2, cfg.EnrichMaxAttempts)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "storm-season-reports", cfg.KafkaTopic)
	assert.False(t, cfg.MapboxEnabled)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	baseEnv(t)
	t.Setenv("SEASON_URL", "https://en.wikipedia.org/wiki/1992_Atlantic_hurricane_season")
	t.Setenv("OUTPUT_CSV_PATH", "out/storms.csv")
	t.Setenv("USAGE_LOG_PATH", "out/usage.txt")
	t.Setenv("REPORT_HTML_PATH", "out/season.html")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8081/v1")
	t.Setenv("OPENAI_TIMEOUT", "2m")
	t.Setenv("ENRICH_MAX_ATTEMPTS", "3")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-topic")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1992, cfg.SeasonYear)
	assert.Equal(t, "out/storms.csv", cfg.OutputCSVPath)
	assert.Equal(t, "out/usage.txt", cfg.UsageLogPath)
	assert.Equal(t, "out/season.html", cfg.ReportHTMLPath)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, "http://localhost:8081/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, 2*time.Minute, cfg.OpenAITimeout)
	assert.Equal(t, 3, cfg.EnrichMaxAttempts)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, "custom-topic", cfg.KafkaTopic)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	baseEnv(t)
	t.Setenv("OPENAI_API_KEY", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoad_ExplicitSeasonYear(t *testing.T) {
	baseEnv(t)
	t.Setenv("SEASON_URL", "https://example.org/storms")
	t.Setenv("SEASON_YEAR", "2005")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2005, cfg.SeasonYear)
	assert.Equal(t, "hurricanes_2005.csv", cfg.OutputCSVPath)
}

func TestLoad_UnderivableSeasonYear(t *testing.T) {
	baseEnv(t)
	t.Setenv("SEASON_URL", "https://example.org/storms")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEASON_YEAR")
}

func TestLoad_InvalidSeasonYear(t *testing.T) {
	baseEnv(t)
	t.Setenv("SEASON_YEAR", "nineteen")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEASON_YEAR")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	baseEnv(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"FETCH_TIMEOUT", "OPENAI_TIMEOUT", "MAPBOX_TIMEOUT"} {
		t.Run(key, func(t *testing.T) {
			baseEnv(t)
			t.Setenv(key, "-1s")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_EnrichMaxAttemptsBounds(t *testing.T) {
	for _, v := range []string{"0", "6", "two"} {
		t.Run(v, func(t *testing.T) {
			baseEnv(t)
			t.Setenv("ENRICH_MAX_ATTEMPTS", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "ENRICH_MAX_ATTEMPTS")
		})
	}
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	baseEnv(t)
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	baseEnv(t)
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}
