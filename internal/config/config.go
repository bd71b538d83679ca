package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/storm-season-scraper/internal/domain"
)

const (
	defaultSeasonURL   = "https://en.wikipedia.org/wiki/1975_Pacific_hurricane_season"
	defaultMaxAttempts = 2
	maxEnrichAttempts  = 5
)

// Config holds all scraper settings, populated from environment variables.
type Config struct {
	SeasonURL      string
	SeasonYear     int
	OutputCSVPath  string
	UsageLogPath   string
	ReportHTMLPath string
	FetchTimeout   time.Duration

	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	OpenAITimeout     time.Duration
	EnrichMaxAttempts int

	// Kafka sink; disabled when no brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	openAITimeout, err := parsePositiveDuration("OPENAI_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	maxAttempts, err := parseMaxAttempts()
	if err != nil {
		return nil, err
	}

	seasonURL := sharedcfg.EnvOrDefault("SEASON_URL", defaultSeasonURL)
	seasonYear, err := parseSeasonYear(seasonURL)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		SeasonURL:      seasonURL,
		SeasonYear:     seasonYear,
		OutputCSVPath:  sharedcfg.EnvOrDefault("OUTPUT_CSV_PATH", fmt.Sprintf("hurricanes_%d.csv", seasonYear)),
		UsageLogPath:   sharedcfg.EnvOrDefault("USAGE_LOG_PATH", "log.txt"),
		ReportHTMLPath: os.Getenv("REPORT_HTML_PATH"),
		FetchTimeout:   fetchTimeout,

		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       sharedcfg.EnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		OpenAITimeout:     openAITimeout,
		EnrichMaxAttempts: maxAttempts,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "storm-season-reports"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),

		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}
	if cfg.OutputCSVPath == "" {
		return nil, errors.New("OUTPUT_CSV_PATH is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether season reports should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseMaxAttempts() (int, error) {
	s := os.Getenv("ENRICH_MAX_ATTEMPTS")
	if s == "" {
		return defaultMaxAttempts, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxEnrichAttempts {
		return 0, fmt.Errorf("invalid ENRICH_MAX_ATTEMPTS: must be between 1 and %d", maxEnrichAttempts)
	}
	return n, nil
}

// parseSeasonYear prefers an explicit SEASON_YEAR and otherwise reads the
// year from the page slug.
func parseSeasonYear(seasonURL string) (int, error) {
	if s := os.Getenv("SEASON_YEAR"); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil || year < 1800 || year > 9999 {
			return 0, errors.New("invalid SEASON_YEAR")
		}
		return year, nil
	}
	year, err := domain.SeasonYearFromURL(seasonURL)
	if err != nil {
		return 0, fmt.Errorf("SEASON_YEAR unset and %w", err)
	}
	return year, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
