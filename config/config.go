package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Mercado Público endpoints.
const (
	BaseWebURL = "https://buscador.mercadopublico.cl"
	BaseAPIURL = "https://api.buscador.mercadopublico.cl/compra-agil"
)

// Fixed listing-query parameters: published quick purchases, most recent
// first, all regions.
const (
	StatusPublished = 2
	OrderBy         = "recent"
	Region          = "all"
)

// Config holds all application-level configuration
type Config struct {
	// Scraper
	ScrapeDate     string // YYYY-MM-DD, the single day to extract
	RequestDelay   time.Duration
	RequestTimeout time.Duration
	Headless       bool
	MaxRetries     int
	MaxPages       int // 0 = no cap
	MaxDetails     int // 0 = no cap

	// Classification
	RelevanceThreshold int
	SearchKeywords     []string
	DetectionStrategy  string // "history" or "field"

	// Output
	OutputDir   string
	DatabaseURL string // empty disables PostgreSQL storage

	// Logging
	LogLevel string
}

// Load reads configuration from the environment (a .env file is honored if
// present) or falls back to defaults. The scrape date defaults to yesterday:
// the portal's daily batch is complete only for closed days.
func Load() *Config {
	_ = godotenv.Load()

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	return &Config{
		ScrapeDate:         getEnv("SCRAPE_DATE", yesterday),
		RequestDelay:       time.Duration(getEnvInt("REQUEST_DELAY", 2)) * time.Second,
		RequestTimeout:     time.Duration(getEnvInt("REQUEST_TIMEOUT", 45)) * time.Second,
		Headless:           getEnvBool("HEADLESS", true),
		MaxRetries:         getEnvInt("MAX_RETRIES", 3),
		MaxPages:           getEnvInt("MAX_PAGES", 0),
		MaxDetails:         getEnvInt("MAX_DETAILS", 0),
		RelevanceThreshold: getEnvInt("RELEVANCE_THRESHOLD", DefaultRelevanceLimit),
		SearchKeywords:     getEnvList("SEARCH_KEYWORDS"),
		DetectionStrategy:  getEnv("DETECTION_STRATEGY", "history"),
		OutputDir:          getEnv("OUTPUT_DIR", "data/raw"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
