package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"cian-scraper/models"
)

// RetryScope controls whether the transient-failure counter resets for
// every page or accumulates across the whole run.
type RetryScope string

const (
	RetryPerPage RetryScope = "page"
	RetryPerRun  RetryScope = "run"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	City              string
	LocationID        string
	DealType          models.DealType
	AccommodationType string
	Rooms             models.RoomSelection
	SearchURL         string // optional caller-supplied search URL; overrides the template
	StartPage         int
	EndPage           int

	ExpressMode bool // skip detail pages and the per-listing delay
	ByHomeowner bool
	LatinOutput bool
	SaveCSV     bool
	Debug       bool

	DataDir      string
	MaxRetries   int
	RetryScope   RetryScope
	RetryDelay   time.Duration
	ListingDelay time.Duration
	PageDelay    time.Duration

	ChromeBin string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	dealType, err := models.ParseDealType(getEnv("DEAL_TYPE", "sale"))
	if err != nil {
		log.Fatalf("[config] %v", err)
	}
	rooms, err := models.ParseRoomSelection(getEnv("ROOMS", "all"))
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	scope := RetryPerPage
	if getEnv("RETRY_SCOPE", "page") == string(RetryPerRun) {
		scope = RetryPerRun
	}

	return &Config{
		City:              getEnv("CITY", "Москва"),
		LocationID:        getEnv("LOCATION_ID", "1"),
		DealType:          dealType,
		AccommodationType: getEnv("ACCOMMODATION_TYPE", "flat"),
		Rooms:             rooms,
		SearchURL:         getEnv("SEARCH_URL", ""),
		StartPage:         getEnvInt("START_PAGE", 1),
		EndPage:           getEnvInt("END_PAGE", 2),

		ExpressMode: getEnvBool("EXPRESS_MODE", false),
		ByHomeowner: getEnvBool("BY_HOMEOWNER", false),
		LatinOutput: getEnvBool("LATIN_OUTPUT", false),
		SaveCSV:     getEnvBool("SAVE_CSV", true),
		Debug:       getEnvBool("DEBUG", false),

		DataDir:      getEnv("DATA_DIR", "./data"),
		MaxRetries:   getEnvInt("MAX_RETRIES", 3),
		RetryScope:   scope,
		RetryDelay:   getEnvDuration("RETRY_DELAY_S", 2),
		ListingDelay: getEnvDuration("LISTING_DELAY_S", 4),
		PageDelay:    getEnvDuration("PAGE_DELAY_S", 10),

		ChromeBin: getEnv("CHROME_BIN", ""),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallbackSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackSeconds)) * time.Second
}
