package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// PagePlaceholder is replaced by the page index in PageURLTemplate.
const PagePlaceholder = "{page}"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PageURLTemplate string
	PagesToScrape   int

	PageTimeout     time.Duration
	NavigateTimeout time.Duration
	RequestDelay    time.Duration
	MaxRetries      int

	CSVOutputPath string
	ChromeBin     string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisAddr   string
	RedisDB     int
	RedisStream string

	LogLevel string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PageURLTemplate: getEnv("PAGE_URL_TEMPLATE",
			"https://www.city24.ee/en/real-estate-search/apartments-for-sale/tallinn/id=181-parish/pg="+PagePlaceholder),
		PagesToScrape: getEnvInt("PAGES_TO_SCRAPE", 84),

		PageTimeout:     getEnvMillis("PAGE_TIMEOUT_MS", 5000),
		NavigateTimeout: getEnvMillis("NAVIGATE_TIMEOUT_MS", 60000),
		RequestDelay:    getEnvMillis("REQUEST_DELAY_MS", 2000),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/city24_apartments.csv"),
		ChromeBin:     getEnv("CHROME_BIN", ""),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "apartments"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisAddr:   getEnv("REDIS_ADDR", ""),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisStream: getEnv("REDIS_STREAM", "listings"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports the first invalid run parameter.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.PageURLTemplate) == "":
		return errors.New("config: page URL template is empty")
	case c.PagesToScrape < 0:
		return errors.New("config: page count must not be negative")
	case c.PageTimeout <= 0:
		return errors.New("config: page timeout must be positive")
	case c.NavigateTimeout <= 0:
		return errors.New("config: navigate timeout must be positive")
	case c.RequestDelay < 0:
		return errors.New("config: request delay must not be negative")
	case c.CSVOutputPath == "":
		return errors.New("config: CSV output path is empty")
	}
	return nil
}

// PageURL builds the address of the given listing page.
func (c *Config) PageURL(page int) string {
	n := strconv.Itoa(page)
	if strings.Contains(c.PageURLTemplate, PagePlaceholder) {
		return strings.ReplaceAll(c.PageURLTemplate, PagePlaceholder, n)
	}
	return c.PageURLTemplate + n
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
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

func getEnvMillis(key string, fallbackMs int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackMs)) * time.Millisecond
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
