package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"wordsmith/internal/logging"
)

// Config holds client and stub-server settings.
type Config struct {
	Origin         string        // where the page would have been served from
	APIBase        string        // preconfigured API base; empty means discover via /config
	StateDir       string        // directory holding the persisted client store
	LogFile        string        // log destination while the terminal UI is running
	HTTPTimeout    time.Duration // per-request timeout
	SuggestDelay   time.Duration // autocomplete quiet period
	RateLimitRPS   int
	RateLimitBurst int
	StubPort       string
}

// Load reads .env (if present) and the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Warn("Failed to load .env: %v", err)
	}

	stateDir := getEnvString("WORDSMITH_STATE_DIR", "")
	if stateDir == "" {
		stateDir = defaultStateDir()
	}

	return Config{
		Origin:         strings.TrimRight(getEnvString("WORDSMITH_ORIGIN", "http://localhost:8080"), "/"),
		APIBase:        strings.TrimRight(getEnvString("WORDSMITH_API_BASE", ""), "/"),
		StateDir:       stateDir,
		LogFile:        getEnvString("WORDSMITH_LOG_FILE", filepath.Join(stateDir, "wordsmith.log")),
		HTTPTimeout:    getEnvDuration("WORDSMITH_HTTP_TIMEOUT", 8*time.Second),
		SuggestDelay:   getEnvDuration("WORDSMITH_SUGGEST_DELAY", 200*time.Millisecond),
		RateLimitRPS:   getEnvInt("WORDSMITH_RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("WORDSMITH_RATE_LIMIT_BURST", 10),
		StubPort:       getEnvString("PORT", "8080"),
	}
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		logging.Warn("No user config dir (%v), using ./.wordsmith", err)
		return ".wordsmith"
	}
	return filepath.Join(dir, "wordsmith")
}

// getEnvString reads a string from the environment or returns a fallback.
func getEnvString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// getEnvDuration reads a time.Duration from the environment or returns a fallback.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		logging.Warn("Invalid duration for %s: %v, using default %v", key, err, fallback)
		return fallback
	}
	return d
}

// getEnvInt reads an int from the environment or returns a fallback.
func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		logging.Warn("Invalid int for %s: %v, using default %d", key, err, fallback)
		return fallback
	}
	return i
}
