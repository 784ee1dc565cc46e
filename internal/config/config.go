package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// relay
	Addr           string
	DatabaseURL    string
	TickInterval   time.Duration
	AllowedOrigins []string

	// client
	WSURL             string
	APIURL            string
	ReconnectAttempts int
	ReconnectDelay    time.Duration
	ConnectTimeout    time.Duration

	LogLevel    string
	Development bool
}

// Load reads an optional .env file and then the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	return Config{
		Addr:              getEnv("ADDR", ":8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		TickInterval:      getEnvDuration("TICK_INTERVAL", time.Second),
		AllowedOrigins:    getEnvList("ALLOWED_ORIGINS"),
		WSURL:             getEnv("WS_URL", "ws://localhost:8080/ws"),
		APIURL:            getEnv("API_URL", "http://localhost:8080"),
		ReconnectAttempts: getEnvInt("RECONNECT_ATTEMPTS", 5),
		ReconnectDelay:    getEnvDuration("RECONNECT_DELAY", time.Second),
		ConnectTimeout:    getEnvDuration("CONNECT_TIMEOUT", 20*time.Second),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Development:       getEnv("APP_ENV", "development") == "development",
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
