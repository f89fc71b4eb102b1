package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port string
	// Storage
	Storage         string
	DBConfigFile    string
	DBConfigSection string
	SQLitePath      string
	// Exchange
	Exchange       string
	KuCoinAPIBase  string
	QuoteCurrency  string
	RequestTimeout time.Duration
	// Tracker
	TrackCurrencies []string
	TrackInterval   time.Duration
	// Redis (idempotency)
	IdempotencyBackend string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisTTL           time.Duration
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:                getEnv("ENV", "local"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Port:               getEnv("PORT", "8000"),
		Storage:            getEnv("STORAGE", "pg"),
		DBConfigFile:       getEnv("DB_CONFIG_FILE", "database.ini"),
		DBConfigSection:    getEnv("DB_CONFIG_SECTION", "postgresql"),
		SQLitePath:         getEnv("SQLITE_PATH", "prices.db"),
		Exchange:           getEnv("EXCHANGE", "kucoin"),
		KuCoinAPIBase:      getEnv("KUCOIN_API_BASE", "https://api.kucoin.com"),
		QuoteCurrency:      getEnv("QUOTE_CURRENCY", "USDT"),
		RequestTimeout:     time.Duration(atoiDef(getEnv("REQUEST_TIMEOUT_MS", "10000"), 10000)) * time.Millisecond,
		TrackCurrencies:    splitList(getEnv("TRACK_CURRENCIES", "BTC,ETH")),
		TrackInterval:      time.Duration(atoiDef(getEnv("TRACK_INTERVAL_MS", "60000"), 60000)) * time.Millisecond,
		IdempotencyBackend: getEnv("IDEMPOTENCY_BACKEND", "none"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            atoiDef(getEnv("REDIS_DB", "0"), 0),
		RedisTTL:           time.Duration(atoiDef(getEnv("IDEMPOTENCY_TTL_MS", "86400000"), 86400000)) * time.Millisecond,
	}
}
