package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	ProviderYahoo     = "yahoo"
	ProviderFinanceGo = "financego"
)

type Config struct {
	HTTPPort       int
	SSHPort        int
	SSHHostKeyPath string

	CacheBackend string
	RedisURL     string
	CacheTTLSecs int

	MarketDataProvider string
	YahooBaseURL       string
	YahooRatePerMin    int

	TelegramBotToken string
	LogLevel         string

	TracingEnabled bool
	OTLPEndpoint   string
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		RedisURL:         strings.TrimSpace(os.Getenv("REDIS_URL")),
		YahooBaseURL:     strings.TrimRight(strings.TrimSpace(os.Getenv("YAHOO_BASE_URL")), "/"),
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	cfg.SSHPort = 23234
	if v := strings.TrimSpace(os.Getenv("SSH_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSHPort = n
		}
	}

	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/id_ed25519"
	}

	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(os.Getenv("CACHE_BACKEND")))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = CacheBackendMemory
	}
	if cfg.CacheBackend != CacheBackendMemory && cfg.CacheBackend != CacheBackendRedis {
		log.Printf("Warning: unsupported CACHE_BACKEND=%q, defaulting to memory", cfg.CacheBackend)
		cfg.CacheBackend = CacheBackendMemory
	}
	if cfg.CacheBackend == CacheBackendRedis && cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	cfg.CacheTTLSecs = 3600
	if v := strings.TrimSpace(os.Getenv("CACHE_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheTTLSecs = n
		}
	}

	cfg.MarketDataProvider = strings.ToLower(strings.TrimSpace(os.Getenv("MARKET_DATA_PROVIDER")))
	if cfg.MarketDataProvider == "" {
		cfg.MarketDataProvider = ProviderYahoo
	}
	if cfg.MarketDataProvider != ProviderYahoo && cfg.MarketDataProvider != ProviderFinanceGo {
		log.Printf("Warning: unsupported MARKET_DATA_PROVIDER=%q, defaulting to yahoo", cfg.MarketDataProvider)
		cfg.MarketDataProvider = ProviderYahoo
	}

	cfg.YahooRatePerMin = 60
	if v := strings.TrimSpace(os.Getenv("YAHOO_RATE_PER_MIN")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.YahooRatePerMin = n
		}
	}

	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, Telegram bot will be disabled")
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.TracingEnabled = !strings.EqualFold(strings.TrimSpace(os.Getenv("TRACING_ENABLED")), "false")
	cfg.OTLPEndpoint = strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if cfg.OTLPEndpoint == "" {
		cfg.OTLPEndpoint = "localhost:4317"
	}

	return cfg
}
