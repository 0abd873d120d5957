// Package config provides configuration loading, defaults, and validation for
// the TeenFin recommendation service.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "teenfin"
	DefaultDBMaxConns = 25

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "teenfin:"

	DefaultKafkaBroker = "localhost:9092"
	DefaultKafkaTopic  = "teenfin.recommendation.completed"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "teenfin-uploads"

	DefaultCatalogPath    = "configs/survey-data.json"
	DefaultCandidateLimit = 6
	DefaultMaxSavings     = 3
	DefaultMaxCards       = 3
	DefaultMaxInsights    = 4

	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultGeminiModel   = "gemini-2.0-flash"
	DefaultTemperature   = 0.6
	DefaultTopP          = 0.9

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsPath = "/metrics"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = time.Hour
	}
	// DB is an int; 0 is a valid explicit value so we cannot distinguish "not
	// set" from "set to 0".  We leave it as-is (0 is also the default).

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.ProducerRetries == 0 {
		cfg.Kafka.ProducerRetries = 3
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = 100 * time.Millisecond
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = 15 * time.Minute
	}

	// ── Survey ────────────────────────────────────────────────────────────────
	if cfg.Survey.CatalogPath == "" {
		cfg.Survey.CatalogPath = DefaultCatalogPath
	}
	if cfg.Survey.CandidateLimit == 0 {
		cfg.Survey.CandidateLimit = DefaultCandidateLimit
	}
	if cfg.Survey.MaxSavings == 0 {
		cfg.Survey.MaxSavings = DefaultMaxSavings
	}
	if cfg.Survey.MaxCards == 0 {
		cfg.Survey.MaxCards = DefaultMaxCards
	}
	if cfg.Survey.MaxInsights == 0 {
		cfg.Survey.MaxInsights = DefaultMaxInsights
	}
	if cfg.Survey.CacheTTLSeconds == 0 {
		cfg.Survey.CacheTTLSeconds = 600
	}

	// ── LLM ───────────────────────────────────────────────────────────────────
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.OpenAI.BaseURL == "" {
		cfg.LLM.OpenAI.BaseURL = DefaultOpenAIBaseURL
	}
	if cfg.LLM.OpenAI.Model == "" {
		cfg.LLM.OpenAI.Model = DefaultOpenAIModel
	}
	if cfg.LLM.OpenAI.Temperature == 0 {
		cfg.LLM.OpenAI.Temperature = DefaultTemperature
	}
	if cfg.LLM.OpenAI.TopP == 0 {
		cfg.LLM.OpenAI.TopP = DefaultTopP
	}
	if cfg.LLM.OpenAI.Timeout == 0 {
		cfg.LLM.OpenAI.Timeout = 30 * time.Second
	}
	if cfg.LLM.Gemini.Model == "" {
		cfg.LLM.Gemini.Model = DefaultGeminiModel
	}
	if cfg.LLM.Gemini.Temperature == 0 {
		cfg.LLM.Gemini.Temperature = DefaultTemperature
	}
	if cfg.LLM.Gemini.TopP == 0 {
		cfg.LLM.Gemini.TopP = DefaultTopP
	}
	if cfg.LLM.Gemini.Timeout == 0 {
		cfg.LLM.Gemini.Timeout = 30 * time.Second
	}

	// ── Rate limit ────────────────────────────────────────────────────────────
	if cfg.RateLimit.RequestsPerWindow == 0 {
		cfg.RateLimit.RequestsPerWindow = 30
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = time.Minute
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
