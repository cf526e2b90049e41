package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Retrieval RetrievalConfig `yaml:"retrieval" mapstructure:"retrieval"`
	Score     ScoreConfig     `yaml:"score" mapstructure:"score"`
	Ambiguity AmbiguityConfig `yaml:"ambiguity" mapstructure:"ambiguity"`
	Intent    IntentConfig    `yaml:"intent" mapstructure:"intent"`
	Sources   SourcesConfig   `yaml:"sources" mapstructure:"sources"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Entities  EntitiesConfig  `yaml:"entities" mapstructure:"entities"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
}

// CacheConfig configures the response cache backend.
type CacheConfig struct {
	Driver          string         `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	Path            string         `yaml:"path" mapstructure:"path"`
	DatabaseURL     string         `yaml:"database_url" mapstructure:"database_url"`
	DefaultTTLHours int            `yaml:"default_ttl_hours" mapstructure:"default_ttl_hours"`
	TTLHours        map[string]int `yaml:"ttl_hours" mapstructure:"ttl_hours"` // per-attribute overrides
}

// TTLFor returns the cache TTL for a query attribute.
func (c CacheConfig) TTLFor(attribute string) time.Duration {
	if h, ok := c.TTLHours[attribute]; ok && h > 0 {
		return time.Duration(h) * time.Hour
	}
	return time.Duration(c.DefaultTTLHours) * time.Hour
}

// RetrievalConfig configures the source fan-out.
type RetrievalConfig struct {
	DeadlineSecs int `yaml:"deadline_secs" mapstructure:"deadline_secs"`
}

// Deadline returns the per-adapter fetch deadline.
func (c RetrievalConfig) Deadline() time.Duration {
	return time.Duration(c.DeadlineSecs) * time.Second
}

// ScoreConfig configures confidence scoring.
type ScoreConfig struct {
	// ErrorPenalty scales the confidence reduction per fraction of failed
	// adapters. 0.5 means confidence halves when every adapter errors.
	ErrorPenalty float64 `yaml:"error_penalty" mapstructure:"error_penalty"`
}

// AmbiguityConfig configures ambiguity detection.
type AmbiguityConfig struct {
	ConflictThreshold float64 `yaml:"conflict_threshold" mapstructure:"conflict_threshold"`
}

// IntentConfig configures the intent parser.
type IntentConfig struct {
	UseLLM bool `yaml:"use_llm" mapstructure:"use_llm"`
}

// SourcesConfig locates source adapter settings.
type SourcesConfig struct {
	ConfigPath string          `yaml:"config_path" mapstructure:"config_path"`
	Wikipedia  WikipediaConfig `yaml:"wikipedia" mapstructure:"wikipedia"`
	Websearch  WebsearchConfig `yaml:"websearch" mapstructure:"websearch"`
}

// WikipediaConfig holds encyclopedia source settings.
type WikipediaConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// WebsearchConfig holds web search source settings.
type WebsearchConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds Anthropic API settings for LLM intent extraction.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// EntitiesConfig locates the disambiguation index.
type EntitiesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the query server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// BatchConfig configures batch query processing.
type BatchConfig struct {
	MaxConcurrentQueries int `yaml:"max_concurrent_queries" mapstructure:"max_concurrent_queries"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ANSWERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.path", "answers.db")
	v.SetDefault("cache.default_ttl_hours", 24)
	v.SetDefault("cache.ttl_hours", map[string]int{
		"news":       1,
		"location":   168,
		"financials": 12,
	})
	v.SetDefault("retrieval.deadline_secs", 15)
	v.SetDefault("score.error_penalty", 0.5)
	v.SetDefault("ambiguity.conflict_threshold", 0.6)
	v.SetDefault("intent.use_llm", false)
	v.SetDefault("sources.config_path", "sources.yaml")
	v.SetDefault("sources.wikipedia.base_url", "https://en.wikipedia.org/w/api.php")
	v.SetDefault("sources.websearch.base_url", "https://api.perplexity.ai")
	v.SetDefault("sources.websearch.model", "sonar-pro")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("entities.path", "entities.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("batch.max_concurrent_queries", 5)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
