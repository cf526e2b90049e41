package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Cache.Driver)
	assert.Equal(t, 24, cfg.Cache.DefaultTTLHours)
	assert.Equal(t, 15, cfg.Retrieval.DeadlineSecs)
	assert.Equal(t, 0.5, cfg.Score.ErrorPenalty)
	assert.Equal(t, 0.6, cfg.Ambiguity.ConflictThreshold)
	assert.Equal(t, "sonar-pro", cfg.Sources.Websearch.Model)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Batch.MaxConcurrentQueries)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ANSWERS_RETRIEVAL_DEADLINE_SECS", "30")
	t.Setenv("ANSWERS_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Retrieval.DeadlineSecs)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestCacheConfig_TTLFor(t *testing.T) {
	cfg := CacheConfig{
		DefaultTTLHours: 24,
		TTLHours: map[string]int{
			"news":       1,
			"location":   168,
			"financials": 12,
		},
	}

	assert.Equal(t, time.Hour, cfg.TTLFor("news"))
	assert.Equal(t, 168*time.Hour, cfg.TTLFor("location"))
	assert.Equal(t, 12*time.Hour, cfg.TTLFor("financials"))
	assert.Equal(t, 24*time.Hour, cfg.TTLFor("founding"))
	assert.Equal(t, 24*time.Hour, cfg.TTLFor("overview"))
}

func TestRetrievalConfig_Deadline(t *testing.T) {
	cfg := RetrievalConfig{DeadlineSecs: 15}
	assert.Equal(t, 15*time.Second, cfg.Deadline())
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shout", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)
}
