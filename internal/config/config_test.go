package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bestlastyear/internal/testutil"
)

func TestLoadDefaults(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)
	env.Chdir(".")
	t.Setenv("TMDB_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:8000", cfg.API.Base)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, ":8000", cfg.Server.Address)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, "https://api.jikan.moe/v4", cfg.Jikan.BaseURL)
	assert.Equal(t, "sqlite", cfg.Cache.Provider)
	assert.Equal(t, "./cache.db", cfg.Cache.DBFile)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "0 0 4 * * *", cfg.Warmup.Schedule)
	assert.Empty(t, cfg.TMDB.APIKey)
}

func TestLoadReadsConfigFile(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)
	env.WriteFileString("config.yaml", `
log_level: debug
server:
  address: ":9090"
cache:
  provider: memory
  ttl: 2h
  size: 32
warmup:
  schedule: ""
`)
	env.Chdir(".")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "memory", cfg.Cache.Provider)
	assert.Equal(t, 2*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 32, cfg.Cache.Size)
	assert.Empty(t, cfg.Warmup.Schedule)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)
	env.Chdir(".")
	t.Setenv("TMDB_API_KEY", "secret")
	t.Setenv("BESTLASTYEAR_API_BASE", "http://api.test")
	t.Setenv("REDIS_ADDRESS", "redis.test:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.TMDB.APIKey)
	assert.Equal(t, "http://api.test", cfg.API.Base)
	assert.Equal(t, "redis.test:6379", cfg.Redis.Address)
}

func TestLoadRejectsBrokenConfigFile(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)
	env.WriteFileString("config.yaml", "server: [unterminated")
	env.Chdir(".")

	_, err := Load()
	require.Error(t, err)
}

func TestCacheProvider(t *testing.T) {
	cfg := &Config{}
	cfg.Cache = CacheConfig{Provider: "redis", DBFile: "/tmp/x.db", TTL: time.Hour, Size: 10}
	cfg.Redis.Address = "localhost:6380"
	cfg.Redis.DB = 2

	pc := cfg.CacheProvider("master_list")
	assert.Equal(t, time.Hour, pc.TTL)
	assert.Equal(t, 10, pc.Size)
	assert.Equal(t, "/tmp/x.db", pc.DBFile)
	assert.Equal(t, "localhost:6380", pc.RedisAddress)
	assert.Equal(t, 2, pc.RedisDB)
	assert.Equal(t, "master_list", pc.Group)
}
