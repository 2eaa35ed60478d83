package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := parse(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Origins())
}

func TestParse_ProdRequiresSecret(t *testing.T) {
	_, err := parse(newViper(map[string]any{"app_env": "production"}))
	assert.ErrorContains(t, err, "JWT_SECRET")

	_, err = parse(newViper(map[string]any{"app_env": "prod", "jwt_secret": "short"}))
	assert.ErrorContains(t, err, "at least 32")

	cfg, err := parse(newViper(map[string]any{
		"app_env":    "Release",
		"jwt_secret": "0123456789abcdef0123456789abcdef",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProdLike())
}

func TestParse_RejectsBadTTL(t *testing.T) {
	_, err := parse(newViper(map[string]any{"jwt_ttl": "0s"}))
	assert.ErrorContains(t, err, "JWT_TTL")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 3, cfg.RedisDB)
}
