package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "HTTP_ADDR", "STORE_BACKEND", "JWT_SECRET", "JWT_ACCESS_EXPIRATION_MINUTES", "DEFAULT_WALLET_MONEY", "CORS_ALLOWED_ORIGINS", "MONGODB_DATABASE"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "500", cfg.DefaultWalletMoney.String())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "qkart", cfg.MongoDatabase)
	require.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_BACKEND", "MONGO")
	t.Setenv("JWT_ACCESS_EXPIRATION_MINUTES", "5")
	t.Setenv("DEFAULT_WALLET_MONEY", "1000.50")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("MONGODB_DATABASE", "shop")
	t.Setenv("JWT_SECRET", "secret")

	cfg := FromEnv()

	assert.Equal(t, BackendMongo, cfg.StoreBackend)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "1000.5", cfg.DefaultWalletMoney.String())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "shop-test", cfg.MongoDatabase)
	require.NoError(t, cfg.Validate())
}

func TestValidate_Rejects(t *testing.T) {
	base := Config{Env: "production", StoreBackend: BackendPostgres, JWTSecret: "s"}
	require.NoError(t, base.Validate())

	noSecret := base
	noSecret.JWTSecret = ""
	assert.Error(t, noSecret.Validate())

	badBackend := base
	badBackend.StoreBackend = "redis"
	assert.Error(t, badBackend.Validate())

	badEnv := base
	badEnv.Env = "staging"
	assert.Error(t, badEnv.Validate())
}
