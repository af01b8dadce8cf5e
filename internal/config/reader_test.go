package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvReader_Defaults(t *testing.T) {
	t.Setenv("ENV", EnvLocal)

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverFile, cfg.Store.Driver)
	assert.Equal(t, "tasks", cfg.Store.Key)
	assert.Equal(t, "./data", cfg.Store.FileDir)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "kv_store", cfg.Postgres.Table)
	assert.Empty(t, cfg.Token.SigningKey)
}

func TestEnvReader_Overrides(t *testing.T) {
	t.Setenv("ENV", EnvProd)
	t.Setenv("STORE_DRIVER", StoreDriverPostgres)
	t.Setenv("STORE_KEY", "my-tasks")
	t.Setenv("POSTGRES_USERNAME", "app")
	t.Setenv("POSTGRES_DATABASE", "tasks")
	t.Setenv("TOKEN_SIGNING_KEY", "secret")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "my-tasks", cfg.Store.Key)
	assert.Equal(t, "secret", cfg.Token.SigningKey)
	assert.Equal(t, time.Hour, cfg.Token.TTL)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Env:   EnvDev,
		Store: StoreConfig{Driver: StoreDriverMemory, Key: "tasks"},
	}
	require.NoError(t, valid.Validate())

	unknownEnv := valid
	unknownEnv.Env = "staging"
	assert.Error(t, unknownEnv.Validate())

	unknownDriver := valid
	unknownDriver.Store.Driver = "redis"
	assert.Error(t, unknownDriver.Validate())

	postgres := valid
	postgres.Store.Driver = StoreDriverPostgres
	assert.Error(t, postgres.Validate())

	emptyKey := valid
	emptyKey.Store.Key = ""
	assert.Error(t, emptyKey.Validate())
}
