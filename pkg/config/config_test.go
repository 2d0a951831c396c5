package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 7, cfg.Inventory.LowCoverageDays)
	assert.Equal(t, "Europe/Belgrade", cfg.App.Timezone)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "Mongo")
	v.Set("HTTP_PORT", "9090")
	v.Set("LOW_COVERAGE_DAYS", "nope")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("JWT_SECRET", "s3cr3t")

	cfg := fromViper(v)

	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 7, cfg.Inventory.LowCoverageDays, "un entero inválido cae al valor por defecto")
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := fromViper(viper.New())
	assert.Error(t, cfg.Validate(), "sin JWT_SECRET no debe arrancar")

	cfg.JWT.Secret = "x"
	require.NoError(t, cfg.Validate())

	cfg.Storage.Driver = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg.Storage.Driver = DriverMemory
	cfg.App.Timezone = "Marte/Olympus"
	assert.Error(t, cfg.Validate())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss/word", DBName: "magacin", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@db:5432/magacin?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestAppConfig_Language(t *testing.T) {
	assert.Equal(t, "sr-Latn", AppConfig{Locale: "sr-Latn"}.Language().String())
	assert.Equal(t, "und", AppConfig{Locale: "??"}.Language().String())
}
