package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "/images", cfg.Storage.PublicURL)
	assert.Equal(t, 20, cfg.Sales.CodeMaxAttempts)
	assert.Equal(t, 5, cfg.Inventory.LowStockThreshold)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestFromViper_LeeValoresComoString(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "9090")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")
	v.Set("STORAGE_DRIVER", "Memory")
	v.Set("IMAGE_PUBLIC_URL", "https://cdn.example.com/img/")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "https://cdn.example.com/img", cfg.Storage.PublicURL)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "mongo")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "ventas", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/ventas?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
