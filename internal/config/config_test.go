package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGO_URL", "mongodb://legacy:27017")
	t.Setenv("PAYMENT_CURRENCY", "")
	t.Setenv("GATEWAY_TIMEOUT", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()

	assert.Equal(t, "mongodb://legacy:27017", cfg.MongoURI)
	assert.Equal(t, "INR", cfg.PaymentCurrency)
	assert.Equal(t, 10*time.Second, cfg.GatewayTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://primary:27017")
	t.Setenv("MONGO_URL", "mongodb://legacy:27017")
	t.Setenv("PAYMENT_CURRENCY", "usd")
	t.Setenv("GATEWAY_TIMEOUT", "3")
	t.Setenv("CACHE_TTL", "not-a-number")
	t.Setenv("CORS_ORIGINS", "https://shop.example, ,https://admin.example")

	cfg := Load()

	assert.Equal(t, "mongodb://primary:27017", cfg.MongoURI)
	assert.Equal(t, "USD", cfg.PaymentCurrency)
	assert.Equal(t, 3*time.Second, cfg.GatewayTimeout)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	valid := Config{MongoURI: "mongodb://localhost", IdentitySecret: "s", PaymentCurrency: "INR"}
	require.NoError(t, valid.Validate())

	noMongo := valid
	noMongo.MongoURI = ""
	var missing *MissingError
	require.True(t, errors.As(noMongo.Validate(), &missing))
	assert.Equal(t, "MONGO_URI", missing.Key)

	noIdentity := valid
	noIdentity.IdentitySecret = ""
	require.Error(t, noIdentity.Validate())

	badCurrency := valid
	badCurrency.PaymentCurrency = "RUPEE"
	var invalid *InvalidError
	require.True(t, errors.As(badCurrency.Validate(), &invalid))
	assert.Equal(t, "PAYMENT_CURRENCY", invalid.Key)
}
