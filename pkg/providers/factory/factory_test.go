package factory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjp-CN/bilingual/internal/config"
	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/providers"
)

func TestRegistryHasBuiltins(t *testing.T) {
	f := New()
	assert.ElementsMatch(t, config.APIs, f.Registry().Names())

	info, err := f.Registry().Get("tencent")
	require.NoError(t, err)
	assert.True(t, info.NeedsID)
	assert.Equal(t, bilingual.Char(2000), info.Limit)
}

func TestCreateProvider(t *testing.T) {
	f := New()

	tests := []struct {
		api   string
		limit bilingual.Limit
	}{
		{"baidu", bilingual.Byte(6000)},
		{"tencent", bilingual.Char(2000)},
		{"niutrans", bilingual.Char(5000)},
		{"openai", bilingual.Char(4000)},
		{"ollama", bilingual.Char(2000)},
		{"deepl", bilingual.Byte(30000)},
		{"echo", bilingual.Byte(0)},
	}

	for _, tt := range tests {
		t.Run(tt.api, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			cfg.API = tt.api
			p, err := f.CreateProvider(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.api, p.Name())
			assert.Equal(t, tt.limit, p.Limit())
		})
	}
}

func TestCreateProviderOverridesLimit(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.API = "baidu"
	cfg.Baidu.Limit = 100
	cfg.Timeout = 5 * time.Second
	cfg.Proxy = "http://127.0.0.1:7890"

	p, err := New().CreateProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, bilingual.Byte(100), p.Limit())
}

func TestCreateProviderUnknown(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.API = "tencentt"

	_, err := New().CreateProvider(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrUnknownAPI)
	assert.Contains(t, err.Error(), "tencent")
}

func TestCreateProviderInvalidProxy(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.API = "deepl"
	cfg.Proxy = "127.0.0.1:7890"

	_, err := New().CreateProvider(cfg)
	assert.ErrorIs(t, err, providers.ErrInvalidProxy)
}
