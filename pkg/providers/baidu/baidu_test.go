package baidu

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/providers"
)

func TestSign(t *testing.T) {
	// 百度文档中的示例
	assert.Equal(t, "f89f9594663708c1605f3d736d01d2d4",
		Sign("2015063000000001", "apple", "1435660288", "12345678"))
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := DefaultConfig()
	config.APIEndpoint = server.URL
	config.AppID = "2015063000000001"
	config.APIKey = "12345678"
	p := New(config)
	p.salt = func() string { return "1435660288" }
	return p
}

func TestTranslate(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "apple\npear", r.PostForm.Get("q"))
		assert.Equal(t, "en", r.PostForm.Get("from"))
		assert.Equal(t, "zh", r.PostForm.Get("to"))
		assert.Equal(t, "2015063000000001", r.PostForm.Get("appid"))
		assert.Equal(t, "1435660288", r.PostForm.Get("salt"))
		assert.Equal(t, Sign("2015063000000001", "apple\npear", "1435660288", "12345678"), r.PostForm.Get("sign"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"from":"en","to":"zh","trans_result":[{"src":"apple","dst":"苹果"},{"src":"pear","dst":"梨"}]}`))
	})

	resp, err := p.Translate(context.Background(), providers.NewRequest([]string{"apple", "pear"}, "en", "zh"))
	require.NoError(t, err)
	assert.Equal(t, []string{"苹果", "梨"}, resp.Texts)
}

func TestTranslateError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error_code":"54001","error_msg":"Invalid Sign"}`))
	})

	_, err := p.Translate(context.Background(), providers.NewRequest([]string{"apple"}, "en", "zh"))
	require.Error(t, err)

	var perr *providers.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "54001", perr.Code)
	assert.Equal(t, "Invalid Sign", perr.Message)
	assert.True(t, strings.HasPrefix(perr.Hint, "签名错误"))
}

func TestTranslateHTTPError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := p.Translate(context.Background(), providers.NewRequest([]string{"apple"}, "en", "zh"))
	var perr *providers.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, providers.CodeHTTP, perr.Code)
}

func TestTranslateCountMismatch(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"trans_result":[{"src":"a","dst":"甲"}]}`))
	})

	_, err := p.Translate(context.Background(), providers.NewRequest([]string{"a", "b"}, "en", "zh"))
	var perr *providers.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, providers.CodeMismatch, perr.Code)
}

func TestLimit(t *testing.T) {
	assert.Equal(t, bilingual.Byte(6000), New(DefaultConfig()).Limit())
	assert.Equal(t, "baidu", New(DefaultConfig()).Name())
	assert.Equal(t, "未知错误。", Solution("1"))
}
