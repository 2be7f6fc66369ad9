package niutrans

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/providers"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := DefaultConfig()
	config.APIEndpoint = server.URL
	config.APIKey = "secret"
	return New(config)
}

func TestTranslate(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "en", r.PostForm.Get("from"))
		assert.Equal(t, "zh", r.PostForm.Get("to"))
		assert.Equal(t, "secret", r.PostForm.Get("apikey"))
		assert.Equal(t, "Hello.\nWorld.", r.PostForm.Get("src_text"))

		_, _ = w.Write([]byte(`{"from":"en","to":"zh","tgt_text":"你好。\r\n世界。\n"}`))
	})

	resp, err := p.Translate(context.Background(), providers.NewRequest([]string{"Hello.", "World."}, "en", "zh"))
	require.NoError(t, err)
	assert.Equal(t, []string{"你好。", "世界。"}, resp.Texts)
}

func TestTranslateError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error_code":"13001","error_msg":"apikey error","from":"en","to":"zh"}`))
	})

	_, err := p.Translate(context.Background(), providers.NewRequest([]string{"x"}, "en", "zh"))
	var perr *providers.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "13001", perr.Code)
	assert.Equal(t, "字符流量不足或者没有访问权限。", perr.Hint)
}

func TestTranslateLineMismatch(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tgt_text":"合并成一行"}`))
	})

	_, err := p.Translate(context.Background(), providers.NewRequest([]string{"a", "b"}, "en", "zh"))
	var perr *providers.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, providers.CodeMismatch, perr.Code)
}

func TestLimit(t *testing.T) {
	assert.Equal(t, bilingual.Char(5000), New(DefaultConfig()).Limit())
}
