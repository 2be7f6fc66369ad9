package tencent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/providers"
)

const testPayload = `{"Source":"en","Target":"zh","ProjectId":0,"SourceTextList":["hi","there"]}`

func TestQueryEncoding(t *testing.T) {
	b, err := json.Marshal(Query{Source: "en", Target: "zh", SourceTextList: []string{"hi", "there"}})
	require.NoError(t, err)
	assert.Equal(t, testPayload, string(b))
	assert.Equal(t, "d7fcdc4cf9377093d01deb74d440d70cdcb77d95bc2c34e908afa26d817debbd", sha256Hex(b))
}

func TestSign(t *testing.T) {
	sig := Sign("0", "0", "tmt.tencentcloudapi.com", []byte(testPayload), time.Unix(1636111645, 0))

	assert.Equal(t, "1636111645", sig.Timestamp)
	assert.Equal(t,
		"TC3-HMAC-SHA256 Credential=0/2021-11-05/tmt/tc3_request, SignedHeaders=content-type;host, "+
			"Signature=23560c1a452d368647768283d3b03db2f59a0a2f2a12c72b1045eefa3b304d3f",
		sig.Authorization)
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := DefaultConfig()
	config.APIEndpoint = server.URL
	config.SecretID = "0"
	config.APIKey = "0"
	p := New(config)
	p.now = func() time.Time { return time.Unix(1636111645, 0) }
	return p
}

func TestTranslate(t *testing.T) {
	var host string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, testPayload, string(body))

		assert.Equal(t, "TextTranslateBatch", r.Header.Get("X-TC-Action"))
		assert.Equal(t, "2018-03-21", r.Header.Get("X-TC-Version"))
		assert.Equal(t, "ap-beijing", r.Header.Get("X-TC-Region"))
		assert.Equal(t, "1636111645", r.Header.Get("X-TC-Timestamp"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		want := Sign("0", "0", r.Host, body, time.Unix(1636111645, 0))
		assert.Equal(t, want.Authorization, r.Header.Get("Authorization"))
		host = r.Host

		_, _ = w.Write([]byte(`{"Response":{"RequestId":"7895050c-b0bd-45f2-ba88-c95c509020f2","Source":"en","Target":"zh","TargetTextList":["嗨","那里"]}}`))
	})

	resp, err := p.Translate(context.Background(), providers.NewRequest([]string{"hi", "there"}, "en", "zh"))
	require.NoError(t, err)
	assert.Equal(t, []string{"嗨", "那里"}, resp.Texts)
	assert.Equal(t, p.host, host)
}

func TestTranslateError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":{"Error":{"Code":"AuthFailure.SignatureFailure","Message":"The provided credentials could not be validated."},"RequestId":"47546ee3-767c-4671-8f90-2c02c7484a42"}}`))
	})

	_, err := p.Translate(context.Background(), providers.NewRequest([]string{"hi"}, "en", "zh"))
	var perr *providers.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "tencent", perr.Provider)
	assert.Equal(t, "AuthFailure.SignatureFailure", perr.Code)
	assert.True(t, strings.HasPrefix(perr.Hint, "签名错误"))
}

func TestRegions(t *testing.T) {
	assert.True(t, ValidRegion(DefaultRegion))
	assert.True(t, ValidRegion("na-toronto"))
	assert.False(t, ValidRegion("ap-nowhere"))
	assert.Len(t, Regions, 16)
}

func TestLimit(t *testing.T) {
	p := New(DefaultConfig())
	assert.Equal(t, bilingual.Char(2000), p.Limit())
	assert.Equal(t, "tmt.tencentcloudapi.com", p.host)
	assert.Equal(t, "未知错误。", Solution("Nope"))
}
