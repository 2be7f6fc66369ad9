package deepl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/providers"
)

const (
	name = "deepl"

	proEndpoint  = "https://api.deepl.com/v2"
	freeEndpoint = "https://api-free.deepl.com/v2"
)

// Config DeepL 配置
type Config struct {
	providers.BaseConfig
	// Free 使用 api-free.deepl.com，密钥以 :fx 结尾
	Free bool `json:"free"`
	// LimitBytes 单次请求的字节上限
	LimitBytes int `json:"limit"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		BaseConfig: providers.DefaultConfig(),
		LimitBytes: 30000,
	}
}

// Provider DeepL 文本翻译
type Provider struct {
	config Config
	client *http.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建 DeepL 提供商，未指定地址时按 Free 选择接口
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = proEndpoint
		if config.Free {
			config.APIEndpoint = freeEndpoint
		}
	}
	return &Provider{config: config, client: providers.NewHTTPClient(config.BaseConfig)}
}

func (p *Provider) Name() string {
	return name
}

// Limit DeepL 按请求体字节计算
func (p *Provider) Limit() bilingual.Limit {
	return bilingual.Byte(p.config.LimitBytes)
}

// Translate 每个段落作为一个 text 参数，译文按参数顺序返回
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	form := make(url.Values, 3)
	form["text"] = slices.Clone(req.Segments)
	if req.From != "" && !strings.EqualFold(req.From, "auto") {
		form.Set("source_lang", langCode(req.From, false))
	}
	form.Set("target_lang", langCode(req.To, true))

	body, err := p.post(ctx, form)
	if err != nil {
		return nil, err
	}

	out := &providers.Response{Texts: make([]string, 0, len(body.Translations))}
	for _, tr := range body.Translations {
		out.Texts = append(out.Texts, tr.Text)
	}
	if err := providers.CheckCount(name, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Provider) post(ctx context.Context, form url.Values) (*translateResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.APIEndpoint+"/translate",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("deepl: 构造请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+p.config.APIKey)
	p.config.SetHeaders(httpReq)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, providers.NewError(name, providers.CodeRequest, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, providers.NewError(name, strconv.Itoa(resp.StatusCode), strings.TrimSpace(string(msg))).
			WithHint(statusHints[resp.StatusCode])
	}

	var body translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, providers.NewError(name, providers.CodeDecode, err.Error())
	}
	return &body, nil
}

// statusHints HTTP 状态码含义
var statusHints = map[int]string{
	http.StatusBadRequest:            "请求参数有误。",
	http.StatusForbidden:             "认证失败，请检查密钥以及是否使用免费版接口。",
	http.StatusNotFound:              "请求的资源不存在。",
	http.StatusRequestEntityTooLarge: "请求体过大，请调小 limit。",
	http.StatusRequestURITooLong:     "请求 URI 过长。",
	http.StatusTooManyRequests:       "请求过于频繁。",
	456:                              "字符额度已用完。",
	http.StatusServiceUnavailable:    "服务暂时不可用。",
}

// langAliases 百度、腾讯风格的语言代码到 DeepL 代码
var langAliases = map[string]string{
	"jp":    "JA",
	"kor":   "KO",
	"fra":   "FR",
	"spa":   "ES",
	"cht":   "ZH-HANT",
	"zh-tw": "ZH-HANT",
}

// langCode 转为 DeepL 的语言代码，目标语言的英语与葡萄牙语需要指定变体
func langCode(lang string, target bool) string {
	if code, ok := langAliases[strings.ToLower(lang)]; ok {
		return code
	}
	code := strings.ToUpper(strings.ReplaceAll(lang, "_", "-"))
	if target {
		switch code {
		case "EN":
			return "EN-US"
		case "PT":
			return "PT-BR"
		}
	}
	return code
}

type translateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}
