// Package niutrans 小牛翻译文本翻译
package niutrans

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/providers"
)

const name = "niutrans"

// Config 小牛翻译配置
type Config struct {
	providers.BaseConfig
	// LimitChars 单次请求的字符上限
	LimitChars int `json:"limit"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	config := Config{
		BaseConfig: providers.DefaultConfig(),
		LimitChars: 5000,
	}
	config.APIEndpoint = "https://api.niutrans.com/NiuTransServer/translation"
	return config
}

// Provider 小牛翻译提供商
type Provider struct {
	config     Config
	httpClient *http.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的小牛翻译提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = DefaultConfig().APIEndpoint
	}

	return &Provider{
		config:     config,
		httpClient: providers.NewHTTPClient(config.BaseConfig),
	}
}

// Name 获取提供商名称
func (p *Provider) Name() string {
	return name
}

// Limit 小牛翻译按字符计算长度
func (p *Provider) Limit() bilingual.Limit {
	return bilingual.Char(p.config.LimitChars)
}

// Translate 执行翻译，译文按行与段落对应
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	params := url.Values{}
	params.Set("from", req.From)
	params.Set("to", req.To)
	params.Set("apikey", p.config.APIKey)
	params.Set("src_text", req.Text)

	resp, err := p.translate(ctx, params)
	if err != nil {
		return nil, err
	}

	text := strings.TrimRight(strings.ReplaceAll(resp.TgtText, "\r\n", "\n"), "\n")
	out := &providers.Response{Texts: strings.Split(text, "\n")}
	if err := providers.CheckCount(name, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// translate 执行翻译请求
func (p *Provider) translate(ctx context.Context, params url.Values) (*TranslateResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		p.config.APIEndpoint,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	p.config.SetHeaders(httpReq)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, providers.NewError(name, providers.CodeRequest, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, providers.NewError(name, providers.CodeHTTP,
			fmt.Sprintf("%s: %s", resp.Status, strings.TrimSpace(string(body))))
	}

	var translateResp TranslateResponse
	if err := json.NewDecoder(resp.Body).Decode(&translateResp); err != nil {
		return nil, providers.NewError(name, providers.CodeDecode, err.Error())
	}

	if translateResp.ErrorCode != "" {
		return nil, providers.NewError(name, translateResp.ErrorCode, translateResp.ErrorMsg).
			WithHint(Solution(translateResp.ErrorCode))
	}

	return &translateResp, nil
}

// TranslateResponse 翻译响应
type TranslateResponse struct {
	From    string `json:"from"`
	To      string `json:"to"`
	TgtText string `json:"tgt_text"`

	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

// Solution 常见错误码含义，参考 https://niutrans.com/documents/contents/trans_text
func Solution(code string) string {
	switch code {
	case "10000":
		return "输入为空。"
	case "10001":
		return "请求频繁，超出QPS限制。"
	case "10003":
		return "请求字符串长度超过限制。"
	case "10005":
		return "源语编码有问题，非UTF-8。"
	case "13001":
		return "字符流量不足或者没有访问权限。"
	case "13002":
		return "apikey 参数不可以是空。"
	case "13003":
		return "内容过滤异常。"
	case "13007":
		return "语言不支持。"
	case "13008":
		return "请求处理超时。"
	case "14001":
		return "分句异常。"
	case "14002":
		return "分词异常。"
	case "14003":
		return "后处理异常。"
	case "14004":
		return "对齐失败，不能够返回正确的对应关系。"
	case "000000":
		return "请求参数有误，请检查参数。"
	case "000001":
		return "Content-Type不支持【multipart/form-data】。"
	default:
		return "未知错误。"
	}
}
