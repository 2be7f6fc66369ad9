package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/zjp-CN/bilingual/pkg/bilingual"
)

// BaseConfig 基础配置
type BaseConfig struct {
	// API配置
	APIKey      string `json:"api_key,omitempty"`
	APIEndpoint string `json:"api_endpoint,omitempty"`

	// 超时
	Timeout time.Duration `json:"timeout"`

	// 代理设置
	ProxyURL string `json:"proxy_url,omitempty"`

	// 自定义头部
	Headers map[string]string `json:"headers,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() BaseConfig {
	return BaseConfig{
		Timeout: 30 * time.Second,
		Headers: make(map[string]string),
	}
}

// ErrInvalidProxy 代理地址无法使用
var ErrInvalidProxy = errors.New("代理地址无效")

// ParseProxy 解析代理地址，只接受 http、https、socks5 且带主机名的地址
func ParseProxy(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidProxy, raw, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("%w: %q: 协议必须是 http、https 或 socks5", ErrInvalidProxy, raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q: 缺少主机名", ErrInvalidProxy, raw)
	}
	return u, nil
}

// NewHTTPClient 按配置创建 HTTP 客户端。代理地址无效时所有请求都返回该错误，不会绕过代理直连
func NewHTTPClient(cfg BaseConfig) *http.Client {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.ProxyURL == "" {
		return client
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	proxy, err := ParseProxy(cfg.ProxyURL)
	if err != nil {
		transport.Proxy = func(*http.Request) (*url.URL, error) { return nil, err }
	} else {
		transport.Proxy = http.ProxyURL(proxy)
	}
	client.Transport = transport
	return client
}

// SetHeaders 写入自定义头部
func (c BaseConfig) SetHeaders(req *http.Request) {
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
}

// Request 一个批次的翻译请求
type Request struct {
	// Text 批次原文，段落之间以 \n 分隔
	Text string `json:"text"`
	// Segments 批次中的各个段落，与 Text 中的行一一对应
	Segments []string `json:"segments"`

	From string `json:"from"`
	To   string `json:"to"`
}

// NewRequest 由段落列表构造请求
func NewRequest(segments []string, from, to string) *Request {
	text := ""
	for i, s := range segments {
		if i > 0 {
			text += "\n"
		}
		text += s
	}
	return &Request{Text: text, Segments: segments, From: from, To: to}
}

// Response 翻译结果，Texts 与 Request.Segments 一一对应
type Response struct {
	Texts []string `json:"texts"`
}

// Provider 翻译服务
type Provider interface {
	// Name 提供商名称
	Name() string

	// Limit 单次请求的配额
	Limit() bilingual.Limit

	// Translate 翻译一个批次，按顺序为每个段落返回一条译文
	Translate(ctx context.Context, req *Request) (*Response, error)
}

// Fingerprinter 译文还取决于名称以外的配置（例如模型）的提供商
type Fingerprinter interface {
	Fingerprint() string
}

// Fingerprint 提供商的缓存标识，未实现 Fingerprinter 时为名称
func Fingerprint(p Provider) string {
	if f, ok := p.(Fingerprinter); ok {
		return f.Fingerprint()
	}
	return p.Name()
}

// Error 提供商错误
type Error struct {
	Provider string `json:"provider"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	// Hint 错误含义与处理建议
	Hint string `json:"hint,omitempty"`
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: [%s] %s", e.Provider, e.Code, e.Message)
	if e.Hint != "" {
		msg += "（" + e.Hint + "）"
	}
	return msg
}

// NewError 创建提供商错误
func NewError(provider, code, message string) *Error {
	return &Error{
		Provider: provider,
		Code:     code,
		Message:  message,
	}
}

// WithHint 附加错误含义
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// 通用错误码
const (
	CodeRequest  = "request"
	CodeHTTP     = "http"
	CodeDecode   = "decode"
	CodeMismatch = "count_mismatch"
)

// CheckCount 校验译文条数与请求段落数一致
func CheckCount(provider string, req *Request, resp *Response) error {
	if len(resp.Texts) != len(req.Segments) {
		return NewError(provider, CodeMismatch,
			fmt.Sprintf("请求 %d 段，返回 %d 段", len(req.Segments), len(resp.Texts)))
	}
	return nil
}

// MaskSecret 隐藏密钥，用于日志与配置展示
func MaskSecret(secret string) string {
	if len(secret) <= 8 {
		if secret == "" {
			return ""
		}
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}
