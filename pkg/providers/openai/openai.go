// Package openai 基于 OpenAI 官方 SDK 的大模型翻译
package openai

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/providers"
	"github.com/zjp-CN/bilingual/pkg/providers/llm"
)

const name = "openai"

// RequestIDHeader 每个批次请求携带的请求 ID，出错时写入 Hint
const RequestIDHeader = "X-Client-Request-Id"

// Config OpenAI配置
type Config struct {
	providers.BaseConfig
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	OrgID       string  `json:"org_id,omitempty"`
	// LimitChars 单次请求的字符上限
	LimitChars int `json:"limit"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		BaseConfig:  providers.DefaultConfig(),
		Model:       "gpt-4o-mini",
		Temperature: 0.3,
		MaxTokens:   4096,
		LimitChars:  4000,
	}
}

// Provider OpenAI提供商
type Provider struct {
	config Config
	client openai.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的OpenAI提供商
func New(config Config) *Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithHTTPClient(providers.NewHTTPClient(config.BaseConfig)),
		// 失败的批次直接报告，不在此重试
		option.WithMaxRetries(0),
	}

	if config.APIEndpoint != "" {
		opts = append(opts, option.WithBaseURL(config.APIEndpoint))
	}
	if config.OrgID != "" {
		opts = append(opts, option.WithOrganization(config.OrgID))
	}
	for k, v := range config.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}

	return &Provider{
		config: config,
		client: openai.NewClient(opts...),
	}
}

// Name 获取提供商名称
func (p *Provider) Name() string {
	return name
}

// Fingerprint 模型或接口地址不同的译文分开缓存
func (p *Provider) Fingerprint() string {
	return name + "|" + p.config.APIEndpoint + "|" + p.config.Model
}

// Limit 按字符计算长度
func (p *Provider) Limit() bilingual.Limit {
	return bilingual.Char(p.config.LimitChars)
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(llm.SystemPrompt),
			openai.UserMessage(llm.BuildPrompt(req.Segments, req.From, req.To)),
		},
		Model: openai.ChatModel(p.config.Model),
	}
	if p.config.Temperature > 0 {
		params.Temperature = openai.Float(float64(p.config.Temperature))
	}
	if p.config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.config.MaxTokens))
	}

	requestID := uuid.NewString()
	completion, err := p.client.Chat.Completions.New(ctx, params, option.WithHeader(RequestIDHeader, requestID))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			code := apiErr.Code
			if code == "" {
				code = strconv.Itoa(apiErr.StatusCode)
			}
			return nil, providers.NewError(name, code, apiErr.Message).WithHint("请求 ID " + requestID)
		}
		return nil, providers.NewError(name, providers.CodeRequest, err.Error())
	}

	if len(completion.Choices) == 0 {
		return nil, providers.NewError(name, providers.CodeDecode, "no choices returned")
	}

	texts, err := llm.ParseSegments(completion.Choices[0].Message.Content, len(req.Segments))
	if err != nil {
		return nil, providers.NewError(name, providers.CodeMismatch, err.Error())
	}

	return &providers.Response{Texts: texts}, nil
}

// String 用于日志，隐藏密钥
func (c Config) String() string {
	return fmt.Sprintf("openai(model=%s, endpoint=%s, key=%s)", c.Model, c.APIEndpoint, providers.MaskSecret(c.APIKey))
}
