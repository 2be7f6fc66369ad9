// Package ollama 通过 OpenAI 兼容接口调用本地模型（Ollama、vLLM 等）
package ollama

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/providers"
	"github.com/zjp-CN/bilingual/pkg/providers/llm"
)

const name = "ollama"

// Config Ollama配置
type Config struct {
	providers.BaseConfig
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	// LimitChars 单次请求的字符上限，取决于模型的上下文长度
	LimitChars int `json:"limit"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	config := Config{
		BaseConfig:  providers.DefaultConfig(),
		Model:       "qwen2.5",
		Temperature: 0.3,
		MaxTokens:   4096,
		LimitChars:  2000,
	}
	config.APIEndpoint = "http://localhost:11434/v1"
	return config
}

// Provider Ollama提供商
type Provider struct {
	config Config
	client *openai.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的Ollama提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = DefaultConfig().APIEndpoint
	}

	// 本地服务通常不校验密钥，但 go-openai 总会发送 Authorization 头
	key := config.APIKey
	if key == "" {
		key = "ollama"
	}
	clientConfig := openai.DefaultConfig(key)
	clientConfig.BaseURL = strings.TrimSuffix(config.APIEndpoint, "/")
	clientConfig.HTTPClient = providers.NewHTTPClient(config.BaseConfig)

	return &Provider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
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
	chatReq := openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: llm.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: llm.BuildPrompt(req.Segments, req.From, req.To)},
		},
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, providers.NewError(name, fmt.Sprintf("%d", apiErr.HTTPStatusCode), apiErr.Message)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return nil, providers.NewError(name, providers.CodeHTTP, reqErr.Error())
		}
		return nil, providers.NewError(name, providers.CodeRequest, err.Error()).
			WithHint("请确认本地模型服务已启动：" + p.config.APIEndpoint)
	}

	if len(resp.Choices) == 0 {
		return nil, providers.NewError(name, providers.CodeDecode, "no choices returned")
	}

	texts, err := llm.ParseSegments(resp.Choices[0].Message.Content, len(req.Segments))
	if err != nil {
		return nil, providers.NewError(name, providers.CodeMismatch, err.Error())
	}

	return &providers.Response{Texts: texts}, nil
}
