// Package tencent 腾讯云机器翻译（TMT）批量文本翻译
package tencent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/providers"
)

const name = "tencent"

// Config 腾讯云配置
type Config struct {
	providers.BaseConfig
	// SecretID 与 BaseConfig.APIKey（SecretKey）配对
	SecretID  string `json:"id"`
	Region    string `json:"region"`
	ProjectID int    `json:"projectid"`
	// LimitChars 单次请求的字符上限
	LimitChars int `json:"limit"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	config := Config{
		BaseConfig: providers.DefaultConfig(),
		Region:     DefaultRegion,
		LimitChars: 2000,
	}
	config.APIEndpoint = "https://tmt.tencentcloudapi.com"
	return config
}

// Provider 腾讯云提供商
type Provider struct {
	config     Config
	httpClient *http.Client
	host       string
	now        func() time.Time
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的腾讯云提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = DefaultConfig().APIEndpoint
	}
	if config.Region == "" {
		config.Region = DefaultRegion
	}

	host := config.APIEndpoint
	if u, err := url.Parse(config.APIEndpoint); err == nil && u.Host != "" {
		host = u.Host
	}

	return &Provider{
		config:     config,
		httpClient: providers.NewHTTPClient(config.BaseConfig),
		host:       host,
		now:        time.Now,
	}
}

// Name 获取提供商名称
func (p *Provider) Name() string {
	return name
}

// Limit 腾讯云按字符计算长度
func (p *Provider) Limit() bilingual.Limit {
	return bilingual.Char(p.config.LimitChars)
}

// Query 请求体，字段顺序参与签名
type Query struct {
	Source         string   `json:"Source"`
	Target         string   `json:"Target"`
	ProjectID      int      `json:"ProjectId"`
	SourceTextList []string `json:"SourceTextList"`
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	payload, err := json.Marshal(Query{
		Source:         req.From,
		Target:         req.To,
		ProjectID:      p.config.ProjectID,
		SourceTextList: req.Segments,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := p.translate(ctx, payload)
	if err != nil {
		return nil, err
	}

	out := &providers.Response{Texts: resp.Response.TargetTextList}
	if err := providers.CheckCount(name, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// translate 签名并发送请求
func (p *Provider) translate(ctx context.Context, payload []byte) (*TranslateResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.config.APIEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	sig := Sign(p.config.SecretID, p.config.APIKey, p.host, payload, p.now())
	httpReq.Header.Set("Authorization", sig.Authorization)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Host = p.host
	httpReq.Header.Set("X-TC-Action", action)
	httpReq.Header.Set("X-TC-Version", version)
	httpReq.Header.Set("X-TC-Region", p.config.Region)
	httpReq.Header.Set("X-TC-Timestamp", sig.Timestamp)
	httpReq.Header.Set("X-TC-RequestClient", "bilingual-"+uuid.NewString())
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

	if e := translateResp.Response.Error; e != nil {
		return nil, providers.NewError(name, e.Code, e.Message).WithHint(Solution(e.Code))
	}

	return &translateResp, nil
}

// TranslateResponse 翻译响应，成功时包含 TargetTextList，失败时包含 Error
type TranslateResponse struct {
	Response struct {
		RequestID      string   `json:"RequestId"`
		Source         string   `json:"Source"`
		Target         string   `json:"Target"`
		TargetTextList []string `json:"TargetTextList"`
		Error          *struct {
			Code    string `json:"Code"`
			Message string `json:"Message"`
		} `json:"Error"`
	} `json:"Response"`
}
