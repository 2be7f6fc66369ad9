// Package echo 离线提供商，不访问网络，直接回显带目标语言标记的原文
package echo

import (
	"context"

	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/providers"
)

// Config echo 配置
type Config struct {
	// LimitBytes 为 0 时整篇文档作为一个批次
	LimitBytes int `json:"limit"`
}

// Provider echo 提供商
type Provider struct {
	config Config
	// Calls 已处理的批次数
	Calls int
}

var _ providers.Provider = (*Provider)(nil)

// New 创建 echo 提供商
func New(config Config) *Provider {
	return &Provider{config: config}
}

// Name 获取提供商名称
func (p *Provider) Name() string {
	return "echo"
}

// Limit 按字节计算
func (p *Provider) Limit() bilingual.Limit {
	return bilingual.Byte(p.config.LimitBytes)
}

// Translate 为每个段落返回 "[to] 原文"
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.Calls++

	texts := make([]string, len(req.Segments))
	for i, s := range req.Segments {
		texts[i] = "[" + req.To + "] " + s
	}
	return &providers.Response{Texts: texts}, nil
}
