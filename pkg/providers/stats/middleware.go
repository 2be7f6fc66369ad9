package stats

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/providers"
)

// Middleware 统计中间件
type Middleware struct {
	next     providers.Provider
	recorder *Recorder
	logger   *zap.Logger
}

var _ providers.Provider = (*Middleware)(nil)

// Wrap 为提供商加上统计
func Wrap(next providers.Provider, recorder *Recorder, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{next: next, recorder: recorder, logger: logger}
}

// Name 返回被包装提供商的名称
func (m *Middleware) Name() string {
	return m.next.Name()
}

// Limit 返回被包装提供商的配额
func (m *Middleware) Limit() bilingual.Limit {
	return m.next.Limit()
}

// Fingerprint 返回被包装提供商的缓存标识
func (m *Middleware) Fingerprint() string {
	return providers.Fingerprint(m.next)
}

// Translate 带统计的翻译方法
func (m *Middleware) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	start := time.Now()
	resp, err := m.next.Translate(ctx, req)
	latency := time.Since(start)

	result := RequestResult{
		Success:  err == nil,
		Latency:  latency,
		Segments: len(req.Segments),
		Bytes:    len(req.Text),
		Chars:    utf8.RuneCountInString(req.Text),
	}
	if err != nil {
		var perr *providers.Error
		if errors.As(err, &perr) {
			result.ErrorCode = perr.Code
		}
		m.logger.Debug("提供商请求失败",
			zap.String("provider", m.next.Name()),
			zap.Duration("latency", latency),
			zap.Error(err))
	}

	m.recorder.Record(m.next.Name(), result)
	return resp, err
}
