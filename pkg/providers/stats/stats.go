package stats

import (
	"fmt"
	"sync"
	"time"
)

// ProviderStats 提供商调用统计
type ProviderStats struct {
	ProviderName       string           `json:"provider_name"`
	TotalRequests      int64            `json:"total_requests"`
	SuccessfulRequests int64            `json:"successful_requests"`
	FailedRequests     int64            `json:"failed_requests"`
	Segments           int64            `json:"segments"`
	Bytes              int64            `json:"bytes"`
	Chars              int64            `json:"chars"`
	MinLatency         time.Duration    `json:"min_latency"`
	MaxLatency         time.Duration    `json:"max_latency"`
	TotalLatency       time.Duration    `json:"total_latency"`
	ErrorCodes         map[string]int64 `json:"error_codes"`
}

// AverageLatency 平均耗时
func (s ProviderStats) AverageLatency() time.Duration {
	if s.TotalRequests == 0 {
		return 0
	}
	return s.TotalLatency / time.Duration(s.TotalRequests)
}

// String 单行摘要
func (s ProviderStats) String() string {
	return fmt.Sprintf("%s: %d 次请求（失败 %d），%d 段，%d 字节，%d 字符，平均耗时 %s",
		s.ProviderName, s.TotalRequests, s.FailedRequests, s.Segments, s.Bytes, s.Chars,
		s.AverageLatency().Round(time.Millisecond))
}

// RequestResult 单次请求结果
type RequestResult struct {
	Success   bool
	Latency   time.Duration
	Segments  int
	Bytes     int
	Chars     int
	ErrorCode string
}

// Recorder 统计记录器，可被多个文档共用
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*ProviderStats
}

// NewRecorder 创建统计记录器
func NewRecorder() *Recorder {
	return &Recorder{stats: make(map[string]*ProviderStats)}
}

// Record 记录请求结果
func (r *Recorder) Record(provider string, result RequestResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stats[provider]
	if !ok {
		s = &ProviderStats{ProviderName: provider, ErrorCodes: make(map[string]int64)}
		r.stats[provider] = s
	}

	s.TotalRequests++
	if result.Success {
		s.SuccessfulRequests++
		s.Segments += int64(result.Segments)
		s.Bytes += int64(result.Bytes)
		s.Chars += int64(result.Chars)
	} else {
		s.FailedRequests++
		if result.ErrorCode != "" {
			s.ErrorCodes[result.ErrorCode]++
		}
	}

	s.TotalLatency += result.Latency
	if s.MinLatency == 0 || result.Latency < s.MinLatency {
		s.MinLatency = result.Latency
	}
	if result.Latency > s.MaxLatency {
		s.MaxLatency = result.Latency
	}
}

// Get 获取某个提供商统计的副本
func (r *Recorder) Get(provider string) (ProviderStats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stats[provider]
	if !ok {
		return ProviderStats{}, false
	}
	out := *s
	out.ErrorCodes = make(map[string]int64, len(s.ErrorCodes))
	for k, v := range s.ErrorCodes {
		out.ErrorCodes[k] = v
	}
	return out, true
}
