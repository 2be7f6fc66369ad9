package translator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/zjp-CN/bilingual/internal/cache"
	"github.com/zjp-CN/bilingual/internal/config"
	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/markdown"
	"github.com/zjp-CN/bilingual/pkg/providers"
	"github.com/zjp-CN/bilingual/pkg/providers/stats"
)

// ErrNoInput 没有提供任何需要翻译的内容
var ErrNoInput = errors.New("没有需要翻译的输入")

// Options 翻译选项
type Options struct {
	From string
	To   string
	// Sanitize 用 bluemonday 严格策略清理译文
	Sanitize bool
	// Glossary 命中的段落直接使用预设译文，可以为 nil
	Glossary *config.Glossary
	// Cache 批次缓存，可以为 nil
	Cache cache.Cache
	// Progress 在 Output 上显示进度条
	Progress bool
	Output   io.Writer
}

// Result 单个文档的翻译结果
type Result struct {
	Input  string
	Output string

	Segments int
	Batches  int
	// Requests 实际发送给提供商的批次数
	Requests     int
	CacheHits    int
	GlossaryHits int
	Blank        int
	// Chars 发送给提供商的字符数
	Chars int

	Duration time.Duration
}

// Translator 按批次顺序翻译文档
type Translator struct {
	md       *markdown.Markdown
	provider providers.Provider
	recorder *stats.Recorder
	policy   *bluemonday.Policy
	opts     Options
	logger   *zap.Logger
}

// New 创建翻译器，提供商会被包上一层统计
func New(md *markdown.Markdown, provider providers.Provider, opts Options, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	recorder := stats.NewRecorder()
	t := &Translator{
		md:       md,
		provider: stats.Wrap(provider, recorder, logger),
		recorder: recorder,
		opts:     opts,
		logger:   logger,
	}
	if opts.Sanitize {
		t.policy = bluemonday.StrictPolicy()
	}
	return t
}

// Provider 当前使用的提供商
func (t *Translator) Provider() providers.Provider {
	return t.provider
}

// Stats 提供商请求统计
func (t *Translator) Stats() (stats.ProviderStats, bool) {
	return t.recorder.Get(t.provider.Name())
}

// TranslateMarkdown 翻译一篇 markdown 文档，译文插在各段原文之后
func (t *Translator) TranslateMarkdown(ctx context.Context, name string, source []byte) ([]byte, *Result, error) {
	start := time.Now()
	result := &Result{Input: name}

	doc := t.md.Parse(source)
	if doc.MetaErr != nil {
		t.logger.Warn("头部元数据无法解析，按原文保留", zap.String("file", name), zap.Error(doc.MetaErr))
	}

	x := bilingual.Extract(doc.Events)
	result.Segments = x.Len()

	translations, err := t.translate(ctx, x, result)
	if err != nil {
		return nil, result, err
	}
	if err := bilingual.CheckCount(doc.Events, translations); err != nil {
		return nil, result, fmt.Errorf("%s: %w", name, err)
	}

	events := bilingual.Reinsert(doc.Events, slices.Values(translations))
	out, err := t.md.Format(name, []byte(t.md.Render(events)))
	if err != nil {
		return nil, result, err
	}

	result.Duration = time.Since(start)
	t.logger.Info("文档翻译完成",
		zap.String("file", name),
		zap.Int("segments", result.Segments),
		zap.Int("batches", result.Batches),
		zap.Int("requests", result.Requests),
		zap.Int("cache_hits", result.CacheHits),
		zap.Duration("duration", result.Duration))
	return out, result, nil
}

// JoinQuery 多段查询的各参数之间以空行分隔
func JoinQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, "\n\n"))
}

// TranslateQuery 翻译多段查询，作为一篇 markdown 翻译
func (t *Translator) TranslateQuery(ctx context.Context, args []string) (string, error) {
	query := JoinQuery(args)
	if query == "" {
		return "", ErrNoInput
	}
	out, _, err := t.TranslateMarkdown(ctx, "query.md", []byte(query))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// TranslateText 把整段文本作为一个段落翻译，只返回译文
func (t *Translator) TranslateText(ctx context.Context, text string) (string, error) {
	x := textExtraction(text)
	if x == nil {
		return "", ErrNoInput
	}
	translations, err := t.translate(ctx, x, &Result{Input: "query"})
	if err != nil {
		return "", err
	}
	return translations[0], nil
}

// textExtraction 整段文本作为唯一的段落，内容为空时返回 nil
func textExtraction(text string) *bilingual.Extraction {
	segment := foldNewlines(strings.TrimSpace(text))
	if segment == "" {
		return nil
	}
	return &bilingual.Extraction{
		Buffer: segment + "\n",
		Bytes:  []int{len(segment) + 1},
		Chars:  []int{utf8.RuneCountInString(segment) + 1},
	}
}

// translate 依次翻译每个批次，返回与段落一一对应的译文
func (t *Translator) translate(ctx context.Context, x *bilingual.Extraction, result *Result) ([]string, error) {
	limit := t.provider.Limit()
	batches := bilingual.MakeBatches(x, limit).Collect()
	result.Batches = len(batches)

	bar := t.startProgress(len(batches))
	defer bar.stop()

	out := make([]string, 0, x.Len())
	for i, batch := range batches {
		texts, err := t.translateBatch(ctx, i, batch, x, result)
		if err != nil {
			return nil, fmt.Errorf("%s: 第 %d/%d 批翻译失败: %w", result.Input, i+1, len(batches), err)
		}
		out = append(out, texts...)
		bar.increment()
	}
	return out, nil
}

// translateBatch 空白段落与预设译文不发送，其余段落作为一个请求
func (t *Translator) translateBatch(ctx context.Context, index int, batch bilingual.Batch, x *bilingual.Extraction, result *Result) ([]string, error) {
	segments := batch.Segments(x)
	texts := make([]string, len(segments))

	pending := make([]int, 0, len(segments))
	for i, s := range segments {
		if strings.TrimSpace(s) == "" {
			result.Blank++
			continue
		}
		if tr, ok := t.opts.Glossary.Lookup(t.opts.From, t.opts.To, s); ok {
			texts[i] = tr
			result.GlossaryHits++
			continue
		}
		pending = append(pending, i)
	}

	t.logger.Debug("翻译批次",
		zap.Int("batch", index),
		zap.Int("first", batch.First),
		zap.Int("segments", len(segments)),
		zap.Int("pending", len(pending)),
		zap.Int("bytes", len(batch.Text)),
		zap.Stringer("limit", t.provider.Limit()))

	if len(pending) == 0 {
		return texts, nil
	}

	send := make([]string, len(pending))
	for k, i := range pending {
		send[k] = segments[i]
	}
	translated, err := t.request(ctx, providers.NewRequest(send, t.opts.From, t.opts.To), result)
	if err != nil {
		return nil, err
	}
	for k, i := range pending {
		texts[i] = t.normalize(translated[k])
	}
	return texts, nil
}

// request 先查缓存，未命中再请求提供商
func (t *Translator) request(ctx context.Context, req *providers.Request, result *Result) ([]string, error) {
	var key string
	if t.opts.Cache != nil {
		key = cache.Key(providers.Fingerprint(t.provider), req.From, req.To, req.Segments)
		cached, ok, err := t.opts.Cache.Get(ctx, key)
		switch {
		case err != nil:
			t.logger.Warn("读取缓存失败", zap.Error(err))
		case ok && len(cached) == len(req.Segments):
			result.CacheHits++
			return cached, nil
		}
	}

	resp, err := t.provider.Translate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := providers.CheckCount(t.provider.Name(), req, resp); err != nil {
		return nil, err
	}
	result.Requests++
	result.Chars += utf8.RuneCountInString(req.Text)

	if t.opts.Cache != nil {
		if err := t.opts.Cache.Put(ctx, key, resp.Texts); err != nil {
			t.logger.Warn("写入缓存失败", zap.Error(err))
		}
	}
	return resp.Texts, nil
}
