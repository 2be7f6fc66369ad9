package translator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjp-CN/bilingual/internal/cache"
	"github.com/zjp-CN/bilingual/internal/config"
	"github.com/zjp-CN/bilingual/internal/logger"
	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/markdown"
	"github.com/zjp-CN/bilingual/pkg/providers"
	"github.com/zjp-CN/bilingual/pkg/providers/echo"
)

// fakeProvider 记录收到的请求，默认返回 "译:原文"
type fakeProvider struct {
	limit    bilingual.Limit
	requests []*providers.Request
	reply    func(req *providers.Request) (*providers.Response, error)
}

func (p *fakeProvider) Name() string           { return "fake" }
func (p *fakeProvider) Limit() bilingual.Limit { return p.limit }

func (p *fakeProvider) Translate(_ context.Context, req *providers.Request) (*providers.Response, error) {
	p.requests = append(p.requests, req)
	if p.reply != nil {
		return p.reply(req)
	}
	texts := make([]string, len(req.Segments))
	for i, s := range req.Segments {
		texts[i] = "译:" + s
	}
	return &providers.Response{Texts: texts}, nil
}

func newTestTranslator(p providers.Provider, opts Options) *Translator {
	if opts.From == "" {
		opts.From, opts.To = "en", "zh"
	}
	return New(markdown.New(markdown.DefaultOptions()), p, opts, logger.NewNop())
}

func TestTranslateMarkdownEcho(t *testing.T) {
	tr := newTestTranslator(echo.New(echo.Config{}), Options{})

	out, result, err := tr.TranslateMarkdown(context.Background(), "doc.md", []byte("# Title\n\nBody text.\n"))
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\n# [zh] Title\n\nBody text.\n\n[zh] Body text.\n", string(out))

	assert.Equal(t, 2, result.Segments)
	assert.Equal(t, 2, result.Batches)
	assert.Equal(t, 2, result.Requests)

	st, ok := tr.Stats()
	require.True(t, ok)
	assert.Equal(t, int64(2), st.TotalRequests)
	assert.Equal(t, "echo", st.ProviderName)
}

func TestTranslateMarkdownBatchesByLimit(t *testing.T) {
	p := &fakeProvider{limit: bilingual.Byte(12)}
	tr := newTestTranslator(p, Options{})

	// 段落字节数 6、6、11
	_, result, err := tr.TranslateMarkdown(context.Background(), "doc.md", []byte("Alpha\n\nBravo\n\nCharlie 12\n"))
	require.NoError(t, err)

	require.Len(t, p.requests, 2)
	assert.Equal(t, []string{"Alpha", "Bravo"}, p.requests[0].Segments)
	assert.Equal(t, "Alpha\nBravo", p.requests[0].Text)
	assert.Equal(t, []string{"Charlie 12"}, p.requests[1].Segments)
	assert.Equal(t, "en", p.requests[0].From)
	assert.Equal(t, "zh", p.requests[0].To)
	assert.Equal(t, 2, result.Batches)
}

func TestTranslateMarkdownWithProgress(t *testing.T) {
	p := &fakeProvider{limit: bilingual.Byte(0)}
	tr := newTestTranslator(p, Options{Progress: true, Output: io.Discard})

	out, result, err := tr.TranslateMarkdown(context.Background(), "doc.md", []byte("Alpha\n\nBravo\n\nCharlie\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Batches)
	assert.Len(t, p.requests, 3)
	assert.Equal(t, "Alpha\n\n译:Alpha\n\nBravo\n\n译:Bravo\n\nCharlie\n\n译:Charlie\n", string(out))
}

func TestTranslateMarkdownSkipsCode(t *testing.T) {
	p := &fakeProvider{}
	tr := newTestTranslator(p, Options{})

	src := "Run `go test` now.\n\n```go\nfunc main() {}\n```\n"
	out, _, err := tr.TranslateMarkdown(context.Background(), "doc.md", []byte(src))
	require.NoError(t, err)

	require.Len(t, p.requests, 1)
	assert.Equal(t, []string{"Run `go test` now."}, p.requests[0].Segments)
	assert.Contains(t, string(out), "func main() {}")
	assert.NotContains(t, string(out), "译:func")
}

func TestTranslateMarkdownBlankSegmentsNotSent(t *testing.T) {
	p := &fakeProvider{}
	tr := newTestTranslator(p, Options{})

	_, result, err := tr.TranslateMarkdown(context.Background(), "doc.md", []byte("![](a.png)\n\nHello\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Segments)
	assert.Equal(t, 1, result.Blank)
	require.Len(t, p.requests, 1)
	assert.Equal(t, []string{"Hello"}, p.requests[0].Segments)
}

func TestTranslateMarkdownEmptyDocument(t *testing.T) {
	p := &fakeProvider{}
	tr := newTestTranslator(p, Options{})

	out, result, err := tr.TranslateMarkdown(context.Background(), "doc.md", []byte("```\ncode\n```\n"))
	require.NoError(t, err)
	assert.Empty(t, p.requests)
	assert.Zero(t, result.Batches)
	assert.Contains(t, string(out), "code")
}

func TestTranslateMarkdownGlossary(t *testing.T) {
	p := &fakeProvider{}
	glossary := &config.Glossary{
		From:         "en",
		To:           "zh",
		Translations: map[string]string{"Getting Started": "入门"},
	}
	tr := newTestTranslator(p, Options{Glossary: glossary})

	out, result, err := tr.TranslateMarkdown(context.Background(), "doc.md", []byte("# Getting Started\n\nHello\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, result.GlossaryHits)
	require.Len(t, p.requests, 1)
	assert.Equal(t, []string{"Hello"}, p.requests[0].Segments)
	assert.Contains(t, string(out), "# 入门")
	assert.Contains(t, string(out), "译:Hello")
}

func TestTranslateMarkdownCache(t *testing.T) {
	p := &fakeProvider{}
	c := cache.NewMemory()
	tr := newTestTranslator(p, Options{Cache: c})
	src := []byte("One\n\nTwo\n")

	first, result, err := tr.TranslateMarkdown(context.Background(), "doc.md", src)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Requests)
	assert.Equal(t, 2, c.Len())

	second, result, err := tr.TranslateMarkdown(context.Background(), "doc.md", src)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Requests)
	assert.Equal(t, 2, result.CacheHits)
	assert.Len(t, p.requests, 2)
	assert.Equal(t, first, second)
}

// modelProvider 译文随模型变化的提供商
type modelProvider struct {
	fakeProvider
	model string
}

func (p *modelProvider) Fingerprint() string { return "fake|" + p.model }

func (p *modelProvider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	p.requests = append(p.requests, req)
	texts := make([]string, len(req.Segments))
	for i, s := range req.Segments {
		texts[i] = p.model + ":" + s
	}
	return &providers.Response{Texts: texts}, nil
}

func TestTranslateMarkdownCacheSeparatesModels(t *testing.T) {
	c := cache.NewMemory()
	src := []byte("One\n")

	first := &modelProvider{model: "m1"}
	out, _, err := newTestTranslator(first, Options{Cache: c}).TranslateMarkdown(context.Background(), "doc.md", src)
	require.NoError(t, err)
	assert.Contains(t, string(out), "m1:One")

	second := &modelProvider{model: "m2"}
	out, result, err := newTestTranslator(second, Options{Cache: c}).TranslateMarkdown(context.Background(), "doc.md", src)
	require.NoError(t, err)
	assert.Zero(t, result.CacheHits)
	assert.Len(t, second.requests, 1)
	assert.Contains(t, string(out), "m2:One")
	assert.NotContains(t, string(out), "m1:One")

	again := &modelProvider{model: "m1"}
	_, result, err = newTestTranslator(again, Options{Cache: c}).TranslateMarkdown(context.Background(), "doc.md", src)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CacheHits)
	assert.Empty(t, again.requests)
}

func TestTranslateMarkdownProviderError(t *testing.T) {
	p := &fakeProvider{
		limit: bilingual.Byte(6),
		reply: func(req *providers.Request) (*providers.Response, error) {
			if req.Segments[0] == "Bravo" {
				return nil, providers.NewError("fake", "54003", "访问频率受限").WithHint("请降低调用频率")
			}
			return &providers.Response{Texts: []string{"甲"}}, nil
		},
	}
	tr := newTestTranslator(p, Options{})

	out, _, err := tr.TranslateMarkdown(context.Background(), "doc.md", []byte("Alpha\n\nBravo\n\nCharlie\n"))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "第 2/3 批")

	var perr *providers.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "54003", perr.Code)

	// 失败后不再继续请求后面的批次
	assert.Len(t, p.requests, 2)

	st, _ := tr.Stats()
	assert.Equal(t, int64(1), st.FailedRequests)
	assert.Equal(t, int64(1), st.ErrorCodes["54003"])
}

func TestTranslateMarkdownCountMismatch(t *testing.T) {
	p := &fakeProvider{
		reply: func(req *providers.Request) (*providers.Response, error) {
			return &providers.Response{Texts: []string{"只有一条"}}, nil
		},
	}
	tr := newTestTranslator(p, Options{})

	_, _, err := tr.TranslateMarkdown(context.Background(), "doc.md", []byte("One\n\nTwo\n"))
	require.Error(t, err)

	var perr *providers.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, providers.CodeMismatch, perr.Code)
}

func TestNormalize(t *testing.T) {
	p := &fakeProvider{
		reply: func(req *providers.Request) (*providers.Response, error) {
			return &providers.Response{Texts: []string{" café\nline two <b>bold</b> "}}, nil
		},
	}

	plain := newTestTranslator(p, Options{})
	out, err := plain.TranslateText(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "café line two <b>bold</b>", out)

	sanitized := newTestTranslator(p, Options{Sanitize: true})
	out, err = sanitized.TranslateText(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "café line two bold", out)
}

func TestTranslateText(t *testing.T) {
	p := &fakeProvider{}
	tr := newTestTranslator(p, Options{})

	out, err := tr.TranslateText(context.Background(), "  first line\nsecond line \n")
	require.NoError(t, err)
	assert.Equal(t, "译:first line second line", out)
	require.Len(t, p.requests, 1)
	assert.Equal(t, []string{"first line second line"}, p.requests[0].Segments)

	_, err = tr.TranslateText(context.Background(), " \n ")
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestTranslateQuery(t *testing.T) {
	tr := newTestTranslator(echo.New(echo.Config{}), Options{})

	out, err := tr.TranslateQuery(context.Background(), []string{"Hello", "World"})
	require.NoError(t, err)
	assert.Equal(t, "Hello\n\n[zh] Hello\n\nWorld\n\n[zh] World\n", out)

	_, err = tr.TranslateQuery(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestOutputNaming(t *testing.T) {
	assert.Equal(t, "/root/test-zh.md", OutputPath("/root/test.md", "zh"))
	assert.Equal(t, "notes-ja.markdown", OutputPath("notes.markdown", "ja"))
	assert.Equal(t, "README-zh", OutputPath("README", "zh"))
	assert.Equal(t, "/root/test-zh", OutputDir("/root/test/", "zh"))
	assert.Equal(t, "docs-en", OutputDir("docs", "en"))
}

func TestTranslateFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test.md")
	require.NoError(t, os.WriteFile(input, []byte("Hello\n"), 0o644))

	tr := newTestTranslator(echo.New(echo.Config{}), Options{})
	result, err := tr.TranslateFile(context.Background(), input, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "test-zh.md"), result.Output)

	data, err := os.ReadFile(result.Output)
	require.NoError(t, err)
	assert.Equal(t, "Hello\n\n[zh] Hello\n", string(data))

	_, err = tr.TranslateFile(context.Background(), filepath.Join(dir, "missing.md"), "")
	assert.Error(t, err)
}

func TestTranslateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("A\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.MD"), []byte("B\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte("C\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "d.md"), []byte("D\n"), 0o644))

	tr := newTestTranslator(echo.New(echo.Config{}), Options{})
	results, err := tr.TranslateDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	outDir := dir + "-zh"
	data, err := os.ReadFile(filepath.Join(outDir, "a.md"))
	require.NoError(t, err)
	assert.Equal(t, "A\n\n[zh] A\n", string(data))
	assert.FileExists(t, filepath.Join(outDir, "b.MD"))
	assert.NoFileExists(t, filepath.Join(outDir, "c.txt"))
	assert.NoDirExists(t, filepath.Join(outDir, "nested"))
}

func TestPlan(t *testing.T) {
	tr := newTestTranslator(&fakeProvider{limit: bilingual.Char(8)}, Options{})

	rows := tr.Plan([]byte("Alpha\n\nBravo\n\nA very long paragraph\n"))
	require.Len(t, rows, 3)
	assert.Equal(t, PlanRow{Index: 1, First: 0, Count: 1, Size: 6, Preview: "Alpha"}, rows[0])
	assert.Equal(t, 1, rows[1].First)
	assert.True(t, rows[2].Oversized)

	var buf bytes.Buffer
	RenderPlan(&buf, "doc.md", bilingual.Char(8), rows)
	assert.Contains(t, buf.String(), "doc.md")
	assert.Contains(t, buf.String(), "Alpha")
}

func TestPlanTextIsOneSegment(t *testing.T) {
	tr := newTestTranslator(&fakeProvider{limit: bilingual.Byte(0)}, Options{})
	query := "# Title\n\nBody"

	require.Len(t, tr.Plan([]byte(query)), 2)

	rows := tr.PlanText(query)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Count)
	assert.Equal(t, len("# Title  Body")+1, rows[0].Size)

	assert.Nil(t, tr.PlanText("  \n "))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, &Result{Input: "a.md", Output: "a-zh.md", Segments: 3, Batches: 1, Requests: 1, CacheHits: 1})
	out := buf.String()
	assert.Contains(t, out, "a.md → a-zh.md")
	assert.Contains(t, out, "缓存")
	assert.False(t, strings.Contains(out, "预设"))
}
