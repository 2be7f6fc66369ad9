// Package markdown 在 goldmark 之上提供事件流形式的 markdown 解析与渲染。
package markdown

import (
	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	meta "github.com/yuin/goldmark-meta"
)

// Options 解析与渲染选项，进程内构造一次后传给 New
type Options struct {
	// SmartPunctuation 将直引号、破折号、省略号替换为排版字符
	SmartPunctuation bool
	// CodeBlockBackticks 代码块围栏的最少反引号数量
	CodeBlockBackticks int
	// Format 渲染后再用 markdownfmt 统一格式
	Format bool
}

// DefaultOptions 默认选项
func DefaultOptions() Options {
	return Options{
		SmartPunctuation:   false,
		CodeBlockBackticks: 3,
	}
}

// Markdown 持有 goldmark 实例与渲染选项
type Markdown struct {
	opts Options
	md   goldmark.Markdown
}

// New 根据选项创建解析器与渲染器
func New(opts Options) *Markdown {
	if opts.CodeBlockBackticks < 3 {
		opts.CodeBlockBackticks = 3
	}

	exts := []goldmark.Extender{
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Footnote,
		mathjax.MathJax,
		meta.Meta,
	}
	if opts.SmartPunctuation {
		exts = append(exts, extension.NewTypographer(
			extension.WithTypographicSubstitutions(smartPunctuation),
		))
	}

	return &Markdown{
		opts: opts,
		md:   goldmark.New(goldmark.WithExtensions(exts...)),
	}
}

// Options 返回当前选项
func (m *Markdown) Options() Options {
	return m.opts
}

// smartPunctuation 输出 Unicode 字符而不是 HTML 实体
var smartPunctuation = map[extension.TypographicPunctuation]string{
	extension.LeftSingleQuote:  "‘",
	extension.RightSingleQuote: "’",
	extension.LeftDoubleQuote:  "“",
	extension.RightDoubleQuote: "”",
	extension.EnDash:           "–",
	extension.EmDash:           "—",
	extension.Ellipsis:         "…",
	extension.LeftAngleQuote:   "«",
	extension.RightAngleQuote:  "»",
	extension.Apostrophe:       "’",
}
