// Package bilingual 实现双语翻译的核心：提取可翻译文本、按配额分批、回插译文。
package bilingual

import (
	"strings"
	"unicode/utf8"

	"github.com/zjp-CN/bilingual/pkg/markdown"
)

// Extraction 提取结果
type Extraction struct {
	// Buffer 所有段落文本的拼接，每段以一个 \n 结尾
	Buffer string
	// Bytes 每段的字节长度（含结尾的 \n）
	Bytes []int
	// Chars 每段的 Unicode 字符数（含结尾的 \n）
	Chars []int
}

// Len 段落数量
func (x *Extraction) Len() int {
	return len(x.Bytes)
}

// Segment 返回第 i 段的文本（含结尾的 \n）
func (x *Extraction) Segment(i int) string {
	start := 0
	for _, n := range x.Bytes[:i] {
		start += n
	}
	return x.Buffer[start : start+x.Bytes[i]]
}

// Segments 按顺序返回所有段落文本（不含结尾的 \n）
func (x *Extraction) Segments() []string {
	out := make([]string, 0, len(x.Bytes))
	start := 0
	for _, n := range x.Bytes {
		out = append(out, x.Buffer[start:start+n-1])
		start += n
	}
	return out
}

// Extractor 逐个接收事件并累积可翻译文本
type Extractor struct {
	buf   strings.Builder
	bytes []int
	chars []int

	// selecting 为 false 表示位于代码块内
	selecting bool
	inTable   bool

	// segStart 当前段落在 buf 中的起始偏移
	segStart int
	segChars int
}

// NewExtractor 创建提取器
func NewExtractor() *Extractor {
	return &Extractor{selecting: true}
}

// Feed 处理一个事件
func (x *Extractor) Feed(e markdown.Event) {
	switch e.Kind {
	case markdown.Text:
		if x.selecting {
			x.append(e.Text)
		}
	case markdown.Code:
		if x.selecting {
			x.append("`" + e.Text + "`")
		}
	case markdown.InlineMath:
		if x.selecting {
			x.append(e.Text)
		}
	case markdown.SoftBreak, markdown.HardBreak:
		if x.selecting {
			x.append(" ")
		}
	case markdown.Start:
		switch e.Tag.Kind {
		case markdown.CodeBlock:
			x.selecting = false
		case markdown.Table:
			x.inTable = true
		}
	case markdown.End:
		switch e.Tag.Kind {
		case markdown.CodeBlock:
			x.selecting = true
		case markdown.Table:
			x.inTable = false
		case markdown.TableCell:
			x.close()
		case markdown.Paragraph, markdown.Heading:
			// 表格内以单元格为段落边界
			if !x.inTable {
				x.close()
			}
		}
	default:
		// 其余事件对提取不可见
	}
}

// append 追加文本；换行折叠为空格，保证缓冲区中的 \n 只作段落分隔
func (x *Extractor) append(s string) {
	if strings.ContainsAny(s, "\r\n") {
		s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	}
	x.buf.WriteString(s)
	x.segChars += utf8.RuneCountInString(s)
}

// close 结束当前段落并记录其长度
func (x *Extractor) close() {
	x.buf.WriteByte('\n')
	x.segChars++

	x.bytes = append(x.bytes, x.buf.Len()-x.segStart)
	x.chars = append(x.chars, x.segChars)
	x.segStart = x.buf.Len()
	x.segChars = 0
}

// Finish 返回提取结果；不属于任何段落的尾部文本没有回插位置，直接丢弃
func (x *Extractor) Finish() *Extraction {
	return &Extraction{
		Buffer: x.buf.String()[:x.segStart],
		Bytes:  x.bytes,
		Chars:  x.chars,
	}
}

// Extract 一次性提取事件序列中的可翻译文本
func Extract(events []markdown.Event) *Extraction {
	x := NewExtractor()
	for _, e := range events {
		x.Feed(e)
	}
	return x.Finish()
}
