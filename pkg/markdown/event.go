package markdown

import (
	"fmt"
	"strings"
)

// Kind 事件类型
type Kind uint8

const (
	// Start 块或行内容器开始
	Start Kind = iota
	// End 块或行内容器结束
	End
	// Text 普通文本
	Text
	// Code 行内代码（不含反引号）
	Code
	// InlineHTML 行内 HTML
	InlineHTML
	// HTML HTML 块
	HTML
	// SoftBreak 软换行
	SoftBreak
	// HardBreak 硬换行
	HardBreak
	// Rule 分隔线
	Rule
	// TaskListMarker 任务列表勾选框
	TaskListMarker
	// FootnoteReference 脚注引用
	FootnoteReference
	// InlineMath 行内公式（含定界符）
	InlineMath
	// DisplayMath 公式块（含定界符）
	DisplayMath
	// FrontMatter 文档头部的 YAML 元数据（原样保留）
	FrontMatter
)

var kindNames = [...]string{
	Start:             "Start",
	End:               "End",
	Text:              "Text",
	Code:              "Code",
	InlineHTML:        "InlineHTML",
	HTML:              "HTML",
	SoftBreak:         "SoftBreak",
	HardBreak:         "HardBreak",
	Rule:              "Rule",
	TaskListMarker:    "TaskListMarker",
	FootnoteReference: "FootnoteReference",
	InlineMath:        "InlineMath",
	DisplayMath:       "DisplayMath",
	FrontMatter:       "FrontMatter",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// TagKind 容器类型
type TagKind uint8

const (
	Paragraph TagKind = iota
	Heading
	BlockQuote
	CodeBlock
	List
	Item
	Table
	TableHead
	TableRow
	TableCell
	Emphasis
	Strong
	Strikethrough
	Link
	Image
	FootnoteDefinition
)

var tagNames = [...]string{
	Paragraph:          "Paragraph",
	Heading:            "Heading",
	BlockQuote:         "BlockQuote",
	CodeBlock:          "CodeBlock",
	List:               "List",
	Item:               "Item",
	Table:              "Table",
	TableHead:          "TableHead",
	TableRow:           "TableRow",
	TableCell:          "TableCell",
	Emphasis:           "Emphasis",
	Strong:             "Strong",
	Strikethrough:      "Strikethrough",
	Link:               "Link",
	Image:              "Image",
	FootnoteDefinition: "FootnoteDefinition",
}

func (k TagKind) String() string {
	if int(k) < len(tagNames) {
		return tagNames[k]
	}
	return fmt.Sprintf("TagKind(%d)", k)
}

// Alignment 表格列对齐方式
type Alignment uint8

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Tag 描述 Start/End 事件对应的容器
type Tag struct {
	Kind TagKind

	// Heading 级别 1-6
	Level int

	// CodeBlock 的 info 字符串；Fenced 为 false 时表示缩进代码块
	Info   string
	Fenced bool

	// List 属性
	Ordered bool
	Begin   int
	Tight   bool

	// Table 的列对齐
	Alignments []Alignment

	// Link/Image 的目标与标题；Autolink 表示 <url> 形式
	Dest     string
	Title    string
	Autolink bool

	// FootnoteDefinition 的标签
	Label string
}

// Event 标记事件，Tokenizer 的输出与 Serializer 的输入
type Event struct {
	Kind Kind
	Tag  Tag

	// Text/Code/HTML/InlineMath 等叶子事件的内容
	Text string

	// TaskListMarker 是否已勾选
	Checked bool
}

// StartOf 构造开始事件
func StartOf(tag Tag) Event {
	return Event{Kind: Start, Tag: tag}
}

// EndOf 构造结束事件
func EndOf(tag Tag) Event {
	return Event{Kind: End, Tag: tag}
}

// TextOf 构造文本事件
func TextOf(s string) Event {
	return Event{Kind: Text, Text: s}
}

// IsStart 判断是否为指定容器的开始
func (e Event) IsStart(k TagKind) bool {
	return e.Kind == Start && e.Tag.Kind == k
}

// IsEnd 判断是否为指定容器的结束
func (e Event) IsEnd(k TagKind) bool {
	return e.Kind == End && e.Tag.Kind == k
}

// String 便于调试输出
func (e Event) String() string {
	switch e.Kind {
	case Start, End:
		var b strings.Builder
		b.WriteString(e.Kind.String())
		b.WriteByte('(')
		b.WriteString(e.Tag.Kind.String())
		if e.Tag.Kind == Heading {
			fmt.Fprintf(&b, " %d", e.Tag.Level)
		}
		b.WriteByte(')')
		return b.String()
	case SoftBreak, HardBreak, Rule:
		return e.Kind.String()
	case TaskListMarker:
		return fmt.Sprintf("TaskListMarker(%t)", e.Checked)
	default:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Text)
	}
}
