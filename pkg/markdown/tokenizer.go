package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	meta "github.com/yuin/goldmark-meta"
)

// Document 解析结果
type Document struct {
	Events []Event
	// Meta 头部 YAML 元数据，没有或解析失败时为 nil
	Meta map[string]interface{}
	// MetaErr 头部元数据的 YAML 解析错误
	MetaErr error
}

// Parse 将 markdown 文本转换为事件序列，对任意输入都会成功
func (m *Markdown) Parse(source []byte) *Document {
	pc := parser.NewContext()
	root := m.md.Parser().Parse(text.NewReader(source), parser.WithContext(pc))

	t := &tokenizer{
		source:    source,
		footnotes: make(map[int]string),
	}
	doc := &Document{}

	// 头部元数据块在 meta 扩展解析成功时已从 AST 中移除，这里按原文直接透传
	data, err := meta.TryGet(pc)
	if data != nil || err != nil {
		doc.Meta = data
		doc.MetaErr = err
		if raw := frontMatter(source); raw != "" {
			t.emit(Event{Kind: FrontMatter, Text: raw})
			t.skipMetaBlock = err != nil
		}
	}

	t.collectFootnotes(root)
	for c := root.FirstChild(); c != nil; c = c.NextSibling() {
		t.block(c)
	}
	doc.Events = t.events
	return doc
}

// frontMatter 返回文档开头的元数据块原文（含两条分隔线，不含末尾换行）
func frontMatter(source []byte) string {
	first := true
	offset := 0
	for offset < len(source) {
		end := bytes.IndexByte(source[offset:], '\n')
		next := len(source)
		if end >= 0 {
			next = offset + end + 1
		}
		line := source[offset:next]
		if first {
			if !isSeparator(line) {
				return ""
			}
			first = false
		} else if isSeparator(line) {
			return strings.TrimRight(string(source[:next]), "\r\n")
		}
		offset = next
	}
	// 没有结束分隔线时 meta 扩展会吞掉全文
	return strings.TrimRight(string(source), "\r\n")
}

func isSeparator(line []byte) bool {
	line = util.TrimRightSpace(util.TrimLeftSpace(line))
	if len(line) == 0 {
		return false
	}
	for _, c := range line {
		if c != '-' {
			return false
		}
	}
	return true
}

type tokenizer struct {
	source        []byte
	events        []Event
	footnotes     map[int]string
	skipMetaBlock bool
}

func (t *tokenizer) emit(e Event) {
	t.events = append(t.events, e)
}

// collectFootnotes 记录脚注序号到标签的映射，脚注引用节点只保存序号
func (t *tokenizer) collectFootnotes(root ast.Node) {
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if fn, ok := n.(*east.Footnote); ok && entering {
			t.footnotes[fn.Index] = string(fn.Ref)
		}
		return ast.WalkContinue, nil
	})
}

func (t *tokenizer) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(t.source))
	}
	return b.String()
}

func (t *tokenizer) children(n ast.Node, visit func(ast.Node)) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		visit(c)
	}
}

func (t *tokenizer) container(tag Tag, n ast.Node, visit func(ast.Node)) {
	t.emit(StartOf(tag))
	t.children(n, visit)
	t.emit(EndOf(tag))
}

func (t *tokenizer) block(n ast.Node) {
	switch n.Kind().String() {
	case "MathBlock":
		t.emit(Event{Kind: DisplayMath, Text: "$$\n" + t.lines(n) + "$$"})
		return
	}

	switch node := n.(type) {
	case *ast.Paragraph:
		t.container(Tag{Kind: Paragraph}, n, t.inline)
	case *ast.TextBlock:
		if t.skipMetaBlock && n.Parent() != nil && n.Parent().Kind() == ast.KindDocument {
			t.skipMetaBlock = false
			return
		}
		t.container(Tag{Kind: Paragraph}, n, t.inline)
	case *ast.Heading:
		t.container(Tag{Kind: Heading, Level: node.Level}, n, t.inline)
	case *ast.ThematicBreak:
		t.emit(Event{Kind: Rule})
	case *ast.FencedCodeBlock:
		tag := Tag{Kind: CodeBlock, Fenced: true}
		if node.Info != nil {
			tag.Info = string(node.Info.Segment.Value(t.source))
		}
		t.code(tag, n)
	case *ast.CodeBlock:
		t.code(Tag{Kind: CodeBlock}, n)
	case *ast.HTMLBlock:
		raw := t.lines(n)
		if node.HasClosure() {
			raw += string(node.ClosureLine.Value(t.source))
		}
		t.emit(Event{Kind: HTML, Text: strings.TrimRight(raw, "\r\n")})
	case *ast.Blockquote:
		t.container(Tag{Kind: BlockQuote}, n, t.block)
	case *ast.List:
		tag := Tag{Kind: List, Ordered: node.IsOrdered(), Begin: node.Start, Tight: node.IsTight}
		t.container(tag, n, t.block)
	case *ast.ListItem:
		t.container(Tag{Kind: Item}, n, t.block)
	case *east.Table:
		t.table(node)
	case *east.FootnoteList:
		t.children(n, t.block)
	case *east.Footnote:
		t.container(Tag{Kind: FootnoteDefinition, Label: string(node.Ref)}, n, t.block)
	default:
		// 未知块节点：按容器透传其子节点
		t.children(n, t.block)
	}
}

func (t *tokenizer) code(tag Tag, n ast.Node) {
	t.emit(StartOf(tag))
	if body := t.lines(n); body != "" {
		t.emit(TextOf(body))
	}
	t.emit(EndOf(tag))
}

func (t *tokenizer) table(n *east.Table) {
	aligns := make([]Alignment, len(n.Alignments))
	for i, a := range n.Alignments {
		switch a {
		case east.AlignLeft:
			aligns[i] = AlignLeft
		case east.AlignCenter:
			aligns[i] = AlignCenter
		case east.AlignRight:
			aligns[i] = AlignRight
		}
	}
	tag := Tag{Kind: Table, Alignments: aligns}
	t.emit(StartOf(tag))
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *east.TableHeader:
			t.container(Tag{Kind: TableHead}, c, t.cell)
		case *east.TableRow:
			t.container(Tag{Kind: TableRow}, c, t.cell)
		}
	}
	t.emit(EndOf(tag))
}

func (t *tokenizer) cell(n ast.Node) {
	if _, ok := n.(*east.TableCell); ok {
		t.container(Tag{Kind: TableCell}, n, t.inline)
	}
}

func (t *tokenizer) inline(n ast.Node) {
	if n.Kind().String() == "InlineMath" {
		t.emit(Event{Kind: InlineMath, Text: "$" + t.rawText(n) + "$"})
		return
	}

	switch node := n.(type) {
	case *ast.Text:
		if v := node.Segment.Value(t.source); len(v) > 0 {
			t.emit(TextOf(string(v)))
		}
		switch {
		case node.HardLineBreak():
			t.emit(Event{Kind: HardBreak})
		case node.SoftLineBreak():
			t.emit(Event{Kind: SoftBreak})
		}
	case *ast.String:
		if !node.IsCode() {
			t.emit(TextOf(string(node.Value)))
		}
	case *ast.CodeSpan:
		t.emit(Event{Kind: Code, Text: strings.ReplaceAll(t.rawText(n), "\n", " ")})
	case *ast.Emphasis:
		kind := Emphasis
		if node.Level >= 2 {
			kind = Strong
		}
		t.container(Tag{Kind: kind}, n, t.inline)
	case *east.Strikethrough:
		t.container(Tag{Kind: Strikethrough}, n, t.inline)
	case *ast.Link:
		t.container(Tag{Kind: Link, Dest: string(node.Destination), Title: string(node.Title)}, n, t.inline)
	case *ast.Image:
		t.container(Tag{Kind: Image, Dest: string(node.Destination), Title: string(node.Title)}, n, t.inline)
	case *ast.AutoLink:
		tag := Tag{Kind: Link, Dest: string(node.URL(t.source)), Autolink: true}
		t.emit(StartOf(tag))
		t.emit(TextOf(string(node.Label(t.source))))
		t.emit(EndOf(tag))
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			b.Write(seg.Value(t.source))
		}
		t.emit(Event{Kind: InlineHTML, Text: b.String()})
	case *east.TaskCheckBox:
		t.emit(Event{Kind: TaskListMarker, Checked: node.IsChecked})
	case *east.FootnoteLink:
		t.emit(Event{Kind: FootnoteReference, Text: t.footnotes[node.Index]})
	case *east.FootnoteBacklink:
		// 渲染为 HTML 时才需要回链
	default:
		t.children(n, t.inline)
	}
}

// rawText 拼接行内节点下所有文本片段的原文
func (t *tokenizer) rawText(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(t.source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(node.Value)
		default:
			b.WriteString(t.rawText(c))
		}
	}
	return b.String()
}
