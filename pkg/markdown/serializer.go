package markdown

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Render 将事件序列渲染为 markdown 文本
func (m *Markdown) Render(events []Event) string {
	w := &writer{opts: m.opts}
	for _, e := range events {
		w.event(e)
	}
	return w.finish()
}

type listState struct {
	ordered bool
	next    int
	tight   bool
}

type codeState struct {
	tag  Tag
	body strings.Builder
}

type tableState struct {
	aligns []Alignment
	rows   [][]string
	row    []string
	cell   *strings.Builder
	inCell bool
}

// writer 渲染状态：容器前缀栈、待写换行数与各类嵌套结构
type writer struct {
	opts    Options
	out     strings.Builder
	started bool

	prefix  []string
	pending int

	lists      []listState
	containers []TagKind

	inline  int
	heading bool
	code    *codeState
	table   *tableState
}

func (w *writer) linePrefix() string {
	return strings.Join(w.prefix, "")
}

// need 要求下一个块之前至少空出 n 个换行
func (w *writer) need(n int) {
	if n > w.pending {
		w.pending = n
	}
}

func (w *writer) flush() {
	if w.pending == 0 {
		return
	}
	if w.started {
		prefix := w.linePrefix()
		for i := 0; i < w.pending; i++ {
			w.out.WriteByte('\n')
			if i < w.pending-1 {
				w.out.WriteString(strings.TrimRight(prefix, " "))
			} else {
				w.out.WriteString(prefix)
			}
		}
	}
	w.pending = 0
}

// raw 写入文本，内部换行后补上容器前缀
func (w *writer) raw(s string) {
	if s == "" {
		return
	}
	w.flush()
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			w.out.WriteByte('\n')
			w.out.WriteString(w.linePrefix())
		}
		w.out.WriteString(line)
	}
	w.started = true
}

// inlineText 写入行内文本，表格单元格与标题中的换行折叠为空格
func (w *writer) inlineText(s string) {
	if w.table != nil && w.table.inCell {
		w.table.cell.WriteString(escapePipes(strings.ReplaceAll(s, "\n", " ")))
		return
	}
	if w.heading {
		s = strings.ReplaceAll(s, "\n", " ")
	}
	w.raw(s)
}

func (w *writer) push(kind TagKind, prefix string) {
	w.containers = append(w.containers, kind)
	w.prefix = append(w.prefix, prefix)
}

func (w *writer) pop() {
	w.containers = w.containers[:len(w.containers)-1]
	w.prefix = w.prefix[:len(w.prefix)-1]
}

// blockGap 当前位置两个相邻块之间的换行数：紧凑列表项内为 1，其余为 2
func (w *writer) blockGap() int {
	if n := len(w.containers); n > 0 && w.containers[n-1] == Item {
		if l := len(w.lists); l > 0 && w.lists[l-1].tight {
			return 1
		}
	}
	return 2
}

func (w *writer) event(e Event) {
	if w.code != nil && !e.IsEnd(CodeBlock) {
		if e.Kind == Text {
			w.code.body.WriteString(e.Text)
		}
		return
	}

	switch e.Kind {
	case Start:
		w.start(e.Tag)
	case End:
		w.end(e.Tag)
	case Text:
		if w.inline > 0 || (w.table != nil && w.table.inCell) {
			w.inlineText(e.Text)
			return
		}
		// 段落之外的文本自成一段
		w.flush()
		w.raw(escapeBlockStart(e.Text))
		w.need(w.blockGap())
	case Code:
		w.inlineText(codeSpan(e.Text))
	case InlineHTML, InlineMath:
		w.inlineText(e.Text)
	case FootnoteReference:
		w.inlineText("[^" + e.Text + "]")
	case TaskListMarker:
		if e.Checked {
			w.inlineText("[x] ")
		} else {
			w.inlineText("[ ] ")
		}
	case SoftBreak:
		if w.inline > 0 || (w.table != nil && w.table.inCell) {
			w.inlineText("\n")
		}
	case HardBreak:
		switch {
		case w.table != nil && w.table.inCell, w.heading:
			w.inlineText(" ")
		case w.inline > 0:
			w.raw("\\\n")
		}
	case HTML, DisplayMath, FrontMatter:
		w.flush()
		w.raw(strings.TrimRight(e.Text, "\n"))
		w.need(w.blockGap())
	case Rule:
		w.flush()
		w.raw("***")
		w.need(w.blockGap())
	}
}

func (w *writer) start(tag Tag) {
	switch tag.Kind {
	case Paragraph:
		w.flush()
		w.inline++
	case Heading:
		w.flush()
		w.raw(strings.Repeat("#", clamp(tag.Level, 1, 6)) + " ")
		w.inline++
		w.heading = true
	case BlockQuote:
		w.flush()
		w.raw("> ")
		w.push(BlockQuote, "> ")
	case CodeBlock:
		w.flush()
		w.code = &codeState{tag: tag}
	case List:
		w.lists = append(w.lists, listState{ordered: tag.Ordered, next: tag.Begin, tight: tag.Tight})
	case Item:
		w.flush()
		marker := "- "
		if l := len(w.lists); l > 0 && w.lists[l-1].ordered {
			marker = strconv.Itoa(w.lists[l-1].next) + ". "
			w.lists[l-1].next++
		}
		w.raw(marker)
		w.push(Item, strings.Repeat(" ", len(marker)))
	case FootnoteDefinition:
		w.flush()
		w.raw("[^" + tag.Label + "]: ")
		w.push(FootnoteDefinition, "    ")
	case Table:
		w.flush()
		w.table = &tableState{aligns: tag.Alignments}
	case TableHead, TableRow:
		if w.table != nil {
			w.table.row = nil
		}
	case TableCell:
		if w.table != nil {
			w.table.cell = &strings.Builder{}
			w.table.inCell = true
		}
	case Emphasis:
		w.inlineText("*")
	case Strong:
		w.inlineText("**")
	case Strikethrough:
		w.inlineText("~~")
	case Link:
		if tag.Autolink {
			w.inlineText("<")
		} else {
			w.inlineText("[")
		}
	case Image:
		w.inlineText("![")
	}
}

func (w *writer) end(tag Tag) {
	switch tag.Kind {
	case Paragraph:
		w.inline--
		w.need(w.blockGap())
	case Heading:
		w.inline--
		w.heading = false
		w.need(w.blockGap())
	case BlockQuote, FootnoteDefinition:
		w.pop()
		w.need(w.blockGap())
	case CodeBlock:
		w.writeCode()
		w.need(w.blockGap())
	case List:
		if n := len(w.lists); n > 0 {
			w.lists = w.lists[:n-1]
		}
		w.need(w.blockGap())
	case Item:
		gap := 2
		if l := len(w.lists); l > 0 && w.lists[l-1].tight {
			gap = 1
		}
		w.pop()
		w.need(gap)
	case Table:
		w.writeTable()
		w.need(w.blockGap())
	case TableHead, TableRow:
		if w.table != nil {
			w.table.rows = append(w.table.rows, w.table.row)
			w.table.row = nil
		}
	case TableCell:
		if w.table != nil && w.table.cell != nil {
			w.table.row = append(w.table.row, strings.TrimSpace(w.table.cell.String()))
			w.table.cell = nil
			w.table.inCell = false
		}
	case Emphasis:
		w.inlineText("*")
	case Strong:
		w.inlineText("**")
	case Strikethrough:
		w.inlineText("~~")
	case Link, Image:
		if tag.Autolink {
			w.inlineText(">")
			return
		}
		dest := tag.Dest
		if dest == "" || strings.ContainsAny(dest, " ()") {
			dest = "<" + dest + ">"
		}
		if tag.Title != "" {
			dest += ` "` + strings.ReplaceAll(tag.Title, `"`, `\"`) + `"`
		}
		w.inlineText("](" + dest + ")")
	}
}

func (w *writer) writeCode() {
	cs := w.code
	w.code = nil
	body := cs.body.String()

	fence := strings.Repeat("`", max(w.opts.CodeBlockBackticks, longestRun(body, '`')+1, 3))
	w.raw(fence + cs.tag.Info)
	w.raw("\n" + strings.TrimSuffix(body, "\n"))
	if body != "" {
		w.raw("\n" + fence)
	} else {
		w.raw(fence)
	}
}

func (w *writer) writeTable() {
	t := w.table
	w.table = nil
	if len(t.rows) == 0 {
		return
	}

	cols := len(t.aligns)
	for _, row := range t.rows {
		cols = max(cols, len(row))
	}
	widths := make([]int, cols)
	for i := range widths {
		widths[i] = 3
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	align := func(i int) Alignment {
		if i < len(t.aligns) {
			return t.aligns[i]
		}
		return AlignNone
	}

	lines := make([]string, 0, len(t.rows)+1)
	for r, row := range t.rows {
		cells := make([]string, cols)
		for i := range cells {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = pad(cell, widths[i], align(i))
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")

		if r == 0 {
			delims := make([]string, cols)
			for i := range delims {
				delims[i] = delimiter(widths[i], align(i))
			}
			lines = append(lines, "| "+strings.Join(delims, " | ")+" |")
		}
	}
	w.raw(strings.Join(lines, "\n"))
}

func (w *writer) finish() string {
	out := strings.TrimRight(w.out.String(), " \n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

func pad(s string, width int, a Alignment) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	switch a {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

func delimiter(width int, a Alignment) string {
	switch a {
	case AlignLeft:
		return ":" + strings.Repeat("-", width-1)
	case AlignRight:
		return strings.Repeat("-", width-1) + ":"
	case AlignCenter:
		return ":" + strings.Repeat("-", width-2) + ":"
	default:
		return strings.Repeat("-", width)
	}
}

// codeSpan 选择比内容中最长反引号串更长的定界符
func codeSpan(s string) string {
	ticks := strings.Repeat("`", longestRun(s, '`')+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") ||
		(strings.HasPrefix(s, " ") && strings.HasSuffix(s, " ") && strings.TrimSpace(s) != "") {
		s = " " + s + " "
	}
	return ticks + s + ticks
}

func longestRun(s string, c byte) int {
	best, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			cur++
			best = max(best, cur)
		} else {
			cur = 0
		}
	}
	return best
}

// escapePipes 转义单元格中未转义的竖线
func escapePipes(s string) string {
	if !strings.Contains(s, "|") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '|' && (i == 0 || s[i-1] != '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// escapeBlockStart 避免译文开头被解析为标题、引用、列表、代码围栏、HTML 块或链接定义等块结构
func escapeBlockStart(s string) string {
	trimmed := strings.TrimLeft(s, " \t")
	if trimmed == "" {
		return s
	}
	switch c := trimmed[0]; c {
	case '#', '>', '-', '+', '*', '=', '|':
		return "\\" + trimmed
	case '`', '~':
		if leadingRun(trimmed, c) >= 3 {
			return "\\" + trimmed
		}
	case '_':
		if strings.Count(trimmed, "_") >= 3 && strings.Trim(trimmed, "_ \t") == "" {
			return "\\" + trimmed
		}
	case '<':
		if len(trimmed) > 1 && isHTMLStart(trimmed[1]) {
			return "\\" + trimmed
		}
	case '[':
		if strings.Contains(trimmed, "]:") {
			return "\\" + trimmed
		}
	}
	digits := 0
	for digits < len(trimmed) && trimmed[digits] >= '0' && trimmed[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(trimmed) && (trimmed[digits] == '.' || trimmed[digits] == ')') {
		return trimmed[:digits] + "\\" + trimmed[digits:]
	}
	return trimmed
}

func leadingRun(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

// isHTMLStart 紧跟在 < 之后能开启 HTML 块的字符
func isHTMLStart(c byte) bool {
	return c == '/' || c == '!' || c == '?' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
