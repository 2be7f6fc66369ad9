package translator

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/zjp-CN/bilingual/pkg/bilingual"
	"github.com/zjp-CN/bilingual/pkg/providers/stats"
)

// PlanRow 预览中的一个批次
type PlanRow struct {
	Index int
	First int
	Count int
	Size  int
	// Oversized 单个段落超出配额
	Oversized bool
	Preview   string
}

// Plan 只做解析与分批，不请求提供商
func (t *Translator) Plan(source []byte) []PlanRow {
	return t.plan(bilingual.Extract(t.md.Parse(source).Events))
}

// PlanText 单段查询的预览，整段文本作为一个段落，与 TranslateText 一致
func (t *Translator) PlanText(text string) []PlanRow {
	x := textExtraction(text)
	if x == nil {
		return nil
	}
	return t.plan(x)
}

func (t *Translator) plan(x *bilingual.Extraction) []PlanRow {
	limit := t.provider.Limit()
	sizes := limit.Sizes(x)

	var rows []PlanRow
	for batch := range bilingual.MakeBatches(x, limit).All() {
		size := 0
		for _, n := range sizes[batch.First : batch.First+batch.Count] {
			size += n
		}
		rows = append(rows, PlanRow{
			Index:     len(rows) + 1,
			First:     batch.First,
			Count:     batch.Count,
			Size:      size,
			Oversized: limit.N > 0 && size > limit.N,
			Preview:   preview(batch.Text, 40),
		})
	}
	return rows
}

// RenderPlan 以表格输出分批预览
func RenderPlan(w io.Writer, name string, limit bilingual.Limit, rows []PlanRow) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(fmt.Sprintf("%s（配额 %s）", name, limit))
	tw.AppendHeader(table.Row{"批次", "段落", "大小", "内容"})

	total := 0
	for _, r := range rows {
		size := fmt.Sprintf("%d", r.Size)
		if r.Oversized {
			size = text.FgYellow.Sprint(size + " !")
		}
		tw.AppendRow(table.Row{r.Index, fmt.Sprintf("%d-%d", r.First, r.First+r.Count-1), size, r.Preview})
		total += r.Count
	}
	tw.AppendFooter(table.Row{len(rows), total, limit.Unit, ""})
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

// PrintSummary 输出单个文档的翻译结果
func PrintSummary(w io.Writer, r *Result) {
	ok := color.New(color.FgGreen, color.Bold)
	label := color.New(color.FgCyan)

	target := r.Output
	if target == "" {
		target = "stdout"
	}
	ok.Fprintf(w, "✓ %s → %s\n", r.Input, target)
	label.Fprint(w, "  段落 ")
	fmt.Fprintf(w, "%d", r.Segments)
	label.Fprint(w, "  批次 ")
	fmt.Fprintf(w, "%d", r.Batches)
	label.Fprint(w, "  请求 ")
	fmt.Fprintf(w, "%d", r.Requests)
	if r.CacheHits > 0 {
		label.Fprint(w, "  缓存 ")
		fmt.Fprintf(w, "%d", r.CacheHits)
	}
	if r.GlossaryHits > 0 {
		label.Fprint(w, "  预设 ")
		fmt.Fprintf(w, "%d", r.GlossaryHits)
	}
	label.Fprint(w, "  耗时 ")
	fmt.Fprintf(w, "%s\n", r.Duration.Round(time.Millisecond))
}

// PrintStats 输出提供商请求统计
func PrintStats(w io.Writer, s stats.ProviderStats) {
	title := color.New(color.FgMagenta, color.Bold)
	title.Fprintf(w, "%s\n", s.String())
	if len(s.ErrorCodes) > 0 {
		errColor := color.New(color.FgRed)
		for code, n := range s.ErrorCodes {
			errColor.Fprintf(w, "  错误 %s × %d\n", code, n)
		}
	}
}

// preview 截取批次开头用于展示
func preview(s string, width int) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ⏎ ")
	return text.Trim(s, width)
}
