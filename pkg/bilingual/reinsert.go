package bilingual

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/zjp-CN/bilingual/pkg/markdown"
)

// ErrCountMismatch 译文数量与段落数量不一致
var ErrCountMismatch = errors.New("译文数量与段落数量不一致")

// Slots 统计事件序列中可回插译文的位置数，与 Extract 得到的段落数一一对应
func Slots(events []markdown.Event) int {
	n := 0
	inTable := false
	for _, e := range events {
		if e.Kind != markdown.End && e.Kind != markdown.Start {
			continue
		}
		switch e.Tag.Kind {
		case markdown.Table:
			inTable = e.Kind == markdown.Start
		case markdown.TableCell:
			if e.Kind == markdown.End {
				n++
			}
		case markdown.Paragraph, markdown.Heading:
			if e.Kind == markdown.End && !inTable {
				n++
			}
		}
	}
	return n
}

// CheckCount 在回插之前校验译文数量
func CheckCount(events []markdown.Event, translations []string) error {
	if want := Slots(events); want != len(translations) {
		return fmt.Errorf("%w: 需要 %d 条，实际 %d 条", ErrCountMismatch, want, len(translations))
	}
	return nil
}

// Reinsert 将译文按顺序插到对应原文之后。
// translations 必须为每个段落恰好提供一条译文；提前耗尽属于调用方错误，直接 panic。
// 空白译文占用位置但不插入任何内容。
func Reinsert(events []markdown.Event, translations iter.Seq[string]) []markdown.Event {
	next, stop := iter.Pull(translations)
	defer stop()

	out := make([]markdown.Event, 0, len(events)+len(events)/2)
	inTable := false
	slot := 0

	take := func() string {
		s, ok := next()
		if !ok {
			panic(fmt.Sprintf("bilingual: 第 %d 个段落没有对应的译文", slot+1))
		}
		slot++
		return s
	}

	for _, e := range events {
		switch {
		case e.IsStart(markdown.Table):
			inTable = true
		case e.IsEnd(markdown.Table):
			inTable = false

		case e.IsEnd(markdown.TableCell):
			if tr := take(); !blank(tr) {
				out = append(out, markdown.TextOf("\t"), markdown.TextOf(tr))
			}

		case e.IsEnd(markdown.Paragraph) && !inTable:
			out = append(out, e)
			if tr := take(); !blank(tr) {
				out = append(out, markdown.Event{Kind: markdown.SoftBreak}, markdown.TextOf(tr))
			}
			continue

		case e.IsEnd(markdown.Heading) && !inTable:
			out = append(out, e)
			if tr := take(); !blank(tr) {
				tag := markdown.Tag{Kind: markdown.Heading, Level: e.Tag.Level}
				out = append(out, markdown.StartOf(tag), markdown.TextOf(tr), markdown.EndOf(tag))
			}
			continue
		}
		out = append(out, e)
	}
	return out
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
