// Package llm 大模型提供商共用的提示词与分段协议。
//
// 每个段落包裹在 @@SEG_START_n@@ 与 @@SEG_END_n@@ 之间发送，模型须原样保留标记，
// 解析时按编号取回译文，保证译文与段落一一对应。
package llm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// SystemPrompt 系统提示词
const SystemPrompt = "You are a professional translator. Translate accurately while preserving the original meaning and tone. " +
	"Each segment is wrapped in @@SEG_START_n@@ and @@SEG_END_n@@ markers. " +
	"Keep every marker exactly as given, translate only the text between them, and output nothing else."

var (
	segmentPattern   = regexp2.MustCompile(`(?s)@@SEG_START_(\d+)@@[ \t]*\r?\n?((?:(?!@@SEG_).)*?)\r?\n?[ \t]*@@SEG_END_\1@@`, 0)
	reasoningPattern = regexp2.MustCompile(`(?is)<(think|thinking|reasoning|analysis|思考|推理)>.*?</\1>`, 0)
)

// BuildPrompt 构造用户消息
func BuildPrompt(segments []string, from, to string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following segments from %s to %s:\n\n", from, to)
	for i, s := range segments {
		fmt.Fprintf(&b, "@@SEG_START_%d@@\n%s\n@@SEG_END_%d@@\n", i, s, i)
	}
	return b.String()
}

// FilterReasoning 移除推理模型输出的思考过程
func FilterReasoning(content string) string {
	out, err := reasoningPattern.Replace(content, "", -1, -1)
	if err != nil {
		return content
	}
	return strings.TrimSpace(out)
}

// ParseSegments 按编号取回 n 个段落的译文
func ParseSegments(content string, n int) ([]string, error) {
	content = FilterReasoning(content)

	found := make(map[int]string, n)
	match, err := segmentPattern.FindStringMatch(content)
	for err == nil && match != nil {
		groups := match.Groups()
		if id, convErr := strconv.Atoi(groups[1].String()); convErr == nil && id >= 0 && id < n {
			if _, dup := found[id]; !dup {
				found[id] = strings.TrimSpace(groups[2].String())
			}
		}
		match, err = segmentPattern.FindNextMatch(match)
	}
	if err != nil {
		return nil, fmt.Errorf("match segments: %w", err)
	}

	// 只有一个段落且模型丢掉了标记时，整段输出即译文
	if n == 1 && len(found) == 0 && !strings.Contains(content, "@@SEG_") {
		return []string{strings.TrimSpace(content)}, nil
	}

	if len(found) != n {
		var missing []int
		for i := 0; i < n; i++ {
			if _, ok := found[i]; !ok {
				missing = append(missing, i)
			}
		}
		sort.Ints(missing)
		return nil, &MissingError{Missing: missing, Want: n}
	}

	texts := make([]string, n)
	for i := range texts {
		texts[i] = found[i]
	}
	return texts, nil
}

// MissingError 模型输出缺少部分段落
type MissingError struct {
	Missing []int
	Want    int
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("缺少 %d/%d 个段落: %v", len(e.Missing), e.Want, e.Missing)
}
