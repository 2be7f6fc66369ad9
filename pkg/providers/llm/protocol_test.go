package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt([]string{"Hello.", "World."}, "en", "zh")
	assert.Equal(t, "Translate the following segments from en to zh:\n\n"+
		"@@SEG_START_0@@\nHello.\n@@SEG_END_0@@\n"+
		"@@SEG_START_1@@\nWorld.\n@@SEG_END_1@@\n", got)
}

func TestParseSegments(t *testing.T) {
	tests := []struct {
		name    string
		content string
		n       int
		want    []string
	}{
		{
			name:    "in order",
			content: "@@SEG_START_0@@\n你好。\n@@SEG_END_0@@\n@@SEG_START_1@@\n世界。\n@@SEG_END_1@@\n",
			n:       2,
			want:    []string{"你好。", "世界。"},
		},
		{
			name:    "out of order and crlf",
			content: "@@SEG_START_1@@\r\n二\r\n@@SEG_END_1@@\r\n@@SEG_START_0@@\r\n一\r\n@@SEG_END_0@@",
			n:       2,
			want:    []string{"一", "二"},
		},
		{
			name:    "same line markers",
			content: "@@SEG_START_0@@ 一 @@SEG_END_0@@",
			n:       1,
			want:    []string{"一"},
		},
		{
			name:    "reasoning stripped",
			content: "<think>\n@@SEG_START_0@@ draft @@SEG_END_0@@\n</think>\n@@SEG_START_0@@\n定稿\n@@SEG_END_0@@",
			n:       1,
			want:    []string{"定稿"},
		},
		{
			name:    "single segment without markers",
			content: "  只有译文  ",
			n:       1,
			want:    []string{"只有译文"},
		},
		{
			name:    "mismatched end marker ignored",
			content: "@@SEG_START_0@@\n一\n@@SEG_END_1@@\n@@SEG_START_1@@\n二\n@@SEG_END_1@@\n@@SEG_START_0@@\n甲\n@@SEG_END_0@@",
			n:       2,
			want:    []string{"甲", "二"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSegments(tt.content, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSegmentsMissing(t *testing.T) {
	_, err := ParseSegments("@@SEG_START_1@@\n二\n@@SEG_END_1@@", 3)
	var missing *MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []int{0, 2}, missing.Missing)
	assert.Equal(t, "缺少 2/3 个段落: [0 2]", err.Error())
}

func TestFilterReasoning(t *testing.T) {
	assert.Equal(t, "答案", FilterReasoning("<Reasoning>long</Reasoning>\n答案"))
	assert.Equal(t, "答案", FilterReasoning("<思考>嗯</思考>答案"))
	assert.Equal(t, "<think>open", FilterReasoning("<think>open"))
}
